// Package retrieval answers "k most similar prior cases" queries over the
// labeled corpus. Cases are vectorized with the same frozen vectorizer the
// classifier uses, so similarity scores live in the same TF-IDF space as
// the learned decision boundaries.
package retrieval

import (
	"fmt"
	"sort"

	"debugassist/src/contracts"
	"debugassist/src/preprocess"
	"debugassist/src/textvec"
)

// Index holds the corpus and one precomputed vector per case, aligned by
// position. It never mutates after Build and is safe for concurrent
// read-only use.
type Index struct {
	cases      []contracts.Case
	matrix     []textvec.Vector
	vectorizer *textvec.Vectorizer
}

// Build normalizes and vectorizes every case's error text with the given
// frozen vectorizer. Corpus order is preserved; ids are retained per row.
func Build(cases []contracts.Case, vectorizer *textvec.Vectorizer) (*Index, error) {
	docs := make([]string, len(cases))
	for i, c := range cases {
		docs[i] = preprocess.Normalize(c.ErrorText)
	}

	matrix, err := vectorizer.Transform(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize corpus: %w", err)
	}

	stored := make([]contracts.Case, len(cases))
	copy(stored, cases)

	return &Index{
		cases:      stored,
		matrix:     matrix,
		vectorizer: vectorizer,
	}, nil
}

// Size returns the number of indexed cases.
func (idx *Index) Size() int {
	return len(idx.cases)
}

// Query returns the topK cases most similar to text by cosine similarity,
// descending. Ties break toward the earlier corpus position. topK <= 0
// yields an empty result; topK beyond the corpus size is clamped.
func (idx *Index) Query(text string, topK int) ([]contracts.SimilarCase, error) {
	if topK <= 0 {
		return []contracts.SimilarCase{}, nil
	}
	if topK > len(idx.cases) {
		topK = len(idx.cases)
	}

	query, err := idx.vectorizer.TransformOne(preprocess.Normalize(text))
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize query: %w", err)
	}

	// Rows and query are unit vectors, so cosine similarity is a dot product.
	order := make([]int, len(idx.cases))
	scores := make([]float64, len(idx.cases))
	for i := range idx.cases {
		order[i] = i
		scores[i] = query.Dot(idx.matrix[i])
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	results := make([]contracts.SimilarCase, 0, topK)
	for _, i := range order[:topK] {
		c := idx.cases[i]
		results = append(results, contracts.SimilarCase{
			ID:          c.ID,
			ErrorFamily: c.ErrorFamily,
			ErrorText:   c.ErrorText,
			FixText:     c.FixText,
			Score:       scores[i],
		})
	}
	return results, nil
}
