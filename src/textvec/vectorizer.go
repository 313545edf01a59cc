// Package textvec converts normalized report text into sparse TF-IDF
// vectors over a vocabulary of unigrams and bigrams. The vocabulary is
// learned once from the training corpus and frozen; the classifier and the
// retrieval index share the resulting coordinate space, so cosine
// similarity and learned weights stay comparable across calls.
package textvec

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
)

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("textvec: vectorizer is not fitted")

// Fit defaults, matching the training recipe: a term must appear in at
// least MinDocFreq documents and in at most MaxDocShare of them.
const (
	MinDocFreq  = 2
	MaxDocShare = 0.95
)

// tokenPattern matches word tokens of two or more characters. Placeholder
// tokens like <PATH> tokenize to their bare word ("path").
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Vector is a sparse vector over the frozen vocabulary. Indices are sorted
// ascending; Values holds the weight for the matching index. Vectors
// produced by Transform are L2-normalized, so cosine similarity between
// two of them reduces to Dot.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Vectorizer maps normalized text to TF-IDF vectors. It is immutable once
// fitted: Transform never grows the vocabulary, and unseen terms are
// dropped silently.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	numDocs    int
	fitted     bool
}

// Fit learns the vocabulary and IDF weights from the training documents.
// Documents are expected to be pre-normalized. Fit over an empty corpus is
// an error.
func Fit(docs []string) (*Vectorizer, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("textvec: cannot fit on an empty corpus")
	}

	// Document frequency per candidate term.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range ngrams(doc) {
			seen[term] = struct{}{}
		}
		for term := range seen {
			df[term]++
		}
	}

	// Prune by document frequency, then freeze indices in sorted term
	// order so fitting is deterministic regardless of map iteration.
	maxDF := MaxDocShare * float64(len(docs))
	var kept []string
	for term, count := range df {
		if count >= MinDocFreq && float64(count) <= maxDF {
			kept = append(kept, term)
		}
	}
	sort.Strings(kept)

	vocab := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		vocab[term] = i
		// Smoothed IDF: acts as if one extra document contained every term.
		idf[i] = math.Log(float64(1+len(docs))/float64(1+df[term])) + 1
	}

	return &Vectorizer{
		vocabulary: vocab,
		idf:        idf,
		numDocs:    len(docs),
		fitted:     true,
	}, nil
}

// Transform maps each document to an L2-normalized TF-IDF vector over the
// frozen vocabulary. Terms outside the vocabulary contribute zero.
func (v *Vectorizer) Transform(docs []string) ([]Vector, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}

	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.transformOne(doc)
	}
	return out, nil
}

// TransformOne vectorizes a single document.
func (v *Vectorizer) TransformOne(doc string) (Vector, error) {
	if !v.fitted {
		return Vector{}, ErrNotFitted
	}
	return v.transformOne(doc), nil
}

func (v *Vectorizer) transformOne(doc string) Vector {
	counts := make(map[int]float64)
	for _, term := range ngrams(doc) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		w := counts[idx] * v.idf[idx]
		values[i] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range values {
			values[i] /= norm
		}
	}

	return Vector{Indices: indices, Values: values}
}

// VocabularySize returns the number of terms in the frozen vocabulary.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

// ngrams returns the unigrams and bigrams of a document.
func ngrams(doc string) []string {
	tokens := tokenPattern.FindAllString(doc, -1)
	terms := make([]string, 0, 2*len(tokens))
	for i, tok := range tokens {
		terms = append(terms, tok)
		if i > 0 {
			terms = append(terms, tokens[i-1]+" "+tok)
		}
	}
	return terms
}
