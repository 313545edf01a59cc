package textvec

import (
	"encoding/json"
	"fmt"
	"os"
)

// artifactType and artifactVersion tag the serialized vectorizer so a
// mismatched or truncated artifact fails loudly at load time.
const (
	artifactType    = "tfidf_vectorizer"
	artifactVersion = "1"
)

// weights is the JSON artifact for a fitted vectorizer.
type weights struct {
	ModelType  string         `json:"model_type"`
	Version    string         `json:"version"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	NumDocs    int            `json:"num_docs"`
}

func (w *weights) validate() error {
	if w.ModelType != artifactType {
		return fmt.Errorf("unexpected model_type %q, want %q", w.ModelType, artifactType)
	}
	if w.Version != artifactVersion {
		return fmt.Errorf("unsupported vectorizer artifact version %q", w.Version)
	}
	if len(w.Vocabulary) != len(w.IDF) {
		return fmt.Errorf("vocabulary size %d does not match idf size %d", len(w.Vocabulary), len(w.IDF))
	}
	for term, idx := range w.Vocabulary {
		if idx < 0 || idx >= len(w.IDF) {
			return fmt.Errorf("term %q has out-of-range index %d", term, idx)
		}
	}
	return nil
}

// Save writes the fitted vectorizer to path as JSON.
func (v *Vectorizer) Save(path string) error {
	if !v.fitted {
		return ErrNotFitted
	}

	w := weights{
		ModelType:  artifactType,
		Version:    artifactVersion,
		Vocabulary: v.vocabulary,
		IDF:        v.idf,
		NumDocs:    v.numDocs,
	}

	data, err := json.MarshalIndent(&w, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vectorizer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vectorizer artifact: %w", err)
	}
	return nil
}

// Load reads a fitted vectorizer artifact written by Save.
func Load(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact: %w", err)
	}

	var w weights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode vectorizer artifact %s: %w", path, err)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("invalid vectorizer artifact %s: %w", path, err)
	}

	return &Vectorizer{
		vocabulary: w.Vocabulary,
		idf:        w.IDF,
		numDocs:    w.NumDocs,
		fitted:     true,
	}, nil
}
