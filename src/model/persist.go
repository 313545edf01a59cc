package model

import (
	"encoding/json"
	"fmt"
	"os"

	"debugassist/src/contracts"
)

const (
	artifactType    = "logistic_regression"
	artifactVersion = "1"
)

// weightsArtifact is the JSON artifact for a fitted classifier.
type weightsArtifact struct {
	ModelType string      `json:"model_type"`
	Version   string      `json:"version"`
	Classes   []string    `json:"classes"`
	Weights   [][]float64 `json:"weights"`
	Bias      []float64   `json:"bias"`
	Dims      int         `json:"dims"`
}

func (w *weightsArtifact) validate() error {
	if w.ModelType != artifactType {
		return fmt.Errorf("unexpected model_type %q, want %q", w.ModelType, artifactType)
	}
	if w.Version != artifactVersion {
		return fmt.Errorf("unsupported classifier artifact version %q", w.Version)
	}
	if len(w.Classes) == 0 {
		return fmt.Errorf("artifact has no classes")
	}
	if len(w.Weights) != len(w.Classes) || len(w.Bias) != len(w.Classes) {
		return fmt.Errorf("artifact shape mismatch: %d classes, %d weight rows, %d biases",
			len(w.Classes), len(w.Weights), len(w.Bias))
	}
	for i, row := range w.Weights {
		if len(row) != w.Dims {
			return fmt.Errorf("weight row %d has %d dims, want %d", i, len(row), w.Dims)
		}
	}
	return nil
}

// Save writes the fitted classifier to path as JSON.
func (c *Classifier) Save(path string) error {
	if !c.fitted {
		return ErrNotFitted
	}

	classes := make([]string, len(c.classes))
	for i, cl := range c.classes {
		classes[i] = string(cl)
	}

	w := weightsArtifact{
		ModelType: artifactType,
		Version:   artifactVersion,
		Classes:   classes,
		Weights:   c.weights,
		Bias:      c.bias,
		Dims:      c.dims,
	}

	data, err := json.MarshalIndent(&w, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode classifier: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write classifier artifact: %w", err)
	}
	return nil
}

// Load reads a fitted classifier artifact written by Save.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier artifact: %w", err)
	}

	var w weightsArtifact
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode classifier artifact %s: %w", path, err)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier artifact %s: %w", path, err)
	}

	classes := make([]contracts.ErrorFamily, len(w.Classes))
	for i, s := range w.Classes {
		family, err := contracts.ParseFamily(s)
		if err != nil {
			return nil, fmt.Errorf("invalid classifier artifact %s: %w", path, err)
		}
		classes[i] = family
	}

	return &Classifier{
		classes: classes,
		weights: w.Weights,
		bias:    w.Bias,
		dims:    w.Dims,
		fitted:  true,
	}, nil
}
