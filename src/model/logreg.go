// Package model implements the statistical fallback classifier: a
// multinomial logistic regression over TF-IDF vectors. Training is a
// deterministic full-batch gradient descent with balanced class weights,
// so rare families are not starved by frequent ones and refitting on the
// same corpus reproduces the same model bit for bit.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"debugassist/src/contracts"
	"debugassist/src/textvec"
)

// ErrNotFitted is returned when prediction is attempted before Fit.
var ErrNotFitted = errors.New("model: classifier is not fitted")

// TrainConfig holds the gradient-descent hyperparameters.
type TrainConfig struct {
	LearningRate float64
	Iterations   int
	// L2 is the ridge penalty applied to weights (not biases).
	L2 float64
}

// DefaultTrainConfig mirrors the offline training recipe.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.5,
		Iterations:   300,
		L2:           1e-4,
	}
}

// Classifier is a fitted softmax regression model. It is immutable after
// Fit and safe for concurrent read-only use.
type Classifier struct {
	classes []contracts.ErrorFamily
	weights [][]float64 // per class, dense over vectorizer dimensions
	bias    []float64
	dims    int
	fitted  bool
}

// Fit trains one weight vector per class over the labeled, vectorized
// training set. Class weights are balanced as n/(k*count_c). The result is
// deterministic for a fixed input order.
func Fit(vectors []textvec.Vector, labels []contracts.ErrorFamily, dims int, cfg TrainConfig) (*Classifier, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("model: cannot fit on an empty training set")
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("model: %d vectors but %d labels", len(vectors), len(labels))
	}
	if cfg.Iterations <= 0 || cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("model: invalid training config %+v", cfg)
	}

	// Stable class ordering: sorted unique labels.
	counts := make(map[contracts.ErrorFamily]int)
	for _, l := range labels {
		counts[l]++
	}
	classes := make([]contracts.ErrorFamily, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	if len(classes) < 2 {
		return nil, fmt.Errorf("model: need at least 2 classes, got %d", len(classes))
	}

	classIndex := make(map[contracts.ErrorFamily]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	// Balanced sample weights: n / (k * count_c).
	n := float64(len(vectors))
	k := float64(len(classes))
	sampleWeight := make([]float64, len(vectors))
	var totalWeight float64
	for i, l := range labels {
		sampleWeight[i] = n / (k * float64(counts[l]))
		totalWeight += sampleWeight[i]
	}

	weights := make([][]float64, len(classes))
	for c := range weights {
		weights[c] = make([]float64, dims)
	}
	bias := make([]float64, len(classes))

	gradW := make([][]float64, len(classes))
	for c := range gradW {
		gradW[c] = make([]float64, dims)
	}
	gradB := make([]float64, len(classes))
	scores := make([]float64, len(classes))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for c := range gradW {
			for d := range gradW[c] {
				gradW[c][d] = 0
			}
			gradB[c] = 0
		}

		for i, vec := range vectors {
			decision(weights, bias, vec, scores)
			softmaxInPlace(scores)

			target := classIndex[labels[i]]
			for c := range scores {
				residual := scores[c]
				if c == target {
					residual -= 1
				}
				g := sampleWeight[i] * residual
				gradB[c] += g
				for j, idx := range vec.Indices {
					gradW[c][idx] += g * vec.Values[j]
				}
			}
		}

		step := cfg.LearningRate / totalWeight
		for c := range weights {
			for d := range weights[c] {
				weights[c][d] -= step * (gradW[c][d] + cfg.L2*weights[c][d])
			}
			bias[c] -= step * gradB[c]
		}
	}

	return &Classifier{
		classes: classes,
		weights: weights,
		bias:    bias,
		dims:    dims,
		fitted:  true,
	}, nil
}

// Classes returns the classes known to the model, in stable sorted order.
func (c *Classifier) Classes() []contracts.ErrorFamily {
	out := make([]contracts.ErrorFamily, len(c.classes))
	copy(out, c.classes)
	return out
}

// Predict returns the highest-scoring class for a vector. Ties break
// toward the earlier class in sorted order.
func (c *Classifier) Predict(vec textvec.Vector) (contracts.ErrorFamily, error) {
	if !c.fitted {
		return "", ErrNotFitted
	}

	scores := make([]float64, len(c.classes))
	decision(c.weights, c.bias, vec, scores)

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return c.classes[best], nil
}

// PredictProba returns the full probability distribution over all known
// classes, sorted by probability descending (ties break toward the earlier
// class in sorted order). Probabilities sum to 1.
func (c *Classifier) PredictProba(vec textvec.Vector) ([]contracts.Candidate, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}

	scores := make([]float64, len(c.classes))
	decision(c.weights, c.bias, vec, scores)
	softmaxInPlace(scores)

	out := make([]contracts.Candidate, len(c.classes))
	for i, class := range c.classes {
		out[i] = contracts.Candidate{Family: class, Probability: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	return out, nil
}

// decision fills scores with W x + b per class.
func decision(weights [][]float64, bias []float64, vec textvec.Vector, scores []float64) {
	for c := range weights {
		s := bias[c]
		w := weights[c]
		for j, idx := range vec.Indices {
			if idx < len(w) {
				s += w[idx] * vec.Values[j]
			}
		}
		scores[c] = s
	}
}

// softmaxInPlace converts raw scores to probabilities, shifting by the max
// score for numerical stability.
func softmaxInPlace(scores []float64) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	var sum float64
	for i, s := range scores {
		e := math.Exp(s - maxScore)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}
