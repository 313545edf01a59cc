// Package diagnose orchestrates a full diagnosis of one pasted error
// report: deterministic rules first, the statistical model as fallback,
// then playbook suggestions and similar solved cases.
package diagnose

import (
	"fmt"

	"debugassist/src/contracts"
	"debugassist/src/logger"
	"debugassist/src/playbook"
	"debugassist/src/preprocess"
	"debugassist/src/retrieval"
	"debugassist/src/rules"
	"debugassist/src/textvec"
)

const (
	// LowConfThreshold is the probability below which an ML prediction is
	// treated as uncertain and the diagnosis fans out over top candidates.
	LowConfThreshold = 0.35

	// TopNAlternatives bounds the candidate list attached to ML predictions.
	TopNAlternatives = 3

	// DefaultTopK is the similar-case count when the caller does not choose.
	DefaultTopK = 3
)

// Classifier is the statistical fallback used when no rule matches.
// *model.Classifier satisfies it.
type Classifier interface {
	Predict(vec textvec.Vector) (contracts.ErrorFamily, error)
	PredictProba(vec textvec.Vector) ([]contracts.Candidate, error)
}

// Checklist is one family's remediation list. Score carries the candidate
// probability in a low-confidence fan-out and is zero otherwise.
type Checklist struct {
	Family contracts.ErrorFamily `json:"family"`
	Score  float64               `json:"score,omitempty"`
	Items  []string              `json:"items"`
}

// Report is the complete outcome of diagnosing one error report.
type Report struct {
	Prediction contracts.PredictionResult `json:"prediction"`

	// LowConfidence marks an uncertain ML prediction. When set, Checklists
	// covers each top candidate and SimilarCases is empty; the user should
	// be asked for the exact traceback instead.
	LowConfidence bool `json:"low_confidence"`

	Checklists   []Checklist            `json:"checklists"`
	SimilarCases []contracts.SimilarCase `json:"similar_cases,omitempty"`
}

// Engine holds the loaded artifacts a diagnosis needs.
type Engine struct {
	classifier Classifier
	vectorizer *textvec.Vectorizer
	index      *retrieval.Index
	playbooks  *playbook.Book
	log        logger.Logger
}

// New assembles an engine from already-loaded components.
func New(clf Classifier, vec *textvec.Vectorizer, idx *retrieval.Index, book *playbook.Book, log logger.Logger) *Engine {
	return &Engine{
		classifier: clf,
		vectorizer: vec,
		index:      idx,
		playbooks:  book,
		log:        log,
	}
}

// Diagnose classifies the report and assembles remediation guidance.
// code is an optional snippet appended for extra context; topK bounds the
// similar-case list, and zero or negative retrieves none. Callers that
// want a default for an omitted value apply DefaultTopK themselves.
func (e *Engine) Diagnose(errorText, code string, topK int) (*Report, error) {
	rawInput := preprocess.CombineInputs(errorText, code)

	report := &Report{
		Prediction: contracts.PredictionResult{Method: contracts.MethodRules},
	}

	// Rules run against the error text alone; the code snippet only feeds
	// the statistical path.
	if family, ok := rules.Predict(errorText); ok {
		report.Prediction.Family = family
		e.log.Debug("rule matched family %s", family)
	} else {
		if err := e.predictML(rawInput, report); err != nil {
			return nil, err
		}
	}

	conf := report.Prediction.Confidence
	if report.Prediction.Method == contracts.MethodML && conf != nil && *conf < LowConfThreshold {
		report.LowConfidence = true
		for _, cand := range report.Prediction.Candidates {
			report.Checklists = append(report.Checklists, Checklist{
				Family: cand.Family,
				Score:  cand.Probability,
				Items:  e.playbooks.Suggestions(cand.Family, rawInput),
			})
		}
		// Retrieval against an uncertain query would surface misleading
		// matches; ask for the exact traceback instead.
		return report, nil
	}

	report.Checklists = []Checklist{{
		Family: report.Prediction.Family,
		Items:  e.playbooks.Suggestions(report.Prediction.Family, rawInput),
	}}

	similar, err := e.index.Query(rawInput, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar cases: %w", err)
	}
	report.SimilarCases = similar

	return report, nil
}

// SimilarCases answers a bare retrieval query without classifying first.
// As with Diagnose, topK of zero or negative returns no cases.
func (e *Engine) SimilarCases(text string, topK int) ([]contracts.SimilarCase, error) {
	return e.index.Query(text, topK)
}

// Suggestions exposes the playbook for one family directly.
func (e *Engine) Suggestions(family contracts.ErrorFamily, rawText string) []string {
	return e.playbooks.Suggestions(family, rawText)
}

// predictML fills the prediction from the statistical model. A backend
// without calibrated probabilities degrades to a bare label with no
// confidence and no candidates.
func (e *Engine) predictML(rawInput string, report *Report) error {
	normalized := preprocess.Normalize(rawInput)
	vec, err := e.vectorizer.TransformOne(normalized)
	if err != nil {
		return fmt.Errorf("failed to vectorize report: %w", err)
	}

	report.Prediction.Method = contracts.MethodML

	candidates, err := e.classifier.PredictProba(vec)
	if err != nil || len(candidates) == 0 {
		family, perr := e.classifier.Predict(vec)
		if perr != nil {
			return fmt.Errorf("classifier failed: %w", perr)
		}
		report.Prediction.Family = family
		return nil
	}

	if len(candidates) > TopNAlternatives {
		candidates = candidates[:TopNAlternatives]
	}
	report.Prediction.Family = candidates[0].Family
	conf := candidates[0].Probability
	report.Prediction.Confidence = &conf
	report.Prediction.Candidates = candidates
	return nil
}
