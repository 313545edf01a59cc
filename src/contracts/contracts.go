// Package contracts defines the domain types shared across the DebugAssist pipeline.
package contracts

import "fmt"

// ErrorFamily is one of the ten diagnostic categories an error report can
// be assigned to. The set is closed: every classification result must be
// one of these values.
type ErrorFamily string

const (
	FamilyImportError     ErrorFamily = "import_error"
	FamilySyntaxError     ErrorFamily = "syntax_error"
	FamilyTypeError       ErrorFamily = "type_error"
	FamilyValueError      ErrorFamily = "value_error"
	FamilyAttributeError  ErrorFamily = "attribute_error"
	FamilyKeyError        ErrorFamily = "key_error"
	FamilyIndexError      ErrorFamily = "index_error"
	FamilyFileError       ErrorFamily = "file_error"
	FamilyZeroDivision    ErrorFamily = "zero_division"
	FamilyConnectionError ErrorFamily = "connection_error"
)

// Families returns all known error families in a fixed, stable order.
func Families() []ErrorFamily {
	return []ErrorFamily{
		FamilyImportError,
		FamilySyntaxError,
		FamilyTypeError,
		FamilyValueError,
		FamilyAttributeError,
		FamilyKeyError,
		FamilyIndexError,
		FamilyFileError,
		FamilyZeroDivision,
		FamilyConnectionError,
	}
}

// ParseFamily validates a raw label against the closed family set.
func ParseFamily(s string) (ErrorFamily, error) {
	for _, f := range Families() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown error family: %q", s)
}

// Case is one labeled training example. Cases are immutable once created;
// the corpus is an ordered sequence of Cases with unique ids.
type Case struct {
	// Unique, stable identifier. Insertion order equals creation order.
	ID string `json:"id"`
	// Raw error/traceback text as pasted by a user.
	ErrorText string `json:"error_text"`
	// One of the closed family set.
	ErrorFamily ErrorFamily `json:"error_family"`
	// Free-form remediation text for this case.
	FixText string `json:"fix_text"`
}

// Method identifies which classifier produced a prediction.
type Method string

const (
	// MethodRules means a deterministic pattern rule matched the raw text.
	MethodRules Method = "rules"
	// MethodML means the statistical model produced the prediction.
	MethodML Method = "ml"
)

// Candidate is one (family, probability) pair from the statistical model.
type Candidate struct {
	Family      ErrorFamily `json:"family"`
	Probability float64     `json:"probability"`
}

// PredictionResult is the outcome of classifying one error report.
type PredictionResult struct {
	Family ErrorFamily `json:"family"`
	Method Method      `json:"method"`
	// Confidence is the top candidate's probability. Only set for ML
	// predictions from a backend that exposes calibrated probabilities.
	Confidence *float64 `json:"confidence,omitempty"`
	// Candidates are the top-N families sorted by probability descending.
	// Empty for rule-based predictions.
	Candidates []Candidate `json:"candidates,omitempty"`
}

// SimilarCase is one retrieval hit: a prior solved case plus its cosine
// similarity to the query, in [0, 1].
type SimilarCase struct {
	ID          string      `json:"id"`
	ErrorFamily ErrorFamily `json:"error_family"`
	ErrorText   string      `json:"error_text"`
	FixText     string      `json:"fix_text"`
	Score       float64     `json:"score"`
}

// Topic names for the dataset build pipeline.
const (
	// TopicCasesRaw carries generated cases from the generator to the persister.
	TopicCasesRaw = "debugassist.cases.raw"
)
