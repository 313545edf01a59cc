package diagnose

import (
	"errors"
	"testing"

	"debugassist/src/config"
	"debugassist/src/contracts"
	"debugassist/src/logger"
	"debugassist/src/playbook"
	"debugassist/src/preprocess"
	"debugassist/src/retrieval"
	"debugassist/src/textvec"
)

// fakeClassifier returns canned candidates so tests can steer the
// confidence gate precisely.
type fakeClassifier struct {
	candidates []contracts.Candidate
	probaErr   error
	label      contracts.ErrorFamily
}

func (f *fakeClassifier) Predict(vec textvec.Vector) (contracts.ErrorFamily, error) {
	return f.label, nil
}

func (f *fakeClassifier) PredictProba(vec textvec.Vector) ([]contracts.Candidate, error) {
	if f.probaErr != nil {
		return nil, f.probaErr
	}
	return f.candidates, nil
}

var engineCases = []contracts.Case{
	{ID: "1", ErrorText: "KeyError: 'user_id' while reading payload dict", ErrorFamily: contracts.FamilyKeyError, FixText: "Use dict.get."},
	{ID: "2", ErrorText: "KeyError: 'email' while reading payload dict", ErrorFamily: contracts.FamilyKeyError, FixText: "Guard the key."},
	{ID: "3", ErrorText: "ZeroDivisionError: division by zero in compute", ErrorFamily: contracts.FamilyZeroDivision, FixText: "Guard the denominator."},
	{ID: "4", ErrorText: "ZeroDivisionError: division by zero in ratio", ErrorFamily: contracts.FamilyZeroDivision, FixText: "Validate inputs."},
}

var enginePlaybook = []byte(`
key_error:
  checklist:
    - "Print the dictionary keys."
zero_division:
  checklist:
    - "Guard the denominator."
type_error:
  checklist:
    - "Inspect types with type(x)."
value_error:
  checklist:
    - "Validate the string before casting."
import_error:
  checklist:
    - "Install the missing dependency."
`)

func newTestEngine(t *testing.T, clf Classifier) *Engine {
	t.Helper()

	docs := make([]string, len(engineCases))
	for i, c := range engineCases {
		docs[i] = preprocess.Normalize(c.ErrorText)
	}
	vec, err := textvec.Fit(docs)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	idx, err := retrieval.Build(engineCases, vec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	book, err := playbook.Parse(enginePlaybook)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return New(clf, vec, idx, book, logger.NewSilentLogger())
}

func TestDiagnose_RuleMatchShortCircuits(t *testing.T) {
	// The classifier would disagree; a rule match must win without
	// consulting it.
	clf := &fakeClassifier{candidates: []contracts.Candidate{{Family: contracts.FamilyTypeError, Probability: 0.9}}}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("ModuleNotFoundError: No module named 'requests'", "", 2)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if report.Prediction.Method != contracts.MethodRules {
		t.Errorf("Method = %s, want rules", report.Prediction.Method)
	}
	if report.Prediction.Family != contracts.FamilyImportError {
		t.Errorf("Family = %s, want import_error", report.Prediction.Family)
	}
	if report.Prediction.Confidence != nil {
		t.Error("rule predictions carry no confidence")
	}
	if len(report.Prediction.Candidates) != 0 {
		t.Error("rule predictions carry no candidates")
	}
	if report.LowConfidence {
		t.Error("rule predictions are never low confidence")
	}
	if len(report.Checklists) != 1 || report.Checklists[0].Family != contracts.FamilyImportError {
		t.Errorf("unexpected checklists: %+v", report.Checklists)
	}
	if len(report.SimilarCases) != 2 {
		t.Errorf("got %d similar cases, want 2", len(report.SimilarCases))
	}
}

func TestDiagnose_MLConfident(t *testing.T) {
	clf := &fakeClassifier{candidates: []contracts.Candidate{
		{Family: contracts.FamilyKeyError, Probability: 0.40},
		{Family: contracts.FamilyValueError, Probability: 0.35},
		{Family: contracts.FamilyTypeError, Probability: 0.15},
		{Family: contracts.FamilyZeroDivision, Probability: 0.10},
	}}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("something strange happened with the payload dict", "", 3)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if report.Prediction.Method != contracts.MethodML {
		t.Errorf("Method = %s, want ml", report.Prediction.Method)
	}
	if report.Prediction.Family != contracts.FamilyKeyError {
		t.Errorf("Family = %s, want key_error", report.Prediction.Family)
	}
	if report.Prediction.Confidence == nil || *report.Prediction.Confidence != 0.40 {
		t.Errorf("Confidence = %v, want 0.40", report.Prediction.Confidence)
	}
	// Candidates are capped at the top three.
	if len(report.Prediction.Candidates) != TopNAlternatives {
		t.Errorf("got %d candidates, want %d", len(report.Prediction.Candidates), TopNAlternatives)
	}
	// 0.40 is at the threshold boundary but not below it.
	if report.LowConfidence {
		t.Error("confidence 0.40 must not trigger the low-confidence path")
	}
	if len(report.Checklists) != 1 {
		t.Errorf("got %d checklists, want 1", len(report.Checklists))
	}
	if len(report.SimilarCases) == 0 {
		t.Error("confident ML predictions include similar cases")
	}
}

func TestDiagnose_MLLowConfidenceFansOut(t *testing.T) {
	clf := &fakeClassifier{candidates: []contracts.Candidate{
		{Family: contracts.FamilyValueError, Probability: 0.30},
		{Family: contracts.FamilyKeyError, Probability: 0.25},
		{Family: contracts.FamilyTypeError, Probability: 0.20},
	}}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("something strange happened", "", 3)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if !report.LowConfidence {
		t.Fatal("confidence 0.30 must trigger the low-confidence path")
	}
	if len(report.Checklists) != 3 {
		t.Fatalf("got %d checklists, want one per candidate", len(report.Checklists))
	}
	if report.Checklists[0].Family != contracts.FamilyValueError || report.Checklists[0].Score != 0.30 {
		t.Errorf("first checklist = %+v", report.Checklists[0])
	}
	if len(report.SimilarCases) != 0 {
		t.Error("low-confidence diagnoses skip retrieval")
	}
}

func TestDiagnose_ProbaUnavailableDegrades(t *testing.T) {
	clf := &fakeClassifier{
		probaErr: errors.New("no probability backend"),
		label:    contracts.FamilyZeroDivision,
	}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("something strange happened in compute", "", 2)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if report.Prediction.Family != contracts.FamilyZeroDivision {
		t.Errorf("Family = %s, want zero_division", report.Prediction.Family)
	}
	if report.Prediction.Confidence != nil {
		t.Error("degraded predictions carry no confidence")
	}
	if report.LowConfidence {
		t.Error("no confidence means no low-confidence gate")
	}
	if len(report.SimilarCases) == 0 {
		t.Error("degraded predictions still include similar cases")
	}
}

func TestDiagnose_CodeSnippetFeedsRetrieval(t *testing.T) {
	clf := &fakeClassifier{candidates: []contracts.Candidate{{Family: contracts.FamilyKeyError, Probability: 0.9}}}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("something strange", "payload = data['user_id']", 1)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(report.SimilarCases) != 1 {
		t.Fatalf("got %d similar cases, want 1", len(report.SimilarCases))
	}
}

func TestDiagnose_TopKZeroRetrievesNothing(t *testing.T) {
	clf := &fakeClassifier{candidates: []contracts.Candidate{{Family: contracts.FamilyKeyError, Probability: 0.9}}}
	engine := newTestEngine(t, clf)

	report, err := engine.Diagnose("ModuleNotFoundError: No module named 'requests'", "", 0)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(report.SimilarCases) != 0 {
		t.Errorf("top_k=0 returned %d similar cases, want 0", len(report.SimilarCases))
	}
	// Classification and the checklist are unaffected.
	if report.Prediction.Family != contracts.FamilyImportError {
		t.Errorf("Family = %s, want import_error", report.Prediction.Family)
	}
	if len(report.Checklists) != 1 {
		t.Errorf("got %d checklists, want 1", len(report.Checklists))
	}
}

func TestSimilarCases_TopKZeroReturnsEmpty(t *testing.T) {
	clf := &fakeClassifier{}
	engine := newTestEngine(t, clf)

	cases, err := engine.SimilarCases("KeyError: 'user_id'", 0)
	if err != nil {
		t.Fatalf("SimilarCases: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("top_k=0 returned %d cases, want 0", len(cases))
	}
}

func TestLoadEngine_MissingArtifacts(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), PlaybookPath: "playbooks.yaml"}

	_, err := LoadEngine(cfg, logger.NewSilentLogger())
	if err == nil {
		t.Fatal("expected error for missing artifacts")
	}
	if !errors.Is(err, ErrMissingArtifacts) {
		t.Errorf("expected ErrMissingArtifacts, got: %v", err)
	}
}
