package model

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"debugassist/src/contracts"
)

func TestStratifiedSplit(t *testing.T) {
	// 8 key_error, 4 type_error.
	var labels []contracts.ErrorFamily
	for i := 0; i < 8; i++ {
		labels = append(labels, contracts.FamilyKeyError)
	}
	for i := 0; i < 4; i++ {
		labels = append(labels, contracts.FamilyTypeError)
	}

	train, test := StratifiedSplit(labels, 0.25, 42)

	if len(train)+len(test) != len(labels) {
		t.Fatalf("split covers %d indices, want %d", len(train)+len(test), len(labels))
	}

	// Every index exactly once.
	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, train...), test...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}

	// Proportional representation: 2 of 8 and 1 of 4 held out.
	count := func(idxs []int, f contracts.ErrorFamily) int {
		n := 0
		for _, i := range idxs {
			if labels[i] == f {
				n++
			}
		}
		return n
	}
	if got := count(test, contracts.FamilyKeyError); got != 2 {
		t.Errorf("held out %d key_error samples, want 2", got)
	}
	if got := count(test, contracts.FamilyTypeError); got != 1 {
		t.Errorf("held out %d type_error samples, want 1", got)
	}
}

func TestStratifiedSplit_Reproducible(t *testing.T) {
	labels := []contracts.ErrorFamily{
		contracts.FamilyKeyError, contracts.FamilyKeyError, contracts.FamilyKeyError,
		contracts.FamilyTypeError, contracts.FamilyTypeError, contracts.FamilyTypeError,
	}
	train1, test1 := StratifiedSplit(labels, 0.33, 7)
	train2, test2 := StratifiedSplit(labels, 0.33, 7)
	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed produced different splits")
	}
}

func TestEvaluate(t *testing.T) {
	truth := []contracts.ErrorFamily{
		contracts.FamilyKeyError, contracts.FamilyKeyError,
		contracts.FamilyTypeError, contracts.FamilyTypeError,
	}
	predicted := []contracts.ErrorFamily{
		contracts.FamilyKeyError, contracts.FamilyTypeError,
		contracts.FamilyTypeError, contracts.FamilyTypeError,
	}

	report, err := Evaluate(predicted, truth)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	byFamily := make(map[contracts.ErrorFamily]ClassMetrics)
	for _, m := range report.Classes {
		byFamily[m.Family] = m
	}

	ke := byFamily[contracts.FamilyKeyError]
	if ke.Precision != 1.0 || ke.Recall != 0.5 {
		t.Errorf("key_error precision/recall = %v/%v, want 1.0/0.5", ke.Precision, ke.Recall)
	}
	te := byFamily[contracts.FamilyTypeError]
	if math.Abs(te.Precision-2.0/3.0) > 1e-9 || te.Recall != 1.0 {
		t.Errorf("type_error precision/recall = %v/%v, want 0.667/1.0", te.Precision, te.Recall)
	}

	wantMacro := (ke.F1 + te.F1) / 2
	if math.Abs(report.MacroF1-wantMacro) > 1e-9 {
		t.Errorf("macro F1 = %v, want %v", report.MacroF1, wantMacro)
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	if _, err := Evaluate([]contracts.ErrorFamily{contracts.FamilyKeyError}, nil); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestReport_String(t *testing.T) {
	truth := []contracts.ErrorFamily{contracts.FamilyKeyError, contracts.FamilyTypeError}
	report, err := Evaluate(truth, truth)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	s := report.String()
	for _, want := range []string{"precision", "recall", "key_error", "type_error", "macro F1"} {
		if !strings.Contains(s, want) {
			t.Errorf("report missing %q:\n%s", want, s)
		}
	}
}
