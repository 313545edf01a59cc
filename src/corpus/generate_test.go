package corpus

import (
	"reflect"
	"strings"
	"testing"

	"debugassist/src/contracts"
)

func TestGenerate_PerClass(t *testing.T) {
	cases, err := Generate(GenerateOptions{PerClass: 5, Seed: 42})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	families := contracts.Families()
	if want := 5 * len(families); len(cases) != want {
		t.Fatalf("got %d cases, want %d", len(cases), want)
	}

	counts := make(map[contracts.ErrorFamily]int)
	seen := make(map[string]struct{})
	for _, c := range cases {
		counts[c.ErrorFamily]++
		if _, dup := seen[c.ID]; dup {
			t.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		if strings.TrimSpace(c.ErrorText) == "" {
			t.Errorf("case %s has empty error text", c.ID)
		}
		if strings.TrimSpace(c.FixText) == "" {
			t.Errorf("case %s has empty fix text", c.ID)
		}
	}
	for _, f := range families {
		if counts[f] != 5 {
			t.Errorf("family %s: got %d cases, want 5", f, counts[f])
		}
	}
}

func TestGenerate_TotalSpreadsRemainder(t *testing.T) {
	cases, err := Generate(GenerateOptions{Total: 103, Seed: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cases) != 103 {
		t.Fatalf("got %d cases, want 103", len(cases))
	}

	counts := make(map[contracts.ErrorFamily]int)
	for _, c := range cases {
		counts[c.ErrorFamily]++
	}
	for f, n := range counts {
		if n != 10 && n != 11 {
			t.Errorf("family %s: got %d cases, want 10 or 11", f, n)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(GenerateOptions{PerClass: 3, Seed: 99})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(GenerateOptions{PerClass: 3, Seed: 99})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce identical corpora")
	}
}

func TestGenerate_OptionValidation(t *testing.T) {
	if _, err := Generate(GenerateOptions{}); err == nil {
		t.Error("expected error when neither Total nor PerClass is set")
	}
	if _, err := Generate(GenerateOptions{Total: 10, PerClass: 5}); err == nil {
		t.Error("expected error when both Total and PerClass are set")
	}
}
