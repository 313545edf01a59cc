package model

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"debugassist/src/contracts"
)

// ClassMetrics holds precision/recall/F1 for one error family.
type ClassMetrics struct {
	Family    contracts.ErrorFamily
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the offline training diagnostic: per-class metrics plus the
// macro-averaged F1. It is printed for humans and never consumed by the
// inference path.
type Report struct {
	Classes []ClassMetrics
	MacroF1 float64
	Total   int
}

// StratifiedSplit partitions indices into train/test so every class is
// represented proportionally in the held-out fraction. The shuffle is
// seeded, so the split is reproducible.
func StratifiedSplit(labels []contracts.ErrorFamily, testFraction float64, seed int64) (train, test []int) {
	byClass := make(map[contracts.ErrorFamily][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}

	classes := make([]contracts.ErrorFamily, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		idxs := byClass[c]
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })

		nTest := int(float64(len(idxs)) * testFraction)
		// Keep at least one example on each side when the class allows it.
		if nTest == 0 && len(idxs) > 1 && testFraction > 0 {
			nTest = 1
		}
		test = append(test, idxs[:nTest]...)
		train = append(train, idxs[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

// Evaluate compares predictions against ground truth and builds a Report.
func Evaluate(predicted, truth []contracts.ErrorFamily) (*Report, error) {
	if len(predicted) != len(truth) {
		return nil, fmt.Errorf("model: %d predictions but %d labels", len(predicted), len(truth))
	}

	type tally struct{ tp, fp, fn, support int }
	tallies := make(map[contracts.ErrorFamily]*tally)
	get := func(f contracts.ErrorFamily) *tally {
		if _, ok := tallies[f]; !ok {
			tallies[f] = &tally{}
		}
		return tallies[f]
	}

	for i := range truth {
		get(truth[i]).support++
		if predicted[i] == truth[i] {
			get(truth[i]).tp++
		} else {
			get(predicted[i]).fp++
			get(truth[i]).fn++
		}
	}

	families := make([]contracts.ErrorFamily, 0, len(tallies))
	for f := range tallies {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })

	report := &Report{Total: len(truth)}
	var f1Sum float64
	for _, f := range families {
		t := tallies[f]
		m := ClassMetrics{Family: f, Support: t.support}
		if t.tp+t.fp > 0 {
			m.Precision = float64(t.tp) / float64(t.tp+t.fp)
		}
		if t.tp+t.fn > 0 {
			m.Recall = float64(t.tp) / float64(t.tp+t.fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		f1Sum += m.F1
		report.Classes = append(report.Classes, m)
	}
	if len(report.Classes) > 0 {
		report.MacroF1 = f1Sum / float64(len(report.Classes))
	}

	return report, nil
}

// String renders the report as an aligned table for the training CLI.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-20s %9s %9s %9s %9s\n", "", "precision", "recall", "f1", "support"))
	for _, m := range r.Classes {
		b.WriteString(fmt.Sprintf("%-20s %9.3f %9.3f %9.3f %9d\n",
			m.Family, m.Precision, m.Recall, m.F1, m.Support))
	}
	b.WriteString(fmt.Sprintf("\n%-20s %9.3f   (%d samples)\n", "macro F1", r.MacroF1, r.Total))
	return b.String()
}
