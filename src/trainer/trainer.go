// Package trainer fits the vectorizer and the classifier from the labeled
// corpus, evaluates on a held-out split and writes the model artifacts.
package trainer

import (
	"fmt"
	"os"

	"debugassist/src/config"
	"debugassist/src/contracts"
	"debugassist/src/corpus"
	"debugassist/src/logger"
	"debugassist/src/model"
	"debugassist/src/preprocess"
	"debugassist/src/textvec"
)

// Options tunes a training run. The zero value gets working defaults.
type Options struct {
	// TestFraction of the corpus held out for evaluation (default 0.2).
	TestFraction float64
	// Seed drives the stratified split (default 42).
	Seed int64
	// Train overrides the optimizer settings when non-zero.
	Train model.TrainConfig
}

// Result summarizes a completed training run.
type Result struct {
	Report         *model.Report
	VocabularySize int
	TrainSize      int
	TestSize       int
}

// Run trains from the configured corpus and saves the vectorizer and
// classifier artifacts under the data directory.
//
// The vectorizer is fitted on the training split only; the held-out split
// sees the frozen vocabulary, so the reported metrics are honest.
func Run(cfg *config.Config, opts Options, log logger.Logger) (*Result, error) {
	if opts.TestFraction <= 0 {
		opts.TestFraction = 0.2
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	if opts.Train.Iterations == 0 {
		opts.Train = model.DefaultTrainConfig()
	}

	cases, err := corpus.LoadCSV(cfg.CorpusPath())
	if err != nil {
		return nil, fmt.Errorf("%v; run `debugassist dataset` first", err)
	}

	docs := make([]string, len(cases))
	labels := make([]contracts.ErrorFamily, len(cases))
	for i, c := range cases {
		docs[i] = preprocess.Normalize(c.ErrorText)
		labels[i] = c.ErrorFamily
	}

	trainIdx, testIdx := model.StratifiedSplit(labels, opts.TestFraction, opts.Seed)
	trainDocs, trainLabels := subset(docs, labels, trainIdx)
	testDocs, testLabels := subset(docs, labels, testIdx)

	vec, err := textvec.Fit(trainDocs)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	log.Info("fitted vectorizer: %d terms from %d training docs", vec.VocabularySize(), len(trainDocs))

	trainVecs, err := vec.Transform(trainDocs)
	if err != nil {
		return nil, err
	}
	testVecs, err := vec.Transform(testDocs)
	if err != nil {
		return nil, err
	}

	clf, err := model.Fit(trainVecs, trainLabels, vec.VocabularySize(), opts.Train)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	predicted := make([]contracts.ErrorFamily, len(testVecs))
	for i, v := range testVecs {
		predicted[i], err = clf.Predict(v)
		if err != nil {
			return nil, err
		}
	}

	report, err := model.Evaluate(predicted, testLabels)
	if err != nil {
		return nil, err
	}
	log.Info("held-out macro F1: %.3f over %d cases", report.MacroF1, len(testLabels))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := vec.Save(cfg.VectorizerPath()); err != nil {
		return nil, err
	}
	if err := clf.Save(cfg.ModelPath()); err != nil {
		return nil, err
	}

	return &Result{
		Report:         report,
		VocabularySize: vec.VocabularySize(),
		TrainSize:      len(trainDocs),
		TestSize:       len(testDocs),
	}, nil
}

func subset(docs []string, labels []contracts.ErrorFamily, idx []int) ([]string, []contracts.ErrorFamily) {
	outDocs := make([]string, len(idx))
	outLabels := make([]contracts.ErrorFamily, len(idx))
	for i, j := range idx {
		outDocs[i] = docs[j]
		outLabels[i] = labels[j]
	}
	return outDocs, outLabels
}
