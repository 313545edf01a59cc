package diagnose

import (
	"errors"
	"fmt"
	"os"

	"debugassist/src/config"
	"debugassist/src/corpus"
	"debugassist/src/logger"
	"debugassist/src/model"
	"debugassist/src/playbook"
	"debugassist/src/retrieval"
	"debugassist/src/textvec"
)

// ErrMissingArtifacts means the trained model files are not on disk yet.
var ErrMissingArtifacts = errors.New("model artifacts not found")

// LoadEngine loads every artifact a diagnosis needs from the configured
// locations. Missing trained artifacts yield ErrMissingArtifacts with the
// commands that produce them.
func LoadEngine(cfg *config.Config, log logger.Logger) (*Engine, error) {
	for _, path := range []string{cfg.VectorizerPath(), cfg.ModelPath()} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s is missing; run `debugassist dataset` then `debugassist train` first", ErrMissingArtifacts, path)
		}
	}

	vec, err := textvec.Load(cfg.VectorizerPath())
	if err != nil {
		return nil, err
	}

	clf, err := model.Load(cfg.ModelPath())
	if err != nil {
		return nil, err
	}

	cases, err := corpus.LoadCSV(cfg.CorpusPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v; run `debugassist dataset` first", ErrMissingArtifacts, err)
	}

	idx, err := retrieval.Build(cases, vec)
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieval index: %w", err)
	}

	book, err := playbook.Load(cfg.PlaybookPath)
	if err != nil {
		return nil, err
	}

	log.Debug("engine loaded: %d vocabulary terms, %d corpus cases", vec.VocabularySize(), idx.Size())
	return New(clf, vec, idx, book, log), nil
}
