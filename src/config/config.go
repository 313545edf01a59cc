// Package config provides configuration management for the debugassist application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Defaults for artifact locations under the data directory.
const (
	DefaultDataDir      = "data"
	DefaultPlaybookPath = "playbooks.yaml"

	corpusFile     = "cases.csv"
	vectorizerFile = "vectorizer.json"
	modelFile      = "model.json"
)

// Config holds the application configuration. All fields have working
// defaults; environment variables override them.
type Config struct {
	// DataDir holds the corpus CSV and the trained artifacts.
	DataDir string

	// PlaybookPath is the remediation playbook YAML file.
	PlaybookPath string

	// PostgresDSN enables the Postgres case store when non-empty.
	PostgresDSN string

	// RedpandaBrokers enables the Redpanda dataset transport when non-empty.
	RedpandaBrokers []string
}

// LoadFromEnv loads configuration from environment variables:
//
//	DEBUGASSIST_DATA_DIR  data directory (default "data")
//	DEBUGASSIST_PLAYBOOK  playbook YAML path (default "playbooks.yaml")
//	DATABASE_URL          Postgres DSN, optional
//	REDPANDA_BROKERS      comma-separated broker addresses, optional
func LoadFromEnv() *Config {
	cfg := &Config{
		DataDir:      DefaultDataDir,
		PlaybookPath: DefaultPlaybookPath,
		PostgresDSN:  os.Getenv("DATABASE_URL"),
	}

	if dir := os.Getenv("DEBUGASSIST_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if path := os.Getenv("DEBUGASSIST_PLAYBOOK"); path != "" {
		cfg.PlaybookPath = path
	}
	if brokers := os.Getenv("REDPANDA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, b)
			}
		}
	}

	return cfg
}

// CorpusPath is the labeled case CSV location.
func (c *Config) CorpusPath() string {
	return filepath.Join(c.DataDir, corpusFile)
}

// VectorizerPath is the fitted vectorizer artifact location.
func (c *Config) VectorizerPath() string {
	return filepath.Join(c.DataDir, vectorizerFile)
}

// ModelPath is the trained classifier artifact location.
func (c *Config) ModelPath() string {
	return filepath.Join(c.DataDir, modelFile)
}
