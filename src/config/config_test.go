package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DEBUGASSIST_DATA_DIR", "")
	t.Setenv("DEBUGASSIST_PLAYBOOK", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDPANDA_BROKERS", "")

	cfg := LoadFromEnv()
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.PlaybookPath != DefaultPlaybookPath {
		t.Errorf("PlaybookPath = %q, want %q", cfg.PlaybookPath, DefaultPlaybookPath)
	}
	if cfg.PostgresDSN != "" || len(cfg.RedpandaBrokers) != 0 {
		t.Errorf("expected empty optional settings, got %+v", cfg)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DEBUGASSIST_DATA_DIR", "/tmp/da")
	t.Setenv("DEBUGASSIST_PLAYBOOK", "/etc/da/playbooks.yaml")
	t.Setenv("DATABASE_URL", "postgres://localhost/da")
	t.Setenv("REDPANDA_BROKERS", "localhost:19092, localhost:29092 ,")

	cfg := LoadFromEnv()
	if cfg.DataDir != "/tmp/da" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.PlaybookPath != "/etc/da/playbooks.yaml" {
		t.Errorf("PlaybookPath = %q", cfg.PlaybookPath)
	}
	if cfg.PostgresDSN != "postgres://localhost/da" {
		t.Errorf("PostgresDSN = %q", cfg.PostgresDSN)
	}
	want := []string{"localhost:19092", "localhost:29092"}
	if !reflect.DeepEqual(cfg.RedpandaBrokers, want) {
		t.Errorf("RedpandaBrokers = %v, want %v", cfg.RedpandaBrokers, want)
	}
}

func TestArtifactPaths(t *testing.T) {
	cfg := &Config{DataDir: "store"}
	if got := cfg.CorpusPath(); got != filepath.Join("store", "cases.csv") {
		t.Errorf("CorpusPath = %q", got)
	}
	if got := cfg.VectorizerPath(); got != filepath.Join("store", "vectorizer.json") {
		t.Errorf("VectorizerPath = %q", got)
	}
	if got := cfg.ModelPath(); got != filepath.Join("store", "model.json") {
		t.Errorf("ModelPath = %q", got)
	}
}
