package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"debugassist/src/broker"
	"debugassist/src/config"
	"debugassist/src/corpus"
	"debugassist/src/logger"
	"debugassist/src/store"
)

func newTestPipeline() (*Dataset, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return NewDataset(broker.NewInMemoryBroker(), s, logger.NewSilentLogger()), s
}

func TestDatasetRun_StoresAllCases(t *testing.T) {
	p, s := newTestPipeline()
	defer p.Close()

	ctx := context.Background()
	runID, stored, err := p.Run(ctx, corpus.GenerateOptions{PerClass: 3, Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if runID == "" {
		t.Error("expected a non-empty run id")
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != stored {
		t.Errorf("store holds %d cases, Run reported %d", n, stored)
	}
	if stored != 30 {
		t.Errorf("stored = %d, want 30", stored)
	}
}

func TestDatasetRun_InvalidOptions(t *testing.T) {
	p, _ := newTestPipeline()
	defer p.Close()

	if _, _, err := p.Run(context.Background(), corpus.GenerateOptions{}); err == nil {
		t.Fatal("expected error for empty generate options")
	}
}

// failingBroker delegates to a real broker but fails Publish after a fixed
// number of successes.
type failingBroker struct {
	broker.Broker
	publishes int
	failAfter int
}

func (f *failingBroker) Publish(ctx context.Context, topic, key string, value []byte) error {
	f.publishes++
	if f.publishes > f.failAfter {
		return errors.New("transport unavailable")
	}
	return f.Broker.Publish(ctx, topic, key, value)
}

func TestDatasetRun_PublishFailureUnblocksRun(t *testing.T) {
	b := &failingBroker{Broker: broker.NewInMemoryBroker(), failAfter: 1}
	p := NewDataset(b, store.NewMemoryStore(), logger.NewSilentLogger())
	defer p.Close()

	done := make(chan error, 1)
	go func() {
		_, _, err := p.Run(context.Background(), corpus.GenerateOptions{PerClass: 2, Seed: 3})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error from the failed publish")
		}
		if !strings.Contains(err.Error(), "transport unavailable") {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after a mid-run publish failure")
	}
}

func TestDatasetRun_CanceledContext(t *testing.T) {
	p, _ := newTestPipeline()
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.Run(ctx, corpus.GenerateOptions{PerClass: 2, Seed: 1})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestOpen_LocalDefaultsPersistToCorpusCSV(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}
	ctx := context.Background()

	p, err := Open(ctx, cfg, logger.NewSilentLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, _, err := p.Run(ctx, corpus.GenerateOptions{PerClass: 1, Seed: 7}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	cases, err := corpus.LoadCSV(cfg.CorpusPath())
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(cases) != 10 {
		t.Errorf("corpus holds %d cases, want 10", len(cases))
	}
}

func TestExportCSV(t *testing.T) {
	p, _ := newTestPipeline()
	defer p.Close()

	ctx := context.Background()
	if _, _, err := p.Run(ctx, corpus.GenerateOptions{PerClass: 2, Seed: 5}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "cases.csv")
	n, err := p.ExportCSV(ctx, path)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if n != 20 {
		t.Errorf("exported %d rows, want 20", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported CSV: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,error_text,error_family,fix_text") {
		t.Errorf("exported CSV missing header: %q", string(data[:40]))
	}

	// Round trip through the corpus loader
	cases, err := corpus.LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(cases) != 20 {
		t.Errorf("loaded %d cases, want 20", len(cases))
	}
}
