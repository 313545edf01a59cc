// Package pipeline builds the labeled corpus: a generator publishes
// synthetic cases to a broker topic, a persister consumes them into the
// case store, and the result can be exported as the corpus CSV.
// This package is used by both the CLI (local mode) and the MCP server.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"debugassist/src/broker"
	"debugassist/src/config"
	"debugassist/src/contracts"
	"debugassist/src/corpus"
	"debugassist/src/logger"
	"debugassist/src/store"
)

// Dataset wires the generator, the broker transport and the case store.
type Dataset struct {
	broker broker.Broker
	store  store.CaseStore
	log    logger.Logger
}

// envelope is the wire format on the cases topic. The run id lets a
// consumer skip messages from unrelated runs sharing the topic.
type envelope struct {
	RunID string         `json:"run_id"`
	Case  contracts.Case `json:"case"`
}

// NewDataset creates a dataset pipeline over the given transport and store.
func NewDataset(b broker.Broker, s store.CaseStore, log logger.Logger) *Dataset {
	return &Dataset{broker: b, store: s, log: log}
}

// Open builds a dataset pipeline from configuration: Redpanda and Postgres
// when configured, otherwise the in-memory broker and the local CSV store
// at the corpus path.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Dataset, error) {
	var b broker.Broker
	if len(cfg.RedpandaBrokers) > 0 {
		rb, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redpanda broker: %w", err)
		}
		b = rb
	} else {
		b = broker.NewInMemoryBroker()
	}

	var s store.CaseStore
	if cfg.PostgresDSN != "" {
		ps, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to create Postgres store: %w", err)
		}
		if err := ps.EnsureSchema(ctx); err != nil {
			ps.Close()
			b.Close()
			return nil, err
		}
		s = ps
	} else {
		cs, err := store.NewCSVStore(cfg.CorpusPath())
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to open CSV store: %w", err)
		}
		s = cs
	}

	return NewDataset(b, s, log), nil
}

// Run generates a corpus per opts, streams every case through the broker
// topic and persists it. It returns the run id and the number of cases
// stored. The call blocks until the whole run is persisted or ctx ends.
func (p *Dataset) Run(ctx context.Context, opts corpus.GenerateOptions) (string, int, error) {
	cases, err := corpus.Generate(opts)
	if err != nil {
		return "", 0, err
	}

	runID := uuid.NewString()

	// Subscribe before producing so no message is missed.
	msgs, err := p.broker.Subscribe(ctx, contracts.TopicCasesRaw, "dataset-"+runID)
	if err != nil {
		return runID, 0, fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicCasesRaw, err)
	}

	produceErr := make(chan error, 1)
	go func() {
		for _, c := range cases {
			data, err := json.Marshal(envelope{RunID: runID, Case: c})
			if err != nil {
				produceErr <- fmt.Errorf("failed to marshal case %s: %w", c.ID, err)
				return
			}
			if err := p.broker.Publish(ctx, contracts.TopicCasesRaw, c.ID, data); err != nil {
				produceErr <- fmt.Errorf("failed to publish case %s: %w", c.ID, err)
				return
			}
		}
		produceErr <- nil
	}()

	stored := 0
	pending := produceErr
	for stored < len(cases) {
		select {
		case <-ctx.Done():
			return runID, stored, ctx.Err()
		case err := <-pending:
			if err != nil {
				// A mid-run publish failure means the remaining cases will
				// never arrive; waiting on the topic would block forever.
				return runID, stored, err
			}
			// Producer finished cleanly; keep draining the topic.
			pending = nil
		case msg, ok := <-msgs:
			if !ok {
				return runID, stored, fmt.Errorf("broker closed before run %s completed", runID)
			}

			var env envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				return runID, stored, fmt.Errorf("failed to decode case message: %w", err)
			}
			if env.RunID != runID {
				continue
			}

			if err := p.store.SaveCase(ctx, env.Case); err != nil {
				return runID, stored, fmt.Errorf("failed to persist case %s: %w", env.Case.ID, err)
			}
			stored++
			p.log.Debug("stored case %s (%s), %d/%d", env.Case.ID, env.Case.ErrorFamily, stored, len(cases))
		}
	}

	if pending != nil {
		if err := <-pending; err != nil {
			return runID, stored, err
		}
	}

	p.log.Info("dataset run %s stored %d cases", runID, stored)
	return runID, stored, nil
}

// ExportCSV writes all stored cases to the corpus CSV at path and returns
// the number of rows written.
func (p *Dataset) ExportCSV(ctx context.Context, path string) (int, error) {
	cases, err := p.store.ListCases(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list cases: %w", err)
	}
	if err := corpus.SaveCSV(path, cases); err != nil {
		return 0, err
	}
	return len(cases), nil
}

// Close shuts down the transport and the store.
func (p *Dataset) Close() error {
	if err := p.broker.Close(); err != nil {
		return err
	}
	return p.store.Close()
}
