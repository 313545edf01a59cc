package store

import (
	"context"
	"os"
	"sync"

	"debugassist/src/contracts"
	"debugassist/src/corpus"
)

// CSVStore is a CaseStore backed by the corpus CSV file. Existing rows are
// loaded on open; writes are buffered and flushed to disk on Close. This is
// the local single-user backend; Postgres serves shared corpora.
type CSVStore struct {
	mu    sync.Mutex
	path  string
	order []string
	byID  map[string]contracts.Case
	dirty bool
}

// NewCSVStore opens a store over the CSV at path. A missing file starts an
// empty store; a malformed file is an error.
func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{
		path: path,
		byID: make(map[string]contracts.Case),
	}

	if _, err := os.Stat(path); err == nil {
		cases, err := corpus.LoadCSV(path)
		if err != nil {
			return nil, err
		}
		for _, c := range cases {
			s.order = append(s.order, c.ID)
			s.byID[c.ID] = c
		}
	}

	return s, nil
}

// SaveCase buffers a case for the next flush. A duplicate id is a no-op, so
// replayed pipeline messages stay idempotent.
func (s *CSVStore) SaveCase(ctx context.Context, c contracts.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.ID]; ok {
		return nil
	}
	s.order = append(s.order, c.ID)
	s.byID[c.ID] = c
	s.dirty = true
	return nil
}

// ListCases returns all cases in insertion order.
func (s *CSVStore) ListCases(ctx context.Context) ([]contracts.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contracts.Case, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// GetCase returns one case by id.
func (s *CSVStore) GetCase(ctx context.Context, id string) (contracts.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return contracts.Case{}, ErrNotFound{CaseID: id}
	}
	return c, nil
}

// Count returns the number of stored cases.
func (s *CSVStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order), nil
}

// Flush writes the current contents to the CSV file.
func (s *CSVStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *CSVStore) flushLocked() error {
	cases := make([]contracts.Case, 0, len(s.order))
	for _, id := range s.order {
		cases = append(cases, s.byID[id])
	}
	if err := corpus.SaveCSV(s.path, cases); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close flushes pending writes.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	return s.flushLocked()
}
