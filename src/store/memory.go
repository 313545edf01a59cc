// Package store provides an in-memory store implementation.
package store

import (
	"context"
	"sync"

	"debugassist/src/contracts"
)

// MemoryStore is a thread-safe in-memory implementation of CaseStore.
// Used for local mode, tests and the MCP server.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]contracts.Case
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]contracts.Case),
	}
}

// SaveCase upserts a single case. The first write for an id wins, which
// mirrors the Postgres ON CONFLICT DO NOTHING behavior.
func (s *MemoryStore) SaveCase(ctx context.Context, c contracts.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[c.ID]; exists {
		return nil
	}
	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)
	return nil
}

// ListCases returns all cases in insertion order.
func (s *MemoryStore) ListCases(ctx context.Context) ([]contracts.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.Case, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// GetCase retrieves a single case by id.
func (s *MemoryStore) GetCase(ctx context.Context, id string) (contracts.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return contracts.Case{}, ErrNotFound{CaseID: id}
	}
	return c, nil
}

// Count returns the number of stored cases.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// Close closes the store (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}
