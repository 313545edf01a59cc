// Package store defines the interface for persistent case storage.
package store

import (
	"context"
	"fmt"

	"debugassist/src/contracts"
)

// CaseStore persists labeled cases produced by the dataset pipeline and
// serves them back for training and retrieval-index builds.
type CaseStore interface {
	// SaveCase upserts a single labeled case. Saving an id twice keeps
	// the first version.
	SaveCase(ctx context.Context, c contracts.Case) error

	// ListCases returns all cases in insertion order.
	ListCases(ctx context.Context) ([]contracts.Case, error)

	// Count returns the number of stored cases.
	Count(ctx context.Context) (int, error)

	// Close closes the store connection.
	Close() error
}

// ErrNotFound indicates a requested case does not exist.
type ErrNotFound struct {
	CaseID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("case not found: %s", e.CaseID)
}
