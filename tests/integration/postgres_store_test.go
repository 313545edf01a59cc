//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"debugassist/src/contracts"
	"debugassist/src/store"
)

func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ps, err := store.NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	defer ps.Close()

	ctx := context.Background()
	if err := ps.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	c := contracts.Case{
		ID:          "it-postgres-1",
		ErrorText:   "KeyError: 'user_id'",
		ErrorFamily: contracts.FamilyKeyError,
		FixText:     "Use dict.get with a default.",
	}
	if err := ps.SaveCase(ctx, c); err != nil {
		t.Fatalf("SaveCase failed: %v", err)
	}
	// Duplicate id must be a no-op, not an error.
	if err := ps.SaveCase(ctx, c); err != nil {
		t.Fatalf("duplicate SaveCase failed: %v", err)
	}

	got, err := ps.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCase failed: %v", err)
	}
	if got.ErrorFamily != c.ErrorFamily || got.FixText != c.FixText {
		t.Errorf("GetCase returned %+v, want %+v", got, c)
	}

	count, err := ps.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count == 0 {
		t.Error("expected at least one stored case")
	}

	t.Logf("store holds %d cases", count)
}
