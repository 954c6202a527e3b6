package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an empty in-memory registry: schema applied, base
// categories seeded, no items. It is closed when t finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	registry, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory registry: %v", err)
	}
	t.Cleanup(func() { registry.Close() })

	if err := EnsureSchema(registry); err != nil {
		t.Fatalf("preparing registry schema: %v", err)
	}
	return registry
}
