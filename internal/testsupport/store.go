package testsupport

import (
	"context"
	"testing"

	"stashdup/internal/config"
	"stashdup/internal/dupe"
	"stashdup/internal/scanstore"
)

// MustOpenStore opens a scanstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *scanstore.Store {
	t.Helper()

	store, err := scanstore.Open(cfg)
	if err != nil {
		t.Fatalf("scanstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SavePass persists a report for tests using the provided store.
func SavePass(t testing.TB, store *scanstore.Store, report *dupe.Report) {
	t.Helper()

	if err := store.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("store.SaveReport: %v", err)
	}
}
