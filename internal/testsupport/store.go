package testsupport

import (
	"context"
	"testing"

	"beacon/internal/config"
	"beacon/internal/progress"
	"beacon/internal/progressstore"
)

// MustOpenStore opens a progressstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *progressstore.Store {
	t.Helper()

	store, err := progressstore.Open(cfg)
	if err != nil {
		t.Fatalf("progressstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Record writes a transition and fails the test on error.
func Record(t testing.TB, store *progressstore.Store, action string, state progress.State, err error) progressstore.Event {
	t.Helper()

	var msg string
	if err != nil {
		msg = err.Error()
	}
	event, recErr := store.Record(context.Background(), action, state, msg)
	if recErr != nil {
		t.Fatalf("store.Record: %v", recErr)
	}
	return event
}
