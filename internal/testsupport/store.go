package testsupport

import (
	"context"
	"testing"

	"encore/internal/config"
	"encore/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewRun creates a pending run for tests using the provided store.
func NewRun(t testing.TB, st *store.Store, sourcePath, title string) *store.Run {
	t.Helper()

	run, err := st.NewRun(context.Background(), sourcePath, title, "")
	if err != nil {
		t.Fatalf("store.NewRun: %v", err)
	}
	return run
}
