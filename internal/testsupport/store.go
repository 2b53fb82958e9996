package testsupport

import (
	"context"
	"testing"

	"dupecheck/internal/config"
	"dupecheck/internal/content"
	"dupecheck/internal/store"
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

// MustInsert stores item for tests using the provided store.
func MustInsert(t testing.TB, st *store.Store, item content.Item) *content.Item {
	t.Helper()

	stored, err := st.Insert(context.Background(), item)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return stored
}
