// Package testutil provides shared helpers for tests that need a real store.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/pym/internal/service"
	"github.com/Veraticus/pym/internal/storage"
)

// TestInstance is the instance id used by SetupTestStore.
const TestInstance = "test-instance"

// TestStore wraps an in-memory SQLite store with test helpers.
type TestStore struct {
	*storage.SQLiteStorage
	t *testing.T
}

var _ service.Store = (*TestStore)(nil)

// SetupTestStore creates a migrated in-memory SQLite store that is closed
// when the test ends.
//
// Example:
//
//	store := testutil.SetupTestStore(t)
//	mgr := history.NewManager(store)
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()
	return SetupTestStoreForInstance(t, TestInstance)
}

// SetupTestStoreForInstance is SetupTestStore with an explicit instance id.
func SetupTestStoreForInstance(t *testing.T, instance string) *TestStore {
	t.Helper()

	db, err := storage.NewSQLiteStorage(":memory:", instance)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return &TestStore{SQLiteStorage: db, t: t}
}

// MustSet stores a value or fails the test.
func (s *TestStore) MustSet(key, value string) {
	s.t.Helper()
	if err := s.Set(context.Background(), key, value); err != nil {
		s.t.Fatalf("failed to set %q: %v", key, err)
	}
}

// MustGet returns a stored value or fails the test when it is absent.
func (s *TestStore) MustGet(key string) string {
	s.t.Helper()
	value, ok, err := s.Get(context.Background(), key)
	if err != nil {
		s.t.Fatalf("failed to get %q: %v", key, err)
	}
	if !ok {
		s.t.Fatalf("key %q not present", key)
	}
	return value
}
