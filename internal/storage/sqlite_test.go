package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/pym/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T, instance string) (*SQLiteStorage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath, instance)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store, dbPath
}

func TestNewSQLiteStorage_Validation(t *testing.T) {
	tests := []struct {
		name     string
		dbPath   string
		instance string
	}{
		{name: "empty path", dbPath: "", instance: "a"},
		{name: "blank instance", dbPath: ":memory:", instance: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLiteStorage(tt.dbPath, tt.instance)
			require.ErrorIs(t, err, ErrEmptyString)
		})
	}
}

func TestSQLiteStorage_GetSetRemove(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "ai_theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "ai_theme", "dark"))
	value, ok, err := store.Get(ctx, "ai_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)

	require.NoError(t, store.Set(ctx, "ai_theme", "typewriter"))
	value, _, err = store.Get(ctx, "ai_theme")
	require.NoError(t, err)
	assert.Equal(t, "typewriter", value)

	require.NoError(t, store.Remove(ctx, "ai_theme"))
	_, ok, err = store.Get(ctx, "ai_theme")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, store.Remove(ctx, "ai_theme"))
}

func TestSQLiteStorage_EmptyValueIsPresent(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ai_history", ""))
	value, ok, err := store.Get(ctx, "ai_history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestSQLiteStorage_InstanceScoping(t *testing.T) {
	first, dbPath := createTestStorage(t, "instance-a")
	ctx := context.Background()
	require.NoError(t, first.Set(ctx, "hf_token", "secret-a"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(dbPath, "instance-b")
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.NoError(t, second.Migrate(ctx))

	_, ok, err := second.Get(ctx, "hf_token")
	require.NoError(t, err)
	assert.False(t, ok, "instances must not see each other's keys")

	require.NoError(t, second.Set(ctx, "hf_token", "secret-b"))

	instances, err := second.Instances(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"instance-a", "instance-b"}, instances)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	store, dbPath := createTestStorage(t, "instance-1")
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "selected_model", "openai/gpt-4-turbo"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath, "instance-1")
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	value, ok, err := reopened.Get(ctx, "selected_model")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "openai/gpt-4-turbo", value)
}

func TestSQLiteStorage_Keys(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	ctx := context.Background()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, k := range []string{"selected_model", "ai_theme", "ai_history"} {
		require.NoError(t, store.Set(ctx, k, "v"))
	}

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai_history", "ai_theme", "selected_model"}, keys)
}

func TestSQLiteStorage_KeyValidation(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	ctx := context.Background()

	err := store.Set(ctx, "", "v")
	require.ErrorIs(t, err, ErrEmptyString)

	err = store.Set(ctx, strings.Repeat("k", MaxKeyLength+1), "v")
	require.ErrorIs(t, err, ErrKeyTooLong)

	//nolint:staticcheck // exercising nil context handling
	_, _, err = store.Get(nil, "ai_theme")
	require.ErrorIs(t, err, ErrNilContext)
}

func TestSQLiteStorage_ClosedDatabaseIsPersistenceError(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	require.NoError(t, store.Close())

	err := store.Set(context.Background(), "ai_theme", "dark")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPersistence))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	store, _ := createTestStorage(t, "instance-1")
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:", "instance-1")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Set(ctx, "ai_theme", "dark"))

	value, ok, err := store.Get(ctx, "ai_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}
