package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
	"github.com/Veraticus/pym/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadDefaults(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())

	prefs, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), prefs)
	assert.False(t, prefs.HasCredential())
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(store)

	theme, err := m.SetTheme(ctx, " Dark ")
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)
	require.NoError(t, m.SetModel(ctx, "openai/gpt-4-turbo"))
	require.NoError(t, m.SetCredential(ctx, "  sk-or-123456  "))

	prefs, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, prefs.Theme)
	assert.Equal(t, "openai/gpt-4-turbo", prefs.ModelID)
	assert.Equal(t, "sk-or-123456", prefs.Credential)
	assert.True(t, prefs.HasCredential())
	assert.Equal(t, "********3456", prefs.MaskedCredential())

	raw, ok, err := store.Get(ctx, service.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", raw)
}

func TestManager_BlankCredentialRemovesKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(store)

	require.NoError(t, m.SetCredential(ctx, "secret"))
	require.NoError(t, m.SetCredential(ctx, "   "))

	_, ok, err := store.Get(ctx, service.KeyCredential)
	require.NoError(t, err)
	assert.False(t, ok)

	credential, err := m.Credential(ctx)
	require.NoError(t, err)
	assert.Empty(t, credential)
}

func TestManager_Validation(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore())

	_, err := m.SetTheme(ctx, "neon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidConfig))

	err = m.SetModel(ctx, "  ")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestManager_LoadIgnoresUnknownTheme(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, service.KeyTheme, "hotdog"))

	prefs, err := NewManager(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTheme, prefs.Theme)
}

func TestParseTheme(t *testing.T) {
	for _, theme := range model.Themes() {
		parsed, err := ParseTheme(string(theme))
		require.NoError(t, err)
		assert.Equal(t, theme, parsed)
	}
}
