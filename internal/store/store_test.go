package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPreferenceStorage(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t.Run("missing key", func(t *testing.T) {
		v, found, err := s.Get(ctx, "user-theme-preference")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "user-theme-preference", "dark"))

		v, found, err := s.Get(ctx, "user-theme-preference")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "dark", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "user-theme-preference", "light"))

		v, _, err := s.Get(ctx, "user-theme-preference")
		require.NoError(t, err)
		assert.Equal(t, "light", v)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "another", "x"))

		entries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "another", entries[0].Key)
		assert.Equal(t, "user-theme-preference", entries[1].Key)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "user-theme-preference"))
		require.NoError(t, s.Delete(ctx, "user-theme-preference"))

		_, found, err := s.Get(ctx, "user-theme-preference")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestPreferenceStorage_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "system"))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	v, found, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "system", v)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	m.FailGets = true
	_, _, err = m.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrUnavailable))

	m.FailSets = true
	assert.True(t, errors.Is(m.Set(ctx, "k", "w"), ErrUnavailable))

	require.NoError(t, m.Delete(ctx, "k"))
	m.FailGets = false
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
