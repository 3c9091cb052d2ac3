package kvstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/simplemath/internal/kvstore"
)

func openAll(t *testing.T) map[string]kvstore.Store {
	t.Helper()
	out := map[string]kvstore.Store{}
	for _, backend := range []string{kvstore.BackendFile, kvstore.BackendBolt, kvstore.BackendSQLite, kvstore.BackendMemory} {
		s, err := kvstore.Open(backend, t.TempDir())
		require.NoError(t, err, backend)
		t.Cleanup(func() { _ = s.Close() })
		out[backend] = s
	}
	return out
}

func TestStore_SetGetDelete(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("missing")
			assert.True(t, errors.Is(err, kvstore.ErrNotFound), "got %v", err)

			require.NoError(t, s.Set("simplemath_conversations", `[{"id":"a"}]`))
			got, err := s.Get("simplemath_conversations")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, got)

			// Whole-value overwrite
			require.NoError(t, s.Set("simplemath_conversations", `[]`))
			got, err = s.Get("simplemath_conversations")
			require.NoError(t, err)
			assert.Equal(t, `[]`, got)

			require.NoError(t, s.Delete("simplemath_conversations"))
			_, err = s.Get("simplemath_conversations")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)

			// Deleting an absent key is not an error
			assert.NoError(t, s.Delete("simplemath_conversations"))
		})
	}
}

func TestStore_RejectsUnsafeKeys(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Set("../escape", "x"))
			_, err := s.Get("a/b")
			assert.Error(t, err)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := kvstore.Open("redis", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, kvstore.NewFileStore(dir).Set("k", "v"))

	_, err := os.Stat(filepath.Join(dir, "k.json"))
	require.NoError(t, err)

	got, err := kvstore.NewFileStore(dir).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.bolt")
	s, err := kvstore.OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = kvstore.OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
