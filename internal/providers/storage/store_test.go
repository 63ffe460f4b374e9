package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Files map[string]string `json:"files"`
	Score int               `json:"score"`
}

func backends(t *testing.T) map[string]Backend {
	dir := t.TempDir()

	file, err := NewFileBackend(filepath.Join(dir, "files"))
	require.NoError(t, err)

	lite, err := NewSQLiteBackend(filepath.Join(dir, "db", "kv.sqlite"))
	require.NoError(t, err)

	return map[string]Backend{
		"file":   file,
		"sqlite": lite,
		"memory": NewMemoryBackend(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			defer store.Close()

			in := record{Files: map[string]string{"/notes.txt": "x\ny"}, Score: 40}
			require.NoError(t, store.Set(ctx, "client-a", "vfs.created_files", in))

			var out record
			require.NoError(t, store.Get(ctx, "client-a", "vfs.created_files", &out))
			assert.Equal(t, in, out)

			// fresh store over the same backend reads from disk, not cache
			var again record
			require.NoError(t, New(backend).Get(ctx, "client-a", "vfs.created_files", &again))
			assert.Equal(t, in, again)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			defer store.Close()

			var score int
			err := store.Get(ctx, "client-a", "arcade.high_score", &score)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStoreOverwriteAndNamespaces(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			defer store.Close()

			require.NoError(t, store.Set(ctx, "a", "arcade.high_score", 10))
			require.NoError(t, store.Set(ctx, "a", "arcade.high_score", 30))
			require.NoError(t, store.Set(ctx, "b", "arcade.high_score", 5))

			var a, b int
			require.NoError(t, New(backend).Get(ctx, "a", "arcade.high_score", &a))
			require.NoError(t, New(backend).Get(ctx, "b", "arcade.high_score", &b))
			assert.Equal(t, 30, a)
			assert.Equal(t, 5, b)
		})
	}
}

func TestFileBackendStaysInRoot(t *testing.T) {
	root := t.TempDir()
	backend, err := NewFileBackend(root)
	require.NoError(t, err)

	require.NoError(t, backend.Write(context.Background(), "../escape", "../../key", []byte(`1`)))

	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "escape", e.Name())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, driver := range []string{"file", "sqlite", "memory"} {
		store, err := Open(driver, filepath.Join(dir, driver))
		require.NoError(t, err, driver)
		require.NoError(t, store.Close())
	}

	_, err := Open("redis", dir)
	assert.Error(t, err)
}

func TestCorruptValue(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Write(context.Background(), "a", "k", []byte("{not json")))

	var ops []string
	store := New(backend)
	store.OnError = func(op string, _ error) { ops = append(ops, op) }

	var out record
	err := store.Get(context.Background(), "a", "k", &out)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.ErrorIs(t, store.Get(context.Background(), "a", "missing", &out), ErrNotFound)
	assert.Equal(t, []string{"decode"}, ops, "missing keys are not reported")
}
