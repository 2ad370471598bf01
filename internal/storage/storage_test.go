package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the KV contract against any implementation.
func exercise(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "token", "abc"))
	v, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, kv.Set(ctx, "token", "def"))
	v, _, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, kv.Delete(ctx, "token"))
	_, ok, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "missing"))
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	exercise(t, NewFileStore(t.TempDir()))
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	first := NewFileStore(dir)
	require.NoError(t, first.Set(ctx, "user", `{"id":"1"}`))
	require.NoError(t, first.Set(ctx, "token", "abc"))

	second := NewFileStore(dir)
	v, ok, err := second.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, v)

	info, err := os.Stat(second.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	s := NewFileStore(dir)
	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "fresh"))
	v, _, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	rdb, err := NewRedisClient(context.Background(), url, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	exercise(t, NewRedisStore(rdb, "test-"+t.Name()))
}
