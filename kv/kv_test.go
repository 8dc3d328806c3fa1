package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "data", "kv.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	mr := miniredis.RunT(t)
	rdb := NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:", 0)
	t.Cleanup(func() { rdb.Close() })

	return map[string]Backend{
		"memory": NewMemory(0),
		"sqlite": sqlite,
		"redis":  rdb,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Get(ctx, "posts")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Put(ctx, "posts", []byte(`[{"id":1}]`)))
			got, err := b.Get(ctx, "posts")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":1}]`, string(got))

			require.NoError(t, b.Put(ctx, "posts", []byte(`[]`)))
			got, err = b.Get(ctx, "posts")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, b.Delete(ctx, "posts"))
			_, err = b.Get(ctx, "posts")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing key is not an error.
			assert.NoError(t, b.Delete(ctx, "posts"))
		})
	}
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	require.NoError(t, m.Put(ctx, "a", []byte("12345")))
	require.NoError(t, m.Put(ctx, "b", []byte("12345")))
	assert.ErrorIs(t, m.Put(ctx, "c", []byte("1")), ErrQuotaExceeded)

	// The failed write leaves existing values untouched.
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "12345", string(got))

	// Overwriting a key only counts the difference.
	require.NoError(t, m.Put(ctx, "a", []byte("1234")))
	require.NoError(t, m.Delete(ctx, "b"))
	require.NoError(t, m.Put(ctx, "c", []byte("123456")))
}

func TestSQLiteMaxValue(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"), 4)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "k", []byte("1234")))
	assert.ErrorIs(t, s.Put(ctx, "k", []byte("12345")), ErrQuotaExceeded)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1234", string(got))
}

func TestRedisPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	r := NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "", 0)
	defer r.Close()

	require.NoError(t, r.Put(ctx, "site_stats", []byte(`{"totalViewers":3}`)))
	assert.True(t, mr.Exists("pressroom:site_stats"))
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(RedisOptions{Addr: addr})
	assert.Error(t, err)
}
