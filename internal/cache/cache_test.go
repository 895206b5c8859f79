package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonathan/hiring-funnel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedisStore(context.Background(), config.CacheConfig{Enabled: true, Addr: mr.Addr(), TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStore_SetGet(t *testing.T) {
	mr, store := setupRedis(t, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "abc", `{"summary":"ok"}`))
	val, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, val)

	assert.True(t, mr.Exists(KeyPrefix+"abc"))
	assert.Equal(t, time.Hour, mr.TTL(KeyPrefix+"abc"))
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, store := setupRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), config.CacheConfig{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestNew_Disabled(t *testing.T) {
	store, err := New(context.Background(), config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, store)

	require.NoError(t, store.Set(context.Background(), "k", "v"))
	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, store.Close())
}
