package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewCache(mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestCacheSetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, hit := cache.Get(ctx, "dashboard:stats")
	assert.False(t, hit)

	cache.Set(ctx, "dashboard:stats", `{"totalCompanies":3}`)
	val, hit := cache.Get(ctx, "dashboard:stats")
	assert.True(t, hit)
	assert.Equal(t, `{"totalCompanies":3}`, val)
}

func TestCacheTTLExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "k", "v")
	mr.FastForward(2 * time.Minute)

	_, hit := cache.Get(ctx, "k")
	assert.False(t, hit)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "k", "v")
	cache.Invalidate(ctx, "k")

	_, hit := cache.Get(ctx, "k")
	assert.False(t, hit)
}

func TestNilCacheIsPermanentMiss(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	cache.Set(ctx, "k", "v")
	_, hit := cache.Get(ctx, "k")
	assert.False(t, hit)
	cache.Invalidate(ctx, "k")
	assert.NoError(t, cache.Close())
}

func TestNewCacheUnreachable(t *testing.T) {
	_, err := NewCache("127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}
