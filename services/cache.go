package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small cache-aside layer over redis for expensive read paths
// (dashboard stats). A nil *Cache is valid and behaves as a permanent miss,
// so callers never need to branch on whether redis is configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache connects to redis at addr. Returns an error if the server is
// unreachable.
func NewCache(addr string, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Get returns the cached value for key, or ("", false) on a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key with the cache TTL. Errors are swallowed; the
// cache is best-effort.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, key, value, c.ttl)
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
