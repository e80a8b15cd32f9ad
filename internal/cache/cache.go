// Package cache keeps reference data (courts, companies, ...) close to the
// console so dropdowns do not refetch on every form open.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const DefaultTTL = 5 * time.Minute

// Cache stores opaque values under string keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context) error
	Close() error
}

// New returns a Redis-backed cache when redisURL is set and reachable, and
// an in-memory cache otherwise.
func New(redisURL string, logger *zap.SugaredLogger) Cache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if redisURL == "" {
		return NewMemoryCache(0)
	}
	rc, err := NewRedisCache(redisURL, "", logger)
	if err != nil {
		logger.Infow("redis cache unavailable, using memory cache", "error", err)
		return NewMemoryCache(0)
	}
	return rc
}

// GetJSON decodes a cached JSON value into out.
func GetJSON(ctx context.Context, c Cache, key string, out interface{}) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON encodes v and stores it.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data, ttl)
}
