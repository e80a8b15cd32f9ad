package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultPrefix = "docket:cache:"

// RedisCache shares reference data between consoles on the same Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.SugaredLogger
}

func NewRedisCache(redisURL, prefix string, logger *zap.SugaredLogger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RedisCache{client: c, prefix: prefix, logger: logger}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, rc.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			rc.logger.Debugw("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := rc.client.Set(ctx, rc.prefix+key, value, ttl).Err(); err != nil {
		rc.logger.Debugw("redis cache set failed", "key", key, "error", err)
	}
}

func (rc *RedisCache) Delete(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, rc.prefix+key).Err(); err != nil {
		rc.logger.Debugw("redis cache delete failed", "key", key, "error", err)
	}
}

// Clear removes every key under the cache prefix.
func (rc *RedisCache) Clear(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, rc.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
