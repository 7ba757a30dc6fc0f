package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumiere/backend/internal/domain/sizing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSizingCache implements sizing.ResultCache on Redis. Suitable for
// distributed deployments where multiple instances share cached
// conversions and sister lookups.
type RedisSizingCache struct {
	client *redis.Client
	logger *zap.Logger
}

// RedisOptions holds Redis connection configuration.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRedisSizingCache connects to Redis and verifies the connection.
func NewRedisSizingCache(opts RedisOptions, log *zap.Logger) (*RedisSizingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSizingCache{client: client, logger: log}, nil
}

// NewRedisSizingCacheWithClient wraps an existing client. Useful for
// testing or when sharing a client across components.
func NewRedisSizingCacheWithClient(client *redis.Client, log *zap.Logger) *RedisSizingCache {
	return &RedisSizingCache{client: client, logger: log}
}

func (c *RedisSizingCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed, treating as miss",
				zap.String("key", key),
				zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("cache entry corrupt, dropping",
			zap.String("key", key),
			zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}

	return true
}

func (c *RedisSizingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache set skipped, value not serializable",
			zap.String("key", key),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Invalidate scans for keys under prefix and deletes them in batches.
func (c *RedisSizingCache) Invalidate(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			c.client.Del(ctx, keys...)
			keys = keys[:0]
		}
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}

	if err := iter.Err(); err != nil {
		c.logger.Warn("cache invalidation scan failed",
			zap.String("prefix", prefix),
			zap.Error(err))
	}
}

func (c *RedisSizingCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring).
func (c *RedisSizingCache) GetClient() *redis.Client {
	return c.client
}

var _ sizing.ResultCache = (*RedisSizingCache)(nil)
