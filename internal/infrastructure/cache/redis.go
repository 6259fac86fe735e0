package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds connection settings for the Redis-backed cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	Database int
}

// RedisCache implements Cache on a shared Redis instance so that multiple
// service processes see the same extraction and classification results.
// Backend errors degrade to cache misses; the pipeline never fails because
// Redis is down.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis cache connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("database", cfg.Database))

	return &RedisCache{client: client, logger: logger.Named("redis-cache")}, nil
}

// Get retrieves a value, treating errors and missing keys as misses
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

// Set stores a value with a TTL; failures are logged and ignored
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a key; failures are logged and ignored
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
