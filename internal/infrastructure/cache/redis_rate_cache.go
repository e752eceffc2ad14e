package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var _ repository.RateCache = (*RedisRateCache)(nil)

// DefaultKeyPrefix namespaces rate keys inside a shared Redis database
const DefaultKeyPrefix = "wex:rate:"

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisRateCache shares rates between service instances. First-writer-wins is
// enforced by SETNX, and keys are written without expiry.
type RedisRateCache struct {
	client *redis.Client
	prefix string
}

// NewRedisRateCache connects to Redis and verifies the connection with a ping
func NewRedisRateCache(ctx context.Context, cfg RedisConfig) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisRateCacheFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisRateCacheFromClient wraps an existing client
func NewRedisRateCacheFromClient(client *redis.Client, prefix string) *RedisRateCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRateCache{client: client, prefix: prefix}
}

func (c *RedisRateCache) key(k string) string {
	return c.prefix + k
}

// Get retrieves an exchange rate from Redis
func (c *RedisRateCache) Get(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	s, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse cached rate %q: %w", s, err)
	}
	return rate, true, nil
}

// PutIfAbsent stores rate under key unless the key already holds a value
func (c *RedisRateCache) PutIfAbsent(ctx context.Context, key string, rate decimal.Decimal) (bool, error) {
	stored, err := c.client.SetNX(ctx, c.key(key), rate.String(), 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return stored, nil
}

// Ping verifies connectivity to Redis
func (c *RedisRateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}
