package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis test in short mode")
	}

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available, skipping: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestRedisRateCache(t *testing.T) {
	client := newTestRedisClient(t)
	cache := NewRedisRateCacheFromClient(client, "test:rate:")
	ctx := context.Background()
	key := BuildKey("Brazil-Real", time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC))

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	stored, err := cache.PutIfAbsent(ctx, key, decimal.RequireFromString("5.432"))
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = cache.PutIfAbsent(ctx, key, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	assert.False(t, stored)

	rate, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5.432", rate.String())

	ttl, err := client.TTL(ctx, "test:rate:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "rate keys must not expire")

	assert.NoError(t, cache.Ping(ctx))
}

func TestRedisRateCacheCorruptValue(t *testing.T) {
	client := newTestRedisClient(t)
	cache := NewRedisRateCacheFromClient(client, "")
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, DefaultKeyPrefix+"Bad-Value::2024-01-01", "not-a-number", 0).Err())

	_, found, err := cache.Get(ctx, "Bad-Value::2024-01-01")
	assert.Error(t, err)
	assert.False(t, found)
}
