package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient connects to GO_INGEST_TEST_REDIS_HOST, skipping when it is unset.
func testClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis tests skipped in short mode")
	}
	host := os.Getenv("GO_INGEST_TEST_REDIS_HOST")
	if host == "" {
		t.Skip("GO_INGEST_TEST_REDIS_HOST not set")
	}

	cfg := NewRedisConfig()
	cfg.Host = host
	client, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))
	return client
}

func TestConfigValidate(t *testing.T) {
	cfg := NewRedisConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:6379", cfg.Addr())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = NewRedisConfig()
	cfg.Host = ""
	_, err := NewClient(cfg)
	assert.Error(t, err)
}

func TestCacheKeyAndTTL(t *testing.T) {
	cfg := NewRedisConfig().WithCacheTTL("cities", time.Minute)
	client, err := NewClient(cfg)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	named := NewCache(client, NewCacheOptions().WithCacheName("cities"))
	assert.Equal(t, "cities::berlin", named.buildCacheKey("berlin"))
	assert.Equal(t, time.Minute, named.getTTL())

	fallback := NewCache(client, NewCacheOptions().WithCacheName("other"))
	assert.Equal(t, 24*time.Hour, fallback.getTTL())

	plain := NewCache(client, NewCacheOptions().WithTTL(time.Second))
	assert.Equal(t, "berlin", plain.buildCacheKey("berlin"))
	assert.Equal(t, time.Second, plain.getTTL())
}

func TestCache_RoundTrip(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	cache := NewCache(client, NewCacheOptions().WithCacheName("test-"+uuid.NewString()))

	type city struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
	}

	var got city
	found, err := cache.Get(ctx, "berlin", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "berlin", city{Name: "Berlin", Lat: 52.52}))
	found, err = cache.Get(ctx, "berlin", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, city{Name: "Berlin", Lat: 52.52}, got)

	require.NoError(t, cache.Delete(ctx, "berlin"))
}

func TestLock_Exclusive(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	key := "lock-" + uuid.NewString()
	opts := &LockOptions{TTL: 5 * time.Second, RetryDelay: 10 * time.Millisecond, MaxRetries: 1, RefreshInterval: time.Second}

	first := NewLock(client, key, opts)
	second := NewLock(client, key, opts)

	require.NoError(t, first.Lock(ctx))
	err := second.Lock(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockNotAcquired))

	require.NoError(t, first.Refresh(ctx))
	require.NoError(t, first.Unlock(ctx))
	require.NoError(t, second.Lock(ctx))
	require.NoError(t, second.Unlock(ctx))
}
