package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kiruna/internal/config"
)

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNew_DisabledWithoutURL(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	c, err := New(context.Background(), config.RedisConfig{}, zap.New(core))
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)
	assert.Equal(t, 1, logs.FilterMessage("cache_disabled").Len())
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://nope"}, zap.NewNop())
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	require.NoError(t, c.Set(ctx, KeyGraph, entry{ID: "1"}))
	var got entry
	found, err := c.Get(ctx, KeyGraph, &got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, KeyGraph))
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	c := NewRedis(client, time.Minute, zap.New(core))
	ctx := context.Background()

	var got []entry
	found, err := c.Get(ctx, KeyStakeholders, &got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(ctx, KeyStakeholders, []entry{{ID: "1"}}))
	assert.NoError(t, c.Delete(ctx, KeyStakeholders))

	assert.Equal(t, 1, logs.FilterMessage("cache_get_failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache_set_failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache_delete_failed").Len())
}

func TestRedisCache_RoundTrip(t *testing.T) {
	client := getTestRedisClient(t)
	c := NewRedis(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	key := "test:" + KeyDocumentTypes
	t.Cleanup(func() { client.Del(context.Background(), key) })

	want := []entry{{ID: "1", Name: "Agreement"}, {ID: "2", Name: "Conflict"}}
	require.NoError(t, c.Set(ctx, key, want))

	var got []entry
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, key))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
