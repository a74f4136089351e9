// Package cache provides cache-aside storage for read-mostly projections:
// the reference lists and the timeline graph.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kiruna/internal/config"
)

const (
	KeyStakeholders  = "stakeholders:all"
	KeyDocumentTypes = "document-types:all"
	KeyGraph         = "graph:timeline"

	defaultTTL = 5 * time.Minute
)

// Cache stores JSON-encoded values under string keys. Implementations treat
// backend failures as misses; callers always have the database to fall back on.
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// New returns a Redis cache, or a no-op cache when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (Cache, error) {
	if cfg.URL == "" {
		log.Info("cache_disabled", zap.String("reason", "REDIS_URL is empty"))
		return Noop{}, nil
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info("cache_connected", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return NewRedis(client, cfg.TTL, log), nil
}

// RedisCache implements Cache on go-redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.log.Warn("cache_get_failed", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache_decode_failed", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	c.log.Debug("cache_hit", zap.String("key", key))
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache_set_failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		// A stale entry expires with its TTL.
		c.log.Warn("cache_delete_failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Delete(context.Context, ...string) error        { return nil }
func (Noop) Close() error                                   { return nil }
