package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// ErrCacheMiss is returned when a key is absent
var ErrCacheMiss = errors.New("cache miss")

// NewClient creates a Redis client from configuration and verifies connectivity
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Cache is a small JSON-over-Redis helper used for analytics snapshots
// and other derived data that tolerates eventual recomputation.
type Cache struct {
	client *redis.Client
}

// NewCache wraps an existing Redis client
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the value at key into dest. Returns ErrCacheMiss when absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// Set marshals value as JSON and stores it with the given TTL
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes one or more keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Counter implements a fixed-window counter for rate limiting.
// The first increment in a window sets the expiry so stale keys clean
// themselves up.
type Counter struct {
	client *redis.Client
	prefix string
}

// NewCounter creates a counter namespaced under prefix
func NewCounter(client *redis.Client, prefix string) *Counter {
	return &Counter{client: client, prefix: prefix}
}

// Increment bumps the counter for key in the current window and returns
// the new count.
func (c *Counter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowKey := fmt.Sprintf("%s%s:%d", c.prefix, key, time.Now().UnixNano()/int64(window))

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate counter incr %s: %w", key, err)
	}
	return incr.Val(), nil
}
