// Package cache stores rewritten explanation blocks so identical analyses skip the LLM.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/hiring-funnel/internal/config"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by RedisStore.
const KeyPrefix = "funnel:rewrite:"

// ErrMiss is returned by Get when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a string key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.CacheConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: rdb, ttl: cfg.TTL}, nil
}

// Get retrieves a value, returning ErrMiss when the key does not exist.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores a value with the configured TTL. A zero TTL never expires.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// NopStore never stores anything.
type NopStore struct{}

// Get always misses.
func (NopStore) Get(context.Context, string) (string, error) { return "", ErrMiss }

// Set discards the value.
func (NopStore) Set(context.Context, string, string) error { return nil }

// Close does nothing.
func (NopStore) Close() error { return nil }

// New returns a RedisStore when caching is enabled and a NopStore otherwise.
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return NopStore{}, nil
	}
	return NewRedisStore(ctx, cfg)
}
