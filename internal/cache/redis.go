// Package cache memoises generation results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const keyPrefix = "slip_engine:generation:"

// ErrCacheMiss is returned when no result is stored for a request hash.
var ErrCacheMiss = errors.New("generation result not cached")

// GenerationCache stores generation results by request hash.
type GenerationCache interface {
	Get(ctx context.Context, requestHash string) (*models.GenerationResult, error)
	Set(ctx context.Context, requestHash string, result models.GenerationResult) error
}

// RedisGenerationCache is a GenerationCache backed by Redis string keys with a TTL.
type RedisGenerationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGenerationCache connects to Redis and verifies the connection.
func NewRedisGenerationCache(ctx context.Context, cfg *config.RedisConfig) (*RedisGenerationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisGenerationCacheFromClient(client, time.Duration(cfg.TTLSeconds)*time.Second), nil
}

// NewRedisGenerationCacheFromClient wraps an existing client.
func NewRedisGenerationCacheFromClient(client *redis.Client, ttl time.Duration) *RedisGenerationCache {
	return &RedisGenerationCache{client: client, ttl: ttl}
}

// Key returns the Redis key for a request hash.
func Key(requestHash string) string {
	return keyPrefix + requestHash
}

// Get returns the cached result, or ErrCacheMiss.
func (c *RedisGenerationCache) Get(ctx context.Context, requestHash string) (*models.GenerationResult, error) {
	data, err := c.client.Get(ctx, Key(requestHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached generation: %w", err)
	}

	var result models.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached generation: %w", err)
	}
	return &result, nil
}

// Set stores a result for the configured TTL.
func (c *RedisGenerationCache) Set(ctx context.Context, requestHash string, result models.GenerationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal generation: %w", err)
	}
	if err := c.client.Set(ctx, Key(requestHash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache generation: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisGenerationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisGenerationCache) Close() error {
	return c.client.Close()
}
