// Package cache keeps derived read models in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Shivanand-hulikatti/college-events/internal/config"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

const (
	keyPrefix     = "college-events:"
	categoriesKey = keyPrefix + "categories"
	opTimeout     = 2 * time.Second
)

// CategoryCache stores approved-event counts per category.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache connects to Redis and verifies the connection.
func NewCategoryCache(ctx context.Context, cfg config.CacheConfig) (*CategoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		MaxRetries:   1,
	})
	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return &CategoryCache{client: client, ttl: cfg.CategoryTTL}, nil
}

// Get returns the cached counts. A missing key is a miss, not an error.
func (c *CategoryCache) Get(ctx context.Context) ([]model.CategoryCount, bool, error) {
	raw, err := c.client.Get(ctx, categoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var counts []model.CategoryCount
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, fmt.Errorf("decode cached categories: %w", err)
	}
	return counts, true, nil
}

// Set stores counts for the configured TTL.
func (c *CategoryCache) Set(ctx context.Context, counts []model.CategoryCount) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := c.client.Set(ctx, categoriesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached counts.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *CategoryCache) Close() error {
	return c.client.Close()
}
