package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"basket-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const catalogueKey = "catalogue:snapshot"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks that Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// GetCatalogue returns the cached catalogue snapshot, or nil if none is cached
func (c *Client) GetCatalogue(ctx context.Context) (*models.Catalogue, error) {
	data, err := c.rdb.Get(ctx, catalogueKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached catalogue: %w", err)
	}

	var cat models.Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode cached catalogue: %w", err)
	}
	return &cat, nil
}

// SetCatalogue caches a catalogue snapshot with TTL
func (c *Client) SetCatalogue(ctx context.Context, cat *models.Catalogue, ttl time.Duration) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode catalogue: %w", err)
	}
	return c.rdb.Set(ctx, catalogueKey, data, ttl).Err()
}

// InvalidateCatalogue drops the cached catalogue snapshot
func (c *Client) InvalidateCatalogue(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogueKey).Err()
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// AcquireLock acquires a distributed lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
