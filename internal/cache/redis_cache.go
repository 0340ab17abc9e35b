package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares detection results between server instances
//
// Redis Key Format: geo:<ip>
// Value: JSON-encoded GeoResult, expiring after the TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func key(ip string) string {
	return "geo:" + ip
}

// Get treats every Redis failure as a miss
func (c *RedisCache) Get(ctx context.Context, ip string) (*models.GeoResult, bool) {
	val, err := c.client.Get(ctx, key(ip)).Bytes()
	if err != nil {
		return nil, false
	}

	var result models.GeoResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false
	}

	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, ip string, result models.GeoResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := c.client.Set(ctx, key(ip), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	return nil
}

func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
