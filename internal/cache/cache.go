// Package cache keeps successful country detections so repeated form
// loads from the same address do not spend provider quota.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
)

// GeoCache stores detection results keyed by the normalized IP.
type GeoCache interface {
	Get(ctx context.Context, ip string) (*models.GeoResult, bool)
	Set(ctx context.Context, ip string, result models.GeoResult) error
	Close() error
}

// Config holds configuration for creating a cache
type Config struct {
	Type string // "none", "memory" or "redis"
	Size int
	TTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates a cache based on the configuration
func New(cfg Config) (GeoCache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "none", "":
		return Noop{}, nil

	case "memory":
		return NewMemoryCache(cfg.Size, cfg.TTL), nil

	case "redis":
		c, err := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: 'none', 'memory', 'redis')", cfg.Type)
	}
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.GeoResult, bool) { return nil, false }

func (Noop) Set(context.Context, string, models.GeoResult) error { return nil }

func (Noop) Close() error { return nil }
