package cache

import (
	"context"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a size bounded LRU whose entries expire after a TTL
type MemoryCache struct {
	lru *expirable.LRU[string, models.GeoResult]
}

// NewMemoryCache creates an in-process cache. size <= 0 means 1024.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}

	return &MemoryCache{
		lru: expirable.NewLRU[string, models.GeoResult](size, nil, ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, ip string) (*models.GeoResult, bool) {
	result, ok := c.lru.Get(ip)
	if !ok {
		return nil, false
	}
	return &result, true
}

func (c *MemoryCache) Set(_ context.Context, ip string, result models.GeoResult) error {
	c.lru.Add(ip, result)
	return nil
}

// Len returns the number of live entries
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
