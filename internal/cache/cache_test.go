package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/evyataryagoni/locationsurvey/internal/models"
)

var frResult = models.GeoResult{
	CountryCode: "FR",
	IP:          "1.2.3.4",
	Status:      models.StatusSuccess,
	Provider:    "ipapi",
}

// TestMemoryCache_GetSet tests a basic round trip
func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "1.2.3.4"); ok {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set(ctx, "1.2.3.4", frResult); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := c.Get(ctx, "1.2.3.4")
	if !ok {
		t.Fatal("expected hit")
	}
	if *got != frResult {
		t.Errorf("expected %+v, got %+v", frResult, *got)
	}
}

// TestMemoryCache_Eviction tests the size bound
func TestMemoryCache_Eviction(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "1.1.1.1", frResult)
	c.Set(ctx, "2.2.2.2", frResult)
	c.Set(ctx, "3.3.3.3", frResult)

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get(ctx, "1.1.1.1"); ok {
		t.Error("expected oldest entry to be evicted")
	}
}

// TestMemoryCache_Expiry tests the TTL
func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(10, 50*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "1.2.3.4", frResult)
	time.Sleep(120 * time.Millisecond)

	if _, ok := c.Get(ctx, "1.2.3.4"); ok {
		t.Error("expected entry to expire")
	}
}

// TestRedisCache_GetSet tests the Redis round trip and TTL
func TestRedisCache_GetSet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	c, err := NewRedisCache(mr.Addr(), "", 0, time.Hour)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "1.2.3.4"); ok {
		t.Error("expected miss")
	}

	if err := c.Set(ctx, "1.2.3.4", frResult); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := c.Get(ctx, "1.2.3.4")
	if !ok || *got != frResult {
		t.Errorf("expected %+v, got %+v (ok=%v)", frResult, got, ok)
	}

	if ttl := mr.TTL("geo:1.2.3.4"); ttl != time.Hour {
		t.Errorf("expected 1h TTL, got %s", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok := c.Get(ctx, "1.2.3.4"); ok {
		t.Error("expected entry to expire")
	}
}

// TestRedisCache_CorruptValue tests that garbage is a miss
func TestRedisCache_CorruptValue(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0, time.Hour)
	defer c.Close()

	mr.Set("geo:1.2.3.4", "not-json")

	if _, ok := c.Get(context.Background(), "1.2.3.4"); ok {
		t.Error("expected corrupt value to be a miss")
	}
}

// TestRedisCache_ConnectionFailure tests connection errors
func TestRedisCache_ConnectionFailure(t *testing.T) {
	if _, err := NewRedisCache("invalid:9999", "", 0, time.Hour); err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestNew tests the factory
func TestNew(t *testing.T) {
	c, err := New(Config{Type: "none"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(Noop); !ok {
		t.Errorf("expected Noop, got %T", c)
	}

	c, err = New(Config{Type: "MEMORY", Size: 5, TTL: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}

	if _, err := New(Config{Type: "memcached"}); err == nil {
		t.Error("expected error for unknown type")
	}
}
