package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long an untouched client entry is kept
const idleAfter = 5 * time.Minute

type client struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per client key
// Suitable for single-server deployments
//
// A budget of limit requests per window refills continuously
// (one token every window/limit) and allows a burst of limit.
type MemoryLimiter struct {
	clients sync.Map // map[string]*client
	every   rate.Limit
	burst   int

	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter creates a new in-memory rate limiter
//
// Parameters:
//   - limit: requests allowed per window per client (minimum 1)
//   - window: budget window (defaults to one second)
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	return &MemoryLimiter{
		every:       rate.Every(window / time.Duration(limit)),
		burst:       limit,
		lastCleanup: time.Now(),
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *MemoryLimiter) Allow(key string) bool {
	c := rl.getClient(key)

	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()

	allowed := c.limiter.Allow()

	// Periodically clean up old entries (prevent memory leak)
	rl.maybeCleanup()

	return allowed
}

// getClient gets or creates the bucket of a key
// LoadOrStore handles concurrent first requests
func (rl *MemoryLimiter) getClient(key string) *client {
	if value, ok := rl.clients.Load(key); ok {
		return value.(*client)
	}

	c := &client{limiter: rate.NewLimiter(rl.every, rl.burst)}
	actual, _ := rl.clients.LoadOrStore(key, c)
	return actual.(*client)
}

// maybeCleanup removes entries idle for idleAfter, at most once per idleAfter
func (rl *MemoryLimiter) maybeCleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if time.Since(rl.lastCleanup) < idleAfter {
		return
	}

	threshold := time.Now().Add(-idleAfter)

	rl.clients.Range(func(key, value interface{}) bool {
		c := value.(*client)
		c.mu.Lock()
		lastSeen := c.lastSeen
		c.mu.Unlock()

		if lastSeen.Before(threshold) {
			rl.clients.Delete(key)
		}
		return true
	})

	rl.lastCleanup = time.Now()
}

// Len returns the number of tracked clients
func (rl *MemoryLimiter) Len() int {
	n := 0
	rl.clients.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Close cleans up resources for the in-memory limiter
// There's nothing to clean up; it exists to satisfy the Limiter interface
func (rl *MemoryLimiter) Close() error {
	return nil
}
