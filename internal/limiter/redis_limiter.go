package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the window counter and sets its expiry on the
// first hit, atomically
var fixedWindow = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter implements distributed rate limiting using Redis
// Suitable for multi-server deployments where the budget is shared
//
// Algorithm: fixed window counter
// Key format: "ratelimit:{key}:{window number}"
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a new Redis-based rate limiter
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - limit: requests allowed per window per client (minimum 1)
//   - window: window length, rounded up to whole seconds (minimum 1s)
func NewRedisLimiter(addr, password string, db int, limit int, window time.Duration) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	if limit < 1 {
		limit = 1
	}
	if window < time.Second {
		window = time.Second
	}
	window = window.Round(time.Second)

	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}, nil
}

// Allow checks if a request from the given key should be allowed
// On Redis errors the request is allowed (fail open)
func (rl *RedisLimiter) Allow(key string) bool {
	seconds := int64(rl.window / time.Second)
	windowNumber := rl.now().Unix() / seconds
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowNumber)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Expire after two windows so clock skew between instances is harmless
	count, err := fixedWindow.Run(ctx, rl.client, []string{redisKey}, seconds*2).Int64()
	if err != nil {
		return true
	}

	return count <= rl.limit
}

// Close closes the Redis connection and cleans up resources
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
