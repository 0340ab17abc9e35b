// Package limiter throttles inbound requests per client key (the client
// IP) with either a process-local or a Redis-shared budget.
package limiter

// Limiter is the interface that all rate limiters must implement
// This allows us to easily swap between in-memory and Redis implementations
type Limiter interface {
	// Allow reports whether one more request from key fits the budget
	Allow(key string) bool

	// Close cleans up any resources (Redis connections, etc.)
	Close() error
}
