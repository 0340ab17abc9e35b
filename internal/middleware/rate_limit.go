package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/evyataryagoni/locationsurvey/internal/limiter"
)

// RateLimitMiddleware enforces rate limiting per client IP (returns 429 when exceeded)
func RateLimitMiddleware(lim limiter.Limiter) func(http.Handler) http.Handler {
	return RateLimitMiddlewareWithResponse(lim, tooManyRequests)
}

// RateLimitMiddlewareWithResponse enforces rate limiting per client IP and
// lets the endpoint answer over-budget callers with limited
func RateLimitMiddlewareWithResponse(lim limiter.Limiter, limited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow(clientKey(r)) {
				limited(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Rate limit exceeded. Please try again later.",
	})
}

// clientKey is the connection's host. Forwarding headers are only honored
// when the router runs chi's RealIP, which rewrites RemoteAddr behind a
// trusted proxy; otherwise a client could rotate them to dodge the limit.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
