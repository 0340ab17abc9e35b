// Package clientip extracts and normalizes the caller's address from
// forwarding headers.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// FromRequest returns the first X-Forwarded-For entry, else X-Real-IP,
// else an empty string. RemoteAddr is deliberately ignored: behind a
// proxy it is the proxy, and locally it is loopback either way.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	return strings.TrimSpace(r.Header.Get(HeaderRealIP))
}

// Normalize reduces a candidate to a bare address and substitutes
// defaultIP for empty and loopback candidates. Unparseable input is
// returned as-is and left for the provider to reject.
func Normalize(candidate, defaultIP string) string {
	ip := stripPort(strings.TrimSpace(candidate))

	if ip == "" || IsLoopback(ip) {
		return defaultIP
	}

	return ip
}

// IsLoopback reports whether ip is a loopback literal, including the
// IPv4-mapped IPv6 form (::ffff:127.0.0.1).
func IsLoopback(ip string) bool {
	switch ip {
	case "127.0.0.1", "::1":
		return true
	}

	if strings.HasPrefix(strings.ToLower(ip), "::ffff:127.") {
		return true
	}

	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}

// stripPort turns "1.2.3.4:80" and "[::1]:80" into bare addresses.
func stripPort(ip string) string {
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}

	return strings.TrimSuffix(strings.TrimPrefix(ip, "["), "]")
}
