package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/taskforge/taskforge-api/internal/api/shared"
)

// loginLimiterCacheSize bounds the number of client IPs tracked at once.
const loginLimiterCacheSize = 4096

// LoginLimiter throttles repeated login attempts per client IP to blunt
// credential stuffing. It keeps a fixed-window counter per client in an
// expiring LRU; entries fall out of the cache when the window elapses,
// resetting the count. The counters are the only cross-request mutable
// state in the process, and they are incremented atomically.
type LoginLimiter struct {
	limit    int
	mu       sync.Mutex // guards counter creation only
	attempts *expirable.LRU[string, *atomic.Int64]
}

// NewLoginLimiter creates a limiter allowing limit attempts per client
// within each window.
func NewLoginLimiter(limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		limit:    limit,
		attempts: expirable.NewLRU[string, *atomic.Int64](loginLimiterCacheSize, nil, window),
	}
}

// Limit wraps a handler with the per-client attempt check. Requests over
// the limit receive 429 without reaching the handler.
func (l *LoginLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter := l.counterFor(clientKey(r))

		if counter.Add(1) > int64(l.limit) {
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many login attempts, please try again later", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// counterFor returns the window counter for the key, creating it if needed.
func (l *LoginLimiter) counterFor(key string) *atomic.Int64 {
	if counter, ok := l.attempts.Get(key); ok {
		return counter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if counter, ok := l.attempts.Get(key); ok {
		return counter
	}
	counter := new(atomic.Int64)
	l.attempts.Add(key, counter)
	return counter
}

// clientKey derives the rate-limit key from the request's remote address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
