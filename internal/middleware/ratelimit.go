package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
)

// RateLimiter tracks request timestamps per source address over a sliding
// window
type RateLimiter struct {
	clock  clock.Clock
	limit  int
	window time.Duration

	mu      sync.Mutex
	history map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each source address
func NewRateLimiter(clk clock.Clock, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clock:   clk,
		limit:   limit,
		window:  window,
		history: make(map[string][]time.Time),
	}
}

// Allow records a request for addr and reports whether it is within the limit
func (rl *RateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	cutoff := now.Add(-rl.window)

	recent := rl.history[addr][:0]
	for _, t := range rl.history[addr] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.history[addr] = recent
		return false
	}

	rl.history[addr] = append(recent, now)
	return true
}

// RateLimit creates per-address rate limiting middleware. Requests over the
// limit are passed to the rejected handler instead of the next handler.
func RateLimit(limiter *RateLimiter, rejected http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(requestAddr(r)) {
				rejected(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
