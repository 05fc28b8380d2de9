package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client IP. Buckets idle for
// longer than idleTTL are dropped on the next sweep.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	lastScan time.Time
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(r rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (c *clientLimiters) get(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastScan) > c.idleTTL/2 {
		for k, e := range c.limiters {
			if now.Sub(e.lastSeen) > c.idleTTL {
				delete(c.limiters, k)
			}
		}
		c.lastScan = now
	}

	e, ok := c.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(c.rate, c.burst)}
		c.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit returns middleware allowing perMinute requests per client IP with
// a burst of the same size. perMinute <= 0 disables limiting.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiters := newClientLimiters(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
