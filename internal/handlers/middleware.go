package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	ips    map[string]*rate.Limiter
	mu     sync.Mutex
	rps    float64
	burst  int
	ticker *time.Ticker
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		ips:    make(map[string]*rate.Limiter),
		rps:    rps,
		burst:  burst,
		ticker: time.NewTicker(1 * time.Hour),
	}
	go rl.cleanup()
	return rl
}

// cleanup drops idle buckets so the map does not grow unbounded.
func (rl *RateLimiter) cleanup() {
	for range rl.ticker.C {
		rl.mu.Lock()
		rl.ips = make(map[string]*rate.Limiter)
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
		rl.ips[ip] = limiter
	}
	return limiter
}

// RateLimit rejects requests over the per-IP budget with a 429.
func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.getLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"status":429,"message":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Close stops the cleanup routine.
func (rl *RateLimiter) Close() {
	rl.ticker.Stop()
}
