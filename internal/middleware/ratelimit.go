package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a simple in-memory fixed-window rate limiter per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	size    time.Duration
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, size time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		size:    size,
	}
	go func() {
		for range time.Tick(size) {
			rl.cleanup()
		}
	}()
	return rl
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for ip, w := range rl.clients {
		if now.Sub(w.start) > rl.size {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	w, ok := rl.clients[ip]
	if !ok || time.Since(w.start) > rl.size {
		rl.clients[ip] = &window{start: time.Now(), count: 1}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from the forwarding
	// headers when present.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
