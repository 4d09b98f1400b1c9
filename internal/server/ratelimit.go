package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rgehrsitz/mortgo/internal/logger"
	"github.com/rgehrsitz/mortgo/internal/metrics"
)

const (
	windowCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

type clientWindow struct {
	remaining   int
	windowStart time.Time
}

// RateLimiter is a fixed-window limiter: each client IP gets capacity requests
// per window, and the full allowance comes back at once when the window
// expires. There is no gradual refill within a window.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	window      time.Duration
	clients     map[string]*clientWindow
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter starts a limiter with a background sweep of idle clients.
// Call Stop to end the sweep.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		window:      window,
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup(time.Now())
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ip, w := range r.clients {
		if now.Sub(w.windowStart) > windowCleanupThreshold {
			delete(r.clients, ip)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow counts one request for ip in its current window
func (r *RateLimiter) Allow(ip string) bool {
	return r.allowAt(ip, time.Now())
}

func (r *RateLimiter) allowAt(ip string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, exists := r.clients[ip]

	if !exists {
		r.clients[ip] = &clientWindow{
			remaining:   r.capacity - 1,
			windowStart: now,
		}
		return r.capacity > 0
	}

	if now.Sub(w.windowStart) >= r.window {
		w.remaining = r.capacity
		w.windowStart = now
	}

	if w.remaining <= 0 {
		return false
	}

	w.remaining--
	return true
}

// RateLimitMiddleware rejects requests from clients that used up their window
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !limiter.Allow(ip) {
				metrics.RateLimited.Inc()
				logger.FromContext(r.Context()).Warn(LogMsgRateLimited, "ip", ip, "path", r.URL.Path)
				respondError(w, http.StatusTooManyRequests, ErrMsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
