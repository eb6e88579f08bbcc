package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrKriegler/go-storefront/pkg/problem"
)

// Limiter decides whether a client may make another request. retryAfter
// is only meaningful when allowed is false.
type Limiter interface {
	Allow(ctx context.Context, client string) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimiter is a sliding-window Limiter kept in process memory. Use
// RedisLimiter when several instances share one budget.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter with the given limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// StartWithContext stops the limiter when ctx is done.
func (rl *RateLimiter) StartWithContext(ctx context.Context) {
	go func() {
		<-ctx.Done()
		rl.Stop()
	}()
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for client, times := range rl.requests {
				if valid := inWindow(times, now.Add(-rl.window)); len(valid) == 0 {
					delete(rl.requests, client)
				} else {
					rl.requests[client] = valid
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Allow(_ context.Context, client string) (bool, time.Duration, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := inWindow(rl.requests[client], now.Add(-rl.window))

	if len(valid) >= rl.limit {
		rl.requests[client] = valid
		return false, valid[0].Add(rl.window).Sub(now), nil
	}

	rl.requests[client] = append(valid, now)
	return true, 0, nil
}

func inWindow(times []time.Time, start time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if t.After(start) {
			valid = append(valid, t)
		}
	}
	return valid
}

// RateLimit rejects requests the limiter refuses with 429. A limiter error
// lets the request through.
// NOTE: use AFTER chi's RealIP middleware, which sets RemoteAddr from
// X-Forwarded-For when behind trusted proxies.
func RateLimit(l Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retryAfter)))
				problem.Write(w, http.StatusTooManyRequests, "Rate Limit Exceeded",
					"Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. Headers are not consulted
// directly since clients can spoof them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retrySeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
