// middleware/rate_limiter.go
package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/stayhaven/stayhaven_backend/models"
)

// RateLimitConfig is the per-route fixed-window configuration
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// WindowStore holds fixed-window counters keyed by clientIP:routePath.
// Hit starts a new window when none exists (or the current one expired)
// and otherwise increments, returning the running count and the window's
// reset time. Implementations on store errors should fail open.
type WindowStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

type fixedWindow struct {
	count   int
	resetAt time.Time
}

// MemoryWindowStore keeps windows in process-local memory. Counts are not
// shared across replicas; under/over-counting there is an accepted
// tolerance for a soft abuse mitigation.
type MemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	maxKeys int
	now     func() time.Time
}

// NewMemoryWindowStore creates a store capped at maxKeys tracked windows
// and starts the periodic sweep of expired ones
func NewMemoryWindowStore(maxKeys int) *MemoryWindowStore {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	s := &MemoryWindowStore{
		windows: make(map[string]*fixedWindow),
		maxKeys: maxKeys,
		now:     time.Now,
	}
	go s.sweep(time.Minute)
	return s
}

// newMemoryWindowStoreForTest builds a store without the sweep goroutine
// and with an injectable clock
func newMemoryWindowStoreForTest(maxKeys int, now func() time.Time) *MemoryWindowStore {
	return &MemoryWindowStore{
		windows: make(map[string]*fixedWindow),
		maxKeys: maxKeys,
		now:     now,
	}
}

func (s *MemoryWindowStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		if !ok && len(s.windows) >= s.maxKeys {
			s.evictExpiredLocked(now)
			if len(s.windows) >= s.maxKeys {
				// At capacity: allow untracked rather than grow without bound.
				return 1, now.Add(window), nil
			}
		}
		w = &fixedWindow{count: 1, resetAt: now.Add(window)}
		s.windows[key] = w
		return w.count, w.resetAt, nil
	}

	w.count++
	return w.count, w.resetAt, nil
}

func (s *MemoryWindowStore) evictExpiredLocked(now time.Time) {
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}

func (s *MemoryWindowStore) sweep(every time.Duration) {
	for {
		time.Sleep(every)
		s.mu.Lock()
		s.evictExpiredLocked(s.now())
		s.mu.Unlock()
	}
}

// RouteLimiter evaluates per-route fixed-window limits against a store
type RouteLimiter struct {
	store WindowStore
}

// NewRouteLimiter creates a limiter over the given window store
func NewRouteLimiter(store WindowStore) *RouteLimiter {
	return &RouteLimiter{store: store}
}

// Check evaluates the limit for the request. When the request is rejected
// it returns allowed=false and the time remaining until the window resets.
func (l *RouteLimiter) Check(c echo.Context, cfg RateLimitConfig) (allowed bool, retryAfter time.Duration) {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return true, 0
	}

	key := c.RealIP() + ":" + c.Path()
	count, resetAt, err := l.store.Hit(c.Request().Context(), key, cfg.Window)
	if err != nil {
		// Store failure must not take the route down.
		c.Logger().Warnf("rate limiter store error: %v", err)
		return true, 0
	}

	if count > cfg.Max {
		remaining := time.Until(resetAt)
		if remaining < 0 {
			remaining = 0
		}
		return false, remaining
	}
	return true, 0
}

// GlobalRateLimiter is the outer per-IP token-bucket limiter applied to
// every request before the per-route fixed windows
type GlobalRateLimiter struct {
	ips          map[string]*rate.Limiter
	mu           sync.Mutex
	defaultLimit rate.Limit
	defaultBurst int
}

// NewGlobalRateLimiter creates the default limiter (10 req/s, burst 20)
// and starts an hourly reset of idle buckets
func NewGlobalRateLimiter() *GlobalRateLimiter {
	limiter := &GlobalRateLimiter{
		ips:          make(map[string]*rate.Limiter),
		defaultLimit: rate.Every(100 * time.Millisecond),
		defaultBurst: 20,
	}
	go limiter.cleanup()
	return limiter
}

func (r *GlobalRateLimiter) cleanup() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		r.ips = make(map[string]*rate.Limiter)
		r.mu.Unlock()
	}
}

// RateLimit returns the Echo middleware applying the global limit
func (r *GlobalRateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Static uploads bypass the limiter.
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}

			if !r.getLimiter(c.RealIP()).Allow() {
				return c.JSON(429, models.Response{
					Status:  429,
					Message: "Too many requests",
				})
			}
			return next(c)
		}
	}
}

func (r *GlobalRateLimiter) getLimiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(r.defaultLimit, r.defaultBurst)
		r.ips[ip] = limiter
	}
	return limiter
}
