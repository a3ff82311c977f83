package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func limiterContext(e *echo.Echo, ip, path string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c
}

func TestRouteLimiterAllowsUpToMax(t *testing.T) {
	e := echo.New()
	store := newMemoryWindowStoreForTest(100, time.Now)
	limiter := NewRouteLimiter(store)
	cfg := RateLimitConfig{Window: time.Minute, Max: 3}

	for i := 0; i < 3; i++ {
		c := limiterContext(e, "203.0.113.1", "/api/bookings")
		if allowed, _ := limiter.Check(c, cfg); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	c := limiterContext(e, "203.0.113.1", "/api/bookings")
	allowed, retryAfter := limiter.Check(c, cfg)
	if allowed {
		t.Fatal("request over the limit should be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retryAfter = %v, want within (0, 1m]", retryAfter)
	}
}

func TestRouteLimiterKeysByIPAndPath(t *testing.T) {
	e := echo.New()
	limiter := NewRouteLimiter(newMemoryWindowStoreForTest(100, time.Now))
	cfg := RateLimitConfig{Window: time.Minute, Max: 1}

	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/bookings"), cfg); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/bookings"), cfg); allowed {
		t.Fatal("same ip and path should be limited")
	}
	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.2", "/api/bookings"), cfg); !allowed {
		t.Error("different ip should have its own window")
	}
	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/messages"), cfg); !allowed {
		t.Error("different path should have its own window")
	}
}

func TestRouteLimiterWindowExpiry(t *testing.T) {
	e := echo.New()
	now := time.Now()
	clock := func() time.Time { return now }
	limiter := NewRouteLimiter(newMemoryWindowStoreForTest(100, clock))
	cfg := RateLimitConfig{Window: time.Minute, Max: 1}

	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/reviews"), cfg); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/reviews"), cfg); allowed {
		t.Fatal("second request in the window should be rejected")
	}

	now = now.Add(61 * time.Second)
	if allowed, _ := limiter.Check(limiterContext(e, "203.0.113.1", "/api/reviews"), cfg); !allowed {
		t.Error("request after window expiry should start a fresh window")
	}
}

func TestRouteLimiterZeroConfigDisables(t *testing.T) {
	e := echo.New()
	limiter := NewRouteLimiter(newMemoryWindowStoreForTest(100, time.Now))

	for i := 0; i < 50; i++ {
		c := limiterContext(e, "203.0.113.1", "/api/hotels")
		if allowed, _ := limiter.Check(c, RateLimitConfig{}); !allowed {
			t.Fatal("zero config should never limit")
		}
	}
}

func TestMemoryWindowStoreCapacityFailsOpen(t *testing.T) {
	store := newMemoryWindowStoreForTest(5, time.Now)

	for i := 0; i < 5; i++ {
		store.Hit(context.Background(), fmt.Sprintf("ip-%d:/api/x", i), time.Minute)
	}

	// New keys beyond capacity are allowed untracked.
	for i := 0; i < 3; i++ {
		count, _, err := store.Hit(context.Background(), "overflow:/api/x", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("overflow key count = %d, want 1 (untracked)", count)
		}
	}

	// Existing keys keep counting.
	count, _, _ := store.Hit(context.Background(), "ip-0:/api/x", time.Minute)
	if count != 2 {
		t.Errorf("tracked key count = %d, want 2", count)
	}
}

func TestMemoryWindowStoreEvictsExpiredAtCapacity(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := newMemoryWindowStoreForTest(2, clock)

	store.Hit(context.Background(), "a", time.Second)
	store.Hit(context.Background(), "b", time.Minute)

	now = now.Add(2 * time.Second) // "a" expired, "b" still live

	count, _, _ := store.Hit(context.Background(), "c", time.Minute)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if _, tracked := store.windows["c"]; !tracked {
		t.Error("new key should be tracked after evicting the expired one")
	}
	if _, tracked := store.windows["a"]; tracked {
		t.Error("expired key should have been evicted")
	}
}
