package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// recordingWriter captures audit events written through the sink
type recordingWriter struct {
	mu     sync.Mutex
	events []models.SecurityEvent
}

func (w *recordingWriter) write(_ context.Context, event models.SecurityEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	return nil
}

func (w *recordingWriter) wait(t *testing.T, n int) []models.SecurityEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		w.mu.Lock()
		if len(w.events) >= n {
			defer w.mu.Unlock()
			return w.events
		}
		w.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", n)
	return nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *recordingWriter) {
	t.Helper()
	writer := &recordingWriter{}
	sink := utils.NewAuditSink(writer.write, 16)
	go sink.Run()
	t.Cleanup(sink.Close)

	limiter := NewRouteLimiter(newMemoryWindowStoreForTest(100, time.Now))
	return NewPipeline(limiter, sink), writer
}

func guardRequest(e *echo.Echo, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func TestGuardPassesThrough(t *testing.T) {
	e := echo.New()
	pipeline, _ := newTestPipeline(t)

	called := false
	h := pipeline.Guard(func(c echo.Context) error {
		called = true
		return c.JSON(http.StatusOK, models.Response{Status: http.StatusOK, Message: "ok"})
	}, GuardOptions{})

	c, rec := guardRequest(e, "/api/things")
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler was not invoked")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGuardRateLimitShortCircuits(t *testing.T) {
	e := echo.New()
	pipeline, writer := newTestPipeline(t)

	calls := 0
	h := pipeline.Guard(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}, GuardOptions{
		RateLimit: &RateLimitConfig{Window: time.Minute, Max: 2},
	})

	var lastRec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		c, rec := guardRequest(e, "/api/limited")
		if err := h(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lastRec = rec
	}

	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
	if lastRec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", lastRec.Code)
	}

	retryAfter, err := strconv.Atoi(lastRec.Header().Get("Retry-After"))
	if err != nil || retryAfter < 1 {
		t.Errorf("Retry-After = %q, want integer >= 1", lastRec.Header().Get("Retry-After"))
	}

	events := writer.wait(t, 1)
	if events[0].Type != models.EventSuspiciousActivity {
		t.Errorf("event type = %q, want %q", events[0].Type, models.EventSuspiciousActivity)
	}
	if events[0].IPAddress != "203.0.113.9" {
		t.Errorf("event ip = %q", events[0].IPAddress)
	}
}

func TestGuardAuditAfterHandler(t *testing.T) {
	e := echo.New()
	pipeline, writer := newTestPipeline(t)

	h := pipeline.Guard(func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, GuardOptions{
		Audit: &AuditSpec{
			Type:        models.EventAccountChange,
			Severity:    models.SeverityLow,
			Description: "thing created",
		},
	})

	c, rec := guardRequest(e, "/api/things")
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	events := writer.wait(t, 1)
	event := events[0]
	if event.Type != models.EventAccountChange || event.Severity != models.SeverityLow {
		t.Errorf("unexpected event: %+v", event)
	}
	if event.EventID == "" || event.CreatedAt.IsZero() {
		t.Error("sink should stamp event id and timestamp")
	}
	if event.Metadata["method"] != http.MethodPost || event.Metadata["path"] != "/api/things" {
		t.Errorf("metadata = %v", event.Metadata)
	}
}

func TestPipelineAuditMergesMetadata(t *testing.T) {
	e := echo.New()
	pipeline, writer := newTestPipeline(t)

	c, _ := guardRequest(e, "/api/admin/users")
	pipeline.Audit(c, AuditSpec{
		Type:        models.EventRoleChange,
		Severity:    models.SeverityHigh,
		Description: "role changed",
	}, map[string]interface{}{"targetUserId": "abc123"})

	events := writer.wait(t, 1)
	metadata := events[0].Metadata
	if metadata["targetUserId"] != "abc123" {
		t.Errorf("custom metadata missing: %v", metadata)
	}
	if metadata["method"] != http.MethodPost {
		t.Errorf("request metadata lost on merge: %v", metadata)
	}
}
