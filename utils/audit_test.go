package utils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stayhaven/stayhaven_backend/models"
)

func TestAuditSinkWritesEvents(t *testing.T) {
	var mu sync.Mutex
	var written []models.SecurityEvent

	sink := NewAuditSink(func(_ context.Context, event models.SecurityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, event)
		return nil
	}, 8)
	go sink.Run()
	defer sink.Close()

	sink.Record(models.SecurityEvent{Type: models.EventLoginSuccess, Description: "signed in"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(written)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("event was never written")
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	event := written[0]
	if event.EventID == "" {
		t.Error("Record should stamp an event id")
	}
	if event.CreatedAt.IsZero() {
		t.Error("Record should stamp a timestamp")
	}
}

func TestAuditSinkDropsWhenFull(t *testing.T) {
	// No drain running: the buffer fills and further records must not block.
	sink := NewAuditSink(func(_ context.Context, _ models.SecurityEvent) error {
		return nil
	}, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sink.Record(models.SecurityEvent{Type: models.EventSuspiciousActivity})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	if got := len(sink.events); got != 2 {
		t.Errorf("queued events = %d, want buffer size 2", got)
	}
}

func TestAuditSinkSwallowsWriteErrors(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	sink := NewAuditSink(func(_ context.Context, _ models.SecurityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return errors.New("store is down")
	}, 8)
	go sink.Run()

	sink.Record(models.SecurityEvent{Type: models.EventLoginFailure})
	sink.Record(models.SecurityEvent{Type: models.EventLoginFailure})
	sink.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := attempts
		mu.Unlock()
		if n == 2 {
			return // both attempted, neither error escaped
		}
		if time.Now().After(deadline) {
			t.Fatalf("attempts = %d, want 2", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAuditSinkKeepsCallerStamps(t *testing.T) {
	received := make(chan models.SecurityEvent, 1)
	sink := NewAuditSink(func(_ context.Context, event models.SecurityEvent) error {
		received <- event
		return nil
	}, 8)
	go sink.Run()
	defer sink.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sink.Record(models.SecurityEvent{EventID: "fixed-id", CreatedAt: at, Type: models.EventModeration})

	select {
	case event := <-received:
		if event.EventID != "fixed-id" || !event.CreatedAt.Equal(at) {
			t.Errorf("caller stamps overwritten: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was never written")
	}
}
