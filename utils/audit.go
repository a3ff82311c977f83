// utils/audit.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/models"
)

// AuditWriter persists a single security event
type AuditWriter func(ctx context.Context, event models.SecurityEvent) error

// AuditSink is a best-effort security event sink. Record never blocks and
// never returns an error: events are queued onto a buffered channel and a
// background drain persists them. A full queue drops the event with a
// local log line; a failed write is logged and forgotten. Nothing that
// happens here can fail or delay the request that emitted the event.
type AuditSink struct {
	write  AuditWriter
	events chan models.SecurityEvent
}

// NewAuditSink creates a sink over an arbitrary writer
func NewAuditSink(write AuditWriter, buffer int) *AuditSink {
	if buffer <= 0 {
		buffer = 256
	}
	return &AuditSink{
		write:  write,
		events: make(chan models.SecurityEvent, buffer),
	}
}

// NewMongoAuditSink creates a sink writing to the securityEvents collection
func NewMongoAuditSink(db *mongo.Client, buffer int) *AuditSink {
	collection := config.GetCollection(db, "securityEvents")
	return NewAuditSink(func(ctx context.Context, event models.SecurityEvent) error {
		_, err := collection.InsertOne(ctx, event)
		return err
	}, buffer)
}

// Run drains the queue until the channel is closed. Call in a goroutine.
func (s *AuditSink) Run() {
	for event := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.write(ctx, event); err != nil {
			log.Printf("audit: failed to write %s event: %v", event.Type, err)
		}
		cancel()
	}
}

// Close stops the drain once queued events are written
func (s *AuditSink) Close() {
	close(s.events)
}

// Record queues an event, stamping its id and time. Never blocks.
func (s *AuditSink) Record(event models.SecurityEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case s.events <- event:
	default:
		log.Printf("audit: queue full, dropping %s event", event.Type)
	}
}
