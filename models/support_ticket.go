package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// TicketMessage is an append-only entry in a ticket conversation
type TicketMessage struct {
	FromUID   string    `json:"fromUID" bson:"fromUID"`
	FromStaff bool      `json:"fromStaff" bson:"fromStaff"`
	Body      string    `json:"body" bson:"body"`
	At        time.Time `json:"at" bson:"at"`
}

// SupportTicket model. InternalNotes are admin-only and stripped before
// the ticket is returned to its owner.
type SupportTicket struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserFirebaseUID string             `json:"userFirebaseUID" bson:"userFirebaseUID"`
	Subject         string             `json:"subject" bson:"subject"`
	Category        string             `json:"category" bson:"category"`
	Priority        string             `json:"priority" bson:"priority"`
	Status          string             `json:"status" bson:"status"`
	Messages        []TicketMessage    `json:"messages,omitempty" bson:"messages,omitempty"`
	InternalNotes   string             `json:"internalNotes,omitempty" bson:"internalNotes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Sanitize strips admin-only fields for non-admin callers
func (t *SupportTicket) Sanitize(role string) *SupportTicket {
	if role == RoleAdmin {
		return t
	}
	clean := *t
	clean.InternalNotes = ""
	return &clean
}

// CreateTicketRequest model
type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required,min=2,max=200"`
	Category string `json:"category" validate:"required,oneof=booking payment listing account other"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Body     string `json:"body" validate:"required,min=5,max=5000"`
}

// TicketMessageRequest model
type TicketMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// UpdateTicketRequest is the admin-only ticket update payload
type UpdateTicketRequest struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority      string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	InternalNotes string `json:"internalNotes,omitempty" validate:"omitempty,max=5000"`
}
