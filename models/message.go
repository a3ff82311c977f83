package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageReply is an append-only entry in a message thread
type MessageReply struct {
	FromUID string    `json:"fromUID" bson:"fromUID"`
	Body    string    `json:"body" bson:"body"`
	At      time.Time `json:"at" bson:"at"`
}

// Message model. Participants are referenced by external-auth subject id;
// access is participant-or-admin.
type Message struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	FromUID   string              `json:"fromUID" bson:"fromUID"`
	ToUID     string              `json:"toUID" bson:"toUID"`
	HotelID   *primitive.ObjectID `json:"hotelId,omitempty" bson:"hotelId,omitempty"`
	Subject   string              `json:"subject" bson:"subject"`
	Body      string              `json:"body" bson:"body"`
	Read      bool                `json:"read" bson:"read"`
	Replies   []MessageReply      `json:"replies,omitempty" bson:"replies,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsParticipant reports whether the given subject id may read the thread
func (m *Message) IsParticipant(uid string) bool {
	return uid != "" && (m.FromUID == uid || m.ToUID == uid)
}

// CreateMessageRequest model
type CreateMessageRequest struct {
	ToUID   string `json:"toUID" validate:"required,min=6,max=128"`
	HotelID string `json:"hotelId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Body    string `json:"body" validate:"required,min=1,max=5000"`
}

// ReplyMessageRequest model
type ReplyMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}
