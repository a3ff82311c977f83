package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemAlert model. Admin-managed; active alerts are publicly listable.
type SystemAlert struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Severity  string             `json:"severity" bson:"severity"`
	Active    bool               `json:"active" bson:"active"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedBy string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateAlertRequest model
type CreateAlertRequest struct {
	Title     string     `json:"title" validate:"required,min=2,max=200"`
	Message   string     `json:"message" validate:"required,min=2,max=2000"`
	Severity  string     `json:"severity" validate:"required,oneof=info warning critical"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// UpdateAlertRequest model
type UpdateAlertRequest struct {
	Title     string     `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Message   string     `json:"message,omitempty" validate:"omitempty,min=2,max=2000"`
	Severity  string     `json:"severity,omitempty" validate:"omitempty,oneof=info warning critical"`
	Active    *bool      `json:"active,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
