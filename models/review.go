package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review model. Moderation status reuses the hotel moderation constants.
type Review struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	HotelID         primitive.ObjectID `json:"hotelId" bson:"hotelId"`
	UserFirebaseUID string             `json:"userFirebaseUID" bson:"userFirebaseUID"`
	UserName        string             `json:"userName,omitempty" bson:"userName,omitempty"`
	Rating          int                `json:"rating" bson:"rating"`
	Title           string             `json:"title" bson:"title"`
	Comment         string             `json:"comment" bson:"comment"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateReviewRequest model
type CreateReviewRequest struct {
	HotelID string `json:"hotelId" validate:"required,len=24,hexadecimal"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"required,min=2,max=150"`
	Comment string `json:"comment" validate:"required,min=5,max=3000"`
}

// UpdateReviewRequest model. Status is admin-only and handled by the
// moderation endpoint.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title   string `json:"title,omitempty" validate:"omitempty,min=2,max=150"`
	Comment string `json:"comment,omitempty" validate:"omitempty,min=5,max=3000"`
}

// ModerateReviewRequest model
type ModerateReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}
