package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation statuses for a property listing. Only admin may change them.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// HotelLocation model
type HotelLocation struct {
	Address string  `json:"address" bson:"address"`
	City    string  `json:"city" bson:"city"`
	Country string  `json:"country" bson:"country"`
	Lat     float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// Room is a bookable room type embedded in a hotel document
type Room struct {
	Type          string  `json:"type" bson:"type"`
	PricePerNight float64 `json:"pricePerNight" bson:"pricePerNight"`
	Available     int     `json:"available" bson:"available"`
}

// Hotel model, owned by a partner user
type Hotel struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description" bson:"description"`
	Location      HotelLocation      `json:"location" bson:"location"`
	Images        []string           `json:"images,omitempty" bson:"images,omitempty"`
	Amenities     []string           `json:"amenities,omitempty" bson:"amenities,omitempty"`
	PricePerNight float64            `json:"pricePerNight" bson:"pricePerNight"`
	Rooms         []Room             `json:"rooms,omitempty" bson:"rooms,omitempty"`
	Rating        float64            `json:"rating" bson:"rating"`
	ReviewCount   int                `json:"reviewCount" bson:"reviewCount"`
	Status        string             `json:"status" bson:"status"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RoomRequest model
type RoomRequest struct {
	Type          string  `json:"type" validate:"required,min=2,max=50"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
	Available     int     `json:"available" validate:"gte=0"`
}

// CreateHotelRequest model
type CreateHotelRequest struct {
	Name          string        `json:"name" validate:"required,min=2,max=150"`
	Description   string        `json:"description" validate:"required,min=10,max=5000"`
	Address       string        `json:"address" validate:"required,max=250"`
	City          string        `json:"city" validate:"required,max=100"`
	Country       string        `json:"country" validate:"required,max=100"`
	Lat           float64       `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng           float64       `json:"lng,omitempty" validate:"omitempty,longitude"`
	Images        []string      `json:"images,omitempty" validate:"omitempty,dive,url"`
	Amenities     []string      `json:"amenities,omitempty" validate:"omitempty,dive,min=2,max=50"`
	PricePerNight float64       `json:"pricePerNight" validate:"required,gt=0"`
	Rooms         []RoomRequest `json:"rooms,omitempty" validate:"omitempty,dive"`
}

// UpdateHotelRequest model. Moderation fields (status, isActive) are not
// accepted here; they go through the admin moderation endpoint.
type UpdateHotelRequest struct {
	Name          string        `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Description   string        `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Address       string        `json:"address,omitempty" validate:"omitempty,max=250"`
	City          string        `json:"city,omitempty" validate:"omitempty,max=100"`
	Country       string        `json:"country,omitempty" validate:"omitempty,max=100"`
	Lat           *float64      `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng           *float64      `json:"lng,omitempty" validate:"omitempty,longitude"`
	Images        []string      `json:"images,omitempty" validate:"omitempty,dive,url"`
	Amenities     []string      `json:"amenities,omitempty" validate:"omitempty,dive,min=2,max=50"`
	PricePerNight *float64      `json:"pricePerNight,omitempty" validate:"omitempty,gt=0"`
	Rooms         []RoomRequest `json:"rooms,omitempty" validate:"omitempty,dive"`
}

// ModerateHotelRequest is the admin-only moderation payload
type ModerateHotelRequest struct {
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	IsActive *bool  `json:"isActive,omitempty"`
}
