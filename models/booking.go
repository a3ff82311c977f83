package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment statuses. Payments happen entirely off-platform; this field is
// tracked for bookkeeping only.
const (
	PaymentUnpaid      = "unpaid"
	PaymentPaidOffline = "paid_offline"
	PaymentRefunded    = "refunded"
)

// GuestContact is the contact snapshot embedded at booking time
type GuestContact struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Booking model. The guest is referenced by external-auth subject id.
type Booking struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	HotelID         primitive.ObjectID `json:"hotelId" bson:"hotelId"`
	UserFirebaseUID string             `json:"userFirebaseUID" bson:"userFirebaseUID"`
	Reference       string             `json:"reference" bson:"reference"`
	CheckIn         time.Time          `json:"checkIn" bson:"checkIn"`
	CheckOut        time.Time          `json:"checkOut" bson:"checkOut"`
	Guests          int                `json:"guests" bson:"guests"`
	RoomType        string             `json:"roomType,omitempty" bson:"roomType,omitempty"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	Status          string             `json:"status" bson:"status"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	GuestContact    GuestContact       `json:"guestContact" bson:"guestContact"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateBookingRequest model. Dates are calendar days.
type CreateBookingRequest struct {
	HotelID      string  `json:"hotelId" validate:"required,len=24,hexadecimal"`
	CheckIn      string  `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut     string  `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests       int     `json:"guests" validate:"required,min=1,max=20"`
	RoomType     string  `json:"roomType,omitempty" validate:"omitempty,max=50"`
	TotalPrice   float64 `json:"totalPrice,omitempty" validate:"omitempty,gte=0"`
	ContactName  string  `json:"contactName,omitempty" validate:"omitempty,max=100"`
	ContactEmail string  `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string  `json:"contactPhone,omitempty" validate:"omitempty,max=16"`
}

// UpdateBookingStatusRequest model
type UpdateBookingStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=unpaid paid_offline refunded"`
}
