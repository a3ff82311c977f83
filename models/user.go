package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Admin is never assignable through the generic
// create/update paths, only through the dedicated promotion endpoint.
const (
	RoleGuest   = "guest"
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

// Account statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// PublicContact holds a partner's guest-facing contact details, separate
// from the private account profile and toggleable via Visible
type PublicContact struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Website string `json:"website,omitempty" bson:"website,omitempty"`
	Visible bool   `json:"visible" bson:"visible"`
}

// UserCounters are denormalized totals kept on the user document
type UserCounters struct {
	Bookings   int     `json:"bookings" bson:"bookings"`
	Properties int     `json:"properties" bson:"properties"`
	Revenue    float64 `json:"revenue" bson:"revenue"`
}

// User model, keyed by the external-auth subject id (FirebaseUID)
type User struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FirebaseUID     string             `json:"firebaseUID" bson:"firebaseUID"`
	Email           string             `json:"email" bson:"email"`
	FullName        string             `json:"fullName" bson:"fullName"`
	Role            string             `json:"role" bson:"role"`
	Status          string             `json:"status" bson:"status"`
	Phone           string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Avatar          string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	BusinessName    string             `json:"businessName,omitempty" bson:"businessName,omitempty"`
	BusinessLicense string             `json:"businessLicense,omitempty" bson:"businessLicense,omitempty"`
	PublicContact   *PublicContact     `json:"publicContact,omitempty" bson:"publicContact,omitempty"`
	Counters        UserCounters       `json:"counters" bson:"counters"`
	PasswordHash    string             `json:"-" bson:"passwordHash,omitempty"`
	LastActivityAt  time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateUserRequest is the self-provision payload sent after the first
// external-auth sign-in. The role field is accepted but sanitized.
type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=8,max=16"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest covers both self-service (limited fields) and admin
// edits. Role changes are sanitized; admin promotion has its own endpoint.
type UpdateUserRequest struct {
	FullName        string         `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Phone           string         `json:"phone,omitempty" validate:"omitempty,min=8,max=16"`
	Avatar          string         `json:"avatar,omitempty" validate:"omitempty,url"`
	BusinessName    string         `json:"businessName,omitempty" validate:"omitempty,max=150"`
	BusinessLicense string         `json:"businessLicense,omitempty" validate:"omitempty,max=100"`
	PublicContact   *PublicContact `json:"publicContact,omitempty"`
	Role            string         `json:"role,omitempty"`
	Status          string         `json:"status,omitempty" validate:"omitempty,oneof=active suspended banned"`
}

// AdminLoginRequest is the break-glass bootstrap admin login
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SanitizeAssignableRole maps a requested role onto one the generic
// create/update path may assign. Admin (and anything unknown) silently
// becomes guest. Partner is assignable only by an admin caller; everyone
// else gets it through application approval.
func SanitizeAssignableRole(requested, callerRole string) string {
	switch requested {
	case RolePartner:
		if callerRole == RoleAdmin {
			return RolePartner
		}
		return RoleGuest
	case RoleGuest:
		return RoleGuest
	default:
		return RoleGuest
	}
}

// PublicOwner is the public subset of a partner exposed by the owner
// lookup endpoint
type PublicOwner struct {
	ID            primitive.ObjectID `json:"id"`
	FullName      string             `json:"fullName"`
	BusinessName  string             `json:"businessName,omitempty"`
	PublicContact *PublicContact     `json:"publicContact,omitempty"`
	Properties    int                `json:"properties"`
	MemberSince   time.Time          `json:"memberSince"`
}
