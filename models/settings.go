package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPreferences model
type NotificationPreferences struct {
	EmailBookings bool `json:"emailBookings" bson:"emailBookings"`
	EmailMessages bool `json:"emailMessages" bson:"emailMessages"`
	EmailReviews  bool `json:"emailReviews" bson:"emailReviews"`
}

// PayoutPreferences model. AccountRef is a secret and stripped for
// non-admin reads.
type PayoutPreferences struct {
	Method     string `json:"method" bson:"method"`
	AccountRef string `json:"accountRef,omitempty" bson:"accountRef,omitempty"`
	Currency   string `json:"currency" bson:"currency"`
}

// PartnerSettings is a singleton-per-partner configuration document,
// created lazily with defaults on first read
type PartnerSettings struct {
	ID            primitive.ObjectID      `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID      `json:"userId" bson:"userId"`
	Notifications NotificationPreferences `json:"notifications" bson:"notifications"`
	Payout        PayoutPreferences       `json:"payout" bson:"payout"`
	PublicContact PublicContact           `json:"publicContact" bson:"publicContact"`
	CreatedAt     time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// DefaultPartnerSettings returns the lazily created defaults
func DefaultPartnerSettings(userID primitive.ObjectID) PartnerSettings {
	now := time.Now()
	return PartnerSettings{
		UserID: userID,
		Notifications: NotificationPreferences{
			EmailBookings: true,
			EmailMessages: true,
			EmailReviews:  false,
		},
		Payout:    PayoutPreferences{Method: "bank_transfer", Currency: "USD"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Sanitize strips secret fields for non-admin callers
func (s *PartnerSettings) Sanitize(role string) *PartnerSettings {
	if role == RoleAdmin {
		return s
	}
	clean := *s
	clean.Payout.AccountRef = ""
	return &clean
}

// UpdatePartnerSettingsRequest model
type UpdatePartnerSettingsRequest struct {
	Notifications *NotificationPreferences `json:"notifications,omitempty"`
	Payout        *PayoutPreferences       `json:"payout,omitempty"`
	PublicContact *PublicContact           `json:"publicContact,omitempty"`
}

// SystemSettings is the global singleton configuration document
type SystemSettings struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PlatformFeePercent float64            `json:"platformFeePercent" bson:"platformFeePercent"`
	MaxBookingNights   int                `json:"maxBookingNights" bson:"maxBookingNights"`
	MaxGuestsPerRoom   int                `json:"maxGuestsPerRoom" bson:"maxGuestsPerRoom"`
	MaintenanceMode    bool               `json:"maintenanceMode" bson:"maintenanceMode"`
	ContactEmail       string             `json:"contactEmail" bson:"contactEmail"`
	StorageWebhookKey  string             `json:"storageWebhookKey,omitempty" bson:"storageWebhookKey,omitempty"`
	UpdatedBy          string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultSystemSettings returns the lazily created defaults
func DefaultSystemSettings() SystemSettings {
	now := time.Now()
	return SystemSettings{
		PlatformFeePercent: 10,
		MaxBookingNights:   30,
		MaxGuestsPerRoom:   6,
		ContactEmail:       "support@stayhaven.example",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// PublicSystemSettings is the sanitized subset served without auth
type PublicSystemSettings struct {
	MaxBookingNights int    `json:"maxBookingNights"`
	MaxGuestsPerRoom int    `json:"maxGuestsPerRoom"`
	MaintenanceMode  bool   `json:"maintenanceMode"`
	ContactEmail     string `json:"contactEmail"`
}

// Public returns the publicly exposable subset
func (s *SystemSettings) Public() PublicSystemSettings {
	return PublicSystemSettings{
		MaxBookingNights: s.MaxBookingNights,
		MaxGuestsPerRoom: s.MaxGuestsPerRoom,
		MaintenanceMode:  s.MaintenanceMode,
		ContactEmail:     s.ContactEmail,
	}
}

// UpdateSystemSettingsRequest model
type UpdateSystemSettingsRequest struct {
	PlatformFeePercent *float64 `json:"platformFeePercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxBookingNights   *int     `json:"maxBookingNights,omitempty" validate:"omitempty,min=1,max=365"`
	MaxGuestsPerRoom   *int     `json:"maxGuestsPerRoom,omitempty" validate:"omitempty,min=1,max=50"`
	MaintenanceMode    *bool    `json:"maintenanceMode,omitempty"`
	ContactEmail       string   `json:"contactEmail,omitempty" validate:"omitempty,email"`
	StorageWebhookKey  string   `json:"storageWebhookKey,omitempty" validate:"omitempty,max=200"`
}
