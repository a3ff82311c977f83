package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner application workflow statuses
const (
	ApplicationPendingReview = "pending_review"
	ApplicationUnderReview   = "under_review"
	ApplicationApproved      = "approved"
	ApplicationRejected      = "rejected"
	ApplicationOnHold        = "on_hold"
)

// PartnerApplication is an onboarding request. Approval promotes the
// matching user to partner, or creates a partner user if none exists.
type PartnerApplication struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName        string             `json:"fullName" bson:"fullName"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone" bson:"phone"`
	BusinessName    string             `json:"businessName" bson:"businessName"`
	BusinessLicense string             `json:"businessLicense,omitempty" bson:"businessLicense,omitempty"`
	PropertyCount   int                `json:"propertyCount" bson:"propertyCount"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	DocumentURLs    []string           `json:"documentUrls,omitempty" bson:"documentUrls,omitempty"`
	Status          string             `json:"status" bson:"status"`
	ReviewNotes     string             `json:"reviewNotes,omitempty" bson:"reviewNotes,omitempty"`
	ReviewedBy      string             `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreatePartnerApplicationRequest model
type CreatePartnerApplicationRequest struct {
	FullName        string   `json:"fullName" validate:"required,min=2,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required,min=8,max=16"`
	BusinessName    string   `json:"businessName" validate:"required,min=2,max=150"`
	BusinessLicense string   `json:"businessLicense,omitempty" validate:"omitempty,max=100"`
	PropertyCount   int      `json:"propertyCount" validate:"required,min=1,max=1000"`
	Description     string   `json:"description,omitempty" validate:"omitempty,max=3000"`
	DocumentURLs    []string `json:"documentUrls,omitempty" validate:"omitempty,dive,url"`
}

// DecideApplicationRequest is the admin decision payload
type DecideApplicationRequest struct {
	Status      string `json:"status" validate:"required,oneof=pending_review under_review approved rejected on_hold"`
	ReviewNotes string `json:"reviewNotes,omitempty" validate:"omitempty,max=3000"`
}

// applicationTransitions encodes the approval workflow. A decided
// application (approved/rejected) is terminal.
var applicationTransitions = map[string][]string{
	ApplicationPendingReview: {ApplicationUnderReview, ApplicationApproved, ApplicationRejected, ApplicationOnHold},
	ApplicationUnderReview:   {ApplicationApproved, ApplicationRejected, ApplicationOnHold},
	ApplicationOnHold:        {ApplicationUnderReview, ApplicationApproved, ApplicationRejected},
}

// CanTransitionApplication reports whether the workflow permits moving an
// application from one status to another
func CanTransitionApplication(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
