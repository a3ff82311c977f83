package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Security event types written by the audit sink
const (
	EventLoginSuccess       = "login_success"
	EventLoginFailure       = "login_failure"
	EventSuspiciousActivity = "suspicious_activity"
	EventRoleChange         = "role_change"
	EventAccountChange      = "account_change"
	EventModeration         = "moderation"
	EventDataExport         = "data_export"
	EventUpload             = "upload"
)

// Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent is a recorded security/activity log entry, independent of
// the API response it was emitted alongside
type SecurityEvent struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	EventID     string                 `json:"eventId" bson:"eventId"`
	Type        string                 `json:"type" bson:"type"`
	Severity    string                 `json:"severity" bson:"severity"`
	UserID      string                 `json:"userId,omitempty" bson:"userId,omitempty"`
	UserEmail   string                 `json:"userEmail,omitempty" bson:"userEmail,omitempty"`
	Description string                 `json:"description" bson:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IPAddress   string                 `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent   string                 `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	CreatedAt   time.Time              `json:"createdAt" bson:"createdAt"`
}
