package controllers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/stayhaven/stayhaven_backend/models"
)

func TestPromoteEligibleFilterExcludesAdmins(t *testing.T) {
	filter := promoteEligibleFilter("owner@example.com")

	if got := filter["email"]; got != "owner@example.com" {
		t.Fatalf("email = %v, want owner@example.com", got)
	}

	// Approving an application must never touch an admin account.
	role, ok := filter["role"].(bson.M)
	if !ok || role["$ne"] != models.RoleAdmin {
		t.Fatalf("role clause = %#v, want $ne %q", filter["role"], models.RoleAdmin)
	}
}

func TestDecisionMail(t *testing.T) {
	application := &models.PartnerApplication{
		FullName:     "Nadia Haddad",
		BusinessName: "Cedar Stays",
	}

	tests := []struct {
		status   string
		wantSend bool
	}{
		{models.ApplicationApproved, true},
		{models.ApplicationRejected, true},
		{models.ApplicationPendingReview, false},
		{models.ApplicationUnderReview, false},
	}
	for _, tt := range tests {
		application.Status = tt.status
		subject, body, ok := decisionMail(application)
		if ok != tt.wantSend {
			t.Errorf("decisionMail(%s) ok = %v, want %v", tt.status, ok, tt.wantSend)
		}
		if !tt.wantSend {
			continue
		}
		if subject == "" {
			t.Errorf("decisionMail(%s) returned empty subject", tt.status)
		}
		// The mailer sends text/plain; markup would reach recipients raw.
		if strings.Contains(body, "<") {
			t.Errorf("decisionMail(%s) body contains markup: %q", tt.status, body)
		}
		if !strings.Contains(body, application.FullName) {
			t.Errorf("decisionMail(%s) body does not address the applicant: %q", tt.status, body)
		}
	}
}
