package models

import "testing"

func TestCanTransitionApplication(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending to under review", from: ApplicationPendingReview, to: ApplicationUnderReview, want: true},
		{name: "pending straight to approved", from: ApplicationPendingReview, to: ApplicationApproved, want: true},
		{name: "under review to rejected", from: ApplicationUnderReview, to: ApplicationRejected, want: true},
		{name: "on hold back to under review", from: ApplicationOnHold, to: ApplicationUnderReview, want: true},
		{name: "approved is terminal", from: ApplicationApproved, to: ApplicationRejected, want: false},
		{name: "rejected is terminal", from: ApplicationRejected, to: ApplicationApproved, want: false},
		{name: "no self transition", from: ApplicationPendingReview, to: ApplicationPendingReview, want: false},
		{name: "unknown status has no transitions", from: "draft", to: ApplicationApproved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionApplication(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionApplication(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
