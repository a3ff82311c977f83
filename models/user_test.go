package models

import "testing"

func TestSanitizeAssignableRole(t *testing.T) {
	tests := []struct {
		name       string
		requested  string
		callerRole string
		want       string
	}{
		{name: "guest stays guest", requested: RoleGuest, callerRole: RoleGuest, want: RoleGuest},
		{name: "guest requesting partner is downgraded", requested: RolePartner, callerRole: RoleGuest, want: RoleGuest},
		{name: "admin may assign partner", requested: RolePartner, callerRole: RoleAdmin, want: RolePartner},
		{name: "partner cannot assign partner", requested: RolePartner, callerRole: RolePartner, want: RoleGuest},
		{name: "admin request is always downgraded", requested: RoleAdmin, callerRole: RoleAdmin, want: RoleGuest},
		{name: "unknown role falls back to guest", requested: "superuser", callerRole: RoleAdmin, want: RoleGuest},
		{name: "empty request falls back to guest", requested: "", callerRole: RoleGuest, want: RoleGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAssignableRole(tt.requested, tt.callerRole); got != tt.want {
				t.Errorf("SanitizeAssignableRole(%q, %q) = %q, want %q", tt.requested, tt.callerRole, got, tt.want)
			}
		})
	}
}
