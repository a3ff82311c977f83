package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/models"
)

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required string
		want     bool
	}{
		{name: "guest satisfies guest", role: models.RoleGuest, required: models.RoleGuest, want: true},
		{name: "guest lacks partner", role: models.RoleGuest, required: models.RolePartner, want: false},
		{name: "guest lacks admin", role: models.RoleGuest, required: models.RoleAdmin, want: false},
		{name: "partner satisfies guest", role: models.RolePartner, required: models.RoleGuest, want: true},
		{name: "partner satisfies partner", role: models.RolePartner, required: models.RolePartner, want: true},
		{name: "partner lacks admin", role: models.RolePartner, required: models.RoleAdmin, want: false},
		{name: "admin satisfies guest", role: models.RoleAdmin, required: models.RoleGuest, want: true},
		{name: "admin satisfies partner", role: models.RoleAdmin, required: models.RolePartner, want: true},
		{name: "admin satisfies admin", role: models.RoleAdmin, required: models.RoleAdmin, want: true},
		{name: "unknown role grants nothing", role: "superuser", required: models.RoleGuest, want: false},
		{name: "empty role grants nothing", role: "", required: models.RoleGuest, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleSatisfies(tt.role, tt.required); got != tt.want {
				t.Errorf("RoleSatisfies(%q, %q) = %v, want %v", tt.role, tt.required, got, tt.want)
			}
		})
	}
}

func identityContext(e *echo.Echo, uid, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set(CtxFirebaseUID, uid)
	}
	if role != "" {
		c.Set(CtxRole, role)
	}
	return c, rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	h := RequireAuth()(okHandler)

	c, rec := identityContext(e, "", "")
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous request: status = %d, want 401", rec.Code)
	}

	c, rec = identityContext(e, "uid-1", models.RoleGuest)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated request: status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole(models.RolePartner)(okHandler)

	tests := []struct {
		name string
		uid  string
		role string
		want int
	}{
		{name: "anonymous", uid: "", role: "", want: http.StatusUnauthorized},
		{name: "guest", uid: "uid-1", role: models.RoleGuest, want: http.StatusForbidden},
		{name: "partner", uid: "uid-2", role: models.RolePartner, want: http.StatusOK},
		{name: "admin passes partner check", uid: "uid-3", role: models.RoleAdmin, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := identityContext(e, tt.uid, tt.role)
			if err := h(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAdminGateRedirects(t *testing.T) {
	e := echo.New()
	h := AdminGate()(okHandler)

	c, rec := identityContext(e, "uid-1", models.RoleGuest)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}

	c, rec = identityContext(e, "uid-2", models.RoleAdmin)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}

func TestExtractBearer(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer tok", want: "tok"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcg==", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			if got := extractBearer(c); got != tt.want {
				t.Errorf("extractBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAdminToken("64b7f00000000000000000aa", "admin@stayhaven.app")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	ident := verifyAdminToken(token)
	if ident == nil {
		t.Fatal("token should verify")
	}
	if ident.LocalUserID != "64b7f00000000000000000aa" {
		t.Errorf("LocalUserID = %q", ident.LocalUserID)
	}
	if ident.UID != "local:64b7f00000000000000000aa" {
		t.Errorf("UID = %q, want synthetic local id", ident.UID)
	}
	if ident.Email != "admin@stayhaven.app" {
		t.Errorf("Email = %q", ident.Email)
	}

	if verifyAdminToken("not-a-token") != nil {
		t.Error("garbage token should not verify")
	}

	t.Setenv("JWT_SECRET", "rotated-secret")
	if verifyAdminToken(token) != nil {
		t.Error("token signed with the old secret should not verify")
	}
}
