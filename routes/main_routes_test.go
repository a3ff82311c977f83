package routes

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/services"
	"github.com/stayhaven/stayhaven_backend/utils"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// Uploads are needed before a caller holds the partner role: applicants
// attach licence documents and guests set avatars. An authenticated
// guest must reach the handler instead of a role rejection.
func TestUploadRouteAllowsAuthenticatedGuests(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_UPLOAD_URL", "")
	t.Setenv("STORAGE_PRIVATE_KEY", "")

	sink := utils.NewAuditSink(func(context.Context, models.SecurityEvent) error { return nil }, 16)
	go sink.Run()
	t.Cleanup(sink.Close)
	pipeline := middleware.NewPipeline(middleware.NewRouteLimiter(middleware.NewMemoryWindowStore(0)), sink)

	e := echo.New()
	RegisterMainRoutes(e, nil, pipeline, websocket.NewHub(), services.NewStorageService())

	// Without a Firebase client configured, development mode resolves
	// identity from the decoded token; a nil db resolves the role to guest.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "guest-7031",
		"email": "guest@example.com",
	}).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", "licence.pdf")
	if err != nil {
		t.Fatalf("building form: %v", err)
	}
	part.Write([]byte("%PDF-1.4"))
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	req.Header.Set("X-Real-IP", "203.0.113.40")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Storage is unconfigured, so reaching the handler means 503; a 403
	// would mean the route still gates on role.
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusServiceUnavailable, rec.Body.String())
	}
}
