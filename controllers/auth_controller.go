package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/repositories"
)

const sessionCookieTTL = 5 * 24 * time.Hour

// AuthController handles session-cookie exchange and the break-glass
// admin login
type AuthController struct {
	db       *mongo.Client
	users    *repositories.UserRepository
	pipeline *middleware.Pipeline
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, users *repositories.UserRepository, pipeline *middleware.Pipeline) *AuthController {
	return &AuthController{db: db, users: users, pipeline: pipeline}
}

// SessionRequest carries the identity provider's bearer token
type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required,min=20"`
}

// CreateSession exchanges a bearer token for an HttpOnly session cookie
func (c *AuthController) CreateSession(ctx echo.Context) error {
	var req SessionRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	client := config.AuthClient()
	if client == nil {
		if config.IsProduction() {
			// Without a verifier every token is invalid.
			return unauthorized(ctx)
		}
		// Development: the raw token becomes the cookie and the
		// middleware decodes it unverified.
		setSessionCookie(ctx, req.IDToken, sessionCookieTTL)
		return ctx.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Session created (unverified, development only)",
		})
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	cookie, err := client.SessionCookie(reqCtx, req.IDToken, sessionCookieTTL)
	if err != nil {
		return unauthorized(ctx)
	}

	setSessionCookie(ctx, cookie, sessionCookieTTL)
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Session created",
	})
}

// DestroySession clears the session cookie
func (c *AuthController) DestroySession(ctx echo.Context) error {
	setSessionCookie(ctx, "", -time.Hour)
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Session destroyed",
	})
}

// Me returns the caller's user record, or the bare identity when no
// record exists yet
func (c *AuthController) Me(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := c.users.FindByFirebaseUID(reqCtx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "No profile yet",
				Data: map[string]string{
					"firebaseUID": uid,
					"email":       middleware.GetEmail(ctx),
					"role":        middleware.GetRole(ctx),
				},
			})
		}
		return internalError(ctx, err, "Failed to load profile")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile loaded",
		Data:    user,
	})
}

// AdminLogin is the break-glass bootstrap login for the admin dashboard.
// It is strictly rate limited and every attempt is audited.
func (c *AuthController) AdminLogin(ctx echo.Context) error {
	var req models.AdminLoginRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := c.users.FindByEmail(reqCtx, req.Email)
	if err != nil || user.Role != models.RoleAdmin || user.PasswordHash == "" {
		c.auditLoginFailure(ctx, req.Email)
		return unauthorized(ctx)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.auditLoginFailure(ctx, req.Email)
		return unauthorized(ctx)
	}

	token, err := middleware.GenerateAdminToken(user.ID.Hex(), user.Email)
	if err != nil {
		return internalError(ctx, err, "Failed to create session")
	}

	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventLoginSuccess,
		Severity:    models.SeverityLow,
		Description: "Admin login succeeded",
	}, map[string]interface{}{"email": user.Email})

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    map[string]string{"token": token},
	})
}

func (c *AuthController) auditLoginFailure(ctx echo.Context, email string) {
	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventLoginFailure,
		Severity:    models.SeverityMedium,
		Description: "Admin login failed",
	}, map[string]interface{}{"email": email})
}

func setSessionCookie(ctx echo.Context, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	}
	ctx.SetCookie(cookie)
}
