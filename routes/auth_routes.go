package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/repositories"
)

// RegisterAuthRoutes sets up session and login routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline) {
	users := repositories.NewUserRepository(db)
	authController := controllers.NewAuthController(db, users, pipeline)

	session := e.Group("/api/session")
	session.POST("", pipeline.Guard(authController.CreateSession, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 10},
	}))
	session.DELETE("", authController.DestroySession)
	session.GET("/me", authController.Me, middleware.Authenticate(db), middleware.RequireAuth())

	// Break-glass password login, heavily throttled. The controller
	// records the login_success/login_failure events itself.
	e.POST("/api/admin/login", pipeline.Guard(authController.AdminLogin, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: 15 * time.Minute, Max: 5},
	}))
}
