package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/repositories"
)

// RegisterUserRoutes sets up account and public owner profile routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline) {
	users := repositories.NewUserRepository(db)
	userController := controllers.NewUserController(db, users)

	api := e.Group("/api/users", middleware.Authenticate(db))

	// Self-provisioning after first external sign-in; throttled since it
	// is effectively account creation.
	api.POST("", pipeline.Guard(userController.CreateUser, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 5},
		Audit: &middleware.AuditSpec{
			Type:        models.EventAccountChange,
			Severity:    models.SeverityLow,
			Description: "account provisioned",
		},
	}), middleware.RequireAuth())

	api.GET("", userController.GetAllUsers, middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
	api.GET("/:id", userController.GetUser, middleware.RequireAuth())
	api.PATCH("/:id", userController.UpdateUser, middleware.RequireAuth())
	api.DELETE("/:id", userController.DeleteUser, middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))

	// Public partner contact card, no auth.
	e.GET("/api/owners/:id", userController.GetPublicOwner)
}
