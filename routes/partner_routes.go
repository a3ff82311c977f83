package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/services"
)

// RegisterPartnerRoutes sets up partner onboarding and settings routes
func RegisterPartnerRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline, mailer *services.Mailer) {
	applicationController := controllers.NewPartnerApplicationController(db, pipeline, mailer)
	settingsController := controllers.NewSettingsController(db)

	// Applications can be filed before an account exists.
	e.POST("/api/partner-applications", pipeline.Guard(applicationController.CreateApplication, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Hour, Max: 3},
	}))

	e.GET("/api/partner-applications/:id/status", pipeline.Guard(applicationController.GetApplicationStatus, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 20},
	}))

	review := e.Group("/api/partner-applications", middleware.Authenticate(db), middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
	review.GET("", applicationController.GetApplications)
	review.GET("/:id", applicationController.GetApplication)
	review.PATCH("/:id", applicationController.DecideApplication)

	settings := e.Group("/api/partner/settings", middleware.Authenticate(db), middleware.RequireAuth(), middleware.RequireRole(models.RolePartner))
	settings.GET("", settingsController.GetPartnerSettings)
	settings.PUT("", settingsController.UpdatePartnerSettings)
}
