package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/repositories"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// RegisterAdminRoutes sets up the admin API surface
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline, hub *websocket.Hub) {
	users := repositories.NewUserRepository(db)
	adminController := controllers.NewAdminController(db, users, pipeline)
	hotelController := controllers.NewHotelController(db, users)
	reviewController := controllers.NewReviewController(db)
	eventController := controllers.NewSecurityEventController(db)
	alertController := controllers.NewSystemAlertController(db, hub)
	settingsController := controllers.NewSettingsController(db)

	admin := e.Group("/api/admin", middleware.Authenticate(db), middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))

	admin.GET("/dashboard", adminController.GetDashboard)

	// Role and status changes audit through the controller; the guard
	// throttles them since both are high-impact.
	roleLimit := middleware.RateLimitConfig{Window: time.Minute, Max: 20}
	admin.POST("/users/:id/promote", pipeline.Guard(adminController.PromoteUser, middleware.GuardOptions{
		RateLimit: &roleLimit,
	}))
	admin.POST("/users/:id/demote", pipeline.Guard(adminController.DemoteUser, middleware.GuardOptions{
		RateLimit: &roleLimit,
	}))
	admin.POST("/users/:id/suspend", pipeline.Guard(adminController.SuspendUser, middleware.GuardOptions{
		RateLimit: &roleLimit,
	}))
	admin.POST("/users/:id/status/:status", pipeline.Guard(adminController.SetUserStatus, middleware.GuardOptions{
		RateLimit: &roleLimit,
	}))

	admin.GET("/security-events", pipeline.Guard(eventController.GetSecurityEvents, middleware.GuardOptions{
		Audit: &middleware.AuditSpec{
			Type:        models.EventDataExport,
			Severity:    models.SeverityLow,
			Description: "security events queried",
		},
	}))

	admin.GET("/alerts", alertController.GetAllAlerts)
	admin.POST("/alerts", alertController.CreateAlert)
	admin.PUT("/alerts/:id", alertController.UpdateAlert)
	admin.DELETE("/alerts/:id", alertController.DeleteAlert)

	admin.GET("/settings", settingsController.GetSystemSettings)
	admin.PUT("/settings", settingsController.UpdateSystemSettings)

	admin.PATCH("/hotels/:id/moderate", pipeline.Guard(hotelController.ModerateHotel, middleware.GuardOptions{
		Audit: &middleware.AuditSpec{
			Type:        models.EventModeration,
			Severity:    models.SeverityMedium,
			Description: "hotel moderated",
		},
	}))
	admin.PATCH("/reviews/:id/moderate", pipeline.Guard(reviewController.ModerateReview, middleware.GuardOptions{
		Audit: &middleware.AuditSpec{
			Type:        models.EventModeration,
			Severity:    models.SeverityLow,
			Description: "review moderated",
		},
	}))

	// Browser-facing admin pages sit behind a redirecting gate instead
	// of the JSON 401.
	pages := e.Group("/admin", middleware.Authenticate(db), middleware.AdminGate())
	pages.Static("", "static/admin")
}
