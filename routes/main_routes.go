package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/services"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// RegisterMainRoutes sets up health checks, public content, uploads and
// the websocket endpoint
func RegisterMainRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline, hub *websocket.Hub, storage *services.StorageService) {
	alertController := controllers.NewSystemAlertController(db, hub)
	settingsController := controllers.NewSettingsController(db)
	uploadController := controllers.NewUploadController(storage, pipeline)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "StayHaven backend is running",
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := db.Ping(ctx, readpref.Primary()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/api/alerts", alertController.GetActiveAlerts)
	e.GET("/api/settings/public", settingsController.GetPublicSystemSettings)

	// Any authenticated caller may upload: applicants attach licence
	// documents before they hold the partner role, guests set avatars.
	e.POST("/api/uploads", pipeline.Guard(uploadController.UploadFile, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 10},
	}), middleware.Authenticate(db), middleware.RequireAuth())

	e.GET("/ws", func(c echo.Context) error {
		uid := middleware.GetFirebaseUID(c)
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		return websocket.HandleWebSocket(c, hub, uid)
	}, middleware.Authenticate(db))
}
