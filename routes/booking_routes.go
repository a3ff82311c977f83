package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/repositories"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// RegisterBookingRoutes sets up booking routes
func RegisterBookingRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline, hub *websocket.Hub) {
	users := repositories.NewUserRepository(db)
	bookingController := controllers.NewBookingController(db, users, hub)

	bookings := e.Group("/api/bookings", middleware.Authenticate(db), middleware.RequireAuth())

	bookings.POST("", pipeline.Guard(bookingController.CreateBooking, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 10},
	}))
	bookings.GET("", bookingController.GetBookings)
	bookings.GET("/:id", bookingController.GetBooking)
	bookings.GET("/:id/qr", bookingController.GetBookingQR)
	bookings.PATCH("/:id/status", bookingController.UpdateBookingStatus)
}
