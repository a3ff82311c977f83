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

// RegisterHotelRoutes sets up listing browse, management, moderation and
// review routes
func RegisterHotelRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline) {
	users := repositories.NewUserRepository(db)
	hotelController := controllers.NewHotelController(db, users)
	reviewController := controllers.NewReviewController(db)

	hotels := e.Group("/api/hotels", middleware.Authenticate(db))

	// Browsing is open; Authenticate only resolves an identity when one
	// is presented, so anonymous guests see approved listings.
	hotels.GET("", hotelController.GetHotels)
	hotels.GET("/:id", hotelController.GetHotel)
	hotels.GET("/:id/reviews", reviewController.GetHotelReviews)

	hotels.POST("", hotelController.CreateHotel, middleware.RequireAuth(), middleware.RequireRole(models.RolePartner))
	hotels.PATCH("/:id", hotelController.UpdateHotel, middleware.RequireAuth(), middleware.RequireRole(models.RolePartner))
	hotels.DELETE("/:id", hotelController.DeleteHotel, middleware.RequireAuth(), middleware.RequireRole(models.RolePartner))

	reviews := e.Group("/api/reviews", middleware.Authenticate(db), middleware.RequireAuth())
	reviews.POST("", pipeline.Guard(reviewController.CreateReview, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Hour, Max: 10},
	}))
	reviews.PATCH("/:id", reviewController.UpdateReview)
	reviews.DELETE("/:id", reviewController.DeleteReview)
}
