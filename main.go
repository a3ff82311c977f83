package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/routes"
	"github.com/stayhaven/stayhaven_backend/services"
	"github.com/stayhaven/stayhaven_backend/utils"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase
	config.InitFirebase()

	// Connect to Redis (optional; the rate limiter falls back to memory)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Audit sink drains security events to Mongo in the background
	auditSink := utils.NewMongoAuditSink(client, 256)
	go auditSink.Run()
	defer auditSink.Close()

	// Per-route fixed-window limiter: shared counters in Redis when
	// available, per-process memory otherwise
	var windowStore middleware.WindowStore
	if redisClient := config.GetRedisClient(); redisClient != nil {
		windowStore = middleware.NewRedisWindowStore(redisClient)
	} else {
		windowStore = middleware.NewMemoryWindowStore(0)
	}
	pipeline := middleware.NewPipeline(middleware.NewRouteLimiter(windowStore), auditSink)

	mailer := services.NewMailer()
	storage := services.NewStorageService()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize global rate limiter
	globalLimiter := middleware.NewGlobalRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(globalLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	// Register routes
	routes.RegisterMainRoutes(e, client, pipeline, wsHub, storage)
	routes.RegisterAuthRoutes(e, client, pipeline)
	routes.RegisterUserRoutes(e, client, pipeline)
	routes.RegisterHotelRoutes(e, client, pipeline)
	routes.RegisterBookingRoutes(e, client, pipeline, wsHub)
	routes.RegisterMessageRoutes(e, client, pipeline, wsHub)
	routes.RegisterPartnerRoutes(e, client, pipeline, mailer)
	routes.RegisterAdminRoutes(e, client, pipeline, wsHub)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
