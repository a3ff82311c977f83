package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/controllers"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// RegisterMessageRoutes sets up messaging and support ticket routes
func RegisterMessageRoutes(e *echo.Echo, db *mongo.Client, pipeline *middleware.Pipeline, hub *websocket.Hub) {
	messageController := controllers.NewMessageController(db, hub)
	ticketController := controllers.NewSupportTicketController(db)

	messages := e.Group("/api/messages", middleware.Authenticate(db), middleware.RequireAuth())
	messages.GET("", messageController.GetMessages)
	messages.POST("", pipeline.Guard(messageController.CreateMessage, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 20},
	}))
	messages.GET("/:id", messageController.GetMessage)
	messages.PATCH("/:id/read", messageController.MarkMessageRead)
	messages.POST("/:id/replies", pipeline.Guard(messageController.ReplyMessage, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Minute, Max: 30},
	}))

	tickets := e.Group("/api/support/tickets", middleware.Authenticate(db), middleware.RequireAuth())
	tickets.GET("", ticketController.GetTickets)
	tickets.POST("", pipeline.Guard(ticketController.CreateTicket, middleware.GuardOptions{
		RateLimit: &middleware.RateLimitConfig{Window: time.Hour, Max: 10},
	}))
	tickets.GET("/:id", ticketController.GetTicket)
	tickets.POST("/:id/messages", ticketController.AddTicketMessage)
	tickets.PATCH("/:id", ticketController.UpdateTicket, middleware.RequireRole(models.RoleAdmin))
}
