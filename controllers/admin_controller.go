package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/repositories"
)

// AdminController serves the dashboard and user administration actions
type AdminController struct {
	db       *mongo.Client
	users    *repositories.UserRepository
	pipeline *middleware.Pipeline
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, users *repositories.UserRepository, pipeline *middleware.Pipeline) *AdminController {
	return &AdminController{db: db, users: users, pipeline: pipeline}
}

// DashboardStats is the admin overview payload
type DashboardStats struct {
	TotalUsers          int64   `json:"totalUsers"`
	TotalPartners       int64   `json:"totalPartners"`
	TotalHotels         int64   `json:"totalHotels"`
	PendingHotels       int64   `json:"pendingHotels"`
	TotalBookings       int64   `json:"totalBookings"`
	ActiveBookings      int64   `json:"activeBookings"`
	PendingApplications int64   `json:"pendingApplications"`
	OpenTickets         int64   `json:"openTickets"`
	OccupancyPercent    float64 `json:"occupancyPercent"`
}

// GetDashboard aggregates platform-wide counts. Occupancy is a rough
// heuristic: confirmed upcoming bookings against an assumed 30 bookable
// slots per listed hotel.
func (c *AdminController) GetDashboard(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	stats := DashboardStats{}
	counts := []struct {
		collection string
		filter     bson.M
		target     *int64
	}{
		{"users", bson.M{}, &stats.TotalUsers},
		{"users", bson.M{"role": models.RolePartner}, &stats.TotalPartners},
		{"hotels", bson.M{}, &stats.TotalHotels},
		{"hotels", bson.M{"status": models.ModerationPending}, &stats.PendingHotels},
		{"bookings", bson.M{}, &stats.TotalBookings},
		{"bookings", bson.M{
			"status":   models.BookingConfirmed,
			"checkOut": bson.M{"$gte": time.Now()},
		}, &stats.ActiveBookings},
		{"partnerApplications", bson.M{"status": bson.M{"$in": bson.A{
			models.ApplicationPendingReview,
			models.ApplicationUnderReview,
		}}}, &stats.PendingApplications},
		{"supportTickets", bson.M{"status": bson.M{"$in": bson.A{
			models.TicketOpen,
			models.TicketInProgress,
		}}}, &stats.OpenTickets},
	}

	for _, count := range counts {
		n, err := config.GetCollection(c.db, count.collection).CountDocuments(reqCtx, count.filter)
		if err != nil {
			return internalError(ctx, err, "Failed to load dashboard")
		}
		*count.target = n
	}

	if stats.TotalHotels > 0 {
		stats.OccupancyPercent = float64(stats.ActiveBookings) / float64(stats.TotalHotels*30) * 100
		if stats.OccupancyPercent > 100 {
			stats.OccupancyPercent = 100
		}
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats",
		Data:    stats,
	})
}

// PromoteUser elevates an account to admin. This is the only path that
// can assign the admin role.
func (c *AdminController) PromoteUser(ctx echo.Context) error {
	return c.changeRole(ctx, models.RoleAdmin)
}

// DemoteUser strips elevated roles back to guest
func (c *AdminController) DemoteUser(ctx echo.Context) error {
	return c.changeRole(ctx, models.RoleGuest)
}

// changeRole applies a role change to the user in the :id param
func (c *AdminController) changeRole(ctx echo.Context, role string) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "User not found")
	}

	if role != models.RoleAdmin && id.Hex() == middleware.GetUserID(ctx) {
		return forbidden(ctx, "You cannot demote your own account")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := c.users.FindByID(reqCtx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "User not found")
		}
		return internalError(ctx, err, "Failed to load user")
	}

	if user.Role == role {
		return ctx.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "User already has this role",
			Data:    user,
		})
	}

	if err := c.users.SetRole(reqCtx, id, role); err != nil {
		return internalError(ctx, err, "Failed to change role")
	}

	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventRoleChange,
		Severity:    models.SeverityHigh,
		Description: "user role changed",
	}, map[string]interface{}{
		"targetUserId": id.Hex(),
		"fromRole":     user.Role,
		"toRole":       role,
	})

	user.Role = role
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Role updated",
		Data:    user,
	})
}

// SuspendUser locks an account without deleting it
func (c *AdminController) SuspendUser(ctx echo.Context) error {
	return c.setStatus(ctx, models.StatusSuspended)
}

// SetUserStatus suspends, bans or reactivates an account based on the
// :status path param
func (c *AdminController) SetUserStatus(ctx echo.Context) error {
	status := ctx.Param("status")
	switch status {
	case models.StatusActive, models.StatusSuspended, models.StatusBanned:
	default:
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"unknown status"},
		})
	}
	return c.setStatus(ctx, status)
}

func (c *AdminController) setStatus(ctx echo.Context, status string) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "User not found")
	}

	// Admin cannot lock themselves out.
	if id.Hex() == middleware.GetUserID(ctx) && status != models.StatusActive {
		return forbidden(ctx, "You cannot suspend your own account")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := c.users.FindByID(reqCtx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "User not found")
		}
		return internalError(ctx, err, "Failed to load user")
	}

	if err := c.users.SetStatus(reqCtx, id, status); err != nil {
		return internalError(ctx, err, "Failed to change status")
	}

	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventAccountChange,
		Severity:    models.SeverityHigh,
		Description: "user status changed",
	}, map[string]interface{}{
		"targetUserId": id.Hex(),
		"fromStatus":   user.Status,
		"toStatus":     status,
	})

	user.Status = status
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Status updated",
		Data:    user,
	})
}
