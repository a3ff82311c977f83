package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/utils"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// SystemAlertController manages admin banners shown to all users
type SystemAlertController struct {
	db  *mongo.Client
	hub *websocket.Hub
}

// NewSystemAlertController creates a new system alert controller
func NewSystemAlertController(db *mongo.Client, hub *websocket.Hub) *SystemAlertController {
	return &SystemAlertController{db: db, hub: hub}
}

// GetActiveAlerts is the public endpoint: active, non-expired alerts only
func (c *SystemAlertController) GetActiveAlerts(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$exists": false}},
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": now}},
		},
	}

	cursor, err := config.GetCollection(c.db, "systemAlerts").Find(reqCtx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return internalError(ctx, err, "Failed to list alerts")
	}
	defer cursor.Close(reqCtx)

	alerts := []models.SystemAlert{}
	if err := cursor.All(reqCtx, &alerts); err != nil {
		return internalError(ctx, err, "Failed to decode alerts")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Active alerts",
		Data:    alerts,
	})
}

// GetAllAlerts is the admin listing, active or not
func (c *SystemAlertController) GetAllAlerts(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "systemAlerts")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, bson.M{})
	if err != nil {
		return internalError(ctx, err, "Failed to list alerts")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, bson.M{}, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list alerts")
	}
	defer cursor.Close(reqCtx)

	alerts := []models.SystemAlert{}
	if err := cursor.All(reqCtx, &alerts); err != nil {
		return internalError(ctx, err, "Failed to decode alerts")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      alerts,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// CreateAlert creates an alert and, when active, pushes it to connected
// clients
func (c *SystemAlertController) CreateAlert(ctx echo.Context) error {
	var req models.CreateAlertRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	now := time.Now()
	alert := models.SystemAlert{
		Title:     utils.SanitizeInput(req.Title),
		Message:   utils.SanitizeInput(req.Message),
		Severity:  req.Severity,
		Active:    req.Active,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: middleware.GetFirebaseUID(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "systemAlerts").InsertOne(reqCtx, alert)
	if err != nil {
		return internalError(ctx, err, "Failed to create alert")
	}
	alert.ID = result.InsertedID.(primitive.ObjectID)

	if alert.Active {
		c.hub.BroadcastAlert(alert)
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Alert created",
		Data:    alert,
	})
}

// UpdateAlert edits an alert; activating one re-broadcasts it
func (c *SystemAlertController) UpdateAlert(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Alert not found")
	}

	var req models.UpdateAlertRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		set["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Message != "" {
		set["message"] = utils.SanitizeInput(req.Message)
	}
	if req.Severity != "" {
		set["severity"] = req.Severity
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}
	if req.ExpiresAt != nil {
		set["expiresAt"] = req.ExpiresAt
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "systemAlerts").FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.SystemAlert
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Alert not found")
		}
		return internalError(ctx, err, "Failed to update alert")
	}

	if req.Active != nil && *req.Active {
		c.hub.BroadcastAlert(updated)
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Alert updated",
		Data:    updated,
	})
}

// DeleteAlert removes an alert
func (c *SystemAlertController) DeleteAlert(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Alert not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "systemAlerts").DeleteOne(reqCtx, bson.M{"_id": id})
	if err != nil {
		return internalError(ctx, err, "Failed to delete alert")
	}
	if result.DeletedCount == 0 {
		return notFound(ctx, "Alert not found")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Alert deleted",
	})
}
