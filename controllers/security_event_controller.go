package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// SecurityEventController exposes the audit trail to admin
type SecurityEventController struct {
	db *mongo.Client
}

// NewSecurityEventController creates a new security event controller
func NewSecurityEventController(db *mongo.Client) *SecurityEventController {
	return &SecurityEventController{db: db}
}

// GetSecurityEvents lists recorded events, newest first, filterable by
// type, severity, user and time range
func (c *SecurityEventController) GetSecurityEvents(ctx echo.Context) error {
	filter := bson.M{}
	if eventType := ctx.QueryParam("type"); eventType != "" {
		filter["type"] = eventType
	}
	if severity := ctx.QueryParam("severity"); severity != "" {
		filter["severity"] = severity
	}
	if userID := ctx.QueryParam("userId"); userID != "" {
		filter["userId"] = userID
	}
	if createdRange := timeRangeFilter(ctx.QueryParam("from"), ctx.QueryParam("to")); createdRange != nil {
		filter["createdAt"] = createdRange
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "securityEvents")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list security events")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list security events")
	}
	defer cursor.Close(reqCtx)

	events := []models.SecurityEvent{}
	if err := cursor.All(reqCtx, &events); err != nil {
		return internalError(ctx, err, "Failed to decode security events")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      events,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// timeRangeFilter builds a createdAt range from RFC 3339 bounds, ignoring
// unparseable ones
func timeRangeFilter(from, to string) bson.M {
	rangeFilter := bson.M{}
	if from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			rangeFilter["$gte"] = t
		}
	}
	if to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			rangeFilter["$lte"] = t
		}
	}
	if len(rangeFilter) == 0 {
		return nil
	}
	return rangeFilter
}
