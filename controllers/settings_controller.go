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
)

// SettingsController serves per-partner and global settings documents.
// Both are created lazily with defaults on first read.
type SettingsController struct {
	db *mongo.Client
}

// NewSettingsController creates a new settings controller
func NewSettingsController(db *mongo.Client) *SettingsController {
	return &SettingsController{db: db}
}

// GetPartnerSettings returns the caller's settings, creating defaults on
// first access. Admin may read any partner's settings via ?userId=.
func (c *SettingsController) GetPartnerSettings(ctx echo.Context) error {
	userID, errResp := c.partnerSettingsOwner(ctx)
	if errResp != nil {
		return errResp()
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	settings, err := c.loadOrCreatePartnerSettings(reqCtx, userID)
	if err != nil {
		return internalError(ctx, err, "Failed to load settings")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings loaded",
		Data:    settings.Sanitize(middleware.GetRole(ctx)),
	})
}

// UpdatePartnerSettings patches the caller's settings document
func (c *SettingsController) UpdatePartnerSettings(ctx echo.Context) error {
	userID, errResp := c.partnerSettingsOwner(ctx)
	if errResp != nil {
		return errResp()
	}

	var req models.UpdatePartnerSettingsRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := c.loadOrCreatePartnerSettings(reqCtx, userID); err != nil {
		return internalError(ctx, err, "Failed to load settings")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Notifications != nil {
		set["notifications"] = req.Notifications
	}
	if req.Payout != nil {
		set["payout"] = req.Payout
	}
	if req.PublicContact != nil {
		set["publicContact"] = req.PublicContact
	}

	result := config.GetCollection(c.db, "partnerSettings").FindOneAndUpdate(reqCtx,
		bson.M{"userId": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.PartnerSettings
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to update settings")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings updated",
		Data:    updated.Sanitize(middleware.GetRole(ctx)),
	})
}

// GetPublicSystemSettings serves the unauthenticated subset of the
// global settings
func (c *SettingsController) GetPublicSystemSettings(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	settings, err := c.loadOrCreateSystemSettings(reqCtx)
	if err != nil {
		return internalError(ctx, err, "Failed to load settings")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "System settings",
		Data:    settings.Public(),
	})
}

// GetSystemSettings is the full admin view
func (c *SettingsController) GetSystemSettings(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	settings, err := c.loadOrCreateSystemSettings(reqCtx)
	if err != nil {
		return internalError(ctx, err, "Failed to load settings")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "System settings",
		Data:    settings,
	})
}

// UpdateSystemSettings patches the global settings document
func (c *SettingsController) UpdateSystemSettings(ctx echo.Context) error {
	var req models.UpdateSystemSettingsRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := c.loadOrCreateSystemSettings(reqCtx); err != nil {
		return internalError(ctx, err, "Failed to load settings")
	}

	set := bson.M{
		"updatedAt": time.Now(),
		"updatedBy": middleware.GetFirebaseUID(ctx),
	}
	if req.PlatformFeePercent != nil {
		set["platformFeePercent"] = *req.PlatformFeePercent
	}
	if req.MaxBookingNights != nil {
		set["maxBookingNights"] = *req.MaxBookingNights
	}
	if req.MaxGuestsPerRoom != nil {
		set["maxGuestsPerRoom"] = *req.MaxGuestsPerRoom
	}
	if req.MaintenanceMode != nil {
		set["maintenanceMode"] = *req.MaintenanceMode
	}
	if req.ContactEmail != "" {
		set["contactEmail"] = req.ContactEmail
	}
	if req.StorageWebhookKey != "" {
		set["storageWebhookKey"] = req.StorageWebhookKey
	}

	result := config.GetCollection(c.db, "systemSettings").FindOneAndUpdate(reqCtx,
		bson.M{},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.SystemSettings
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to update settings")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "System settings updated",
		Data:    updated,
	})
}

// partnerSettingsOwner resolves which partner's settings the request
// targets: the caller's own, or any via ?userId= for admin
func (c *SettingsController) partnerSettingsOwner(ctx echo.Context) (primitive.ObjectID, func() error) {
	if target := ctx.QueryParam("userId"); target != "" && middleware.IsAdmin(ctx) {
		id, err := primitive.ObjectIDFromHex(target)
		if err != nil {
			return primitive.NilObjectID, func() error { return notFound(ctx, "User not found") }
		}
		return id, nil
	}

	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, func() error { return unauthorized(ctx) }
	}
	return id, nil
}

func (c *SettingsController) loadOrCreatePartnerSettings(reqCtx context.Context, userID primitive.ObjectID) (*models.PartnerSettings, error) {
	collection := config.GetCollection(c.db, "partnerSettings")

	var settings models.PartnerSettings
	err := collection.FindOne(reqCtx, bson.M{"userId": userID}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	settings = models.DefaultPartnerSettings(userID)
	result, err := collection.InsertOne(reqCtx, settings)
	if err != nil {
		// Lost a create race; the other writer's document wins.
		if mongo.IsDuplicateKeyError(err) {
			if err := collection.FindOne(reqCtx, bson.M{"userId": userID}).Decode(&settings); err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	settings.ID = result.InsertedID.(primitive.ObjectID)
	return &settings, nil
}

func (c *SettingsController) loadOrCreateSystemSettings(reqCtx context.Context) (*models.SystemSettings, error) {
	collection := config.GetCollection(c.db, "systemSettings")

	var settings models.SystemSettings
	err := collection.FindOne(reqCtx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	settings = models.DefaultSystemSettings()
	result, err := collection.InsertOne(reqCtx, settings)
	if err != nil {
		return nil, err
	}
	settings.ID = result.InsertedID.(primitive.ObjectID)
	return &settings, nil
}
