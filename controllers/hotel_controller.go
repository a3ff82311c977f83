package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/repositories"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// HotelController handles property listings
type HotelController struct {
	db    *mongo.Client
	users *repositories.UserRepository
}

// NewHotelController creates a new hotel controller
func NewHotelController(db *mongo.Client, users *repositories.UserRepository) *HotelController {
	return &HotelController{db: db, users: users}
}

// GetHotels lists properties. Non-admin callers only see approved, active
// listings. Filters: city, country, minPrice, maxPrice, ownerId.
func (c *HotelController) GetHotels(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if !middleware.IsAdmin(ctx) {
		filter["status"] = models.ModerationApproved
		filter["isActive"] = true
	} else if status := ctx.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	if city := ctx.QueryParam("city"); city != "" {
		filter["location.city"] = city
	}
	if country := ctx.QueryParam("country"); country != "" {
		filter["location.country"] = country
	}
	if ownerID := ctx.QueryParam("ownerId"); ownerID != "" {
		objID, err := primitive.ObjectIDFromHex(ownerID)
		if err == nil {
			filter["ownerId"] = objID
		}
	}

	price := bson.M{}
	if raw := ctx.QueryParam("minPrice"); raw != "" {
		if min, err := strconv.ParseFloat(raw, 64); err == nil {
			price["$gte"] = min
		}
	}
	if raw := ctx.QueryParam("maxPrice"); raw != "" {
		if max, err := strconv.ParseFloat(raw, 64); err == nil {
			price["$lte"] = max
		}
	}
	if len(price) > 0 {
		filter["pricePerNight"] = price
	}
	if amenity := ctx.QueryParam("amenity"); amenity != "" {
		filter["amenities"] = amenity
	}

	collection := config.GetCollection(c.db, "hotels")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list hotels")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list hotels")
	}
	defer cursor.Close(reqCtx)

	hotels := []models.Hotel{}
	if err := cursor.All(reqCtx, &hotels); err != nil {
		return internalError(ctx, err, "Failed to decode hotels")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      hotels,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// GetHotel returns a single property. Unapproved or inactive listings are
// visible only to their owner and admin.
func (c *HotelController) GetHotel(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var hotel models.Hotel
	err = config.GetCollection(c.db, "hotels").FindOne(reqCtx, bson.M{"_id": id}).Decode(&hotel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Hotel not found")
		}
		return internalError(ctx, err, "Failed to load hotel")
	}

	visible := hotel.Status == models.ModerationApproved && hotel.IsActive
	if !visible && !middleware.IsAdmin(ctx) && middleware.GetUserID(ctx) != hotel.OwnerID.Hex() {
		return notFound(ctx, "Hotel not found")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel loaded",
		Data:    hotel,
	})
}

// CreateHotel creates a listing for the calling partner, pending
// moderation
func (c *HotelController) CreateHotel(ctx echo.Context) error {
	ownerHex := middleware.GetUserID(ctx)
	ownerID, err := primitive.ObjectIDFromHex(ownerHex)
	if err != nil {
		return unauthorized(ctx)
	}

	var req models.CreateHotelRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	now := time.Now()
	hotel := models.Hotel{
		OwnerID:     ownerID,
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
		Location: models.HotelLocation{
			Address: utils.SanitizeInput(req.Address),
			City:    utils.SanitizeInput(req.City),
			Country: utils.SanitizeInput(req.Country),
			Lat:     req.Lat,
			Lng:     req.Lng,
		},
		Images:        req.Images,
		Amenities:     utils.SanitizeStringArray(req.Amenities),
		PricePerNight: req.PricePerNight,
		Status:        models.ModerationPending,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, room := range req.Rooms {
		hotel.Rooms = append(hotel.Rooms, models.Room{
			Type:          utils.SanitizeInput(room.Type),
			PricePerNight: room.PricePerNight,
			Available:     room.Available,
		})
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "hotels").InsertOne(reqCtx, hotel)
	if err != nil {
		return internalError(ctx, err, "Failed to create hotel")
	}
	hotel.ID = result.InsertedID.(primitive.ObjectID)

	// Counter update is a best-effort independent write.
	if err := c.users.IncrementCounter(reqCtx, ownerID, "properties", 1); err != nil {
		ctx.Logger().Warnf("failed to bump property counter for %s: %v", ownerHex, err)
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Hotel created, pending approval",
		Data:    hotel,
	})
}

// UpdateHotel edits a listing: owner or admin. Moderation fields are
// rejected here regardless of caller; they belong to ModerateHotel.
func (c *HotelController) UpdateHotel(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "hotels")
	var hotel models.Hotel
	if err := collection.FindOne(reqCtx, bson.M{"_id": id}).Decode(&hotel); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Hotel not found")
		}
		return internalError(ctx, err, "Failed to load hotel")
	}

	if !middleware.IsAdmin(ctx) && middleware.GetUserID(ctx) != hotel.OwnerID.Hex() {
		return forbidden(ctx, "You can only edit your own properties")
	}

	var req models.UpdateHotelRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = utils.SanitizeInput(req.Name)
	}
	if req.Description != "" {
		set["description"] = utils.SanitizeInput(req.Description)
	}
	if req.Address != "" {
		set["location.address"] = utils.SanitizeInput(req.Address)
	}
	if req.City != "" {
		set["location.city"] = utils.SanitizeInput(req.City)
	}
	if req.Country != "" {
		set["location.country"] = utils.SanitizeInput(req.Country)
	}
	if req.Lat != nil {
		set["location.lat"] = *req.Lat
	}
	if req.Lng != nil {
		set["location.lng"] = *req.Lng
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.Amenities != nil {
		set["amenities"] = utils.SanitizeStringArray(req.Amenities)
	}
	if req.PricePerNight != nil {
		set["pricePerNight"] = *req.PricePerNight
	}
	if req.Rooms != nil {
		rooms := make([]models.Room, 0, len(req.Rooms))
		for _, room := range req.Rooms {
			rooms = append(rooms, models.Room{
				Type:          utils.SanitizeInput(room.Type),
				PricePerNight: room.PricePerNight,
				Available:     room.Available,
			})
		}
		set["rooms"] = rooms
	}

	result := collection.FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Hotel
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to update hotel")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel updated",
		Data:    updated,
	})
}

// DeleteHotel removes a listing: owner or admin
func (c *HotelController) DeleteHotel(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "hotels")
	var hotel models.Hotel
	if err := collection.FindOne(reqCtx, bson.M{"_id": id}).Decode(&hotel); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Hotel not found")
		}
		return internalError(ctx, err, "Failed to load hotel")
	}

	if !middleware.IsAdmin(ctx) && middleware.GetUserID(ctx) != hotel.OwnerID.Hex() {
		return forbidden(ctx, "You can only delete your own properties")
	}

	if _, err := collection.DeleteOne(reqCtx, bson.M{"_id": id}); err != nil {
		return internalError(ctx, err, "Failed to delete hotel")
	}

	if err := c.users.IncrementCounter(reqCtx, hotel.OwnerID, "properties", -1); err != nil {
		ctx.Logger().Warnf("failed to decrement property counter: %v", err)
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel deleted",
	})
}

// ModerateHotel changes the moderation fields, admin only
func (c *HotelController) ModerateHotel(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	var req models.ModerateHotelRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "hotels").FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Hotel
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Hotel not found")
		}
		return internalError(ctx, err, "Failed to moderate hotel")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hotel moderation updated",
		Data:    updated,
	})
}
