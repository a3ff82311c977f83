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
)

// ReviewController handles guest reviews and their moderation
type ReviewController struct {
	db *mongo.Client
}

// NewReviewController creates a new review controller
func NewReviewController(db *mongo.Client) *ReviewController {
	return &ReviewController{db: db}
}

// GetHotelReviews lists approved reviews of a hotel. Admin additionally
// sees pending and rejected ones when asking for them.
func (c *ReviewController) GetHotelReviews(ctx echo.Context) error {
	hotelID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	filter := bson.M{"hotelId": hotelID, "status": models.ModerationApproved}
	if middleware.IsAdmin(ctx) {
		if status := ctx.QueryParam("status"); status != "" {
			filter["status"] = status
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "reviews")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list reviews")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list reviews")
	}
	defer cursor.Close(reqCtx)

	reviews := []models.Review{}
	if err := cursor.All(reqCtx, &reviews); err != nil {
		return internalError(ctx, err, "Failed to decode reviews")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      reviews,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// CreateReview creates a pending review. One review per guest per hotel,
// enforced by the unique index on (hotelId, userFirebaseUID).
func (c *ReviewController) CreateReview(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	var req models.CreateReviewRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	hotelID, err := primitive.ObjectIDFromHex(req.HotelID)
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(c.db, "hotels").CountDocuments(reqCtx, bson.M{
		"_id":      hotelID,
		"status":   models.ModerationApproved,
		"isActive": true,
	})
	if err != nil {
		return internalError(ctx, err, "Failed to load hotel")
	}
	if count == 0 {
		return notFound(ctx, "Hotel not found")
	}

	now := time.Now()
	review := models.Review{
		HotelID:         hotelID,
		UserFirebaseUID: uid,
		Rating:          req.Rating,
		Title:           utils.SanitizeInput(req.Title),
		Comment:         utils.SanitizeInput(req.Comment),
		Status:          models.ModerationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := config.GetCollection(c.db, "reviews").InsertOne(reqCtx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ctx.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "You have already reviewed this hotel",
			})
		}
		return internalError(ctx, err, "Failed to create review")
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Review submitted for moderation",
		Data:    review,
	})
}

// UpdateReview lets the author edit their review, which sends it back to
// moderation
func (c *ReviewController) UpdateReview(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Review not found")
	}

	var req models.UpdateReviewRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	set := bson.M{"status": models.ModerationPending, "updatedAt": time.Now()}
	if req.Rating != 0 {
		set["rating"] = req.Rating
	}
	if req.Title != "" {
		set["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Comment != "" {
		set["comment"] = utils.SanitizeInput(req.Comment)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	if !middleware.IsAdmin(ctx) {
		filter["userFirebaseUID"] = uid
	}

	result := config.GetCollection(c.db, "reviews").FindOneAndUpdate(reqCtx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Review
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Review not found")
		}
		return internalError(ctx, err, "Failed to update review")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review updated",
		Data:    updated,
	})
}

// DeleteReview removes a review, allowed for the author and admin
func (c *ReviewController) DeleteReview(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Review not found")
	}

	filter := bson.M{"_id": id}
	if !middleware.IsAdmin(ctx) {
		filter["userFirebaseUID"] = uid
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "reviews").DeleteOne(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to delete review")
	}
	if result.DeletedCount == 0 {
		return notFound(ctx, "Review not found")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review deleted",
	})
}

// ModerateReview is the admin approval endpoint
func (c *ReviewController) ModerateReview(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Review not found")
	}

	var req models.ModerateReviewRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "reviews").FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Review
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Review not found")
		}
		return internalError(ctx, err, "Failed to moderate review")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review moderated",
		Data:    updated,
	})
}
