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
	"github.com/stayhaven/stayhaven_backend/repositories"
	"github.com/stayhaven/stayhaven_backend/utils"
	"github.com/stayhaven/stayhaven_backend/websocket"
)

// BookingController handles booking creation and status transitions.
// Bookings are enquiries: no availability/overlap check is performed.
type BookingController struct {
	db    *mongo.Client
	users *repositories.UserRepository
	hub   *websocket.Hub
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, users *repositories.UserRepository, hub *websocket.Hub) *BookingController {
	return &BookingController{db: db, users: users, hub: hub}
}

// CreateBooking creates a pending booking for the authenticated guest
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	var req models.CreateBookingRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	checkIn, checkOut, err := ParseBookingDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{err.Error()},
		})
	}

	hotelID, err := primitive.ObjectIDFromHex(req.HotelID)
	if err != nil {
		return notFound(ctx, "Hotel not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var hotel models.Hotel
	err = config.GetCollection(c.db, "hotels").FindOne(reqCtx, bson.M{
		"_id":      hotelID,
		"status":   models.ModerationApproved,
		"isActive": true,
	}).Decode(&hotel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Hotel not found")
		}
		return internalError(ctx, err, "Failed to load hotel")
	}

	total, err := ComputeTotalPrice(&hotel, req.RoomType, checkIn, checkOut)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"roomType does not exist on this hotel"},
		})
	}

	now := time.Now()
	booking := models.Booking{
		HotelID:         hotelID,
		UserFirebaseUID: uid,
		Reference:       NewBookingReference(),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		RoomType:        req.RoomType,
		TotalPrice:      total,
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentUnpaid,
		GuestContact: models.GuestContact{
			Name:  utils.SanitizeInput(req.ContactName),
			Email: req.ContactEmail,
			Phone: req.ContactPhone,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if booking.GuestContact.Email == "" {
		booking.GuestContact.Email = middleware.GetEmail(ctx)
	}

	result, err := config.GetCollection(c.db, "bookings").InsertOne(reqCtx, booking)
	if err != nil {
		return internalError(ctx, err, "Failed to create booking")
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)

	// Independent follow-up writes; a failure leaves a retriable
	// inconsistency, not a failed request.
	if err := c.users.IncrementCounter(reqCtx, hotel.OwnerID, "bookings", 1); err != nil {
		ctx.Logger().Warnf("failed to bump booking counter: %v", err)
	}

	if owner, err := c.users.FindByID(reqCtx, hotel.OwnerID); err == nil {
		c.hub.NotifyBooking(owner.FirebaseUID, booking)
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking created",
		Data:    booking,
	})
}

// GetBookings lists bookings: guests see their own, partners see bookings
// of their hotels, admin sees everything
func (c *BookingController) GetBookings(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	switch {
	case middleware.IsAdmin(ctx):
		if status := ctx.QueryParam("status"); status != "" {
			filter["status"] = status
		}
	case middleware.GetRole(ctx) == models.RolePartner:
		hotelIDs, err := c.ownedHotelIDs(reqCtx, ctx)
		if err != nil {
			return internalError(ctx, err, "Failed to list bookings")
		}
		filter["$or"] = bson.A{
			bson.M{"hotelId": bson.M{"$in": hotelIDs}},
			bson.M{"userFirebaseUID": uid},
		}
	default:
		filter["userFirebaseUID"] = uid
	}

	collection := config.GetCollection(c.db, "bookings")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list bookings")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list bookings")
	}
	defer cursor.Close(reqCtx)

	bookings := []models.Booking{}
	if err := cursor.All(reqCtx, &bookings); err != nil {
		return internalError(ctx, err, "Failed to decode bookings")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      bookings,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// GetBooking returns a single booking for a participant (creator, hotel
// owner) or admin
func (c *BookingController) GetBooking(ctx echo.Context) error {
	booking, hotel, ok := c.loadBookingWithHotel(ctx)
	if !ok {
		return nil
	}

	if !c.isParticipant(ctx, booking, hotel) {
		return forbidden(ctx, "You are not part of this booking")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking loaded",
		Data:    booking,
	})
}

// UpdateBookingStatus applies a status transition. Hotel owner and admin
// may apply any; the booking's creator may only cancel.
func (c *BookingController) UpdateBookingStatus(ctx echo.Context) error {
	var req models.UpdateBookingStatusRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	booking, hotel, ok := c.loadBookingWithHotel(ctx)
	if !ok {
		return nil
	}

	isAdmin := middleware.IsAdmin(ctx)
	isOwner := hotel != nil && middleware.GetUserID(ctx) == hotel.OwnerID.Hex()
	isCreator := middleware.GetFirebaseUID(ctx) == booking.UserFirebaseUID

	if !CanUpdateBookingStatus(isAdmin, isOwner, isCreator, req.Status) {
		return forbidden(ctx, "You cannot apply this status change")
	}

	set := bson.M{"status": req.Status, "updatedAt": time.Now()}
	if req.PaymentStatus != "" && (isAdmin || isOwner) {
		set["paymentStatus"] = req.PaymentStatus
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "bookings").FindOneAndUpdate(reqCtx,
		bson.M{"_id": booking.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Booking
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to update booking")
	}

	c.hub.NotifyBooking(updated.UserFirebaseUID, updated)

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking updated",
		Data:    updated,
	})
}

// GetBookingQR renders the booking reference as a PNG QR code for
// check-in, available to booking participants
func (c *BookingController) GetBookingQR(ctx echo.Context) error {
	booking, hotel, ok := c.loadBookingWithHotel(ctx)
	if !ok {
		return nil
	}

	if !c.isParticipant(ctx, booking, hotel) {
		return forbidden(ctx, "You are not part of this booking")
	}

	img, err := utils.BookingQRCode(booking.Reference, 256)
	if err != nil {
		return internalError(ctx, err, "Failed to render QR code")
	}
	return ctx.Blob(http.StatusOK, "image/png", img)
}

func (c *BookingController) isParticipant(ctx echo.Context, booking *models.Booking, hotel *models.Hotel) bool {
	if middleware.IsAdmin(ctx) {
		return true
	}
	if middleware.GetFirebaseUID(ctx) == booking.UserFirebaseUID {
		return true
	}
	return hotel != nil && middleware.GetUserID(ctx) == hotel.OwnerID.Hex()
}

// loadBookingWithHotel loads the booking in the :id param and its hotel,
// writing the error response itself on failure. A missing hotel document
// is tolerated; authorization then falls back to creator-or-admin.
func (c *BookingController) loadBookingWithHotel(ctx echo.Context) (*models.Booking, *models.Hotel, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		notFound(ctx, "Booking not found")
		return nil, nil, false
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.GetCollection(c.db, "bookings").FindOne(reqCtx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			notFound(ctx, "Booking not found")
		} else {
			internalError(ctx, err, "Failed to load booking")
		}
		return nil, nil, false
	}

	var hotel models.Hotel
	err = config.GetCollection(c.db, "hotels").FindOne(reqCtx, bson.M{"_id": booking.HotelID}).Decode(&hotel)
	if err != nil {
		return &booking, nil, true
	}
	return &booking, &hotel, true
}

func (c *BookingController) ownedHotelIDs(reqCtx context.Context, ctx echo.Context) ([]primitive.ObjectID, error) {
	ownerID, err := primitive.ObjectIDFromHex(middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	cursor, err := config.GetCollection(c.db, "hotels").Find(reqCtx,
		bson.M{"ownerId": ownerID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(reqCtx)

	ids := []primitive.ObjectID{}
	for cursor.Next(reqCtx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err == nil {
			ids = append(ids, doc.ID)
		}
	}
	return ids, cursor.Err()
}
