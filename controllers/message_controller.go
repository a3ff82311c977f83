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

// MessageController handles guest-partner message threads
type MessageController struct {
	db  *mongo.Client
	hub *websocket.Hub
}

// NewMessageController creates a new message controller
func NewMessageController(db *mongo.Client, hub *websocket.Hub) *MessageController {
	return &MessageController{db: db, hub: hub}
}

// GetMessages lists threads the caller participates in, newest activity
// first. Admin may list everything.
func (c *MessageController) GetMessages(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"fromUID": uid},
		bson.M{"toUID": uid},
	}}
	if middleware.IsAdmin(ctx) && ctx.QueryParam("all") == "true" {
		filter = bson.M{}
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "messages")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list messages")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list messages")
	}
	defer cursor.Close(reqCtx)

	messages := []models.Message{}
	if err := cursor.All(reqCtx, &messages); err != nil {
		return internalError(ctx, err, "Failed to decode messages")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      messages,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// CreateMessage starts a new thread and pushes a live notification to the
// recipient when connected
func (c *MessageController) CreateMessage(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	var req models.CreateMessageRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}
	if req.ToUID == uid {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"cannot send a message to yourself"},
		})
	}

	now := time.Now()
	message := models.Message{
		FromUID:   uid,
		ToUID:     req.ToUID,
		Subject:   utils.SanitizeInput(req.Subject),
		Body:      utils.SanitizeInput(req.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.HotelID != "" {
		hotelID, err := primitive.ObjectIDFromHex(req.HotelID)
		if err != nil {
			return notFound(ctx, "Hotel not found")
		}
		message.HotelID = &hotelID
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "messages").InsertOne(reqCtx, message)
	if err != nil {
		return internalError(ctx, err, "Failed to send message")
	}
	message.ID = result.InsertedID.(primitive.ObjectID)

	c.hub.NotifyMessage(message.ToUID, message)

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Message sent",
		Data:    message,
	})
}

// GetMessage returns a single thread for a participant or admin
func (c *MessageController) GetMessage(ctx echo.Context) error {
	message, ok := c.loadMessage(ctx)
	if !ok {
		return nil
	}

	uid := middleware.GetFirebaseUID(ctx)
	if !message.IsParticipant(uid) && !middleware.IsAdmin(ctx) {
		return forbidden(ctx, "You are not part of this conversation")
	}

	// Opening a thread marks it read for the recipient.
	if message.ToUID == uid && !message.Read {
		reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
		defer cancel()
		_, err := config.GetCollection(c.db, "messages").UpdateOne(reqCtx,
			bson.M{"_id": message.ID},
			bson.M{"$set": bson.M{"read": true}},
		)
		if err != nil {
			ctx.Logger().Warnf("failed to mark message read: %v", err)
		} else {
			message.Read = true
		}
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message loaded",
		Data:    message,
	})
}

// ReplyMessage appends a reply to a thread and reopens its unread flag
// for the other participant
func (c *MessageController) ReplyMessage(ctx echo.Context) error {
	var req models.ReplyMessageRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	message, ok := c.loadMessage(ctx)
	if !ok {
		return nil
	}

	uid := middleware.GetFirebaseUID(ctx)
	if !message.IsParticipant(uid) {
		return forbidden(ctx, "You are not part of this conversation")
	}

	reply := models.MessageReply{
		FromUID: uid,
		Body:    utils.SanitizeInput(req.Body),
		At:      time.Now(),
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "messages").FindOneAndUpdate(reqCtx,
		bson.M{"_id": message.ID},
		bson.M{
			"$push": bson.M{"replies": reply},
			"$set":  bson.M{"read": false, "updatedAt": reply.At},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Message
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to send reply")
	}

	recipient := updated.ToUID
	if uid == updated.ToUID {
		recipient = updated.FromUID
	}
	c.hub.NotifyMessage(recipient, updated)

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reply sent",
		Data:    updated,
	})
}

// MarkMessageRead flags a thread read; only the recipient may do so
func (c *MessageController) MarkMessageRead(ctx echo.Context) error {
	message, ok := c.loadMessage(ctx)
	if !ok {
		return nil
	}

	uid := middleware.GetFirebaseUID(ctx)
	if message.ToUID != uid {
		return forbidden(ctx, "Only the recipient can mark a message read")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	_, err := config.GetCollection(c.db, "messages").UpdateOne(reqCtx,
		bson.M{"_id": message.ID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return internalError(ctx, err, "Failed to mark message read")
	}

	message.Read = true
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message marked read",
		Data:    message,
	})
}

func (c *MessageController) loadMessage(ctx echo.Context) (*models.Message, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		notFound(ctx, "Message not found")
		return nil, false
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var message models.Message
	err = config.GetCollection(c.db, "messages").FindOne(reqCtx, bson.M{"_id": id}).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			notFound(ctx, "Message not found")
		} else {
			internalError(ctx, err, "Failed to load message")
		}
		return nil, false
	}
	return &message, true
}
