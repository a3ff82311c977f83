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

// SupportTicketController handles support tickets for guests and
// partners, with admin working the queue
type SupportTicketController struct {
	db *mongo.Client
}

// NewSupportTicketController creates a new support ticket controller
func NewSupportTicketController(db *mongo.Client) *SupportTicketController {
	return &SupportTicketController{db: db}
}

// GetTickets lists the caller's tickets; admin sees the whole queue with
// status and priority filters
func (c *SupportTicketController) GetTickets(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	filter := bson.M{"userFirebaseUID": uid}
	if middleware.IsAdmin(ctx) {
		filter = bson.M{}
		if status := ctx.QueryParam("status"); status != "" {
			filter["status"] = status
		}
		if priority := ctx.QueryParam("priority"); priority != "" {
			filter["priority"] = priority
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "supportTickets")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list tickets")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list tickets")
	}
	defer cursor.Close(reqCtx)

	role := middleware.GetRole(ctx)
	tickets := []*models.SupportTicket{}
	for cursor.Next(reqCtx) {
		var ticket models.SupportTicket
		if err := cursor.Decode(&ticket); err != nil {
			return internalError(ctx, err, "Failed to decode tickets")
		}
		tickets = append(tickets, ticket.Sanitize(role))
	}
	if err := cursor.Err(); err != nil {
		return internalError(ctx, err, "Failed to list tickets")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      tickets,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// CreateTicket opens a ticket with the body as its first message
func (c *SupportTicketController) CreateTicket(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	var req models.CreateTicketRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := time.Now()
	ticket := models.SupportTicket{
		UserFirebaseUID: uid,
		Subject:         utils.SanitizeInput(req.Subject),
		Category:        req.Category,
		Priority:        priority,
		Status:          models.TicketOpen,
		Messages: []models.TicketMessage{{
			FromUID: uid,
			Body:    utils.SanitizeInput(req.Body),
			At:      now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "supportTickets").InsertOne(reqCtx, ticket)
	if err != nil {
		return internalError(ctx, err, "Failed to create ticket")
	}
	ticket.ID = result.InsertedID.(primitive.ObjectID)

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Ticket created",
		Data:    &ticket,
	})
}

// GetTicket returns a single ticket for its owner or admin
func (c *SupportTicketController) GetTicket(ctx echo.Context) error {
	ticket, ok := c.loadTicket(ctx)
	if !ok {
		return nil
	}

	if ticket.UserFirebaseUID != middleware.GetFirebaseUID(ctx) && !middleware.IsAdmin(ctx) {
		return forbidden(ctx, "This is not your ticket")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Ticket loaded",
		Data:    ticket.Sanitize(middleware.GetRole(ctx)),
	})
}

// AddTicketMessage appends a message to the ticket conversation. An
// owner reply reopens a resolved ticket; a staff reply moves an open
// ticket to in_progress. Closed tickets reject new messages.
func (c *SupportTicketController) AddTicketMessage(ctx echo.Context) error {
	var req models.TicketMessageRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	ticket, ok := c.loadTicket(ctx)
	if !ok {
		return nil
	}

	uid := middleware.GetFirebaseUID(ctx)
	isAdmin := middleware.IsAdmin(ctx)
	if ticket.UserFirebaseUID != uid && !isAdmin {
		return forbidden(ctx, "This is not your ticket")
	}
	if ticket.Status == models.TicketClosed {
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Ticket is closed",
		})
	}

	now := time.Now()
	message := models.TicketMessage{
		FromUID:   uid,
		FromStaff: isAdmin,
		Body:      utils.SanitizeInput(req.Body),
		At:        now,
	}

	set := bson.M{"updatedAt": now}
	if !isAdmin && ticket.Status == models.TicketResolved {
		set["status"] = models.TicketOpen
	}
	if isAdmin && ticket.Status == models.TicketOpen {
		set["status"] = models.TicketInProgress
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "supportTickets").FindOneAndUpdate(reqCtx,
		bson.M{"_id": ticket.ID},
		bson.M{"$push": bson.M{"messages": message}, "$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.SupportTicket
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to add message")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message added",
		Data:    updated.Sanitize(middleware.GetRole(ctx)),
	})
}

// UpdateTicket is the admin queue-management endpoint: status, priority
// and internal notes
func (c *SupportTicketController) UpdateTicket(ctx echo.Context) error {
	var req models.UpdateTicketRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Ticket not found")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.Priority != "" {
		set["priority"] = req.Priority
	}
	if req.InternalNotes != "" {
		set["internalNotes"] = req.InternalNotes
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result := config.GetCollection(c.db, "supportTickets").FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.SupportTicket
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Ticket not found")
		}
		return internalError(ctx, err, "Failed to update ticket")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Ticket updated",
		Data:    &updated,
	})
}

func (c *SupportTicketController) loadTicket(ctx echo.Context) (*models.SupportTicket, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		notFound(ctx, "Ticket not found")
		return nil, false
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var ticket models.SupportTicket
	err = config.GetCollection(c.db, "supportTickets").FindOne(reqCtx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			notFound(ctx, "Ticket not found")
		} else {
			internalError(ctx, err, "Failed to load ticket")
		}
		return nil, false
	}
	return &ticket, true
}
