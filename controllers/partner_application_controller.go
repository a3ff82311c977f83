package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/services"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// PartnerApplicationController handles the partner onboarding workflow
type PartnerApplicationController struct {
	db       *mongo.Client
	pipeline *middleware.Pipeline
	mailer   *services.Mailer
}

// NewPartnerApplicationController creates a new partner application controller
func NewPartnerApplicationController(db *mongo.Client, pipeline *middleware.Pipeline, mailer *services.Mailer) *PartnerApplicationController {
	return &PartnerApplicationController{db: db, pipeline: pipeline, mailer: mailer}
}

// CreateApplication files an onboarding request. Unauthenticated callers
// are allowed; one pending application per email.
func (c *PartnerApplicationController) CreateApplication(ctx echo.Context) error {
	var req models.CreatePartnerApplicationRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"email is invalid"},
		})
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"phone is invalid"},
		})
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "partnerApplications")

	pending, err := collection.CountDocuments(reqCtx, bson.M{
		"email": email,
		"status": bson.M{"$in": bson.A{
			models.ApplicationPendingReview,
			models.ApplicationUnderReview,
			models.ApplicationOnHold,
		}},
	})
	if err != nil {
		return internalError(ctx, err, "Failed to create application")
	}
	if pending > 0 {
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An application for this email is already in review",
		})
	}

	now := time.Now()
	application := models.PartnerApplication{
		FullName:        utils.SanitizeInput(req.FullName),
		Email:           email,
		Phone:           phone,
		BusinessName:    utils.SanitizeInput(req.BusinessName),
		BusinessLicense: utils.SanitizeInput(req.BusinessLicense),
		PropertyCount:   req.PropertyCount,
		Description:     utils.SanitizeInput(req.Description),
		DocumentURLs:    req.DocumentURLs,
		Status:          models.ApplicationPendingReview,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := collection.InsertOne(reqCtx, application)
	if err != nil {
		return internalError(ctx, err, "Failed to create application")
	}
	application.ID = result.InsertedID.(primitive.ObjectID)

	c.mailer.Send(application.Email,
		"We received your partner application",
		fmt.Sprintf("Hi %s,\n\nThanks for applying to list %s on StayHaven. Our team will review your application and get back to you.", application.FullName, application.BusinessName))

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application submitted",
		Data:    application,
	})
}

// GetApplicationStatus lets an applicant check their own application
// without an account: the id alone is not enough, the matching email must
// be supplied too. Review internals are not exposed.
func (c *PartnerApplicationController) GetApplicationStatus(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Application not found")
	}
	email := strings.ToLower(strings.TrimSpace(ctx.QueryParam("email")))
	if email == "" {
		return notFound(ctx, "Application not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var application models.PartnerApplication
	err = config.GetCollection(c.db, "partnerApplications").FindOne(reqCtx,
		bson.M{"_id": id, "email": email}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Application not found")
		}
		return internalError(ctx, err, "Failed to load application")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application status",
		Data: map[string]interface{}{
			"id":         application.ID.Hex(),
			"status":     application.Status,
			"reviewedAt": application.ReviewedAt,
			"createdAt":  application.CreatedAt,
		},
	})
}

// GetApplications is the admin review queue
func (c *PartnerApplicationController) GetApplications(ctx echo.Context) error {
	filter := bson.M{}
	if status := ctx.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "partnerApplications")
	page, limit := utils.ParsePagination(ctx)

	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list applications")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list applications")
	}
	defer cursor.Close(reqCtx)

	applications := []models.PartnerApplication{}
	if err := cursor.All(reqCtx, &applications); err != nil {
		return internalError(ctx, err, "Failed to decode applications")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      applications,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// GetApplication returns a single application for admin
func (c *PartnerApplicationController) GetApplication(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Application not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	var application models.PartnerApplication
	err = config.GetCollection(c.db, "partnerApplications").FindOne(reqCtx, bson.M{"_id": id}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Application not found")
		}
		return internalError(ctx, err, "Failed to load application")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application loaded",
		Data:    application,
	})
}

// DecideApplication moves an application through the workflow. Approval
// promotes the matching user to partner, creating one when none exists.
// The promotion writes are sequential; a partial failure is logged and
// left for the operator rather than rolled back.
func (c *PartnerApplicationController) DecideApplication(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Application not found")
	}

	var req models.DecideApplicationRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "partnerApplications")

	var application models.PartnerApplication
	if err := collection.FindOne(reqCtx, bson.M{"_id": id}).Decode(&application); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Application not found")
		}
		return internalError(ctx, err, "Failed to load application")
	}

	if !models.CanTransitionApplication(application.Status, req.Status) {
		return ctx.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: fmt.Sprintf("Cannot move application from %s to %s", application.Status, req.Status),
		})
	}

	now := time.Now()
	set := bson.M{
		"status":      req.Status,
		"reviewNotes": req.ReviewNotes,
		"reviewedBy":  middleware.GetFirebaseUID(ctx),
		"reviewedAt":  now,
		"updatedAt":   now,
	}

	result := collection.FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.PartnerApplication
	if err := result.Decode(&updated); err != nil {
		return internalError(ctx, err, "Failed to update application")
	}

	if req.Status == models.ApplicationApproved {
		if err := c.promoteApplicant(reqCtx, &updated); err != nil {
			ctx.Logger().Errorf("application %s approved but promotion failed: %v", updated.ID.Hex(), err)
		}
	}

	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventModeration,
		Severity:    models.SeverityMedium,
		Description: "partner application decided",
	}, map[string]interface{}{
		"applicationId": updated.ID.Hex(),
		"status":        updated.Status,
	})

	c.notifyApplicant(&updated)

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application updated",
		Data:    updated,
	})
}

// promoteEligibleFilter matches the applicant's account unless it
// already holds the admin role. Approval must never demote an admin.
func promoteEligibleFilter(email string) bson.M {
	return bson.M{
		"email": email,
		"role":  bson.M{"$ne": models.RoleAdmin},
	}
}

// promoteApplicant grants partner role to the user matching the
// application email, or creates a partner account awaiting first sign-in
func (c *PartnerApplicationController) promoteApplicant(reqCtx context.Context, application *models.PartnerApplication) error {
	users := config.GetCollection(c.db, "users")
	now := time.Now()

	result, err := users.UpdateOne(reqCtx,
		promoteEligibleFilter(application.Email),
		bson.M{"$set": bson.M{
			"role":            models.RolePartner,
			"businessName":    application.BusinessName,
			"businessLicense": application.BusinessLicense,
			"updatedAt":       now,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// The filter also misses when the email belongs to an admin; that
	// account keeps its role and needs no pre-provisioning.
	err = users.FindOne(reqCtx, bson.M{"email": application.Email}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	// No account yet: pre-provision one without an external-auth subject.
	// The applicant's first sign-in claims it by email.
	_, err = users.InsertOne(reqCtx, models.User{
		Email:        application.Email,
		FullName:     application.FullName,
		Phone:        application.Phone,
		Role:         models.RolePartner,
		Status:       models.StatusActive,
		BusinessName: application.BusinessName,
		BusinessLicense: application.BusinessLicense,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}

// decisionMail composes the plain-text notification for a decided
// application. ok is false for statuses that send nothing.
func decisionMail(application *models.PartnerApplication) (subject, body string, ok bool) {
	switch application.Status {
	case models.ApplicationApproved:
		return "Your partner application was approved",
			fmt.Sprintf("Hi %s,\n\nWelcome aboard! %s is now registered on StayHaven. Sign in to start listing your properties.", application.FullName, application.BusinessName),
			true
	case models.ApplicationRejected:
		return "Update on your partner application",
			fmt.Sprintf("Hi %s,\n\nWe reviewed your application for %s and unfortunately cannot accept it at this time.", application.FullName, application.BusinessName),
			true
	}
	return "", "", false
}

func (c *PartnerApplicationController) notifyApplicant(application *models.PartnerApplication) {
	subject, body, ok := decisionMail(application)
	if !ok {
		return
	}
	c.mailer.Send(application.Email, subject, body)
}
