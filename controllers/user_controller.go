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
)

// UserController handles user CRUD and the public owner lookup
type UserController struct {
	db    *mongo.Client
	users *repositories.UserRepository
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, users *repositories.UserRepository) *UserController {
	return &UserController{db: db, users: users}
}

// GetAllUsers lists users, admin only, paginated
func (c *UserController) GetAllUsers(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	filter := bson.M{}
	if role := ctx.QueryParam("role"); role != "" {
		filter["role"] = role
	}
	if status := ctx.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	page, limit := utils.ParsePagination(ctx)
	total, err := collection.CountDocuments(reqCtx, filter)
	if err != nil {
		return internalError(ctx, err, "Failed to list users")
	}

	opts := options.Find().
		SetSkip(utils.SkipFor(page, limit)).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		return internalError(ctx, err, "Failed to list users")
	}
	defer cursor.Close(reqCtx)

	users := []models.User{}
	if err := cursor.All(reqCtx, &users); err != nil {
		return internalError(ctx, err, "Failed to decode users")
	}

	return ctx.JSON(http.StatusOK, models.PagedResponse{
		Items:      users,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// CreateUser self-provisions a user record on first external-auth
// sign-in. The requested role is sanitized: no path through here can
// produce an admin (or, for non-admin callers, a partner).
func (c *UserController) CreateUser(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	var req models.CreateUserRequest
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

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")

	// Repeated sign-ins just return the existing record.
	if existing, err := c.users.FindByFirebaseUID(reqCtx, uid); err == nil {
		return ctx.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "User already exists",
			Data:    existing,
		})
	}

	// Partner application approval can pre-provision an account before
	// the applicant ever signs in. Claim it by email instead of
	// colliding with the unique email index.
	if claimed, err := c.users.ClaimProvisioned(reqCtx, email, uid); err == nil {
		return ctx.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Account linked",
			Data:    claimed,
		})
	} else if err != mongo.ErrNoDocuments {
		return internalError(ctx, err, "Failed to create user")
	}

	now := time.Now()
	user := models.User{
		FirebaseUID:    uid,
		Email:          email,
		FullName:       utils.SanitizeInput(req.FullName),
		Phone:          req.Phone,
		Role:           models.SanitizeAssignableRole(req.Role, middleware.GetRole(ctx)),
		Status:         models.StatusActive,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := collection.InsertOne(reqCtx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ctx.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A user with this email already exists",
			})
		}
		return internalError(ctx, err, "Failed to create user")
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created",
		Data:    user,
	})
}

// GetUser returns a single user: self or admin
func (c *UserController) GetUser(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "User not found")
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

	if !middleware.IsAdmin(ctx) && middleware.GetUserID(ctx) != id.Hex() {
		return forbidden(ctx, "You can only view your own profile")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User loaded",
		Data:    user,
	})
}

// UpdateUser patches a user. Self-service callers may change a limited
// field set; admin may change everything except elevation to admin,
// which only the dedicated promotion endpoint performs.
func (c *UserController) UpdateUser(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "User not found")
	}

	isAdmin := middleware.IsAdmin(ctx)
	isSelf := middleware.GetUserID(ctx) == id.Hex()
	if !isAdmin && !isSelf {
		return forbidden(ctx, "You can only update your own profile")
	}

	var req models.UpdateUserRequest
	if !bindAndValidate(ctx, &req) {
		return nil
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		set["fullName"] = utils.SanitizeInput(req.FullName)
	}
	if req.Phone != "" {
		phone, err := utils.SanitizePhone(req.Phone)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
				Status:  http.StatusBadRequest,
				Message: "Validation failed",
				Errors:  []string{"phone is invalid"},
			})
		}
		set["phone"] = phone
	}
	if req.Avatar != "" {
		set["avatar"] = req.Avatar
	}
	if req.PublicContact != nil {
		set["publicContact"] = req.PublicContact
	}

	// Admin-only fields.
	if isAdmin {
		if req.BusinessName != "" {
			set["businessName"] = utils.SanitizeInput(req.BusinessName)
		}
		if req.BusinessLicense != "" {
			set["businessLicense"] = req.BusinessLicense
		}
		if req.Status != "" {
			set["status"] = req.Status
		}
	} else if isSelf && middleware.GetRole(ctx) == models.RolePartner {
		if req.BusinessName != "" {
			set["businessName"] = utils.SanitizeInput(req.BusinessName)
		}
	}
	if req.Role != "" {
		set["role"] = models.SanitizeAssignableRole(req.Role, middleware.GetRole(ctx))
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	result := collection.FindOneAndUpdate(reqCtx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.User
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "User not found")
		}
		return internalError(ctx, err, "Failed to update user")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
		Data:    updated,
	})
}

// DeleteUser removes a user record, admin only
func (c *UserController) DeleteUser(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "User not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(c.db, "users").DeleteOne(reqCtx, bson.M{"_id": id})
	if err != nil {
		return internalError(ctx, err, "Failed to delete user")
	}
	if result.DeletedCount == 0 {
		return notFound(ctx, "User not found")
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted",
	})
}

// GetPublicOwner is the public owner lookup: the guest-facing subset of a
// partner profile
func (c *UserController) GetPublicOwner(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return notFound(ctx, "Owner not found")
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := c.users.FindByID(reqCtx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound(ctx, "Owner not found")
		}
		return internalError(ctx, err, "Failed to load owner")
	}

	if user.Role != models.RolePartner || user.Status != models.StatusActive {
		return notFound(ctx, "Owner not found")
	}

	owner := models.PublicOwner{
		ID:           user.ID,
		FullName:     user.FullName,
		BusinessName: user.BusinessName,
		Properties:   user.Counters.Properties,
		MemberSince:  user.CreatedAt,
	}
	if user.PublicContact != nil && user.PublicContact.Visible {
		owner.PublicContact = user.PublicContact
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Owner loaded",
		Data:    owner,
	})
}
