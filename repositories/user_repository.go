package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhaven/stayhaven_backend/config"
	"github.com/stayhaven/stayhaven_backend/models"
)

// UserRepository wraps the users collection for the lookups controllers
// share: identity resolution, counters, and role changes
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// provisionedClaimFilter matches an account created ahead of first
// sign-in (partner application approval) that no external-auth subject
// has claimed yet.
func provisionedClaimFilter(email string) bson.M {
	return bson.M{
		"email": email,
		"$or": bson.A{
			bson.M{"firebaseUID": bson.M{"$exists": false}},
			bson.M{"firebaseUID": ""},
		},
	}
}

// ClaimProvisioned links an unclaimed pre-provisioned account to the
// given external-auth subject and returns the updated record. Returns
// mongo.ErrNoDocuments when no unclaimed account matches the email.
func (r *UserRepository) ClaimProvisioned(ctx context.Context, email, uid string) (*models.User, error) {
	now := time.Now()
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		provisionedClaimFilter(email),
		bson.M{"$set": bson.M{
			"firebaseUID":    uid,
			"lastActivityAt": now,
			"updatedAt":      now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"firebaseUID": uid}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRole updates a user's stored role
func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	})
	return err
}

// SetStatus updates a user's account status
func (r *UserRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	return err
}

// IncrementCounter bumps one of the denormalized counters on the user
// document (counters.bookings, counters.properties, counters.revenue)
func (r *UserRepository) IncrementCounter(ctx context.Context, id primitive.ObjectID, counter string, delta float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"counters." + counter: delta},
	})
	return err
}

// TouchActivity updates the last-activity timestamp, fire-and-forget style
func (r *UserRepository) TouchActivity(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"lastActivityAt": time.Now()},
	})
	return err
}
