// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoOnce   sync.Once
	mongoClient *mongo.Client
)

// DBName returns the configured database name
func DBName() string {
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "stayhaven"
	}
	return name
}

// IsProduction reports whether the process runs in production mode
func IsProduction() bool {
	env := os.Getenv("ENV")
	return env == "production" || env == "prod"
}

// ConnectDB establishes the MongoDB connection. The client is created once
// and cached for the process lifetime; later calls return the same client.
func ConnectDB() *mongo.Client {
	mongoOnce.Do(func() {
		mongoURI := os.Getenv("MONGO_URI")
		if mongoURI == "" {
			mongoURI = os.Getenv("MONGODB_URI")
		}

		if mongoURI == "" {
			if IsProduction() {
				log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
			}
			mongoURI = "mongodb://localhost:27017"
		}

		log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			log.Fatal("MongoDB connection error:", err)
		}

		if err := client.Ping(ctx, nil); err != nil {
			log.Fatal("MongoDB ping error:", err)
		}

		log.Println("Connected to MongoDB")

		setupCollections(client)
		mongoClient = client
	})

	return mongoClient
}

// GetCollection returns a MongoDB collection from the configured database
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DBName()).Collection(collectionName)
}

// setupCollections ensures all necessary collections and indexes exist
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DBName())

	collections := []string{
		"users", "hotels", "bookings", "reviews", "messages",
		"supportTickets", "systemAlerts", "securityEvents",
		"partnerApplications", "partnerSettings", "systemSettings",
	}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	userColl := db.Collection("users")
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Printf("Error creating email index: %v", err)
	}
	uidIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "firebaseUID", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, uidIndex); err != nil {
		log.Printf("Error creating firebaseUID index: %v", err)
	}

	hotelIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isActive", Value: 1}}},
	}
	if _, err := db.Collection("hotels").Indexes().CreateMany(ctx, hotelIndexes); err != nil {
		log.Printf("Error creating hotel indexes: %v", err)
	}

	bookingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotelId", Value: 1}}},
		{Keys: bson.D{{Key: "userFirebaseUID", Value: 1}}},
	}
	if _, err := db.Collection("bookings").Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		log.Printf("Error creating booking indexes: %v", err)
	}

	reviewIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "hotelId", Value: 1}, {Key: "userFirebaseUID", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("reviews").Indexes().CreateOne(ctx, reviewIndex); err != nil {
		log.Printf("Error creating review index: %v", err)
	}

	eventIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "severity", Value: 1}}},
	}
	if _, err := db.Collection("securityEvents").Indexes().CreateMany(ctx, eventIndexes); err != nil {
		log.Printf("Error creating security event indexes: %v", err)
	}

	settingsIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("partnerSettings").Indexes().CreateOne(ctx, settingsIndex); err != nil {
		log.Printf("Error creating partner settings index: %v", err)
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
