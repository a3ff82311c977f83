package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	FirebaseApp *firebase.App
	authClient  *auth.Client
)

// InitFirebase initializes the Firebase Admin SDK. In production a missing
// configuration is fatal: without a verifier every token must be treated
// as invalid, and the middleware enforces exactly that when AuthClient
// returns nil.
func InitFirebase() {
	ctx := context.Background()

	var opts []option.ClientOption

	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		log.Printf("Using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			log.Fatalf("Error decoding base64 credentials: %v", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		log.Printf("Using Firebase credentials file: %s", credFile)
		opts = append(opts, option.WithCredentialsFile(credFile))
	} else {
		if IsProduction() {
			log.Fatal("Firebase credentials are required in production: set FIREBASE_CREDENTIALS_BASE64 or GOOGLE_APPLICATION_CREDENTIALS")
		}
		log.Println("Warning: Firebase credentials not configured; token verification disabled (development only)")
		return
	}

	cfg := &firebase.Config{ProjectID: os.Getenv("FIREBASE_PROJECT_ID")}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v", err)
	}
	FirebaseApp = app

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error initializing firebase auth client: %v", err)
	}
	authClient = client
}

// AuthClient returns the Firebase auth client, or nil when Firebase is not
// configured (development only)
func AuthClient() *auth.Client {
	return authClient
}
