package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestProvisionedClaimFilter(t *testing.T) {
	filter := provisionedClaimFilter("owner@example.com")

	if got := filter["email"]; got != "owner@example.com" {
		t.Fatalf("email = %v, want owner@example.com", got)
	}

	// Unclaimed accounts either predate the firebaseUID field or carry
	// an empty one; both shapes must match, a claimed account must not.
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v, want two clauses", filter["$or"])
	}

	missing, ok := or[0].(bson.M)["firebaseUID"].(bson.M)
	if !ok || missing["$exists"] != false {
		t.Errorf("first clause = %#v, want firebaseUID $exists false", or[0])
	}
	if got := or[1].(bson.M)["firebaseUID"]; got != "" {
		t.Errorf("second clause firebaseUID = %#v, want empty string", got)
	}
}
