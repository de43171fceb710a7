package controllers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/daansetu/daansetu-backend/models"
)

func TestNotificationRecipientFilterScopesToCaller(t *testing.T) {
	userID := primitive.NewObjectID()

	filter := notificationRecipientFilter(userID, string(models.RoleNgo))

	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("filter has no $or clause: %v", filter)
	}
	if len(or) != 2 {
		t.Fatalf("$or has %d clauses, want 2", len(or))
	}
	if or[0]["user_id"] != userID {
		t.Errorf("user_id clause = %v, want %v", or[0]["user_id"], userID)
	}
	if or[1]["target_role"] != string(models.RoleNgo) {
		t.Errorf("target_role clause = %v, want %q", or[1]["target_role"], models.RoleNgo)
	}
}

func TestNotificationRecipientFilterComposable(t *testing.T) {
	userID := primitive.NewObjectID()
	oid := primitive.NewObjectID()

	// Mark-read adds the id on top of the ownership scope; adding it must
	// not displace the $or clause.
	filter := notificationRecipientFilter(userID, string(models.RoleDonor))
	filter["_id"] = oid

	if filter["_id"] != oid {
		t.Errorf("_id = %v, want %v", filter["_id"], oid)
	}
	if _, ok := filter["$or"]; !ok {
		t.Error("composed filter lost the ownership scope")
	}

	// Mark-all-read restricts the same scope to unread documents.
	filter = notificationRecipientFilter(userID, string(models.RoleDonor))
	filter["read"] = false

	if filter["read"] != false {
		t.Errorf("read = %v, want false", filter["read"])
	}
	if _, ok := filter["$or"]; !ok {
		t.Error("composed filter lost the ownership scope")
	}
}
