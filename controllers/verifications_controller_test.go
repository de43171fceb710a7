package controllers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/daansetu/daansetu-backend/models"
)

func TestPendingVerificationFilter(t *testing.T) {
	ngoID := primitive.NewObjectID()

	filter := pendingVerificationFilter(ngoID)

	if filter["ngo_id"] != ngoID {
		t.Errorf("ngo_id = %v, want %v", filter["ngo_id"], ngoID)
	}
	if filter["status"] != models.VerificationRequestPending {
		t.Errorf("status = %v, want %v", filter["status"], models.VerificationRequestPending)
	}
}
