package controllers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/daansetu/daansetu-backend/models"
)

func TestDeliveryNotifyTarget(t *testing.T) {
	donorID := primitive.NewObjectID()
	ngoID := primitive.NewObjectID()
	donation := models.Donation{DonorID: donorID, ClaimedBy: ngoID}

	cases := []struct {
		name        string
		requesterID string
		want        primitive.ObjectID
	}{
		{"donor confirms, NGO is notified", donorID.Hex(), ngoID},
		{"NGO confirms, donor is notified", ngoID.Hex(), donorID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deliveryNotifyTarget(donation, tc.requesterID)
			if got != tc.want {
				t.Errorf("deliveryNotifyTarget = %v, want %v", got, tc.want)
			}
		})
	}
}
