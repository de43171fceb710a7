package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotifDonationCreated     NotificationType = "donationCreated"
	NotifDonationClaimed     NotificationType = "donationClaimed"
	NotifDonationDelivered   NotificationType = "donationDelivered"
	NotifRequestCreated      NotificationType = "requestCreated"
	NotifRequestFulfilled    NotificationType = "requestFulfilled"
	NotifMessageReceived     NotificationType = "messageReceived"
	NotifVerificationRequest NotificationType = "verificationRequest"
	NotifVerificationUpdated NotificationType = "verificationUpdated"
)

// Notification is addressed either to a single user (UserID) or broadcast
// to every user holding TargetRole.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	TargetRole Role               `bson:"target_role,omitempty" json:"target_role,omitempty"`
	Type       NotificationType   `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Read       bool               `bson:"read" json:"read"`
	Metadata   map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
