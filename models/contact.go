package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string             `bson:"message" json:"message"`
	UserType  string             `bson:"user_type" json:"user_type"` // general, donor, ngo
	Status    string             `bson:"status" json:"status"`       // new, read, replied
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
