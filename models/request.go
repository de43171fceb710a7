package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestClosed    RequestStatus = "closed"
)

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestOpen && (next == RequestFulfilled || next == RequestClosed)
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type Request struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Category         Category           `bson:"category" json:"category"`
	Quantity         int                `bson:"quantity" json:"quantity"`
	BeneficiaryCount int                `bson:"beneficiary_count,omitempty" json:"beneficiary_count,omitempty"`
	Urgency          Urgency            `bson:"urgency" json:"urgency"`
	Deadline         *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	Location         *Coordinates       `bson:"location,omitempty" json:"location,omitempty"`
	NgoID            primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	NgoName          string             `bson:"ngo_name" json:"ngo_name"`
	Status           RequestStatus      `bson:"status" json:"status"`
	FulfilledBy      primitive.ObjectID `bson:"fulfilled_by,omitempty" json:"fulfilled_by,omitempty"`
	FulfilledByName  string             `bson:"fulfilled_by_name,omitempty" json:"fulfilled_by_name,omitempty"`
	FulfilledAt      *time.Time         `bson:"fulfilled_at,omitempty" json:"fulfilled_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`

	// Enriched fields
	Distance *float64 `bson:"-" json:"distance,omitempty"` // km from the query point
}
