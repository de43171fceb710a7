package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationClaimed   DonationStatus = "claimed"
	DonationDelivered DonationStatus = "delivered"
	DonationCancelled DonationStatus = "cancelled"
)

// donationTransitions lists the legal next states for each status.
// delivered and cancelled are terminal.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationAvailable: {DonationClaimed, DonationCancelled},
	DonationClaimed:   {DonationDelivered, DonationCancelled},
}

func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, allowed := range donationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationAvailable, DonationClaimed, DonationDelivered, DonationCancelled:
		return true
	}
	return false
}

type Category string

const (
	CategoryFood        Category = "food"
	CategoryClothes     Category = "clothes"
	CategoryBooks       Category = "books"
	CategoryToys        Category = "toys"
	CategoryMedicine    Category = "medicine"
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryClothes, CategoryBooks, CategoryToys,
		CategoryMedicine, CategoryFurniture, CategoryElectronics, CategoryOther:
		return true
	}
	return false
}

type Donation struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Category           Category           `bson:"category" json:"category"`
	Quantity           int                `bson:"quantity" json:"quantity"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	Location           *Coordinates       `bson:"location,omitempty" json:"location,omitempty"`
	PickupInstructions string             `bson:"pickup_instructions,omitempty" json:"pickup_instructions,omitempty"`
	RequiresPickup     bool               `bson:"requires_pickup" json:"requires_pickup"`
	DonorID            primitive.ObjectID `bson:"donor_id" json:"donor_id"`
	DonorName          string             `bson:"donor_name" json:"donor_name"`
	Status             DonationStatus     `bson:"status" json:"status"`
	Images             []string           `bson:"images" json:"images"`
	ClaimedBy          primitive.ObjectID `bson:"claimed_by,omitempty" json:"claimed_by,omitempty"`
	ClaimedByName      string             `bson:"claimed_by_name,omitempty" json:"claimed_by_name,omitempty"`
	ClaimedAt          *time.Time         `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	DeliveredAt        *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`

	// Enriched fields
	Distance *float64 `bson:"-" json:"distance,omitempty"` // km from the query point
}
