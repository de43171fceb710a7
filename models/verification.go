package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationRequestStatus string

const (
	VerificationRequestPending  VerificationRequestStatus = "pending"
	VerificationRequestApproved VerificationRequestStatus = "approved"
	VerificationRequestRejected VerificationRequestStatus = "rejected"
)

type VerificationRequest struct {
	ID                   primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	NgoID                primitive.ObjectID        `bson:"ngo_id" json:"ngo_id"`
	RegistrationNumber   string                    `bson:"registration_number" json:"registration_number"`
	RegistrationDocument string                    `bson:"registration_document" json:"registration_document"`
	TaxExemptionDocument string                    `bson:"tax_exemption_document,omitempty" json:"tax_exemption_document,omitempty"`
	Website              string                    `bson:"website,omitempty" json:"website,omitempty"`
	FocusAreas           []string                  `bson:"focus_areas,omitempty" json:"focus_areas,omitempty"`
	Status               VerificationRequestStatus `bson:"status" json:"status"`
	SubmittedAt          time.Time                 `bson:"submitted_at" json:"submitted_at"`
	DecidedBy            primitive.ObjectID        `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt            *time.Time                `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	RejectionReason      string                    `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	// Enriched fields
	NgoName  string `bson:"-" json:"ngo_name,omitempty"`
	NgoEmail string `bson:"-" json:"ngo_email,omitempty"`
}
