package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStatus string

const (
	ReportPending       ReportStatus = "pending"
	ReportInvestigating ReportStatus = "investigating"
	ReportResolved      ReportStatus = "resolved"
	ReportClosed        ReportStatus = "closed"
)

type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	ReportedBy    primitive.ObjectID `bson:"reported_by" json:"reported_by"`
	ReporterRole  Role               `bson:"reporter_role" json:"reporter_role"`
	ReferenceID   string             `bson:"reference_id" json:"reference_id"`
	ReferenceType string             `bson:"reference_type" json:"reference_type"` // donation, request, user
	Priority      Urgency            `bson:"priority" json:"priority"`
	Status        ReportStatus       `bson:"status" json:"status"`
	AssignedTo    primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
