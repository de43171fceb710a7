package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleDonor Role = "donor"
	RoleNgo   Role = "ngo"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleNgo || r == RoleAdmin
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Coordinates struct for latitude and longitude
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Location     *Coordinates       `bson:"location,omitempty" json:"location,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	// NGO verification fields; donors are verified at signup.
	Verified             bool               `bson:"verified" json:"verified"`
	VerificationStatus   VerificationStatus `bson:"verification_status,omitempty" json:"verification_status,omitempty"`
	RegistrationNumber   string             `bson:"registration_number,omitempty" json:"registration_number,omitempty"`
	RegistrationDocument string             `bson:"registration_document,omitempty" json:"registration_document,omitempty"`
	TaxExemptionDocument string             `bson:"tax_exemption_document,omitempty" json:"tax_exemption_document,omitempty"`
	VerifiedAt           *time.Time         `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	RejectionReason      string             `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	// Password reset via emailed OTP.
	ResetOTP        string     `bson:"reset_otp,omitempty" json:"-"`
	ResetOTPExpires *time.Time `bson:"reset_otp_expires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
