package model

import (
	"time"

	"github.com/google/uuid"
)

type CodeStatus string

const (
	CodeStatusActive               CodeStatus = "active"
	CodeStatusVerified             CodeStatus = "verified"
	CodeStatusSuspectedCounterfeit CodeStatus = "suspected_counterfeit"
	CodeStatusExpired              CodeStatus = "expired"
	CodeStatusRevoked              CodeStatus = "revoked"
)

// ProductCode is one issued scratch/QR code. The raw code value is never
// stored; only its sha256 hex digest. The ID doubles as the QR identifier.
type ProductCode struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CodeHash          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	BrandPrefix       string     `gorm:"type:varchar(3);index;not null" json:"brand_prefix"`
	BatchID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"batch_id"`
	Status            CodeStatus `gorm:"type:varchar(24);not null;default:'active'" json:"status"`
	VerificationCount int        `gorm:"not null;default:0" json:"verification_count"`
	FirstVerifiedAt   *time.Time `json:"first_verified_at,omitempty"`
	LastVerifiedAt    *time.Time `json:"last_verified_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (ProductCode) TableName() string { return "product_codes" }

// Flagged reports whether an administrative status short-circuits
// verification for this code.
func (c *ProductCode) Flagged() bool {
	switch c.Status {
	case CodeStatusSuspectedCounterfeit, CodeStatusExpired, CodeStatusRevoked:
		return true
	}
	return false
}
