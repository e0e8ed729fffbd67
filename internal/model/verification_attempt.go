package model

import (
	"time"

	"github.com/google/uuid"
)

type VerificationResult string

const (
	ResultValid                VerificationResult = "valid"
	ResultInvalid              VerificationResult = "invalid"
	ResultAlreadyUsed          VerificationResult = "already_used"
	ResultSuspectedCounterfeit VerificationResult = "suspected_counterfeit"
)

type VerificationChannel string

const (
	ChannelWeb  VerificationChannel = "web"
	ChannelUSSD VerificationChannel = "ussd"
	ChannelSMS  VerificationChannel = "sms"
)

// VerificationAttempt is the append-only audit record of one scan or typed
// attempt. Rows are never updated; outcomes are decided from ProductCode.
type VerificationAttempt struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CodeID      *uuid.UUID          `gorm:"type:uuid;index" json:"code_id,omitempty"`
	ScannedCode string              `gorm:"type:varchar(64)" json:"scanned_code"`
	Result      VerificationResult  `gorm:"type:varchar(24);index;not null" json:"result"`
	Channel     VerificationChannel `gorm:"type:varchar(8);not null" json:"channel"`
	IPAddress   string              `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	Geolocation string              `gorm:"type:varchar(128)" json:"geolocation,omitempty"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
}

func (VerificationAttempt) TableName() string { return "verification_attempts" }
