package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// CounterfeitReport is filed by a consumer whose verification came back
// suspicious, or who spotted a fake product in the field.
type CounterfeitReport struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CodeEntered   string         `gorm:"type:varchar(32)" json:"code_entered,omitempty"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	ReporterPhone string         `gorm:"type:varchar(24)" json:"reporter_phone,omitempty"`
	Location      string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	Status        ReportStatus   `gorm:"type:varchar(16);not null;default:'open'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CounterfeitReport) TableName() string { return "counterfeit_reports" }
