package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CodeBatch groups the codes produced by one generation run.
type CodeBatch struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BrandID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"brand_id"`
	BrandPrefix string         `gorm:"type:varchar(3);not null" json:"brand_prefix"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CodeBatch) TableName() string { return "code_batches" }
