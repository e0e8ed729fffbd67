package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
)

type pgCounterfeitReportRepository struct {
	db *gorm.DB
}

func NewPGCounterfeitReportRepository(db *gorm.DB) CounterfeitReportRepository {
	return &pgCounterfeitReportRepository{db: db}
}

func (r *pgCounterfeitReportRepository) Create(ctx context.Context, report *model.CounterfeitReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *pgCounterfeitReportRepository) List(ctx context.Context, status model.ReportStatus) ([]model.CounterfeitReport, error) {
	tx := r.db.WithContext(ctx)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var reports []model.CounterfeitReport
	if err := tx.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *pgCounterfeitReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReportStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.CounterfeitReport{}).
		Where("id = ?", id).
		UpdateColumn("status", status).
		Error
}
