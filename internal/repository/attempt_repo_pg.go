package repository

import (
	"context"

	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
)

type pgVerificationAttemptRepository struct {
	db *gorm.DB
}

func NewPGVerificationAttemptRepository(db *gorm.DB) VerificationAttemptRepository {
	return &pgVerificationAttemptRepository{db: db}
}

func (r *pgVerificationAttemptRepository) Create(ctx context.Context, attempt *model.VerificationAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *pgVerificationAttemptRepository) List(ctx context.Context, q AttemptQuery) ([]model.VerificationAttempt, error) {
	tx := r.db.WithContext(ctx).Model(&model.VerificationAttempt{})
	if q.Result != "" {
		tx = tx.Where("result = ?", q.Result)
	}
	if q.Channel != "" {
		tx = tx.Where("channel = ?", q.Channel)
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var attempts []model.VerificationAttempt
	err := tx.Order("created_at DESC").Limit(limit).Offset(q.Offset).Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
