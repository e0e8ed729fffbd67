package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
)

type pgBrandRepository struct {
	db *gorm.DB
}

func NewPGBrandRepository(db *gorm.DB) BrandRepository {
	return &pgBrandRepository{db: db}
}

func (r *pgBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	brand.Prefix = strings.ToUpper(brand.Prefix)
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *pgBrandRepository) GetByPrefix(ctx context.Context, prefix string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.WithContext(ctx).
		Where("upper(prefix) = ?", strings.ToUpper(prefix)).
		First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return &brand, nil
}

func (r *pgBrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return &brand, nil
}

func (r *pgBrandRepository) List(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
