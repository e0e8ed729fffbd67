package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *model.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
}

type pgAdminUserRepository struct {
	db *gorm.DB
}

func NewPGAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &pgAdminUserRepository{db: db}
}

func (r *pgAdminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgAdminUserRepository) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgAdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
