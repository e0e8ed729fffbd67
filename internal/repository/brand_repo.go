package repository

import (
	"context"

	"github.com/google/uuid"

	"emboditrust/verifyhub/internal/model"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByPrefix(ctx context.Context, prefix string) (*model.Brand, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
}
