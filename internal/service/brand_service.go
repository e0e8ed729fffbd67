package service

import (
	"context"
	"errors"
	"strings"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/securecode"
)

type BrandService interface {
	RegisterBrand(ctx context.Context, name, prefix, contactEmail string) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) RegisterBrand(ctx context.Context, name, prefix, contactEmail string) (*model.Brand, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if !securecode.ValidPrefix(prefix) {
		return nil, ErrInvalidBrandPrefix
	}

	if _, err := s.brandRepo.GetByPrefix(ctx, prefix); err == nil {
		return nil, ErrBrandPrefixTaken
	} else if !errors.Is(err, repository.ErrBrandNotFound) {
		return nil, err
	}

	brand := &model.Brand{
		Name:         strings.TrimSpace(name),
		Prefix:       prefix,
		ContactEmail: strings.TrimSpace(contactEmail),
		Active:       true,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.brandRepo.List(ctx)
}
