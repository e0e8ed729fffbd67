package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/crypto"
	"emboditrust/verifyhub/pkg/securecode"
)

// GeneratedBatch is returned once per generation run; the raw codes are not
// recoverable afterwards because only their hashes are persisted.
type GeneratedBatch struct {
	Batch    *model.CodeBatch `json:"batch"`
	RawCodes []string         `json:"raw_codes"`
}

type GenerationService interface {
	GenerateBatch(ctx context.Context, brandPrefix string, quantity int, createdBy uuid.UUID) (*GeneratedBatch, error)
	ListBatches(ctx context.Context) ([]model.CodeBatch, error)
	GetBatchStats(ctx context.Context, batchID uuid.UUID) (*repository.BatchStats, error)
}

type generationService struct {
	brandRepo repository.BrandRepository
	codeRepo  repository.ProductCodeRepository
	logger    *zap.Logger
}

func NewGenerationService(
	brandRepo repository.BrandRepository,
	codeRepo repository.ProductCodeRepository,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		brandRepo: brandRepo,
		codeRepo:  codeRepo,
		logger:    logger,
	}
}

func (s *generationService) GenerateBatch(ctx context.Context, brandPrefix string, quantity int, createdBy uuid.UUID) (*GeneratedBatch, error) {
	// Resolve the prefix against the brand registry before any randomness;
	// an unregistered prefix is not retryable without fixing the input.
	brand, err := s.brandRepo.GetByPrefix(ctx, brandPrefix)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return nil, ErrInvalidBrandPrefix
		}
		return nil, fmt.Errorf("resolve brand prefix: %w", err)
	}
	if !brand.Active {
		return nil, ErrBrandInactive
	}

	rawCodes, err := securecode.GenerateBatch(quantity, brand.Prefix)
	if err != nil {
		switch {
		case errors.Is(err, securecode.ErrInvalidBrandPrefix):
			return nil, ErrInvalidBrandPrefix
		case errors.Is(err, securecode.ErrBatchSize):
			return nil, ErrInvalidBatchSize
		}
		return nil, fmt.Errorf("generate codes: %w", err)
	}

	batch := &model.CodeBatch{
		BrandID:     brand.ID,
		BrandPrefix: brand.Prefix,
		Quantity:    len(rawCodes),
		CreatedBy:   createdBy,
	}
	codes := make([]*model.ProductCode, len(rawCodes))
	for i, raw := range rawCodes {
		codes[i] = &model.ProductCode{
			CodeHash:    crypto.HashCode(raw),
			BrandPrefix: brand.Prefix,
			Status:      model.CodeStatusActive,
		}
	}

	if err := s.codeRepo.CreateBatch(ctx, batch, codes); err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	s.logger.Info("code batch generated",
		zap.String("batch_id", batch.ID.String()),
		zap.String("brand_prefix", brand.Prefix),
		zap.Int("quantity", len(rawCodes)))

	return &GeneratedBatch{Batch: batch, RawCodes: rawCodes}, nil
}

func (s *generationService) ListBatches(ctx context.Context) ([]model.CodeBatch, error) {
	return s.codeRepo.ListBatches(ctx)
}

func (s *generationService) GetBatchStats(ctx context.Context, batchID uuid.UUID) (*repository.BatchStats, error) {
	if _, err := s.codeRepo.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	return s.codeRepo.GetBatchStats(ctx, batchID)
}
