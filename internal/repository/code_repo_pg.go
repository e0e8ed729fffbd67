package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
)

type pgProductCodeRepository struct {
	db *gorm.DB
}

func NewPGProductCodeRepository(db *gorm.DB) ProductCodeRepository {
	return &pgProductCodeRepository{db: db}
}

func (r *pgProductCodeRepository) CreateBatch(ctx context.Context, batch *model.CodeBatch, codes []*model.ProductCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		for _, code := range codes {
			code.BatchID = batch.ID
		}
		return tx.CreateInBatches(codes, 500).Error
	})
}

func (r *pgProductCodeRepository) GetByHash(ctx context.Context, codeHash string) (*model.ProductCode, error) {
	var code model.ProductCode
	if err := r.db.WithContext(ctx).Where("code_hash = ?", codeHash).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *pgProductCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductCode, error) {
	var code model.ProductCode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

// verifySQL is the whole first-use protocol in one statement. The database
// serializes concurrent updates on the row; COALESCE guarantees exactly one
// of them writes first_verified_at. Flagged statuses fall outside the WHERE
// clause and are never modified here.
const verifySQL = `
UPDATE product_codes
SET verification_count = verification_count + 1,
    status = 'verified',
    last_verified_at = ?,
    first_verified_at = COALESCE(first_verified_at, ?),
    updated_at = ?
WHERE %s AND status IN ('active', 'verified')
RETURNING id, brand_prefix, verification_count, first_verified_at, last_verified_at`

func (r *pgProductCodeRepository) verify(ctx context.Context, where string, key interface{}, at time.Time) (*VerifyRow, error) {
	var row VerifyRow
	res := r.db.WithContext(ctx).
		Raw(fmt.Sprintf(verifySQL, where), at, at, at, key).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCodeNotFound
	}
	return &row, nil
}

func (r *pgProductCodeRepository) Verify(ctx context.Context, codeHash string, at time.Time) (*VerifyRow, error) {
	return r.verify(ctx, "code_hash = ?", codeHash, at)
}

func (r *pgProductCodeRepository) VerifyByID(ctx context.Context, id uuid.UUID, at time.Time) (*VerifyRow, error) {
	return r.verify(ctx, "id = ?", id, at)
}

func (r *pgProductCodeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CodeStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductCode{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (r *pgProductCodeRepository) ListBatches(ctx context.Context) ([]model.CodeBatch, error) {
	var batches []model.CodeBatch
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *pgProductCodeRepository) GetBatch(ctx context.Context, id uuid.UUID) (*model.CodeBatch, error) {
	var batch model.CodeBatch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *pgProductCodeRepository) GetBatchStats(ctx context.Context, batchID uuid.UUID) (*BatchStats, error) {
	var stats BatchStats
	err := r.db.WithContext(ctx).Raw(`
SELECT count(*) AS total,
       count(*) FILTER (WHERE status = 'active') AS active,
       count(*) FILTER (WHERE status = 'verified') AS verified,
       count(*) FILTER (WHERE status IN ('suspected_counterfeit', 'expired', 'revoked')) AS flagged,
       COALESCE(sum(verification_count), 0) AS total_scans
FROM product_codes
WHERE batch_id = ?`, batchID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
