package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"emboditrust/verifyhub/internal/model"
)

// VerifyRow is the post-update state returned by the atomic verify.
type VerifyRow struct {
	ID                uuid.UUID
	BrandPrefix       string
	VerificationCount int
	FirstVerifiedAt   time.Time
	LastVerifiedAt    time.Time
}

// BatchStats aggregates code statuses for one batch.
type BatchStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Verified   int64 `json:"verified"`
	Flagged    int64 `json:"flagged"`
	TotalScans int64 `json:"total_scans"`
}

type ProductCodeRepository interface {
	// CreateBatch inserts a batch header and its codes in one transaction.
	CreateBatch(ctx context.Context, batch *model.CodeBatch, codes []*model.ProductCode) error

	GetByHash(ctx context.Context, codeHash string) (*model.ProductCode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductCode, error)

	// Verify performs the single atomic increment-and-test against the code
	// row identified by codeHash: it bumps verification_count, marks the code
	// verified, stamps last_verified_at, and sets first_verified_at only if
	// still unset. Rows in an administratively flagged status are not
	// touched; for those (and for unknown hashes) it returns ErrCodeNotFound
	// and the caller re-reads to tell the two apart.
	Verify(ctx context.Context, codeHash string, at time.Time) (*VerifyRow, error)

	// VerifyByID is the QR-link variant of Verify, keyed by code ID.
	VerifyByID(ctx context.Context, id uuid.UUID, at time.Time) (*VerifyRow, error)

	// UpdateStatus applies an administrative status override (flag/revoke).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CodeStatus) error

	ListBatches(ctx context.Context) ([]model.CodeBatch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*model.CodeBatch, error)
	GetBatchStats(ctx context.Context, batchID uuid.UUID) (*BatchStats, error)
}
