package repository

import (
	"context"

	"emboditrust/verifyhub/internal/model"
)

// AttemptQuery filters the audit log for analytics consumers.
type AttemptQuery struct {
	Result  model.VerificationResult
	Channel model.VerificationChannel
	Limit   int
	Offset  int
}

type VerificationAttemptRepository interface {
	// Create appends one attempt record. Rows are write-once.
	Create(ctx context.Context, attempt *model.VerificationAttempt) error
	List(ctx context.Context, q AttemptQuery) ([]model.VerificationAttempt, error)
}
