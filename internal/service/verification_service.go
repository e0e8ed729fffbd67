package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/crypto"
	"emboditrust/verifyhub/pkg/securecode"
)

// VerifyInput carries one verification attempt from any transport.
type VerifyInput struct {
	Code        string // raw scratch code as submitted
	Channel     model.VerificationChannel
	IPAddress   string
	Geolocation string
}

// VerifyOutcome is the transport-independent verification contract.
type VerifyOutcome struct {
	Result              model.VerificationResult `json:"result"`
	IsFirstVerification bool                     `json:"is_first_verification"`
	VerificationCount   int                      `json:"verification_count"`
	FirstVerifiedAt     *time.Time               `json:"first_verified_at,omitempty"`
	BrandPrefix         string                   `json:"brand_prefix,omitempty"`
}

type VerificationService interface {
	// VerifyCode resolves a typed/scanned scratch code.
	VerifyCode(ctx context.Context, input VerifyInput) (*VerifyOutcome, error)
	// VerifyCodeID resolves the QR-link path. The raw path token is parsed
	// here so malformed QR payloads are audited like malformed typed codes.
	VerifyCodeID(ctx context.Context, codeID string, input VerifyInput) (*VerifyOutcome, error)
}

type verificationService struct {
	codeRepo       repository.ProductCodeRepository
	attemptRepo    repository.VerificationAttemptRepository
	logger         *zap.Logger
	storageTimeout time.Duration
}

func NewVerificationService(
	codeRepo repository.ProductCodeRepository,
	attemptRepo repository.VerificationAttemptRepository,
	logger *zap.Logger,
	storageTimeout time.Duration,
) VerificationService {
	if storageTimeout <= 0 {
		storageTimeout = 3 * time.Second
	}
	return &verificationService{
		codeRepo:       codeRepo,
		attemptRepo:    attemptRepo,
		logger:         logger,
		storageTimeout: storageTimeout,
	}
}

func (s *verificationService) VerifyCode(ctx context.Context, input VerifyInput) (*VerifyOutcome, error) {
	code := securecode.Normalize(input.Code)

	// Structural check first: fabricated or mistyped codes never reach storage.
	if !securecode.Validate(code) {
		outcome := &VerifyOutcome{Result: model.ResultInvalid}
		s.logAttempt(ctx, nil, input, truncate(input.Code, 64), outcome.Result)
		return outcome, nil
	}

	return s.verify(ctx, func(ctx context.Context, at time.Time) (*repository.VerifyRow, error) {
		return s.codeRepo.Verify(ctx, crypto.HashCode(code), at)
	}, func(ctx context.Context) (*model.ProductCode, error) {
		return s.codeRepo.GetByHash(ctx, crypto.HashCode(code))
	}, input, maskCode(code))
}

func (s *verificationService) VerifyCodeID(ctx context.Context, codeID string, input VerifyInput) (*VerifyOutcome, error) {
	id, err := uuid.Parse(codeID)
	if err != nil {
		outcome := &VerifyOutcome{Result: model.ResultInvalid}
		s.logAttempt(ctx, nil, input, "qr:"+truncate(codeID, 64), outcome.Result)
		return outcome, nil
	}

	return s.verify(ctx, func(ctx context.Context, at time.Time) (*repository.VerifyRow, error) {
		return s.codeRepo.VerifyByID(ctx, id, at)
	}, func(ctx context.Context) (*model.ProductCode, error) {
		return s.codeRepo.GetByID(ctx, id)
	}, input, "qr:"+id.String())
}

// verify runs the shared state machine. The exactly-once guarantee for first
// use lives in the repository's single-statement conditional update; this
// layer only interprets the post-update row and handles the zero-row cases.
func (s *verificationService) verify(
	ctx context.Context,
	atomicVerify func(context.Context, time.Time) (*repository.VerifyRow, error),
	lookup func(context.Context) (*model.ProductCode, error),
	input VerifyInput,
	auditCode string,
) (*VerifyOutcome, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	row, err := atomicVerify(opCtx, time.Now().UTC())
	if err != nil && !errors.Is(err, repository.ErrCodeNotFound) {
		// No state change can be assumed; the caller may safely retry.
		s.logger.Error("atomic verify failed", zap.Error(err))
		return nil, ErrStorageUnavailable
	}

	var outcome *VerifyOutcome
	var codeID *uuid.UUID

	if err == nil {
		codeID = &row.ID
		outcome = &VerifyOutcome{
			Result:            model.ResultAlreadyUsed,
			VerificationCount: row.VerificationCount,
			FirstVerifiedAt:   &row.FirstVerifiedAt,
			BrandPrefix:       row.BrandPrefix,
		}
		// Outcome is derived from the post-update count, not a prior read:
		// exactly one caller ever observes count 1.
		if row.VerificationCount == 1 {
			outcome.Result = model.ResultValid
			outcome.IsFirstVerification = true
		}
	} else {
		outcome, codeID, err = s.resolveUnverifiable(opCtx, lookup)
		if err != nil {
			return nil, err
		}
	}

	s.logAttempt(ctx, codeID, input, auditCode, outcome.Result)
	return outcome, nil
}

// resolveUnverifiable distinguishes "never issued" from "administratively
// flagged" after the atomic update matched no row. An infrastructure failure
// here must not be reported as a business outcome: "invalid" is reserved for
// a confirmed missing record.
func (s *verificationService) resolveUnverifiable(
	ctx context.Context,
	lookup func(context.Context) (*model.ProductCode, error),
) (*VerifyOutcome, *uuid.UUID, error) {
	record, err := lookup(ctx)
	if errors.Is(err, repository.ErrCodeNotFound) {
		return &VerifyOutcome{Result: model.ResultInvalid}, nil, nil
	}
	if err != nil {
		s.logger.Error("flagged-status lookup failed", zap.Error(err))
		return nil, nil, ErrStorageUnavailable
	}

	outcome := &VerifyOutcome{
		Result:            model.ResultInvalid,
		VerificationCount: record.VerificationCount,
		FirstVerifiedAt:   record.FirstVerifiedAt,
		BrandPrefix:       record.BrandPrefix,
	}
	if record.Status == model.CodeStatusSuspectedCounterfeit {
		outcome.Result = model.ResultSuspectedCounterfeit
	}
	return outcome, &record.ID, nil
}

// logAttempt appends the audit record. Best effort: a failed append is
// logged and never changes the outcome already decided from the code row.
func (s *verificationService) logAttempt(
	ctx context.Context,
	codeID *uuid.UUID,
	input VerifyInput,
	scannedCode string,
	result model.VerificationResult,
) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storageTimeout)
	defer cancel()

	attempt := &model.VerificationAttempt{
		CodeID:      codeID,
		ScannedCode: scannedCode,
		Result:      result,
		Channel:     input.Channel,
		IPAddress:   input.IPAddress,
		Geolocation: input.Geolocation,
	}
	if err := s.attemptRepo.Create(opCtx, attempt); err != nil {
		s.logger.Warn("audit log append failed",
			zap.String("result", string(result)),
			zap.Error(err))
	}
}

// maskCode keeps the brand prefix and last two symbols so analytics stay
// useful without the audit table disclosing typeable codes.
func maskCode(code string) string {
	if len(code) != securecode.CodeLength {
		return truncate(code, 64)
	}
	return code[:securecode.PrefixLength] + "*******" + code[len(code)-2:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
