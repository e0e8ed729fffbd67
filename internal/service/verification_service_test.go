package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/crypto"
	"emboditrust/verifyhub/pkg/securecode"
)

// fakeCodeStore implements ProductCodeRepository over a map, reproducing the
// database's guarantee that Verify is a single serialized conditional update.
type fakeCodeStore struct {
	mu        sync.Mutex
	byHash    map[string]*model.ProductCode
	lookups   int
	failing   bool
	lookupErr error
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{byHash: map[string]*model.ProductCode{}}
}

func (f *fakeCodeStore) add(code *model.ProductCode) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	f.byHash[code.CodeHash] = code
}

func (f *fakeCodeStore) CreateBatch(_ context.Context, batch *model.CodeBatch, codes []*model.ProductCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch.ID = uuid.New()
	for _, c := range codes {
		c.BatchID = batch.ID
		f.add(c)
	}
	return nil
}

func (f *fakeCodeStore) GetByHash(_ context.Context, codeHash string) (*model.ProductCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	code, ok := f.byHash[codeHash]
	if !ok {
		return nil, repository.ErrCodeNotFound
	}
	copied := *code
	return &copied, nil
}

func (f *fakeCodeStore) GetByID(_ context.Context, id uuid.UUID) (*model.ProductCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, code := range f.byHash {
		if code.ID == id {
			copied := *code
			return &copied, nil
		}
	}
	return nil, repository.ErrCodeNotFound
}

func (f *fakeCodeStore) Verify(_ context.Context, codeHash string, at time.Time) (*repository.VerifyRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errors.New("connection refused")
	}
	code, ok := f.byHash[codeHash]
	if !ok || code.Flagged() {
		return nil, repository.ErrCodeNotFound
	}
	code.VerificationCount++
	code.Status = model.CodeStatusVerified
	code.LastVerifiedAt = &at
	if code.FirstVerifiedAt == nil {
		code.FirstVerifiedAt = &at
	}
	return &repository.VerifyRow{
		ID:                code.ID,
		BrandPrefix:       code.BrandPrefix,
		VerificationCount: code.VerificationCount,
		FirstVerifiedAt:   *code.FirstVerifiedAt,
		LastVerifiedAt:    at,
	}, nil
}

func (f *fakeCodeStore) VerifyByID(ctx context.Context, id uuid.UUID, at time.Time) (*repository.VerifyRow, error) {
	f.mu.Lock()
	var hash string
	for h, code := range f.byHash {
		if code.ID == id {
			hash = h
		}
	}
	f.mu.Unlock()
	if hash == "" {
		return nil, repository.ErrCodeNotFound
	}
	return f.Verify(ctx, hash, at)
}

func (f *fakeCodeStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.CodeStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, code := range f.byHash {
		if code.ID == id {
			code.Status = status
			return nil
		}
	}
	return repository.ErrCodeNotFound
}

func (f *fakeCodeStore) ListBatches(context.Context) ([]model.CodeBatch, error) { return nil, nil }
func (f *fakeCodeStore) GetBatch(context.Context, uuid.UUID) (*model.CodeBatch, error) {
	return nil, repository.ErrCodeNotFound
}
func (f *fakeCodeStore) GetBatchStats(context.Context, uuid.UUID) (*repository.BatchStats, error) {
	return nil, nil
}

// fakeAttemptLog records appended audit rows; optionally always errors.
type fakeAttemptLog struct {
	mu       sync.Mutex
	attempts []model.VerificationAttempt
	failing  bool
}

func (f *fakeAttemptLog) Create(_ context.Context, attempt *model.VerificationAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("audit insert failed")
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptLog) List(context.Context, repository.AttemptQuery) ([]model.VerificationAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.VerificationAttempt(nil), f.attempts...), nil
}

func newTestService(store *fakeCodeStore, audit *fakeAttemptLog) VerificationService {
	return NewVerificationService(store, audit, zap.NewNop(), time.Second)
}

func seedCode(t *testing.T, store *fakeCodeStore, prefix string) (raw string) {
	t.Helper()
	raw, err := securecode.Generate(prefix)
	require.NoError(t, err)
	store.add(&model.ProductCode{
		CodeHash:    crypto.HashCode(raw),
		BrandPrefix: prefix,
		Status:      model.CodeStatusActive,
	})
	return raw
}

func TestVerifyCodeFirstUseThenRepeat(t *testing.T) {
	store := newFakeCodeStore()
	audit := &fakeAttemptLog{}
	svc := newTestService(store, audit)
	raw := seedCode(t, store, "EMB")

	first, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw, Channel: model.ChannelWeb})
	require.NoError(t, err)
	assert.Equal(t, model.ResultValid, first.Result)
	assert.True(t, first.IsFirstVerification)
	assert.Equal(t, 1, first.VerificationCount)
	require.NotNil(t, first.FirstVerifiedAt)
	assert.Equal(t, "EMB", first.BrandPrefix)

	second, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw, Channel: model.ChannelWeb})
	require.NoError(t, err)
	assert.Equal(t, model.ResultAlreadyUsed, second.Result)
	assert.False(t, second.IsFirstVerification)
	assert.Equal(t, 2, second.VerificationCount)
	require.NotNil(t, second.FirstVerifiedAt)
	assert.Equal(t, *first.FirstVerifiedAt, *second.FirstVerifiedAt, "first_verified_at must never move")

	assert.Len(t, audit.attempts, 2)
}

func TestVerifyCodeIdempotentRepeat(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})
	raw := seedCode(t, store, "EMB")

	var firstSeen time.Time
	for i := 1; i <= 5; i++ {
		outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
		require.NoError(t, err)
		assert.Equal(t, i, outcome.VerificationCount)
		if i == 1 {
			firstSeen = *outcome.FirstVerifiedAt
			continue
		}
		assert.Equal(t, model.ResultAlreadyUsed, outcome.Result)
		assert.Equal(t, firstSeen, *outcome.FirstVerifiedAt)
	}
}

func TestVerifyCodeUnknownCode(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})

	// Structurally valid code that was never issued.
	raw, err := securecode.Generate("EMB")
	require.NoError(t, err)

	outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	require.NoError(t, err)
	assert.Equal(t, model.ResultInvalid, outcome.Result)
	assert.Empty(t, store.byHash, "no record may be created for unknown codes")
}

func TestVerifyCodeMalformedInputSkipsStorage(t *testing.T) {
	store := newFakeCodeStore()
	audit := &fakeAttemptLog{}
	svc := newTestService(store, audit)

	outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: "EMBQ2W3E4R5"}) // 11 symbols
	require.NoError(t, err)
	assert.Equal(t, model.ResultInvalid, outcome.Result)
	assert.Zero(t, store.lookups, "checksum rejection must precede any storage lookup")
	assert.Len(t, audit.attempts, 1)
}

func TestVerifyCodeFlaggedStatuses(t *testing.T) {
	cases := []struct {
		status model.CodeStatus
		want   model.VerificationResult
	}{
		{model.CodeStatusSuspectedCounterfeit, model.ResultSuspectedCounterfeit},
		{model.CodeStatusRevoked, model.ResultInvalid},
		{model.CodeStatusExpired, model.ResultInvalid},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			store := newFakeCodeStore()
			svc := newTestService(store, &fakeAttemptLog{})
			raw := seedCode(t, store, "EMB")
			code := store.byHash[crypto.HashCode(securecode.Normalize(raw))]
			code.Status = tc.status
			code.VerificationCount = 3

			outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
			require.NoError(t, err)
			assert.Equal(t, tc.want, outcome.Result)
			assert.Equal(t, 3, code.VerificationCount, "flagged codes must not be counted")
			assert.Equal(t, tc.status, code.Status)
		})
	}
}

func TestVerifyCodeConcurrentFirstUseExactlyOnce(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})
	raw := seedCode(t, store, "EMB")

	const n = 64
	outcomes := make([]*VerifyOutcome, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
			if !assert.NoError(t, err) {
				return
			}
			outcomes[i] = outcome
		}(i)
	}
	close(start)
	wg.Wait()

	firstWins := 0
	for _, outcome := range outcomes {
		require.NotNil(t, outcome)
		switch outcome.Result {
		case model.ResultValid:
			firstWins++
			assert.True(t, outcome.IsFirstVerification)
			assert.Equal(t, 1, outcome.VerificationCount)
		case model.ResultAlreadyUsed:
			assert.False(t, outcome.IsFirstVerification)
		default:
			t.Fatalf("unexpected result %q", outcome.Result)
		}
	}
	assert.Equal(t, 1, firstWins, "exactly one attempt may win first verification")

	code := store.byHash[crypto.HashCode(securecode.Normalize(raw))]
	assert.Equal(t, n, code.VerificationCount)
}

func TestVerifyCodeStorageUnavailable(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})
	raw := seedCode(t, store, "EMB")
	store.failing = true

	_, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestVerifyCodeFlaggedLookupFailureIsNotInvalid(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})
	raw := seedCode(t, store, "EMB")
	code := store.byHash[crypto.HashCode(securecode.Normalize(raw))]
	code.Status = model.CodeStatusSuspectedCounterfeit

	// The conditional update skips the flagged row; the disambiguation read
	// then hits a storage outage. That must surface as retryable, never as
	// a definitive "not recognized".
	store.lookupErr = errors.New("connection refused")

	outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Nil(t, outcome)
}

func TestVerifyCodeAuditFailureDoesNotChangeOutcome(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{failing: true})
	raw := seedCode(t, store, "EMB")

	outcome, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	require.NoError(t, err)
	assert.Equal(t, model.ResultValid, outcome.Result)
}

func TestVerifyCodeIDQRPath(t *testing.T) {
	store := newFakeCodeStore()
	svc := newTestService(store, &fakeAttemptLog{})
	raw := seedCode(t, store, "EMB")
	code := store.byHash[crypto.HashCode(securecode.Normalize(raw))]

	outcome, err := svc.VerifyCodeID(context.Background(), code.ID.String(), VerifyInput{Channel: model.ChannelWeb})
	require.NoError(t, err)
	assert.Equal(t, model.ResultValid, outcome.Result)

	// The scratch path and the QR path resolve the same record.
	outcome, err = svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	require.NoError(t, err)
	assert.Equal(t, model.ResultAlreadyUsed, outcome.Result)
	assert.Equal(t, 2, outcome.VerificationCount)
}

func TestVerifyCodeIDMalformedTokenIsAudited(t *testing.T) {
	store := newFakeCodeStore()
	audit := &fakeAttemptLog{}
	svc := newTestService(store, audit)

	outcome, err := svc.VerifyCodeID(context.Background(), "not-a-uuid", VerifyInput{Channel: model.ChannelWeb})
	require.NoError(t, err)
	assert.Equal(t, model.ResultInvalid, outcome.Result)
	assert.Zero(t, store.lookups, "a malformed token never reaches storage")

	require.Len(t, audit.attempts, 1)
	assert.Equal(t, "qr:not-a-uuid", audit.attempts[0].ScannedCode)
	assert.Nil(t, audit.attempts[0].CodeID)
}

func TestVerifyCodeAuditMasksScannedCode(t *testing.T) {
	store := newFakeCodeStore()
	audit := &fakeAttemptLog{}
	svc := newTestService(store, audit)
	raw := seedCode(t, store, "EMB")

	_, err := svc.VerifyCode(context.Background(), VerifyInput{Code: raw})
	require.NoError(t, err)

	require.Len(t, audit.attempts, 1)
	logged := audit.attempts[0].ScannedCode
	assert.NotEqual(t, securecode.Normalize(raw), logged)
	assert.Contains(t, logged, "*")
}
