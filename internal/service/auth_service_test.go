package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/crypto"
	jwtpkg "emboditrust/verifyhub/pkg/jwt"
)

type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func newAuthFixture(t *testing.T) (AuthService, *MockAdminUserRepository, *model.AdminUser) {
	t.Helper()
	hash, err := crypto.HashPassword("s3cret-pass")
	require.NoError(t, err)

	user := &model.AdminUser{ID: uuid.New(), Username: "ops", PasswordHash: hash}
	adminRepo := new(MockAdminUserRepository)
	manager := jwtpkg.NewManager("test-signing-key", "verifyhub-test", 15*time.Minute, time.Hour)
	svc := NewAuthService(adminRepo, repository.NewMemoryStateStore(), manager)
	return svc, adminRepo, user
}

func TestLoginSuccess(t *testing.T) {
	svc, adminRepo, user := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ops").Return(user, nil)

	tokens, err := svc.Login(context.Background(), "ops", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.EqualValues(t, (15 * time.Minute).Seconds(), tokens.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, adminRepo, user := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ops").Return(user, nil)

	_, err := svc.Login(context.Background(), "ops", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, adminRepo, _ := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	svc, adminRepo, user := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ops").Return(user, nil)

	tokens, err := svc.Login(context.Background(), "ops", "s3cret-pass")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The consumed refresh token must not be replayable.
	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, adminRepo, user := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ops").Return(user, nil)

	tokens, err := svc.Login(context.Background(), "ops", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.RefreshToken))

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, adminRepo, user := newAuthFixture(t)
	adminRepo.On("GetByUsername", mock.Anything, "ops").Return(user, nil)

	tokens, err := svc.Login(context.Background(), "ops", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}
