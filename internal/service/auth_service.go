package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/crypto"
	jwtpkg "emboditrust/verifyhub/pkg/jwt"
)

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	adminRepo  repository.AdminUserRepository
	stateStore repository.StateStore
	jwtManager *jwtpkg.Manager
}

func NewAuthService(
	adminRepo repository.AdminUserRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		adminRepo:  adminRepo,
		stateStore: stateStore,
		jwtManager: jwtManager,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenSet, error) {
	user, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user.ID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	// Rotate: the presented token is revoked for its remaining lifetime.
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issueTokens(userID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.revoke(ctx, claims)
}

func (s *authService) validateRefresh(ctx context.Context, refreshToken string) (*jwtpkg.Claims, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}

	revoked, err := s.stateStore.Exists(ctx, revokedKey(claims.ID))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRefreshTokenInvalid
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *jwtpkg.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.stateStore.Set(ctx, revokedKey(claims.ID), []byte("1"), ttl)
}

func (s *authService) issueTokens(userID uuid.UUID) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

var _ AuthService = (*authService)(nil)
