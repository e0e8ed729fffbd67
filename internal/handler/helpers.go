package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"emboditrust/verifyhub/internal/handler/middleware"
	jwtpkg "emboditrust/verifyhub/pkg/jwt"
)

// getAdminIDFromContext resolves the AdminUser ID set by JWTAuth.
func getAdminIDFromContext(c *gin.Context) (uuid.UUID, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyAdminClaims)
	if !exists {
		return uuid.Nil, ErrNoAdminClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return uuid.Nil, ErrNoAdminClaims
	}
	return uuid.Parse(claims.Subject)
}

var ErrNoAdminClaims = errors.New("admin claims not found in context")
