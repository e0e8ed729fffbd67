package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/pkg/response"
)

// RateLimit caps requests per client IP per window using the StateStore's
// atomic counter. Fails open: a broken store must not take verification down.
func RateLimit(store repository.StateStore, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:verify:" + c.ClientIP()
		count, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(limit) {
			response.TooManyRequests(c, "too many verification attempts, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
