package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/config"
	"emboditrust/verifyhub/internal/handler/middleware"
	"emboditrust/verifyhub/internal/repository"
	jwtpkg "emboditrust/verifyhub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	stateStore repository.StateStore,
	verifyHandler *VerifyHandler,
	ussdHandler *USSDHandler,
	reportHandler *ReportHandler,
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public consumer routes
	public := r.Group("/api/v1")
	{
		verifyLimit := middleware.RateLimit(
			stateStore,
			cfg.Verification.RateLimit,
			cfg.Verification.RateLimitWindow,
			logger,
		)
		public.POST("/verify", verifyLimit, verifyHandler.Verify)
		public.GET("/verify/:code_id", verifyLimit, verifyHandler.VerifyQR)

		// Telco gateway webhooks; the gateway is IP-allowlisted upstream.
		public.POST("/ussd", ussdHandler.Session)
		public.POST("/sms", ussdHandler.InboundSMS)

		public.POST("/reports", reportHandler.File)
	}

	// Admin auth
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Admin routes (JWT + admin check)
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(jwtManager))
	admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs))
	{
		admin.POST("/brands", adminHandler.RegisterBrand)
		admin.GET("/brands", adminHandler.ListBrands)

		admin.POST("/batches", adminHandler.GenerateBatch)
		admin.GET("/batches", adminHandler.ListBatches)
		admin.GET("/batches/:id/stats", adminHandler.BatchStats)

		admin.POST("/codes/:id/flag", adminHandler.FlagCode)
		admin.POST("/codes/:id/revoke", adminHandler.RevokeCode)

		admin.GET("/attempts", adminHandler.ListAttempts)
		admin.GET("/reports", adminHandler.ListReports)
		admin.PUT("/reports/:id", adminHandler.ReviewReport)
	}

	return r
}
