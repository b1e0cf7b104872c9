package http

import (
	"github.com/gin-gonic/gin"
	"github.com/matfynd/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)))
	if cfg.Server.MaxBodyBytes > 0 {
		v1.Use(BodyLimitMiddleware(cfg.Server.MaxBodyBytes))
	}
	{
		// Offer catalog endpoints
		offers := v1.Group("/offers")
		{
			offers.GET("", handler.GetCatalog)
			offers.POST("/ingest", handler.IngestOffers)
			offers.POST("/extract", handler.ExtractOffers)
		}

		// Recipe endpoints
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/matches", handler.MatchRecipe)
			recipes.POST("/savings", handler.RecipeSavings)
		}

		// Cart endpoints
		cart := v1.Group("/cart")
		{
			cart.POST("/matches", handler.MatchCart)
			cart.POST("/compare", handler.CompareCart)
		}
	}

	return router
}
