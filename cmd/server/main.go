package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/matfynd/backend/config"
	httpDelivery "github.com/matfynd/backend/internal/delivery/http"
	"github.com/matfynd/backend/internal/infrastructure/cache"
	"github.com/matfynd/backend/internal/infrastructure/catalog"
	"github.com/matfynd/backend/internal/infrastructure/logging"
	"github.com/matfynd/backend/internal/infrastructure/markup"
	"github.com/matfynd/backend/internal/usecase"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputFile: cfg.Logging.OutputFile,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	code := run(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

// run serves until the router stops and returns the process exit code.
// Cleanup runs before it returns.
func run(cfg *config.Config, logger *zap.Logger) int {
	logger.Info("starting matfynd backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	router, cleanup := newServer(cfg, logger)
	defer cleanup()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		return 1
	}
	return 0
}

// newServer wires the offer pipeline behind the router. The returned cleanup
// stops the cache janitor and the catalog subscription.
func newServer(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func()) {
	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)

	parser := markup.NewParser(cfg.Extraction.CardSelectors...)
	store := catalog.NewStore()

	updates, cancelUpdates := store.Subscribe()
	go func() {
		for snapshot := range updates {
			logger.Debug("catalog version available",
				zap.Uint64("version", snapshot.Version),
				zap.String("source", snapshot.Source),
				zap.Int("offers", len(snapshot.Offers)),
			)
		}
	}()

	// Initialize usecase layer
	extractors := usecase.NewCardExtractors(usecase.ExtractorConfig{
		NameSelectors:            cfg.Extraction.NameSelectors,
		PriceSelectors:           cfg.Extraction.PriceSelectors,
		OriginalPriceSelectors:   cfg.Extraction.OriginalPriceSelectors,
		ComparisonPriceSelectors: cfg.Extraction.ComparisonPriceSelectors,
		OfferDetailsSelectors:    cfg.Extraction.OfferDetailsSelectors,
		OfferDetailsMaxLength:    cfg.Extraction.OfferDetailsMaxLength,
	})
	builder := usecase.NewCatalogBuilder(usecase.NewOfferAssembler(extractors), cfg.Extraction.Workers, logger)
	matcher := usecase.NewIngredientMatcher(usecase.MatchConfig{
		EnableFuzzyMatching: cfg.Matching.EnableFuzzyMatching,
		FuzzyEditDistance:   cfg.Matching.FuzzyEditDistance,
		Workers:             cfg.Matching.Workers,
		EnableDebugLogging:  cfg.Matching.Debug,
	}, logger)

	logger.Info("matching configured",
		zap.Bool("fuzzy", cfg.Matching.EnableFuzzyMatching),
		zap.Int("edit_distance", cfg.Matching.FuzzyEditDistance),
		zap.Bool("debug", cfg.Matching.Debug),
	)

	dealsService := usecase.NewDealsService(
		parser,
		builder,
		matcher,
		store,
		memoryCache,
		usecase.DealsServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(dealsService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	cleanup := func() {
		cancelUpdates()
		memoryCache.Close()
	}
	return router, cleanup
}
