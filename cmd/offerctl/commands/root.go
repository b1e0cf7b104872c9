package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/matfynd/backend/config"
	"github.com/matfynd/backend/internal/infrastructure/cache"
	"github.com/matfynd/backend/internal/infrastructure/catalog"
	"github.com/matfynd/backend/internal/infrastructure/logging"
	"github.com/matfynd/backend/internal/infrastructure/markup"
	"github.com/matfynd/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the offerctl command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "offerctl",
		Short:         "offerctl extracts grocery offers from saved pages and prices recipes and carts against them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ./config.yaml if present).")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level.")

	rootCmd.AddCommand(
		newExtractCommand(opts),
		newSavingsCommand(opts),
		newCompareCommand(opts),
	)
	return rootCmd
}

// ExecuteContext runs offerctl and returns the process exit code
func ExecuteContext(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// pipeline is the offer pipeline wired from configuration, one per invocation
type pipeline struct {
	deals  *usecase.DealsService
	cache  *cache.MemoryCache
	logger *zap.Logger
}

func (o *rootOptions) pipeline() (*pipeline, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(o.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := logging.New(logging.Options{
		Level:      level,
		Format:     "console",
		OutputFile: cfg.Logging.OutputFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	extractors := usecase.NewCardExtractors(usecase.ExtractorConfig{
		NameSelectors:            cfg.Extraction.NameSelectors,
		PriceSelectors:           cfg.Extraction.PriceSelectors,
		OriginalPriceSelectors:   cfg.Extraction.OriginalPriceSelectors,
		ComparisonPriceSelectors: cfg.Extraction.ComparisonPriceSelectors,
		OfferDetailsSelectors:    cfg.Extraction.OfferDetailsSelectors,
		OfferDetailsMaxLength:    cfg.Extraction.OfferDetailsMaxLength,
	})
	matcher := usecase.NewIngredientMatcher(usecase.MatchConfig{
		EnableFuzzyMatching: cfg.Matching.EnableFuzzyMatching,
		FuzzyEditDistance:   cfg.Matching.FuzzyEditDistance,
		Workers:             cfg.Matching.Workers,
		EnableDebugLogging:  cfg.Matching.Debug,
	}, logger)

	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	deals := usecase.NewDealsService(
		markup.NewParser(cfg.Extraction.CardSelectors...),
		usecase.NewCatalogBuilder(usecase.NewOfferAssembler(extractors), cfg.Extraction.Workers, logger),
		matcher,
		catalog.NewStore(),
		memoryCache,
		usecase.DealsServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	return &pipeline{deals: deals, cache: memoryCache, logger: logger}, nil
}

func (p *pipeline) Close() {
	p.cache.Close()
	_ = p.logger.Sync()
}
