package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/matfynd/backend/internal/domain"
	"go.uber.org/zap"
)

// DealsServiceConfig holds configuration for the deals service
type DealsServiceConfig struct {
	CacheTTL time.Duration
}

// DealsService ties the offer pipeline to the published catalog: it ingests
// offer pages, and prices recipes and carts against the current snapshot.
type DealsService struct {
	parser     domain.CardParser
	builder    *CatalogBuilder
	matcher    *IngredientMatcher
	aggregator *SavingsAggregator
	store      domain.CatalogStore
	cache      domain.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDealsService creates a new deals service with dependencies
func NewDealsService(
	parser domain.CardParser,
	builder *CatalogBuilder,
	matcher *IngredientMatcher,
	store domain.CatalogStore,
	cache domain.CacheRepository,
	config DealsServiceConfig,
	logger *zap.Logger,
) *DealsService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DealsService{
		parser:     parser,
		builder:    builder,
		matcher:    matcher,
		aggregator: NewSavingsAggregator(matcher),
		store:      store,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// IngestHTML runs one scrape cycle over an offer page and publishes the result
// as the new catalog. The previous catalog stays current if anything fails.
func (s *DealsService) IngestHTML(ctx context.Context, source string, r io.Reader) (domain.IngestReport, error) {
	offers, report, err := s.extract(ctx, r)
	if err != nil {
		return report, err
	}

	snapshot := s.store.Publish(source, offers)
	report.Source = snapshot.Source
	report.CatalogVersion = snapshot.Version

	s.logger.Info("catalog published",
		zap.String("source", snapshot.Source),
		zap.Uint64("version", snapshot.Version),
		zap.Int("offers", len(snapshot.Offers)),
	)
	return report, nil
}

// ExtractHTML runs the same pipeline as IngestHTML without publishing
func (s *DealsService) ExtractHTML(ctx context.Context, r io.Reader) ([]domain.OfferRecord, domain.IngestReport, error) {
	return s.extract(ctx, r)
}

func (s *DealsService) extract(ctx context.Context, r io.Reader) ([]domain.OfferRecord, domain.IngestReport, error) {
	cards, err := s.parser.ParseCards(ctx, r)
	if err != nil {
		return nil, domain.IngestReport{}, err
	}
	return s.builder.Build(ctx, cards)
}

// Catalog returns the current catalog snapshot
func (s *DealsService) Catalog() domain.CatalogSnapshot {
	return s.store.Current()
}

// MatchIngredients returns one result per ingredient, in order
func (s *DealsService) MatchIngredients(ctx context.Context, ingredients []string) ([]domain.MatchResult, error) {
	return s.matcher.MatchAll(ctx, ingredients, s.store.Current().Offers)
}

// RecipeSavings prices a recipe against the current catalog.
// Flow: check cache -> summarize -> cache -> return. The key carries the catalog
// version, so a new publish never serves a stale summary.
func (s *DealsService) RecipeSavings(ctx context.Context, ingredients []string) (domain.SavingsSummary, error) {
	snapshot := s.store.Current()
	cacheKey := s.generateCacheKey(snapshot.Version, ingredients)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	summary, err := s.aggregator.Summarize(ctx, ingredients, snapshot.Offers)
	if err != nil {
		return domain.SavingsSummary{}, err
	}

	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache savings summary", zap.String("key", cacheKey), zap.Error(err))
	}
	return summary, nil
}

// MatchCart matches cart item names against the current catalog
func (s *DealsService) MatchCart(ctx context.Context, lines []domain.CartLine) ([]domain.MatchResult, error) {
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.Name
	}
	return s.matcher.MatchAll(ctx, names, s.store.Current().Offers)
}

// CompareCart totals the cart per store
func (s *DealsService) CompareCart(lines []domain.CartLine) domain.StoreComparison {
	return CompareStores(lines)
}

// generateCacheKey creates a cache key from catalog version and ingredients.
// Format: "savings:v{version}:{sha256 of normalized ingredients}"
func (s *DealsService) generateCacheKey(version uint64, ingredients []string) string {
	sum := sha256.Sum256([]byte(cacheKeyPart(ingredients)))
	return fmt.Sprintf("savings:v%d:%s", version, hex.EncodeToString(sum[:]))
}

// getFromCache retrieves a savings summary from cache
func (s *DealsService) getFromCache(ctx context.Context, key string) (domain.SavingsSummary, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return domain.SavingsSummary{}, err
	}

	switch v := value.(type) {
	case domain.SavingsSummary:
		return v, nil
	case *domain.SavingsSummary:
		if v != nil {
			return *v, nil
		}
	case json.RawMessage:
		return decodeSummary(v)
	case []byte:
		return decodeSummary(v)
	}
	return domain.SavingsSummary{}, domain.ErrCacheMiss
}

func decodeSummary(data []byte) (domain.SavingsSummary, error) {
	var summary domain.SavingsSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return domain.SavingsSummary{}, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	if summary.MatchedOffers == nil {
		summary.MatchedOffers = []domain.OfferRecord{}
	}
	return summary, nil
}
