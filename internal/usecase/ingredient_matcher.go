package usecase

import (
	"context"
	"runtime"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/matfynd/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fuzzyMinTokenLength keeps edit-distance matching away from short words,
// where a single edit already links unrelated words ("ost" and "ust").
const fuzzyMinTokenLength = 5

// MatchConfig holds configuration for the ingredient matcher
type MatchConfig struct {
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
	Workers             int
	EnableDebugLogging  bool
}

// IngredientMatcher links free-text ingredients and cart items to catalog offers
// by word overlap. The first qualifying offer in catalog order wins.
type IngredientMatcher struct {
	enableFuzzyMatching bool
	fuzzyEditDistance   int
	workers             int
	enableDebugLogging  bool
	logger              *zap.Logger
}

// NewIngredientMatcher creates a matcher with the given configuration
func NewIngredientMatcher(config MatchConfig, logger *zap.Logger) *IngredientMatcher {
	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1 // Default edit distance of 1
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &IngredientMatcher{
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
		workers:             workers,
		enableDebugLogging:  config.EnableDebugLogging,
		logger:              logger,
	}
}

// preparedOffer caches the normalized name and significant tokens of one offer
type preparedOffer struct {
	name   string
	tokens []string
}

func prepareCatalog(catalog []domain.OfferRecord) []preparedOffer {
	prepared := make([]preparedOffer, len(catalog))
	for i, offer := range catalog {
		name := normalizeText(offer.Name)
		prepared[i] = preparedOffer{name: name, tokens: significantTokens(name)}
	}
	return prepared
}

// Match returns the first catalog offer matching ingredient, or nil.
func (m *IngredientMatcher) Match(ingredient string, catalog []domain.OfferRecord) *domain.OfferRecord {
	return m.matchPrepared(ingredient, catalog, prepareCatalog(catalog))
}

// MatchAll matches every query independently against the same catalog and
// returns one result per query, in query order.
func (m *IngredientMatcher) MatchAll(ctx context.Context, queries []string, catalog []domain.OfferRecord) ([]domain.MatchResult, error) {
	prepared := prepareCatalog(catalog)
	results := make([]domain.MatchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, query := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = domain.MatchResult{
				Query: query,
				Offer: m.matchPrepared(query, catalog, prepared),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *IngredientMatcher) matchPrepared(ingredient string, catalog []domain.OfferRecord, prepared []preparedOffer) *domain.OfferRecord {
	text := normalizeText(ingredient)
	if text == "" {
		return nil
	}
	ingredientTokens := significantTokens(text)

	for i, offer := range prepared {
		if !m.matches(text, ingredientTokens, offer) {
			continue
		}
		if m.enableDebugLogging {
			m.logger.Debug("[match] ingredient matched offer",
				zap.String("ingredient", ingredient),
				zap.String("offer", catalog[i].Name),
				zap.Int("catalog_index", i),
			)
		}
		match := catalog[i]
		return &match
	}

	if m.enableDebugLogging {
		m.logger.Debug("[match] no offer for ingredient", zap.String("ingredient", ingredient))
	}
	return nil
}

// matches applies the two-step test: offer name as a substring of the
// ingredient, otherwise a majority of the offer's significant tokens overlapping
// some ingredient token in either substring direction.
func (m *IngredientMatcher) matches(ingredient string, ingredientTokens []string, offer preparedOffer) bool {
	if offer.name != "" && strings.Contains(ingredient, offer.name) {
		return true
	}

	if len(offer.tokens) == 0 {
		return false
	}

	overlap := 0
	for _, offerToken := range offer.tokens {
		for _, ingredientToken := range ingredientTokens {
			if m.tokensOverlap(offerToken, ingredientToken) {
				overlap++
				break
			}
		}
	}

	needed := (len(offer.tokens) + 1) / 2
	return overlap >= needed
}

func (m *IngredientMatcher) tokensOverlap(offerToken, ingredientToken string) bool {
	if strings.Contains(ingredientToken, offerToken) || strings.Contains(offerToken, ingredientToken) {
		return true
	}
	if !m.enableFuzzyMatching {
		return false
	}
	return fuzzyTokenMatch(offerToken, ingredientToken, m.fuzzyEditDistance)
}

// fuzzyTokenMatch checks if two tokens are within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	r1, r2 := []rune(token1), []rune(token2)
	if len(r1) < fuzzyMinTokenLength || len(r2) < fuzzyMinTokenLength {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len(r1) - len(r2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return matchr.Levenshtein(token1, token2) <= threshold
}
