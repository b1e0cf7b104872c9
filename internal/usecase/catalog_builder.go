package usecase

import (
	"context"
	"fmt"
	"runtime"

	"github.com/matfynd/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogBuilder assembles a scrape cycle's cards into a catalog using a bounded
// worker pool. Cards are independent, so the only shared state is the result
// slice, written at distinct indexes.
type CatalogBuilder struct {
	assembler *OfferAssembler
	workers   int
	logger    *zap.Logger
}

// NewCatalogBuilder creates a builder. workers <= 0 uses GOMAXPROCS.
func NewCatalogBuilder(assembler *OfferAssembler, workers int, logger *zap.Logger) *CatalogBuilder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogBuilder{
		assembler: assembler,
		workers:   workers,
		logger:    logger,
	}
}

// Build assembles every card and returns the accepted offers in card order.
// Rejected cards are dropped and only counted in the report.
func (b *CatalogBuilder) Build(ctx context.Context, cards []domain.OfferCard) ([]domain.OfferRecord, domain.IngestReport, error) {
	report := domain.IngestReport{CardsFound: len(cards)}

	for i, card := range cards {
		if card == nil {
			return nil, report, fmt.Errorf("%w: card %d is nil", domain.ErrInvalidRequest, i)
		}
	}

	results := make([]domain.OfferRecord, len(cards))
	accepted := make([]bool, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, card := range cards {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], accepted[i] = b.assembler.Assemble(card)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, report, err
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	offers := make([]domain.OfferRecord, 0, len(cards))
	for i := range results {
		if accepted[i] {
			offers = append(offers, results[i])
		}
	}

	report.OffersAssembled = len(offers)
	report.Rejected = len(cards) - len(offers)

	b.logger.Info("catalog built",
		zap.Int("cards_found", report.CardsFound),
		zap.Int("offers_assembled", report.OffersAssembled),
		zap.Int("rejected", report.Rejected),
		zap.Int("workers", b.workers),
	)

	return offers, report, nil
}
