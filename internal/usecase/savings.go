package usecase

import (
	"context"

	"github.com/matfynd/backend/internal/domain"
)

// SavingsAggregator prices a recipe against a catalog
type SavingsAggregator struct {
	matcher *IngredientMatcher
}

// NewSavingsAggregator creates an aggregator backed by matcher
func NewSavingsAggregator(matcher *IngredientMatcher) *SavingsAggregator {
	return &SavingsAggregator{matcher: matcher}
}

// Summarize matches every ingredient independently and totals the matched
// offers. An offer matched by two ingredients is counted twice.
func (a *SavingsAggregator) Summarize(ctx context.Context, ingredients []string, catalog []domain.OfferRecord) (domain.SavingsSummary, error) {
	results, err := a.matcher.MatchAll(ctx, ingredients, catalog)
	if err != nil {
		return domain.SavingsSummary{}, err
	}
	return SummarizeMatches(results), nil
}

// SummarizeMatches totals already-matched results. Offers without a current price
// are listed in MatchedOffers but contribute nothing to the totals.
func SummarizeMatches(results []domain.MatchResult) domain.SavingsSummary {
	summary := domain.SavingsSummary{
		Savings:       domain.Zero(),
		MatchedOffers: []domain.OfferRecord{},
	}

	var discounted, original *domain.Money
	for _, result := range results {
		if !result.Matched() {
			continue
		}
		offer := *result.Offer
		summary.MatchedOffers = append(summary.MatchedOffers, offer)

		if offer.Price == nil {
			continue
		}
		discounted = addMoney(discounted, *offer.Price)

		if offer.IsDiscounted() {
			original = addMoney(original, *offer.OriginalPrice)
			summary.Savings = summary.Savings.Add(offer.OriginalPrice.Minus(*offer.Price))
		} else {
			original = addMoney(original, *offer.Price)
		}
	}

	summary.DiscountedTotal = discounted
	summary.OriginalTotal = original
	return summary
}

func addMoney(total *domain.Money, amount domain.Money) *domain.Money {
	if total == nil {
		return domain.MoneyPtr(amount)
	}
	return domain.MoneyPtr(total.Add(amount))
}
