package usecase

import (
	"github.com/matfynd/backend/internal/domain"
)

// OfferAssembler turns one offer card into an OfferRecord. It is the only place
// card data is validated; consumers treat nil fields as legitimately absent.
type OfferAssembler struct {
	extractors CardExtractors
}

// NewOfferAssembler creates an assembler over the given extractor set
func NewOfferAssembler(extractors CardExtractors) *OfferAssembler {
	return &OfferAssembler{extractors: extractors}
}

// Assemble runs all field extractors on card. It returns false when the card has
// no name, or when it has an original price but no current price.
// It panics on a nil card.
func (a *OfferAssembler) Assemble(card domain.OfferCard) (domain.OfferRecord, bool) {
	if card == nil {
		panic("usecase: OfferAssembler.Assemble called with nil OfferCard")
	}

	name, ok := a.extractors.Name.Extract(card)
	if !ok {
		return domain.OfferRecord{}, false
	}

	record := domain.OfferRecord{Name: name}

	if text, ok := a.extractors.Price.Extract(card); ok {
		if price, ok := domain.NormalizePrice(text); ok {
			record.Price = domain.MoneyPtr(price)
		}
	}
	if text, ok := a.extractors.OriginalPrice.Extract(card); ok {
		if original, ok := domain.NormalizePrice(text); ok {
			record.OriginalPrice = domain.MoneyPtr(original)
		}
	}
	if record.OriginalPrice != nil && record.Price == nil {
		return domain.OfferRecord{}, false
	}

	if text, ok := a.extractors.ComparisonPrice.Extract(card); ok {
		record.ComparisonPrice = domain.StringPtr(text)
	}
	if text, ok := a.extractors.OfferDetails.Extract(card); ok {
		record.OfferDetails = domain.StringPtr(text)
	}

	return record, true
}
