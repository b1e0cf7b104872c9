package domain

import "time"

// OfferRecord is one assembled product offer. A record is never mutated after the
// assembler returns it; optional fields are nil when the card did not carry them.
type OfferRecord struct {
	Name            string  `json:"name"`
	Price           *Money  `json:"price"`
	OriginalPrice   *Money  `json:"originalPrice"`
	ComparisonPrice *string `json:"comparisonPrice"` // e.g. "24.90 kr/kg", never used in arithmetic
	OfferDetails    *string `json:"offerDetails"`    // e.g. "3 för 70", "Max 1 köp/hushåll"
}

// IsDiscounted reports whether the record carries an original price above its current price
func (o OfferRecord) IsDiscounted() bool {
	return o.Price != nil && o.OriginalPrice != nil && o.OriginalPrice.GreaterThan(*o.Price)
}

// MatchResult pairs one ingredient or cart line with the first catalog offer that
// matched it. Offer is nil when nothing matched.
type MatchResult struct {
	Query string       `json:"query"`
	Offer *OfferRecord `json:"offer"`
}

// Matched reports whether an offer was found
func (m MatchResult) Matched() bool {
	return m.Offer != nil
}

// SavingsSummary is the derived price view of a recipe against the current catalog
type SavingsSummary struct {
	DiscountedTotal *Money        `json:"discountedTotal"`
	OriginalTotal   *Money        `json:"originalTotal"`
	Savings         Money         `json:"savings"`
	MatchedOffers   []OfferRecord `json:"matchedOffers"`
}

// CartLine is one shopping-cart row as stored by the cart collaborator
type CartLine struct {
	Name     string `json:"name,omitempty"`
	Store    string `json:"store"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// StoreTotal is the summed cart price for one store
type StoreTotal struct {
	StoreName    string `json:"storeName"`
	Total        Money  `json:"total"`
	PricedLines  int    `json:"pricedLines"`
	SkippedLines int    `json:"skippedLines"`
}

// BestStore names the cheapest store and how much it undercuts the runner-up
type BestStore struct {
	StoreName              string `json:"storeName"`
	MarginOverNextCheapest Money  `json:"marginOverNextCheapest"`
}

// StoreComparison is the output of comparing a cart across stores
type StoreComparison struct {
	StoreTotals []StoreTotal `json:"storeTotals"`
	BestStore   *BestStore   `json:"bestStore"`
}

// CatalogSnapshot is one published, read-only catalog generation.
// Version 0 is the empty catalog before anything has been published.
type CatalogSnapshot struct {
	Version     uint64        `json:"version"`
	Source      string        `json:"source,omitempty"`
	PublishedAt time.Time     `json:"publishedAt,omitempty"`
	Offers      []OfferRecord `json:"offers"`
}

// IngestReport summarizes one scrape cycle
type IngestReport struct {
	Source          string `json:"source,omitempty"`
	CardsFound      int    `json:"cardsFound"`
	OffersAssembled int    `json:"offersAssembled"`
	Rejected        int    `json:"rejected"`
	CatalogVersion  uint64 `json:"catalogVersion,omitempty"`
}

// StringPtr returns a pointer to s, for optional record fields.
func StringPtr(s string) *string {
	return &s
}
