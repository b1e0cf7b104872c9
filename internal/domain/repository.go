package domain

import (
	"context"
	"io"
	"time"
)

// OfferCard is a read-only handle to the markup of a single product tile
type OfferCard interface {
	// SelectText returns the trimmed, whitespace-collapsed text of every
	// descendant matching the CSS selector, in document order. Empty texts are omitted.
	SelectText(selector string) []string

	// TextNodes returns the trimmed, non-empty text nodes of the card in document order.
	TextNodes() []string
}

// CardParser turns a raw offer page into offer cards
type CardParser interface {
	ParseCards(ctx context.Context, r io.Reader) ([]OfferCard, error)
}

// CatalogStore publishes immutable catalog snapshots to concurrent readers
type CatalogStore interface {
	Publish(source string, offers []OfferRecord) CatalogSnapshot
	Current() CatalogSnapshot
	Subscribe() (<-chan CatalogSnapshot, func())
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
