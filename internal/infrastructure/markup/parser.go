package markup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/matfynd/backend/internal/domain"
)

// DefaultCardSelectors locate product tiles on grocery offer pages, most
// specific hook first. The first selector that matches anything wins.
var DefaultCardSelectors = []string{
	"article[data-promotion-id]",
	"[data-testid='offer-card']",
	"[data-testid='product-card']",
	".offer-card",
	".product-card",
	".offer-tile",
	"li.offer",
	"article",
}

// Parser finds offer cards in an HTML document
type Parser struct {
	selectors []string
}

// NewParser creates a parser that tries extraSelectors before the defaults
func NewParser(extraSelectors ...string) *Parser {
	selectors := make([]string, 0, len(extraSelectors)+len(DefaultCardSelectors))
	for _, s := range extraSelectors {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	selectors = append(selectors, DefaultCardSelectors...)
	return &Parser{selectors: selectors}
}

// Selectors returns the card selector chain in priority order
func (p *Parser) Selectors() []string {
	out := make([]string, len(p.selectors))
	copy(out, p.selectors)
	return out
}

// ParseCards reads an HTML document and returns one card per product tile
func (p *Parser) ParseCards(ctx context.Context, r io.Reader) ([]domain.OfferCard, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", domain.ErrEmptyDocument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmptyDocument, err)
	}

	return p.CardsFromDocument(doc)
}

// CardsFromDocument runs the card selector chain over an already parsed document
func (p *Parser) CardsFromDocument(doc *goquery.Document) ([]domain.OfferCard, error) {
	if doc == nil || doc.Selection == nil {
		return nil, domain.ErrEmptyDocument
	}

	for _, selector := range p.selectors {
		found := doc.Find(selector)
		if found.Length() == 0 {
			continue
		}

		cards := make([]domain.OfferCard, 0, found.Length())
		found.Each(func(_ int, s *goquery.Selection) {
			cards = append(cards, NewCard(s))
		})
		return cards, nil
	}

	return nil, domain.ErrNoCards
}
