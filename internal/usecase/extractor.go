package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matfynd/backend/internal/domain"
)

// Field names one extractable part of an offer card
type Field string

const (
	FieldName            Field = "name"
	FieldPrice           Field = "price"
	FieldOriginalPrice   Field = "originalPrice"
	FieldComparisonPrice Field = "comparisonPrice"
	FieldOfferDetails    Field = "offerDetails"
)

// defaultOfferDetailsMaxLength bounds fallback matches for offer details, in runes.
// Longer text nodes are descriptions, not promotional qualifiers.
const defaultOfferDetailsMaxLength = 50

// Candidate selectors per field, most specific markup hook first
var (
	nameSelectors = []string{
		"[data-testid='product-name']",
		"[data-testid='offer-title']",
		"[itemprop='name']",
		".offer-card__title",
		".product-card__name",
		".product-name",
		".offer-title",
		"h3",
		"h2",
		"h4",
		"[class*='title']",
		"[class*='name']",
	}

	priceSelectors = []string{
		"[data-testid='price']",
		"[data-testid='offer-price']",
		".price-splash__text",
		".offer-price",
		".product-price__current",
		".price--current",
		".current-price",
		".sale-price",
		".price:not([class*='original']):not([class*='ordinar']):not([class*='before'])",
		"[class*='price']:not([class*='compar']):not([class*='jmf']):not([class*='original']):not([class*='ordinar']):not([class*='before'])",
	}

	originalPriceSelectors = []string{
		"[data-testid='original-price']",
		"[data-testid='ordinary-price']",
		".original-price",
		".ordinary-price",
		".regular-price",
		".price--original",
		".price-before",
		".was-price",
		"del",
		"s",
		"[class*='ordinarie']",
		"[class*='original']",
	}

	comparisonPriceSelectors = []string{
		"[data-testid='compare-price']",
		"[data-testid='comparison-price']",
		".comparison-price",
		".compare-price",
		".jmfpris",
		".price-comparison",
		"[class*='compare']",
		"[class*='comparison']",
		"[class*='jmf']",
	}

	offerDetailsSelectors = []string{
		"[data-testid='offer-details']",
		"[data-testid='promotion-text']",
		".offer-card__text",
		".offer-details",
		".promotion-text",
		".offer-condition",
		".product-card__conditions",
		"[class*='promo']",
		"[class*='condition']",
	}
)

// Full-text fallback patterns
var (
	// a number followed by a currency marker: "25:-", "19,90 kr", "129 SEK"
	currencyPricePattern = regexp.MustCompile(`(?i)\d+(?:[.,:]\d+)?\s*(?::-|kr\b|sek\b)`)

	// "Ord.pris", "Ord. pris", "Ordinarie pris", "Tidigare"
	originalPriceLabel = regexp.MustCompile(`(?i)(?:ord\.?\s*pris|ordinarie(?:\s+pris)?|tidigare(?:\s+pris)?)[\s:.]*`)

	// "30 kr / 40 kr"
	slashPricePattern = regexp.MustCompile(`(?i)(\d+(?:[.,:]\d+)?)\s*(?:kr|:-)\s*/\s*(\d+(?:[.,:]\d+)?)\s*(?:kr|:-)`)

	// "Jmf.pris", "Jmf pris", "Jmf", "Jämförpris", "Jämförelsepris"
	comparisonLabel = regexp.MustCompile(`(?i)^\s*(?:jmf\.?(?:\s*pris)?|jämförpris|jämförelsepris)[\s:.]*`)

	// a price per measured unit: "24,90 kr/kg", "12:50/l"
	unitPricePattern = regexp.MustCompile(`(?i)\d+(?:[.,:]\d+)?\s*(?:kr|:-)?\s*/\s*(?:kg|hg|l|liter|lit|dl|cl|ml)\b`)

	// multi-buy qualifiers that carry a number but are not a unit price: "3 för 70"
	multiBuyPattern = regexp.MustCompile(`(?i)\d+\s*(?:st\s+)?för\s+\d`)
)

var offerDetailsKeywords = map[string]bool{
	"för": true,
	"max": true,
	"per": true,
	"köp": true,
}

// FieldExtractor pulls one field out of an offer card. It tries each candidate
// selector in order, then falls back to scanning the card's text nodes in
// document order. The first accepted text wins.
type FieldExtractor struct {
	Field     Field
	Selectors []string

	// Accept validates a selector hit and returns the field value. nil accepts any non-empty text.
	Accept func(text string) (string, bool)

	// Scan tests one text node during the fallback scan. nil disables the fallback.
	Scan func(text string) (string, bool)
}

// Extract returns the field value, or false when neither a selector nor the
// fallback scan produced one. It panics on a nil card.
func (e FieldExtractor) Extract(card domain.OfferCard) (string, bool) {
	if card == nil {
		panic("usecase: FieldExtractor.Extract called with nil OfferCard")
	}

	for _, selector := range e.Selectors {
		for _, text := range card.SelectText(selector) {
			if value, ok := e.accept(text); ok {
				return value, true
			}
		}
	}

	if e.Scan == nil {
		return "", false
	}
	for _, text := range card.TextNodes() {
		if value, ok := e.Scan(text); ok {
			return value, true
		}
	}
	return "", false
}

func (e FieldExtractor) accept(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if e.Accept == nil {
		return text, true
	}
	return e.Accept(text)
}

// ExtractorConfig tunes the extractor chains
type ExtractorConfig struct {
	// Extra selectors per field, tried before the built-in chain
	NameSelectors            []string
	PriceSelectors           []string
	OriginalPriceSelectors   []string
	ComparisonPriceSelectors []string
	OfferDetailsSelectors    []string

	OfferDetailsMaxLength int
}

// CardExtractors is the set of five field extractors run on every card
type CardExtractors struct {
	Name            FieldExtractor
	Price           FieldExtractor
	OriginalPrice   FieldExtractor
	ComparisonPrice FieldExtractor
	OfferDetails    FieldExtractor
}

// NewCardExtractors builds the extractor chains for the given configuration
func NewCardExtractors(config ExtractorConfig) CardExtractors {
	maxDetails := config.OfferDetailsMaxLength
	if maxDetails <= 0 {
		maxDetails = defaultOfferDetailsMaxLength
	}

	return CardExtractors{
		Name: FieldExtractor{
			Field:     FieldName,
			Selectors: chain(config.NameSelectors, nameSelectors),
			Accept:    acceptName,
			Scan:      scanName,
		},
		Price: FieldExtractor{
			Field:     FieldPrice,
			Selectors: chain(config.PriceSelectors, priceSelectors),
			Accept:    acceptPrice,
			Scan:      scanPrice,
		},
		OriginalPrice: FieldExtractor{
			Field:     FieldOriginalPrice,
			Selectors: chain(config.OriginalPriceSelectors, originalPriceSelectors),
			Accept:    acceptOriginalPrice,
			Scan:      scanOriginalPrice,
		},
		ComparisonPrice: FieldExtractor{
			Field:     FieldComparisonPrice,
			Selectors: chain(config.ComparisonPriceSelectors, comparisonPriceSelectors),
			Accept:    acceptComparisonPrice,
			Scan:      scanComparisonPrice,
		},
		OfferDetails: FieldExtractor{
			Field:     FieldOfferDetails,
			Selectors: chain(config.OfferDetailsSelectors, offerDetailsSelectors),
			Scan: func(text string) (string, bool) {
				return scanOfferDetails(text, maxDetails)
			},
		},
	}
}

func chain(extra, defaults []string) []string {
	out := make([]string, 0, len(extra)+len(defaults))
	for _, s := range extra {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return append(out, defaults...)
}

func acceptName(text string) (string, bool) {
	if letterCount(stripCurrency(text)) < 2 {
		return "", false
	}
	return text, true
}

// scanName takes the first text node that reads like a product name rather
// than a price, a label or a promotional qualifier.
func scanName(text string) (string, bool) {
	if letterCount(stripCurrency(text)) < 3 {
		return "", false
	}
	if currencyPricePattern.MatchString(text) || originalPriceLabel.MatchString(text) ||
		comparisonLabel.MatchString(text) || hasOfferKeyword(text) {
		return "", false
	}
	return text, true
}

func acceptPrice(text string) (string, bool) {
	if comparisonLabel.MatchString(text) || originalPriceLabel.MatchString(text) ||
		multiBuyPattern.MatchString(text) || unitPricePattern.MatchString(text) {
		return "", false
	}
	if _, ok := domain.NormalizePrice(text); !ok {
		return "", false
	}
	return text, true
}

func scanPrice(text string) (string, bool) {
	if !currencyPricePattern.MatchString(text) {
		return "", false
	}
	return acceptPrice(text)
}

// originalPriceText isolates the amount of an original-price text. A labelled
// text yields the part after the label; "X kr / Y kr" yields the larger amount.
func originalPriceText(text string) string {
	if m := slashPricePattern.FindStringSubmatch(text); m != nil {
		first, okFirst := domain.NormalizePrice(m[1])
		second, okSecond := domain.NormalizePrice(m[2])
		if okFirst && okSecond && second.GreaterThan(first) {
			return m[2]
		}
		return m[1]
	}
	if loc := originalPriceLabel.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}

func acceptOriginalPrice(text string) (string, bool) {
	value := originalPriceText(text)
	if _, ok := domain.NormalizePrice(value); !ok {
		return "", false
	}
	return value, true
}

func scanOriginalPrice(text string) (string, bool) {
	if !originalPriceLabel.MatchString(text) && !slashPricePattern.MatchString(text) {
		return "", false
	}
	return acceptOriginalPrice(text)
}

func acceptComparisonPrice(text string) (string, bool) {
	value := strings.TrimSpace(comparisonLabel.ReplaceAllString(text, ""))
	if !containsDigit(value) {
		return "", false
	}
	return value, true
}

func scanComparisonPrice(text string) (string, bool) {
	if !comparisonLabel.MatchString(text) && !unitPricePattern.MatchString(text) {
		return "", false
	}
	return acceptComparisonPrice(text)
}

func scanOfferDetails(text string, maxLength int) (string, bool) {
	if utf8.RuneCountInString(text) > maxLength {
		return "", false
	}
	if !hasOfferKeyword(text) {
		return "", false
	}
	return text, true
}

// hasOfferKeyword reports whether any word of text is an offer qualifier keyword.
// Words are compared case-insensitively and split on anything that is not a letter.
func hasOfferKeyword(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if offerDetailsKeywords[w] {
			return true
		}
	}
	return false
}

var currencyMarkers = regexp.MustCompile(`(?i)\b(?:kr|sek)\b|:-`)

func stripCurrency(text string) string {
	return currencyMarkers.ReplaceAllString(text, " ")
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
