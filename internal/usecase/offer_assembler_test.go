package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matfynd/backend/internal/domain"
	"github.com/matfynd/backend/internal/infrastructure/markup"
)

func newTestAssembler() *OfferAssembler {
	return NewOfferAssembler(NewCardExtractors(ExtractorConfig{}))
}

func TestOfferAssembler_Assemble(t *testing.T) {
	assembler := newTestAssembler()

	tests := []struct {
		name           string
		card           *fakeCard
		wantOK         bool
		wantName       string
		wantPrice      string
		wantOriginal   string
		wantComparison string
		wantDetails    string
	}{
		{
			name: "full discounted card",
			card: &fakeCard{
				selections: map[string][]string{
					"[data-testid='product-name']": {"Tomat, Klass 1"},
					".sale-price":                  {"12:-"},
					"del":                          {"18 kr"},
					".jmfpris":                     {"Jmf.pris 24,00 kr/kg"},
					".offer-details":               {"Max 2 köp/hushåll"},
				},
			},
			wantOK:         true,
			wantName:       "Tomat, Klass 1",
			wantPrice:      "12.00",
			wantOriginal:   "18.00",
			wantComparison: "24,00 kr/kg",
			wantDetails:    "Max 2 köp/hushåll",
		},
		{
			name: "fields from text scan only",
			card: &fakeCard{textNodes: []string{
				"Gurka Svensk", "9,90 kr", "Ord.pris 14,90 kr", "3 för 25",
			}},
			wantOK:       true,
			wantName:     "Gurka Svensk",
			wantPrice:    "9.90",
			wantOriginal: "14.90",
			wantDetails:  "3 för 25",
		},
		{
			name:     "name only card is kept",
			card:     &fakeCard{selections: map[string][]string{"h3": {"Kaffe"}}},
			wantOK:   true,
			wantName: "Kaffe",
		},
		{
			name: "original price without current price is dropped",
			card: &fakeCard{
				selections: map[string][]string{"h3": {"Tomat"}},
				textNodes:  []string{"Ord.pris 18 kr"},
			},
			wantOK: false,
		},
		{
			name:   "card without name is dropped",
			card:   &fakeCard{textNodes: []string{"25:-"}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := assembler.Assemble(tt.card)
			if ok != tt.wantOK {
				t.Fatalf("Assemble() ok = %v, want %v (record %+v)", ok, tt.wantOK, record)
			}
			if !ok {
				return
			}

			if record.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", record.Name, tt.wantName)
			}
			assertMoney(t, tt.wantPrice, record.Price, "Price")
			assertMoney(t, tt.wantOriginal, record.OriginalPrice, "OriginalPrice")
			assertOptionalText(t, tt.wantComparison, record.ComparisonPrice, "ComparisonPrice")
			assertOptionalText(t, tt.wantDetails, record.OfferDetails, "OfferDetails")

			if record.OriginalPrice != nil && record.Price == nil {
				t.Error("record has original price without current price")
			}
		})
	}
}

// TestOfferAssembler_StoreLayouts runs the assembler over parsed markup, where
// selector precedence between current, original and unit prices matters.
func TestOfferAssembler_StoreLayouts(t *testing.T) {
	assembler := newTestAssembler()

	tests := []struct {
		name           string
		html           string
		wantPrice      string
		wantOriginal   string
		wantComparison string
	}{
		{
			name:           "unit price in a comparison class is not the price",
			html:           `<h3>Nötfärs</h3><span class="price-comparison">89,90 kr/kg</span><span class="badge">49 kr</span>`,
			wantPrice:      "49.00",
			wantComparison: "89,90 kr/kg",
		},
		{
			name:           "short jmf label",
			html:           `<h3>Nötfärs</h3><p>Jmf 89,90 kr/kg</p><p>49 kr</p>`,
			wantPrice:      "49.00",
			wantComparison: "89,90 kr/kg",
		},
		{
			name:           "unlabelled unit price",
			html:           `<h3>Nötfärs</h3><p>89,90 kr/kg</p><p>49 kr</p>`,
			wantPrice:      "49.00",
			wantComparison: "89,90 kr/kg",
		},
		{
			name:         "original price sharing the price class",
			html:         `<h3>Kaffe</h3><span class="price original-price">59 kr</span><span class="price">39 kr</span>`,
			wantPrice:    "39.00",
			wantOriginal: "59.00",
		},
		{
			name:         "ordinary price sharing the price class",
			html:         `<h3>Kaffe</h3><span class="price ordinarie-pris">59 kr</span><span class="price">39 kr</span>`,
			wantPrice:    "39.00",
			wantOriginal: "59.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := markup.NewParser().ParseCards(context.Background(),
				strings.NewReader("<article>"+tt.html+"</article>"))
			if err != nil {
				t.Fatalf("ParseCards() error = %v", err)
			}
			if len(cards) != 1 {
				t.Fatalf("ParseCards() returned %d cards, want 1", len(cards))
			}

			record, ok := assembler.Assemble(cards[0])
			if !ok {
				t.Fatal("Assemble() rejected the card")
			}
			assertMoney(t, tt.wantPrice, record.Price, "Price")
			assertMoney(t, tt.wantOriginal, record.OriginalPrice, "OriginalPrice")
			assertOptionalText(t, tt.wantComparison, record.ComparisonPrice, "ComparisonPrice")
			if tt.wantOriginal != "" && !record.IsDiscounted() {
				t.Error("record is not discounted")
			}
		})
	}
}

func TestOfferAssembler_Idempotent(t *testing.T) {
	assembler := newTestAssembler()
	card := &fakeCard{textNodes: []string{"Gurka Svensk", "9,90 kr", "Ord.pris 14,90 kr", "Jmf.pris 39,60 kr/kg"}}

	first, ok := assembler.Assemble(card)
	if !ok {
		t.Fatal("first Assemble() rejected the card")
	}
	second, ok := assembler.Assemble(card)
	if !ok {
		t.Fatal("second Assemble() rejected the card")
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Assemble() not idempotent (-first +second):\n%s", diff)
	}
}

func TestOfferAssembler_PanicsOnNilCard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Assemble(nil) did not panic")
		}
	}()
	newTestAssembler().Assemble(nil)
}

func assertOptionalText(t *testing.T, want string, got *string, field string) {
	t.Helper()
	switch {
	case want == "" && got != nil:
		t.Errorf("%s = %q, want nil", field, *got)
	case want != "" && got == nil:
		t.Errorf("%s = nil, want %q", field, want)
	case want != "" && *got != want:
		t.Errorf("%s = %q, want %q", field, *got, want)
	}
}

var _ domain.OfferCard = (*fakeCard)(nil)
