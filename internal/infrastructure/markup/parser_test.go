package markup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matfynd/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offerPage = `<!doctype html>
<html><body>
<header><h1>Veckans erbjudanden</h1></header>
<article data-promotion-id="p1">
  <h3 class="offer-card__title">  Tomat,
     Klass 1 </h3>
  <div class="price-splash__text">19<sup>90</sup>/kg</div>
  <script>var tracking = "42 kr";</script>
</article>
<article data-promotion-id="p2">
  <h3 class="offer-card__title">Mjölk 3%</h3>
  <p class="offer-card__text">Max 2 köp/hushåll</p>
</article>
<article class="newsletter"><p>Prenumerera</p></article>
</body></html>`

func TestParseCards(t *testing.T) {
	parser := NewParser()

	t.Run("uses the first selector that matches", func(t *testing.T) {
		cards, err := parser.ParseCards(context.Background(), strings.NewReader(offerPage))
		require.NoError(t, err)
		assert.Len(t, cards, 2, "article[data-promotion-id] should win over plain article")
	})

	t.Run("prefers configured selectors", func(t *testing.T) {
		custom := NewParser("article.newsletter")
		cards, err := custom.ParseCards(context.Background(), strings.NewReader(offerPage))
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, []string{"Prenumerera"}, cards[0].TextNodes())
	})

	t.Run("ignores blank configured selectors", func(t *testing.T) {
		custom := NewParser("  ", "")
		assert.Equal(t, DefaultCardSelectors, custom.Selectors())
	})

	t.Run("returns ErrNoCards when nothing matches", func(t *testing.T) {
		_, err := parser.ParseCards(context.Background(), strings.NewReader(`<div><span>tomt</span></div>`))
		assert.True(t, errors.Is(err, domain.ErrNoCards))
	})

	t.Run("returns error for nil reader", func(t *testing.T) {
		_, err := parser.ParseCards(context.Background(), nil)
		assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := parser.ParseCards(ctx, strings.NewReader(offerPage))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCardText(t *testing.T) {
	cards, err := NewParser().ParseCards(context.Background(), strings.NewReader(offerPage))
	require.NoError(t, err)
	require.Len(t, cards, 2)

	t.Run("SelectText collapses whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"Tomat, Klass 1"}, cards[0].SelectText(".offer-card__title"))
	})

	t.Run("SelectText keeps superscript öre", func(t *testing.T) {
		assert.Equal(t, []string{"19:90 /kg"}, cards[0].SelectText(".price-splash__text"))
	})

	t.Run("SelectText returns nil without matches", func(t *testing.T) {
		assert.Empty(t, cards[1].SelectText(".price-splash__text"))
	})

	t.Run("TextNodes are in document order and skip scripts", func(t *testing.T) {
		assert.Equal(t, []string{"Tomat, Klass 1", "19", "90", "/kg"}, cards[0].TextNodes())
	})

	t.Run("Attr reads the card root", func(t *testing.T) {
		card, ok := cards[1].(*Card)
		require.True(t, ok)
		id, ok := card.Attr("data-promotion-id")
		assert.True(t, ok)
		assert.Equal(t, "p2", id)
	})
}
