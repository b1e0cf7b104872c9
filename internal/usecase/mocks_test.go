package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/matfynd/backend/internal/domain"
)

// fakeCard is an OfferCard backed by canned selector results
type fakeCard struct {
	selections map[string][]string
	textNodes  []string
}

func (c *fakeCard) SelectText(selector string) []string {
	return c.selections[selector]
}

func (c *fakeCard) TextNodes() []string {
	return c.textNodes
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockCardParser is a mock implementation of domain.CardParser
type MockCardParser struct {
	cards      []domain.OfferCard
	parseError error
	calls      int
}

func (m *MockCardParser) ParseCards(ctx context.Context, r io.Reader) ([]domain.OfferCard, error) {
	m.calls++
	if m.parseError != nil {
		return nil, m.parseError
	}
	return m.cards, nil
}

// assertMoney compares an optional amount against its two-decimal rendering; want "" means nil.
func assertMoney(t *testing.T, want string, got *domain.Money, field string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s = %s, want nil", field, got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %s", field, want)
		return
	}
	if got.String() != want {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

func money(t *testing.T, text string) domain.Money {
	t.Helper()
	m, ok := domain.NormalizePrice(text)
	if !ok {
		t.Fatalf("NormalizePrice(%q) failed", text)
	}
	return m
}

func offer(t *testing.T, name, price, original string) domain.OfferRecord {
	t.Helper()
	record := domain.OfferRecord{Name: name}
	if price != "" {
		record.Price = domain.MoneyPtr(money(t, price))
	}
	if original != "" {
		record.OriginalPrice = domain.MoneyPtr(money(t, original))
	}
	return record
}
