package usecase

import (
	"sort"
	"strings"

	"github.com/matfynd/backend/internal/domain"
)

// DefaultStoreName is the bucket for cart lines without a store
const DefaultStoreName = "Okänd butik"

type storeBucket struct {
	total domain.StoreTotal
}

// CompareStores groups cart lines by store and finds the cheapest store.
// Lines whose price does not normalize, or whose quantity is below one, are
// counted as skipped and left out of the total.
func CompareStores(lines []domain.CartLine) domain.StoreComparison {
	buckets := make(map[string]*storeBucket)
	var order []string

	for _, line := range lines {
		store := strings.TrimSpace(line.Store)
		if store == "" {
			store = DefaultStoreName
		}

		bucket, ok := buckets[store]
		if !ok {
			bucket = &storeBucket{
				total: domain.StoreTotal{StoreName: store, Total: domain.Zero()},
			}
			buckets[store] = bucket
			order = append(order, store)
		}

		price, ok := domain.NormalizePrice(line.Price)
		if !ok || line.Quantity < 1 {
			bucket.total.SkippedLines++
			continue
		}
		bucket.total.Total = bucket.total.Total.Add(price.Times(line.Quantity))
		bucket.total.PricedLines++
	}

	sorted := make([]*storeBucket, 0, len(order))
	for _, store := range order {
		sorted = append(sorted, buckets[store])
	}

	// Priced stores ascending by total, then stores with nothing priced.
	// Stable, so equal totals keep cart order.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].total, sorted[j].total
		if (a.PricedLines > 0) != (b.PricedLines > 0) {
			return a.PricedLines > 0
		}
		return a.Total.Cmp(b.Total) < 0
	})

	comparison := domain.StoreComparison{StoreTotals: make([]domain.StoreTotal, len(sorted))}
	var priced []domain.StoreTotal
	for i, bucket := range sorted {
		comparison.StoreTotals[i] = bucket.total
		if bucket.total.PricedLines > 0 {
			priced = append(priced, bucket.total)
		}
	}

	switch len(priced) {
	case 0:
	case 1:
		comparison.BestStore = &domain.BestStore{
			StoreName:              priced[0].StoreName,
			MarginOverNextCheapest: domain.Zero(),
		}
	default:
		comparison.BestStore = &domain.BestStore{
			StoreName:              priced[0].StoreName,
			MarginOverNextCheapest: priced[1].Total.Minus(priced[0].Total),
		}
	}

	return comparison
}
