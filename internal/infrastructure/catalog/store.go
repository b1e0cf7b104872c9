// Package catalog holds the published offer catalog. Every publish swaps in a
// new immutable snapshot; readers keep whatever snapshot they were handed.
package catalog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/matfynd/backend/internal/domain"
)

// Store is an in-memory domain.CatalogStore
type Store struct {
	current atomic.Pointer[domain.CatalogSnapshot]

	// mu serializes publishers and guards subscribers
	mu          sync.Mutex
	subscribers map[uint64]chan domain.CatalogSnapshot
	nextID      uint64

	now func() time.Time
}

// NewStore creates a store holding the empty version 0 catalog
func NewStore() *Store {
	s := &Store{
		subscribers: make(map[uint64]chan domain.CatalogSnapshot),
		now:         time.Now,
	}
	s.current.Store(&domain.CatalogSnapshot{Offers: []domain.OfferRecord{}})
	return s
}

// Publish copies offers into a new snapshot, makes it current and notifies
// subscribers. It never blocks on a slow subscriber.
func (s *Store) Publish(source string, offers []domain.OfferRecord) domain.CatalogSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := domain.CatalogSnapshot{
		Version:     s.current.Load().Version + 1,
		Source:      source,
		PublishedAt: s.now().UTC(),
		Offers:      copyOffers(offers),
	}
	s.current.Store(&snapshot)

	for _, ch := range s.subscribers {
		deliverLatest(ch, snapshot)
	}
	return cloneSnapshot(snapshot)
}

// Current returns the latest snapshot
func (s *Store) Current() domain.CatalogSnapshot {
	return cloneSnapshot(*s.current.Load())
}

// Subscribe returns a channel that receives every newer snapshot. The channel
// holds at most one pending snapshot; a reader that falls behind only sees the
// latest. cancel closes the channel and is safe to call more than once.
func (s *Store) Subscribe() (<-chan domain.CatalogSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.CatalogSnapshot, 1)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// deliverLatest replaces any undelivered snapshot in ch with snapshot.
// Callers hold s.mu, so ch has no other sender.
func deliverLatest(ch chan domain.CatalogSnapshot, snapshot domain.CatalogSnapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- cloneSnapshot(snapshot)
}

// cloneSnapshot gives the caller its own offers slice. Records themselves hold
// only pointers that are never written after assembly.
func cloneSnapshot(snapshot domain.CatalogSnapshot) domain.CatalogSnapshot {
	snapshot.Offers = copyOffers(snapshot.Offers)
	return snapshot
}

func copyOffers(offers []domain.OfferRecord) []domain.OfferRecord {
	out := make([]domain.OfferRecord, len(offers))
	copy(out, offers)
	return out
}
