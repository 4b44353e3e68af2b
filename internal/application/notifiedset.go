package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// NotifiedSet is the in-memory view of the already-notified merge set. It is
// an explicit, injected store rather than hidden package state so the dedup
// behavior is independently testable. Adds are monotonic; entries are never
// removed. Safe for concurrent use.
//
// Writes become durable only via FlushTo, which the detector calls after a
// successful dispatch. An entry added but never flushed (a failed send) still
// suppresses further attempts for this process lifetime; that is the accepted
// no-retry-after-failure policy, not a bug.
type NotifiedSet struct {
	mu    sync.Mutex
	urls  map[string]struct{}
	dirty []string
}

// NewNotifiedSet creates a NotifiedSet seeded with previously persisted URLs.
func NewNotifiedSet(urls []string) *NotifiedSet {
	s := &NotifiedSet{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.urls[u] = struct{}{}
	}
	return s
}

// Has reports whether url is already in the set.
func (s *NotifiedSet) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.urls[url]
	return ok
}

// Add inserts url and reports whether it was newly added. A false return
// means a notification for this URL is already sent or in flight.
func (s *NotifiedSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	s.dirty = append(s.dirty, url)
	return true
}

// FlushTo persists all entries added since the last successful flush.
// Entries that fail to persist stay dirty for the next flush.
func (s *NotifiedSet) FlushTo(ctx context.Context, store driven.NotifiedStore) error {
	s.mu.Lock()
	pending := s.dirty
	s.dirty = nil
	s.mu.Unlock()

	for i, url := range pending {
		if err := store.Add(ctx, url); err != nil {
			s.mu.Lock()
			s.dirty = append(s.dirty, pending[i:]...)
			s.mu.Unlock()
			return err
		}
	}
	return nil
}
