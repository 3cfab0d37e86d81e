package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/logging"
)

// Store caches DayRecords by date. Reads never fail; refreshes replace the
// whole cache or, on failure, leave it untouched.
//
// Store is safe for concurrent use. Concurrent refreshes race and the last
// one to finish wins.
type Store struct {
	mu     sync.RWMutex
	days   map[string]DayRecord
	gw     gateway.Gateway
	scaler Scaler
	bus    event.Publisher
	logger *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPublisher sets where notices and ledger events are published.
func WithPublisher(p event.Publisher) StoreOption {
	return func(s *Store) {
		if p != nil {
			s.bus = p
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger *logging.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty Store backed by gw.
func NewStore(gw gateway.Gateway, scaler Scaler, opts ...StoreOption) *Store {
	s := &Store{
		days:   make(map[string]DayRecord),
		gw:     gw,
		scaler: scaler,
		bus:    event.Discard,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("ledger")
	return s
}

// GetDay returns the cached record for date, or an empty record if the date
// has not been fetched. The result is a copy.
func (s *Store) GetDay(date string) DayRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.days[date]; ok {
		return rec.clone()
	}
	return EmptyDay(date)
}

// Dates returns the cached dates in ascending order.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.days))
	for d := range s.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Refresh fetches every day entry and replaces the cache wholesale. On failure
// the previous cache is kept, a notice is published and the error returned.
func (s *Store) Refresh(ctx context.Context, token string) error {
	entries, err := s.gw.ListDays(ctx, token)
	if err != nil {
		s.bus.Publish(event.NewErrorNotice(err))
		return err
	}

	days := make(map[string]DayRecord, len(entries))
	for _, entry := range entries {
		rec := Group(entry, s.scaler)
		if prev, dup := days[entry.Date]; dup {
			// Same date listed twice: keep both sets of records.
			for _, c := range Categories() {
				prev.Meals[c] = append(prev.Meals[c], rec.Meals[c]...)
			}
			rec = prev
		}
		days[entry.Date] = rec
	}

	s.mu.Lock()
	s.days = days
	s.mu.Unlock()

	s.logger.Debug("ledger refreshed", "days", len(days))
	s.bus.Publish(event.NewLedgerRefreshedEvent(len(days)))
	return nil
}

// RemoveEntry filters entry id out of date's record without refetching.
// It reports whether an entry was removed.
func (s *Store) RemoveEntry(date string, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return false
	}
	_, c, found := rec.Find(id)
	if !found {
		return false
	}

	kept := make([]MealEntry, 0, len(rec.Meals[c]))
	for _, e := range rec.Meals[c] {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	rec.Meals[c] = kept
	return true
}

// DeleteEntry deletes entry id remotely and, once that succeeds, removes it
// from the cache. On failure the cache is untouched and a notice published.
func (s *Store) DeleteEntry(ctx context.Context, token, date string, id int64) error {
	if err := s.gw.DeleteMealEntry(ctx, token, date, id); err != nil {
		s.bus.Publish(event.NewErrorNotice(err))
		return err
	}

	removed := s.RemoveEntry(date, id)
	s.logger.WithDate(date).Debug("entry deleted", "entry_id", id, "cached", removed)
	s.bus.Publish(event.NewEntryRemovedEvent(date, id))
	return nil
}
