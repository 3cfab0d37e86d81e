// Package goals tracks per-day nutrient targets and derives progress from a
// day's totals and from the intake history.
package goals

import (
	"context"
	"sync"

	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/logging"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// ProgressPercent returns actual as a percentage of target. A target that is
// not positive means no goal is set and yields 0.
func ProgressPercent(actual, target float64) float64 {
	if target > 0 {
		return actual / target * 100
	}
	return 0
}

// Progress is one nutrient's actual intake against its target.
type Progress struct {
	Nutrient nutrition.Nutrient `json:"-"`
	Name     string             `json:"nutrient"`
	Actual   float64            `json:"actual"`
	Target   float64            `json:"target"`
	Percent  float64            `json:"percent"`
}

// HasGoal reports whether a target is set.
func (p Progress) HasGoal() bool {
	return p.Target > 0
}

// Compare pairs actual with target for every nutrient, in display order.
func Compare(actual, target nutrition.Macros) []Progress {
	out := make([]Progress, 0, len(nutrition.Nutrients()))
	for _, n := range nutrition.Nutrients() {
		a, t := actual.Get(n), target.Get(n)
		out = append(out, Progress{
			Nutrient: n,
			Name:     n.String(),
			Actual:   a,
			Target:   t,
			Percent:  ProgressPercent(a, t),
		})
	}
	return out
}

// BuildPatch turns draft targets into a goal patch. Only strictly positive
// drafts are included; zero or negative means leave unchanged.
func BuildPatch(draft nutrition.Macros) gateway.GoalPatch {
	var patch gateway.GoalPatch
	for _, n := range nutrition.Nutrients() {
		if v := draft.Get(n); v > 0 {
			patch.Set(n, v)
		}
	}
	return patch
}

// Tracker caches goal targets by date.
type Tracker struct {
	mu     sync.RWMutex
	goals  map[string]nutrition.Macros
	gw     gateway.Gateway
	bus    event.Publisher
	logger *logging.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPublisher sets where notices and goal events are published.
func WithPublisher(p event.Publisher) Option {
	return func(t *Tracker) {
		if p != nil {
			t.bus = p
		}
	}
}

// WithLogger sets the tracker's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracker creates a Tracker backed by gw.
func NewTracker(gw gateway.Gateway, opts ...Option) *Tracker {
	t := &Tracker{
		goals:  make(map[string]nutrition.Macros),
		gw:     gw,
		bus:    event.Discard,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("goals")
	return t
}

// Goals returns the cached targets for date; zero if never loaded.
func (t *Tracker) Goals(date string) nutrition.Macros {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.goals[date]
}

// LoadGoals fetches date's targets. On failure the cached targets are kept
// and returned along with the error, and a notice is published.
func (t *Tracker) LoadGoals(ctx context.Context, token, date string) (nutrition.Macros, error) {
	g, err := t.gw.GetGoals(ctx, token, date)
	if err != nil {
		t.bus.Publish(event.NewErrorNotice(err))
		return t.Goals(date), err
	}

	t.mu.Lock()
	t.goals[date] = g
	t.mu.Unlock()

	t.logger.WithDate(date).Debug("goals loaded", "calories", g.Calories)
	t.bus.Publish(event.NewGoalsLoadedEvent(date))
	return g, nil
}

// Progress compares day's totals with the cached targets for its date.
func (t *Tracker) Progress(day ledger.DayRecord) []Progress {
	return Compare(ledger.Totals(day), t.Goals(day.Date))
}
