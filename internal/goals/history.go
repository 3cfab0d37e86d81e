package goals

import (
	"context"
	"sort"

	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// Point is one day of a percent-of-goal series.
type Point struct {
	Date    string  `json:"date"`
	Value   float64 `json:"value"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
}

// Series is a date-ordered percent-of-goal series for one nutrient.
type Series struct {
	Nutrient nutrition.Nutrient `json:"-"`
	Name     string             `json:"nutrient"`
	Points   []Point            `json:"points"`
}

// HistorySeries builds one series per nutrient from the intake history,
// ordered by date.
func HistorySeries(history []gateway.HistoryEntry) []Series {
	sorted := append([]gateway.HistoryEntry(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	out := make([]Series, 0, len(nutrition.Nutrients()))
	for _, n := range nutrition.Nutrients() {
		s := Series{Nutrient: n, Name: n.String(), Points: make([]Point, 0, len(sorted))}
		for _, h := range sorted {
			v, g := h.Actual.Get(n), h.Goal.Get(n)
			s.Points = append(s.Points, Point{
				Date:    h.Date,
				Value:   v,
				Goal:    g,
				Percent: ProgressPercent(v, g),
			})
		}
		out = append(out, s)
	}
	return out
}

// LoadHistory fetches the intake history and builds its series. Failures are
// published as notices.
func (t *Tracker) LoadHistory(ctx context.Context, token string) ([]Series, error) {
	history, err := t.gw.ListHistory(ctx, token)
	if err != nil {
		t.bus.Publish(event.NewErrorNotice(err))
		return nil, err
	}

	t.mu.Lock()
	for _, h := range history {
		t.goals[h.Date] = h.Goal
	}
	t.mu.Unlock()

	t.logger.Debug("history loaded", "days", len(history))
	return HistorySeries(history), nil
}
