package goals

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
	"github.com/Iron-Ham/intake/internal/testutil"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		actual, target, want float64
	}{
		{0, 0, 0},
		{50, 0, 0},
		{50, 200, 25},
		{300, 200, 150},
		{10, -5, 0},
	}
	for _, tt := range tests {
		got := ProgressPercent(tt.actual, tt.target)
		if got != tt.want || math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("ProgressPercent(%v, %v) = %v, want %v", tt.actual, tt.target, got, tt.want)
		}
	}
}

func TestBuildPatch_ExcludesNonPositive(t *testing.T) {
	patch := BuildPatch(nutrition.Macros{Calories: 2000, Protein: 0, Carbs: -1, Fat: 70})

	if v, ok := patch.Get(nutrition.Calories); !ok || v != 2000 {
		t.Errorf("calories = %v, %v", v, ok)
	}
	if v, ok := patch.Get(nutrition.Fat); !ok || v != 70 {
		t.Errorf("fat = %v, %v", v, ok)
	}
	if _, ok := patch.Get(nutrition.Protein); ok {
		t.Error("zero protein draft must not be in the patch")
	}
	if _, ok := patch.Get(nutrition.Carbs); ok {
		t.Error("negative carbs draft must not be in the patch")
	}
	if !BuildPatch(nutrition.Macros{}).IsEmpty() {
		t.Error("all-zero draft should build an empty patch")
	}
}

func TestCompare(t *testing.T) {
	got := Compare(
		nutrition.Macros{Calories: 1000, Protein: 40, Carbs: 100, Fat: 30},
		nutrition.Macros{Calories: 2000, Protein: 0, Carbs: 400, Fat: 60},
	)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	want := []float64{50, 0, 25, 50}
	for i, p := range got {
		if p.Percent != want[i] {
			t.Errorf("%s percent = %v, want %v", p.Name, p.Percent, want[i])
		}
	}
	if got[1].HasGoal() {
		t.Error("protein has no goal")
	}
}

func TestTracker_LoadGoalsAndProgress(t *testing.T) {
	ctx := context.Background()
	api := testutil.NewFakeAPI(t)
	api.AddMeal(testutil.CatalogMeal{ID: 1, Name: "Pasta", Reference: nutrition.Macros{Calories: 250}})
	api.AddRecord("2024-05-01", "LUNCH", 1, 200)
	api.SetGoals("2024-05-01", nutrition.Macros{Calories: 2000, Protein: 100})

	gw := gateway.NewClient(api.URL)
	bus := event.NewBus()
	var loaded string
	bus.Subscribe(event.TypeGoalsLoaded, func(e event.Event) {
		loaded = e.(event.GoalsLoadedEvent).Date
	})

	tracker := NewTracker(gw, WithPublisher(bus))
	g, err := tracker.LoadGoals(ctx, testutil.DefaultToken, "2024-05-01")
	if err != nil {
		t.Fatalf("LoadGoals() error: %v", err)
	}
	if g.Calories != 2000 || g.Protein != 100 {
		t.Errorf("goals = %+v", g)
	}
	if loaded != "2024-05-01" {
		t.Errorf("GoalsLoadedEvent date = %q", loaded)
	}

	store := ledger.NewStore(gw, ledger.NewScaler(ledger.BasisPer100g))
	if err := store.Refresh(ctx, testutil.DefaultToken); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	progress := tracker.Progress(store.GetDay("2024-05-01"))
	if progress[0].Actual != 500 || progress[0].Percent != 25 {
		t.Errorf("calories progress = %+v, want 500 of 2000 (25%%)", progress[0])
	}
	if progress[2].Percent != 0 {
		t.Errorf("carbs without a goal should be 0%%, got %v", progress[2].Percent)
	}
}

func TestTracker_LoadGoalsAbsentDate(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	tracker := NewTracker(gateway.NewClient(api.URL))

	g, err := tracker.LoadGoals(context.Background(), testutil.DefaultToken, "2031-01-01")
	if err != nil {
		t.Fatalf("LoadGoals() error: %v", err)
	}
	if !g.IsZero() {
		t.Errorf("absent goals should be zero, got %+v", g)
	}
}

func TestTracker_LoadGoalsFailSoft(t *testing.T) {
	ctx := context.Background()
	api := testutil.NewFakeAPI(t)
	api.SetGoals("2024-05-01", nutrition.Macros{Calories: 1800})

	bus := event.NewBus()
	var notices []string
	bus.Subscribe(event.TypeNotice, func(e event.Event) {
		notices = append(notices, e.(event.NoticeEvent).Text)
	})
	tracker := NewTracker(gateway.NewClient(api.URL), WithPublisher(bus))

	if _, err := tracker.LoadGoals(ctx, testutil.DefaultToken, "2024-05-01"); err != nil {
		t.Fatalf("LoadGoals() error: %v", err)
	}

	api.FailNext(http.MethodGet, "/api/statistics/intake-history", http.StatusBadGateway)
	g, err := tracker.LoadGoals(ctx, testutil.DefaultToken, "2024-05-01")
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if g.Calories != 1800 || tracker.Goals("2024-05-01").Calories != 1800 {
		t.Errorf("last good goals should be kept, got %+v", g)
	}
	if len(notices) != 1 || notices[0] != "Request failed (status 502)" {
		t.Errorf("notices = %v", notices)
	}
}

func TestHistorySeries(t *testing.T) {
	history := []gateway.HistoryEntry{
		{Date: "2024-05-03", Actual: nutrition.Macros{Calories: 1000}, Goal: nutrition.Macros{Calories: 2000}},
		{Date: "2024-05-01", Actual: nutrition.Macros{Calories: 3000, Fat: 10}, Goal: nutrition.Macros{Calories: 2000}},
	}

	series := HistorySeries(history)
	if len(series) != 4 {
		t.Fatalf("len(series) = %d, want 4", len(series))
	}

	cal := series[0]
	if cal.Name != "calories" || len(cal.Points) != 2 {
		t.Fatalf("calories series = %+v", cal)
	}
	if cal.Points[0].Date != "2024-05-01" || cal.Points[0].Percent != 150 {
		t.Errorf("first point = %+v", cal.Points[0])
	}
	if cal.Points[1].Percent != 50 {
		t.Errorf("second point = %+v", cal.Points[1])
	}
	if fat := series[3]; fat.Points[0].Percent != 0 {
		t.Errorf("fat without goal should be 0%%, got %+v", fat.Points[0])
	}
	if history[0].Date != "2024-05-03" {
		t.Error("HistorySeries must not reorder its input")
	}
}

func TestTracker_LoadHistory(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HistoryWrapped = true
	api.AddMeal(testutil.CatalogMeal{ID: 1, Name: "Oats", Reference: nutrition.Macros{Calories: 380, Protein: 13}})
	api.AddRecord("2024-05-02", "BREAKFAST", 1, 100)
	api.SetGoals("2024-05-02", nutrition.Macros{Calories: 1900, Protein: 26})

	tracker := NewTracker(gateway.NewClient(api.URL))
	series, err := tracker.LoadHistory(context.Background(), testutil.DefaultToken)
	if err != nil {
		t.Fatalf("LoadHistory() error: %v", err)
	}
	if got := series[0].Points[0].Percent; got != 20 {
		t.Errorf("calories percent = %v, want 20", got)
	}
	if got := series[1].Points[0].Percent; got != 50 {
		t.Errorf("protein percent = %v, want 50", got)
	}
	if tracker.Goals("2024-05-02").Calories != 1900 {
		t.Error("LoadHistory should cache the goals it saw")
	}
}
