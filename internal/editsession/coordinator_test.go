package editsession

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
	"github.com/Iron-Ham/intake/internal/testutil"
)

const testDate = "2024-05-01"

type harness struct {
	api     *testutil.FakeAPI
	store   *ledger.Store
	tracker *goals.Tracker
	coord   *Coordinator
	bus     *event.Bus
	notices []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{api: testutil.NewFakeAPI(t), bus: event.NewBus()}
	h.bus.Subscribe(event.TypeNotice, func(e event.Event) {
		h.notices = append(h.notices, e.(event.NoticeEvent).Text)
	})

	gw := gateway.NewClient(h.api.URL)
	h.store = ledger.NewStore(gw, ledger.NewScaler(ledger.BasisPer100g), ledger.WithPublisher(h.bus))
	h.tracker = goals.NewTracker(gw, goals.WithPublisher(h.bus))
	h.coord = NewCoordinator(gw, h.store, h.tracker, WithPublisher(h.bus))
	return h
}

func TestCoordinator_StartRequiresIdle(t *testing.T) {
	h := newHarness(t)
	c := h.coord

	if err := c.StartAdd(ledger.Lunch); err != nil {
		t.Fatalf("StartAdd() error: %v", err)
	}
	before := c.Session()

	if err := c.StartAdd(ledger.Dinner); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("StartAdd while adding: got %v, want ErrSessionBusy", err)
	}
	if err := c.StartEditGoals(); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("StartEditGoals while adding: got %v, want ErrSessionBusy", err)
	}
	if got := c.Session(); got != before {
		t.Errorf("session changed by rejected start: %+v", got)
	}

	if err := c.Cancel(); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if err := c.StartEditGoals(); err != nil {
		t.Fatalf("StartEditGoals() error: %v", err)
	}
	if err := c.StartAdd(ledger.Snack); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("StartAdd while editing goals: got %v, want ErrSessionBusy", err)
	}
	if got := c.Session().State; got != EditingGoals {
		t.Errorf("State = %v, want editing_goals", got)
	}
}

func TestCoordinator_AddControlVisible(t *testing.T) {
	c := newHarness(t).coord

	for _, cat := range ledger.Categories() {
		if !c.AddControlVisible(cat) {
			t.Errorf("%s should be visible when idle", cat)
		}
	}

	_ = c.StartAdd(ledger.Dinner)
	for _, cat := range ledger.Categories() {
		if got := c.AddControlVisible(cat); got != (cat == ledger.Dinner) {
			t.Errorf("AddControlVisible(%s) = %v while adding to dinner", cat, got)
		}
	}

	_ = c.Cancel()
	_ = c.StartEditGoals()
	for _, cat := range ledger.Categories() {
		if c.AddControlVisible(cat) {
			t.Errorf("%s should be hidden while editing goals", cat)
		}
	}
}

func TestCoordinator_CancelHasNoRemoteEffect(t *testing.T) {
	h := newHarness(t)

	_ = h.coord.StartAdd(ledger.Lunch)
	_ = h.coord.SetCandidate(7, 120)
	if err := h.coord.Cancel(); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if !h.coord.Session().IsIdle() {
		t.Error("session should be idle after cancel")
	}
	if n := len(h.api.Requests()); n != 0 {
		t.Errorf("cancel issued %d requests", n)
	}
	if err := h.coord.Cancel(); err != nil {
		t.Errorf("Cancel() when idle should be a no-op, got %v", err)
	}
}

func TestCoordinator_ConfirmAddEndToEnd(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.api.AddMeal(testutil.CatalogMeal{ID: 7, Name: "Granola", Reference: nutrition.Macros{Calories: 450}})

	var transitions []string
	h.bus.Subscribe(event.TypeSessionChanged, func(e event.Event) {
		sc := e.(event.SessionChangedEvent)
		transitions = append(transitions, sc.From+">"+sc.To)
	})

	if err := h.coord.StartAdd(ledger.SecondBreakfast); err != nil {
		t.Fatalf("StartAdd() error: %v", err)
	}
	if err := h.coord.SetCandidate(7, 120); err != nil {
		t.Fatalf("SetCandidate() error: %v", err)
	}
	if err := h.coord.ConfirmAdd(ctx, testutil.DefaultToken, testDate); err != nil {
		t.Fatalf("ConfirmAdd() error: %v", err)
	}

	reqs := h.api.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %+v, want append then refresh", reqs)
	}
	if reqs[0].Method != http.MethodPost || reqs[1].Method != http.MethodGet || reqs[1].Path != "/api/calories/days" {
		t.Errorf("unexpected request order: %+v", reqs)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("append body: %v", err)
	}
	if body["mealType"] != "SECOND_BREAKFAST" || body["mealId"] != float64(7) || body["weight"] != float64(120) {
		t.Errorf("append body = %v", body)
	}

	if !h.coord.Session().IsIdle() {
		t.Error("session should be idle after confirm")
	}
	entries := h.store.GetDay(testDate).Entries(ledger.SecondBreakfast)
	if len(entries) != 1 || entries[0].Macros.Calories != 540 {
		t.Errorf("secondBreakfast = %+v, want one 540 kcal entry", entries)
	}

	want := []string{"idle>adding_meal(secondBreakfast)", "adding_meal(secondBreakfast)>idle"}
	if len(transitions) != 2 || transitions[0] != want[0] || transitions[1] != want[1] {
		t.Errorf("transitions = %v, want %v", transitions, want)
	}
}

func TestCoordinator_ConfirmAddFailureClosesSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.api.AddMeal(testutil.CatalogMeal{ID: 7, Name: "Granola", Reference: nutrition.Macros{Calories: 450}})
	h.api.FailNext(http.MethodPost, "/api/calories/days", http.StatusInternalServerError)

	_ = h.coord.StartAdd(ledger.SecondBreakfast)
	_ = h.coord.SetCandidate(7, 120)

	err := h.coord.ConfirmAdd(ctx, testutil.DefaultToken, testDate)
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !h.coord.Session().IsIdle() {
		t.Error("session should be idle even when the append failed")
	}
	if n := h.api.RequestCount(http.MethodGet, "/api/calories/days"); n != 0 {
		t.Errorf("failed append should not refresh, saw %d list requests", n)
	}
	if len(h.notices) != 1 || h.notices[0] != "Request failed (status 500)" {
		t.Errorf("notices = %v", h.notices)
	}
}

func TestCoordinator_ConfirmAddValidation(t *testing.T) {
	tests := []struct {
		name   string
		mealID int64
		weight float64
		field  string
	}{
		{"no meal", 0, 120, "meal"},
		{"zero weight", 7, 0, "weight"},
		{"negative weight", 7, -10, "weight"},
		{"NaN weight", 7, math.NaN(), "weight"},
		{"infinite weight", 7, math.Inf(1), "weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_ = h.coord.StartAdd(ledger.Lunch)
			_ = h.coord.SetCandidate(tt.mealID, tt.weight)

			err := h.coord.ConfirmAdd(context.Background(), testutil.DefaultToken, testDate)
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if h.coord.Session().State != AddingMeal {
				t.Error("session should stay open after a validation failure")
			}
			if len(h.api.Requests()) != 0 {
				t.Error("no request should be issued for an invalid candidate")
			}
		})
	}
}

func TestCoordinator_SetDraftRejectsNonFinite(t *testing.T) {
	h := newHarness(t)
	_ = h.coord.StartEditGoals()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := h.coord.SetDraft(nutrition.Protein, v)
		var verr *errors.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("SetDraft(%v): expected ValidationError, got %v", v, err)
		}
		if verr.Field != nutrition.Protein.String() {
			t.Errorf("Field = %q, want %q", verr.Field, nutrition.Protein.String())
		}
	}
	if got := h.coord.Session().Drafts.Get(nutrition.Protein); got != 0 {
		t.Errorf("protein draft = %v, want unchanged 0", got)
	}
	if h.coord.Session().State != EditingGoals {
		t.Error("session should stay open after a rejected draft")
	}
}

func TestCoordinator_ConfirmWithoutSession(t *testing.T) {
	c := newHarness(t).coord
	ctx := context.Background()

	if err := c.ConfirmAdd(ctx, testutil.DefaultToken, testDate); !errors.Is(err, errors.ErrNoSession) {
		t.Errorf("ConfirmAdd when idle: got %v", err)
	}
	if err := c.ConfirmGoals(ctx, testutil.DefaultToken, testDate); !errors.Is(err, errors.ErrNoSession) {
		t.Errorf("ConfirmGoals when idle: got %v", err)
	}
	if err := c.SetCandidate(1, 1); !errors.Is(err, errors.ErrNoSession) {
		t.Errorf("SetCandidate when idle: got %v", err)
	}
	if err := c.SetDraft(nutrition.Fat, 1); !errors.Is(err, errors.ErrNoSession) {
		t.Errorf("SetDraft when idle: got %v", err)
	}
}

func TestCoordinator_ConfirmGoalsExcludesZeroDrafts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.api.SetGoals(testDate, nutrition.Macros{Calories: 1800, Protein: 90, Carbs: 200, Fat: 60})

	_ = h.coord.StartEditGoals()
	_ = h.coord.SetDraft(nutrition.Calories, 2100)
	_ = h.coord.SetDraft(nutrition.Protein, 0)
	if err := h.coord.SetDraft(nutrition.Carbs, -3); err == nil {
		t.Error("negative draft should be rejected")
	}

	if err := h.coord.ConfirmGoals(ctx, testutil.DefaultToken, testDate); err != nil {
		t.Fatalf("ConfirmGoals() error: %v", err)
	}

	got := h.api.Goals(testDate)
	want := nutrition.Macros{Calories: 2100, Protein: 90, Carbs: 200, Fat: 60}
	if got != want {
		t.Errorf("remote goals = %+v, want %+v", got, want)
	}
	if h.tracker.Goals(testDate) != want {
		t.Errorf("tracker goals = %+v, want reloaded %+v", h.tracker.Goals(testDate), want)
	}
	if !h.coord.Session().IsIdle() {
		t.Error("session should be idle after confirm")
	}

	var patch map[string]any
	for _, r := range h.api.Requests() {
		if r.Method == http.MethodPatch {
			if r.Query != "date="+testDate {
				t.Errorf("patch query = %q", r.Query)
			}
			if err := json.Unmarshal([]byte(r.Body), &patch); err != nil {
				t.Fatalf("patch body: %v", err)
			}
		}
	}
	if len(patch) != 1 || patch["caloriesGoal"] != float64(2100) {
		t.Errorf("patch body = %v, want only caloriesGoal", patch)
	}
}

func TestCoordinator_ConfirmGoalsNothingToSend(t *testing.T) {
	h := newHarness(t)
	_ = h.coord.StartEditGoals()

	if err := h.coord.ConfirmGoals(context.Background(), testutil.DefaultToken, testDate); err != nil {
		t.Fatalf("ConfirmGoals() error: %v", err)
	}
	if !h.coord.Session().IsIdle() {
		t.Error("session should close")
	}
	if len(h.api.Requests()) != 0 {
		t.Error("blank drafts should not issue a request")
	}
}

func TestCoordinator_ConfirmGoalsFailure(t *testing.T) {
	h := newHarness(t)
	h.api.FailNext(http.MethodPatch, "/api/statistics/intake-history", http.StatusUnprocessableEntity)

	_ = h.coord.StartEditGoals()
	_ = h.coord.SetDraft(nutrition.Fat, 55)

	err := h.coord.ConfirmGoals(context.Background(), testutil.DefaultToken, testDate)
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !h.coord.Session().IsIdle() {
		t.Error("session should be idle even when the patch failed")
	}
	if n := h.api.RequestCount(http.MethodGet, "/api/statistics/intake-history"); n != 0 {
		t.Errorf("failed patch should not reload goals, saw %d", n)
	}
	if len(h.notices) != 1 {
		t.Errorf("notices = %v, want one", h.notices)
	}
}

// blockingGateway holds AppendMealEntry until release is closed.
type blockingGateway struct {
	gateway.Gateway
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) AppendMealEntry(ctx context.Context, token, date string, mealID int64, code string, weight float64) error {
	close(g.entered)
	<-g.release
	return nil
}

type countingRefresher struct{ calls int }

func (r *countingRefresher) Refresh(ctx context.Context, token string) error {
	r.calls++
	return nil
}

func TestCoordinator_InFlightGuard(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	refresher := &countingRefresher{}
	c := NewCoordinator(gw, refresher, nil)

	_ = c.StartAdd(ledger.Lunch)
	_ = c.SetCandidate(3, 80)

	done := make(chan error, 1)
	go func() {
		done <- c.ConfirmAdd(context.Background(), "tok", testDate)
	}()
	<-gw.entered

	if !c.InFlight() {
		t.Error("InFlight() should be true while the append is pending")
	}
	if c.Session().State != AddingMeal {
		t.Error("session should stay open while the append is pending")
	}
	if err := c.ConfirmAdd(context.Background(), "tok", testDate); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("second ConfirmAdd: got %v, want ErrSessionBusy", err)
	}
	if err := c.StartEditGoals(); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("StartEditGoals during confirm: got %v, want ErrSessionBusy", err)
	}
	if err := c.Cancel(); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("Cancel during confirm: got %v, want ErrSessionBusy", err)
	}
	if err := c.SetCandidate(4, 10); !errors.Is(err, errors.ErrSessionBusy) {
		t.Errorf("SetCandidate during confirm: got %v, want ErrSessionBusy", err)
	}

	close(gw.release)
	if err := <-done; err != nil {
		t.Fatalf("ConfirmAdd() error: %v", err)
	}
	if !c.Session().IsIdle() || c.InFlight() {
		t.Error("session should be idle once the append returns")
	}
	if refresher.calls != 1 {
		t.Errorf("refresh calls = %d, want 1", refresher.calls)
	}
}
