package editsession

import (
	"context"
	"math"
	"sync"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/logging"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// Refresher reloads the ledger after a confirmed add.
type Refresher interface {
	Refresh(ctx context.Context, token string) error
}

// GoalsLoader reloads a day's goals after a confirmed goal edit.
type GoalsLoader interface {
	LoadGoals(ctx context.Context, token, date string) (nutrition.Macros, error)
}

// Coordinator owns the edit session state machine:
//
//	Idle -> AddingMeal{category}   StartAdd
//	Idle -> EditingGoals           StartEditGoals
//	any  -> Idle                   Cancel, or once a confirm's remote call returns
//
// Starting a session requires Idle. A confirm keeps the session open while its
// remote call is in flight, so neither a new session nor a second confirm can
// start until it returns. The session closes whether or not the call
// succeeded; the follow-up refresh runs only on success.
type Coordinator struct {
	mu       sync.Mutex
	session  Session
	inFlight bool

	gw        gateway.Gateway
	refresher Refresher
	loader    GoalsLoader
	bus       event.Publisher
	logger    *logging.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher sets where notices and session events are published.
func WithPublisher(p event.Publisher) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.bus = p
		}
	}
}

// WithLogger sets the coordinator's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates an idle Coordinator.
func NewCoordinator(gw gateway.Gateway, refresher Refresher, loader GoalsLoader, opts ...Option) *Coordinator {
	c := &Coordinator{
		gw:        gw,
		refresher: refresher,
		loader:    loader,
		bus:       event.Discard,
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("editsession")
	return c
}

// Session returns a snapshot of the current session.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// InFlight reports whether a confirm is waiting on the remote call.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// AddControlVisible reports whether the add control of category should be
// shown. While adding to one category the others are hidden; while editing
// goals all are hidden.
func (c *Coordinator) AddControlVisible(category ledger.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.session.State {
	case Idle:
		return true
	case AddingMeal:
		return c.session.Category == category
	default:
		return false
	}
}

// StartAdd opens an AddingMeal session for category. It fails with
// ErrSessionBusy, leaving the current session unchanged, unless Idle.
func (c *Coordinator) StartAdd(category ledger.Category) error {
	return c.start(Session{State: AddingMeal, Category: category})
}

// StartEditGoals opens an EditingGoals session with all drafts blank. It
// fails with ErrSessionBusy, leaving the current session unchanged, unless Idle.
func (c *Coordinator) StartEditGoals() error {
	return c.start(Session{State: EditingGoals})
}

func (c *Coordinator) start(next Session) error {
	c.mu.Lock()
	if c.session.State != Idle {
		current := c.session
		c.mu.Unlock()
		c.logger.Debug("session start rejected", "current", current.String(), "requested", next.String())
		return errors.ErrSessionBusy
	}
	prev := c.session
	c.session = next
	c.mu.Unlock()

	c.transitioned(prev, next)
	return nil
}

// SetCandidate records the meal and weight of the open AddingMeal session.
func (c *Coordinator) SetCandidate(mealID int64, weight float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != AddingMeal {
		return errors.ErrNoSession
	}
	if c.inFlight {
		return errors.ErrSessionBusy
	}
	c.session.CandidateMealID = mealID
	c.session.CandidateWeight = weight
	return nil
}

// SetDraft records a draft target of the open EditingGoals session. Zero
// means leave unchanged; negative or non-finite values are rejected.
func (c *Coordinator) SetDraft(n nutrition.Nutrient, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.NewValidationError(n.String() + " goal must be a finite number").
			WithField(n.String()).
			WithValue(value)
	}
	if value < 0 {
		return errors.NewValidationError(n.String() + " goal cannot be negative").
			WithField(n.String()).
			WithValue(value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != EditingGoals {
		return errors.ErrNoSession
	}
	if c.inFlight {
		return errors.ErrSessionBusy
	}
	c.session.Drafts = c.session.Drafts.With(n, value)
	return nil
}

// Cancel closes the open session with no remote effect. Cancelling while a
// confirm is in flight fails with ErrSessionBusy; cancelling when Idle is a
// no-op.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return errors.ErrSessionBusy
	}
	prev := c.session
	c.session = Session{}
	c.mu.Unlock()

	if prev.State != Idle {
		c.transitioned(prev, Session{})
	}
	return nil
}

// ConfirmAdd appends the candidate meal to date under the session's category,
// closes the session and, if the append succeeded, refreshes the ledger.
//
// A missing meal id or non-positive weight fails with a ValidationError and
// leaves the session open with no remote call.
func (c *Coordinator) ConfirmAdd(ctx context.Context, token, date string) error {
	c.mu.Lock()
	if c.session.State != AddingMeal {
		c.mu.Unlock()
		return errors.ErrNoSession
	}
	if c.inFlight {
		c.mu.Unlock()
		return errors.ErrSessionBusy
	}
	s := c.session
	if err := validateCandidate(s); err != nil {
		c.mu.Unlock()
		return err
	}
	c.inFlight = true
	c.mu.Unlock()

	log := c.logger.WithDate(date)
	log.Debug("confirming add", "category", s.Category.String(), "meal_id", s.CandidateMealID, "weight", s.CandidateWeight)

	err := c.gw.AppendMealEntry(ctx, token, date, s.CandidateMealID, s.Category.Code(), s.CandidateWeight)
	c.finish(s)

	if err != nil {
		c.bus.Publish(event.NewErrorNotice(err))
		return err
	}
	log.Info("meal added", "category", s.Category.String(), "meal_id", s.CandidateMealID)
	return c.refresher.Refresh(ctx, token)
}

// ConfirmGoals patches date's targets with the strictly positive drafts,
// closes the session and, if the patch succeeded, reloads the day's goals.
// With no positive drafts the session closes without a remote call.
func (c *Coordinator) ConfirmGoals(ctx context.Context, token, date string) error {
	c.mu.Lock()
	if c.session.State != EditingGoals {
		c.mu.Unlock()
		return errors.ErrNoSession
	}
	if c.inFlight {
		c.mu.Unlock()
		return errors.ErrSessionBusy
	}
	s := c.session
	patch := goals.BuildPatch(s.Drafts)
	if patch.IsEmpty() {
		c.session = Session{}
		c.mu.Unlock()
		c.transitioned(s, Session{})
		return nil
	}
	c.inFlight = true
	c.mu.Unlock()

	log := c.logger.WithDate(date)
	log.Debug("confirming goals", "drafts", s.Drafts)

	err := c.gw.PatchGoals(ctx, token, date, patch)
	c.finish(s)

	if err != nil {
		c.bus.Publish(event.NewErrorNotice(err))
		return err
	}
	log.Info("goals updated")
	_, err = c.loader.LoadGoals(ctx, token, date)
	return err
}

// finish returns to Idle after a confirm's remote call.
func (c *Coordinator) finish(prev Session) {
	c.mu.Lock()
	c.session = Session{}
	c.inFlight = false
	c.mu.Unlock()

	c.transitioned(prev, Session{})
}

func (c *Coordinator) transitioned(from, to Session) {
	c.logger.Debug("session changed", "from", from.String(), "to", to.String())
	c.bus.Publish(event.NewSessionChangedEvent(from.String(), to.String()))
}

func validateCandidate(s Session) error {
	if s.CandidateMealID <= 0 {
		return errors.NewValidationError("choose a meal first").
			WithField("meal").
			WithValue(s.CandidateMealID)
	}
	if !(s.CandidateWeight > 0) || math.IsInf(s.CandidateWeight, 0) {
		return errors.NewValidationError("weight must be greater than zero").
			WithField("weight").
			WithValue(s.CandidateWeight)
	}
	return nil
}
