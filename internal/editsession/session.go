// Package editsession coordinates the two interactive edit workflows of the
// intake workspace: adding a meal to a day and editing a day's goals.
// At most one session is open at a time.
package editsession

import (
	"fmt"

	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// State identifies which session, if any, is open.
type State int

const (
	Idle State = iota
	AddingMeal
	EditingGoals
)

// String returns the state name used in logs and events.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AddingMeal:
		return "adding_meal"
	case EditingGoals:
		return "editing_goals"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is a snapshot of the current edit session. Only the fields of the
// active state are meaningful.
type Session struct {
	State State

	// AddingMeal
	Category        ledger.Category
	CandidateMealID int64
	CandidateWeight float64

	// EditingGoals
	Drafts nutrition.Macros
}

// String describes the session, e.g. "adding_meal(lunch)".
func (s Session) String() string {
	if s.State == AddingMeal {
		return fmt.Sprintf("%s(%s)", s.State, s.Category)
	}
	return s.State.String()
}

// IsIdle reports whether no session is open.
func (s Session) IsIdle() bool {
	return s.State == Idle
}
