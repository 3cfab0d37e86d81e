package tui

import (
	"github.com/Iron-Ham/intake/internal/editsession"
	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// ledgerRefreshedMsg is sent when a ledger refresh returns.
type ledgerRefreshedMsg struct {
	err error
}

// goalsLoadedMsg is sent when a day's goals were fetched.
type goalsLoadedMsg struct {
	date  string
	goals nutrition.Macros
	err   error
}

// mealsLoadedMsg is sent when the meal catalog was fetched.
type mealsLoadedMsg struct {
	meals []gateway.Meal
	err   error
}

// entryDeletedMsg is sent when a delete returns.
type entryDeletedMsg struct {
	date string
	id   int64
	err  error
}

// confirmDoneMsg is sent when an edit session confirm returns.
type confirmDoneMsg struct {
	state editsession.State
	date  string
	err   error
}

// noticeMsg carries a notice published on the event bus into the program.
type noticeMsg struct {
	text     string
	severity errors.Severity
}
