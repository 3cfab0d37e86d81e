package event

import (
	"time"

	"github.com/Iron-Ham/intake/internal/errors"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "ledger.refreshed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeNotice         = "notice"
	TypeLedgerRefresh  = "ledger.refreshed"
	TypeEntryRemoved   = "ledger.entry_removed"
	TypeGoalsLoaded    = "goals.loaded"
	TypeSessionChanged = "session.changed"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// NoticeEvent carries a short user-visible message, usually derived from a
// failed remote call.
type NoticeEvent struct {
	baseEvent
	Text     string
	Severity errors.Severity
	Err      error // nil for purely informational notices
}

// NewNoticeEvent creates a NoticeEvent.
func NewNoticeEvent(text string, severity errors.Severity) NoticeEvent {
	return NoticeEvent{
		baseEvent: newBaseEvent(TypeNotice),
		Text:      text,
		Severity:  severity,
	}
}

// NewErrorNotice creates a NoticeEvent describing err.
func NewErrorNotice(err error) NoticeEvent {
	return NoticeEvent{
		baseEvent: newBaseEvent(TypeNotice),
		Text:      errors.Notice(err),
		Severity:  errors.GetSeverity(err),
		Err:       err,
	}
}

// LedgerRefreshedEvent is emitted after the ledger cache was replaced.
type LedgerRefreshedEvent struct {
	baseEvent
	Days int // number of dates now cached
}

// NewLedgerRefreshedEvent creates a LedgerRefreshedEvent.
func NewLedgerRefreshedEvent(days int) LedgerRefreshedEvent {
	return LedgerRefreshedEvent{
		baseEvent: newBaseEvent(TypeLedgerRefresh),
		Days:      days,
	}
}

// EntryRemovedEvent is emitted after an entry was deleted remotely and
// filtered out of the cache.
type EntryRemovedEvent struct {
	baseEvent
	Date    string
	EntryID int64
}

// NewEntryRemovedEvent creates an EntryRemovedEvent.
func NewEntryRemovedEvent(date string, entryID int64) EntryRemovedEvent {
	return EntryRemovedEvent{
		baseEvent: newBaseEvent(TypeEntryRemoved),
		Date:      date,
		EntryID:   entryID,
	}
}

// GoalsLoadedEvent is emitted after a day's goal targets were fetched.
type GoalsLoadedEvent struct {
	baseEvent
	Date string
}

// NewGoalsLoadedEvent creates a GoalsLoadedEvent.
func NewGoalsLoadedEvent(date string) GoalsLoadedEvent {
	return GoalsLoadedEvent{
		baseEvent: newBaseEvent(TypeGoalsLoaded),
		Date:      date,
	}
}

// SessionChangedEvent is emitted on every edit-session transition.
type SessionChangedEvent struct {
	baseEvent
	From string
	To   string
}

// NewSessionChangedEvent creates a SessionChangedEvent.
func NewSessionChangedEvent(from, to string) SessionChangedEvent {
	return SessionChangedEvent{
		baseEvent: newBaseEvent(TypeSessionChanged),
		From:      from,
		To:        to,
	}
}
