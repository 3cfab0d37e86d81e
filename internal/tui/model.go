package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/intake/internal/editsession"
	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/logging"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// dateLayout is the ISO calendar date format used by the API.
const dateLayout = "2006-01-02"

// Deps are the collaborators the workspace drives.
type Deps struct {
	Gateway     gateway.Gateway
	Store       *ledger.Store
	Tracker     *goals.Tracker
	Coordinator *editsession.Coordinator
	Token       string
	Logger      *logging.Logger

	// CalendarDays is how many days, ending today, the date picker offers.
	CalendarDays int
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// rowKind distinguishes the navigable rows of the ledger view.
type rowKind int

const (
	rowAdd rowKind = iota
	rowEntry
)

// row is one navigable line: a category's add control or one of its entries.
type row struct {
	kind     rowKind
	category ledger.Category
	entry    ledger.MealEntry
}

// Model holds the TUI application state
type Model struct {
	deps   Deps
	ctx    context.Context
	logger *logging.Logger

	// Date picker
	dates     []string
	dateIndex int

	// Current day
	day   ledger.DayRecord
	goals nutrition.Macros
	meals []gateway.Meal

	// Navigation
	rows   []row
	cursor int

	// Open edit forms; at most one is non-nil
	addForm   *addForm
	goalsForm *goalsForm

	// UI state
	width          int
	height         int
	notice         string
	noticeSeverity errors.Severity
	quitting       bool
}

// NewModel creates the workspace model with today selected.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.CalendarDays <= 0 {
		deps.CalendarDays = 7
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	dates := calendar(deps.Now(), deps.CalendarDays)
	m := Model{
		deps:      deps,
		ctx:       ctx,
		logger:    logger.WithComponent("tui"),
		dates:     dates,
		dateIndex: len(dates) - 1,
	}
	m.day = deps.Store.GetDay(m.currentDate())
	m.goals = deps.Tracker.Goals(m.currentDate())
	m.rebuildRows()
	return m
}

// calendar returns the n dates ending at now, oldest first.
func calendar(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, 0, -i).Format(dateLayout))
	}
	return dates
}

func (m Model) currentDate() string {
	return m.dates[m.dateIndex]
}

// Init fetches the selected day, its goals and the meal catalog.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.loadGoalsCmd(m.currentDate()), m.loadMealsCmd())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case ledgerRefreshedMsg:
		m.reloadDay()
		return m, nil

	case goalsLoadedMsg:
		if msg.err == nil && msg.date == m.currentDate() {
			m.goals = msg.goals
		}
		return m, nil

	case mealsLoadedMsg:
		if msg.err == nil {
			m.meals = msg.meals
		}
		return m, nil

	case entryDeletedMsg:
		if msg.err == nil {
			m.reloadDay()
			m.setNotice("Entry removed", errors.SeverityInfo)
		}
		return m, nil

	case confirmDoneMsg:
		return m.handleConfirmDone(msg)

	case noticeMsg:
		m.setNotice(msg.text, msg.severity)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleConfirmDone(msg confirmDoneMsg) (tea.Model, tea.Cmd) {
	var syncErr *errors.SyncError
	if msg.err != nil && !errors.As(msg.err, &syncErr) {
		// Sync failures arrive as bus notices; everything else is shown here.
		m.setNotice(errors.Notice(msg.err), errors.GetSeverity(msg.err))
	}

	if m.deps.Coordinator.Session().IsIdle() {
		m.addForm = nil
		m.goalsForm = nil
	} else {
		if m.addForm != nil {
			m.addForm.submitted = false
		}
		if m.goalsForm != nil {
			m.goalsForm.submitted = false
		}
	}

	m.reloadDay()
	if msg.err == nil {
		switch msg.state {
		case editsession.AddingMeal:
			m.setNotice("Meal added", errors.SeverityInfo)
		case editsession.EditingGoals:
			m.setNotice("Goals updated", errors.SeverityInfo)
		}
	}
	return *m, nil
}

// reloadDay re-reads the selected date from the store and tracker caches.
func (m *Model) reloadDay() {
	date := m.currentDate()
	m.day = m.deps.Store.GetDay(date)
	m.goals = m.deps.Tracker.Goals(date)
	m.rebuildRows()
}

// rebuildRows lays out the navigable rows in category order. Add controls the
// coordinator suppresses are left out entirely.
func (m *Model) rebuildRows() {
	rows := make([]row, 0, m.day.Len()+len(ledger.Categories()))
	for _, c := range ledger.Categories() {
		for _, e := range m.day.Entries(c) {
			rows = append(rows, row{kind: rowEntry, category: c, entry: e})
		}
		if m.deps.Coordinator.AddControlVisible(c) {
			rows = append(rows, row{kind: rowAdd, category: c})
		}
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setNotice(text string, sev errors.Severity) {
	m.notice = text
	m.noticeSeverity = sev
}

func (m Model) selectedRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// selectDate moves the picker and explicitly refreshes the ledger and goals.
func (m *Model) selectDate(index int) tea.Cmd {
	if index < 0 || index >= len(m.dates) || index == m.dateIndex {
		return nil
	}
	m.dateIndex = index
	m.cursor = 0
	m.reloadDay()
	m.logger.Debug("date selected", "date", m.currentDate())
	return tea.Batch(m.refreshCmd(), m.loadGoalsCmd(m.currentDate()))
}
