package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

func (m *Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return *m, tea.Quit
	}

	// Keys are ignored while a confirm waits on the server.
	if m.deps.Coordinator.InFlight() {
		return *m, nil
	}

	switch {
	case m.addForm != nil:
		return m.handleAddFormKey(msg)
	case m.goalsForm != nil:
		return m.handleGoalsFormKey(msg)
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "q":
		m.quitting = true
		return *m, tea.Quit

	case "left", "h":
		cmd = m.selectDate(m.dateIndex - 1)

	case "right", "l":
		cmd = m.selectDate(m.dateIndex + 1)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "enter", "a":
		r, ok := m.selectedRow()
		if !ok || r.kind != rowAdd {
			break
		}
		if err := m.deps.Coordinator.StartAdd(r.category); err != nil {
			m.setNotice(errors.Notice(err), errors.GetSeverity(err))
			break
		}
		m.addForm = newAddForm(r.category)
		m.rebuildRows()
		m.cursorToAdd()

	case "d", "x", "delete":
		r, ok := m.selectedRow()
		if !ok || r.kind != rowEntry {
			break
		}
		cmd = m.deleteCmd(m.currentDate(), r.entry.ID)

	case "g":
		if err := m.deps.Coordinator.StartEditGoals(); err != nil {
			m.setNotice(errors.Notice(err), errors.GetSeverity(err))
			break
		}
		m.goalsForm = newGoalsForm(m.goals)
		m.rebuildRows()

	case "r":
		cmd = tea.Batch(m.refreshCmd(), m.loadGoalsCmd(m.currentDate()))
	}

	return *m, cmd
}

// cursorToAdd moves the cursor onto the only visible add control.
func (m *Model) cursorToAdd() {
	for i, r := range m.rows {
		if r.kind == rowAdd {
			m.cursor = i
			return
		}
	}
}

func (m *Model) cancelSession() {
	if err := m.deps.Coordinator.Cancel(); err != nil {
		m.setNotice(errors.Notice(err), errors.GetSeverity(err))
		return
	}
	m.addForm = nil
	m.goalsForm = nil
	m.rebuildRows()
}

func (m *Model) handleAddFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.addForm
	if f.submitted {
		return *m, nil
	}

	switch msg.String() {
	case "esc":
		m.cancelSession()
		return *m, nil

	case "up":
		if f.mealIndex > 0 {
			f.mealIndex--
		}
		return *m, nil

	case "down":
		if f.mealIndex < len(m.meals)-1 {
			f.mealIndex++
		}
		return *m, nil

	case "enter":
		weight, err := f.weightValue()
		if err != nil {
			m.setNotice(errors.Notice(err), errors.GetSeverity(err))
			return *m, nil
		}
		var mealID int64
		if f.mealIndex < len(m.meals) {
			mealID = m.meals[f.mealIndex].ID
		}
		if err := m.deps.Coordinator.SetCandidate(mealID, weight); err != nil {
			m.setNotice(errors.Notice(err), errors.GetSeverity(err))
			return *m, nil
		}
		f.submitted = true
		return *m, m.confirmAddCmd(m.currentDate())
	}

	var cmd tea.Cmd
	f.weight, cmd = f.weight.Update(msg)
	return *m, cmd
}

func (m *Model) handleGoalsFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.goalsForm
	if f.submitted {
		return *m, nil
	}

	switch msg.String() {
	case "esc":
		m.cancelSession()
		return *m, nil

	case "tab", "down":
		f.move(1)
		return *m, nil

	case "shift+tab", "up":
		f.move(-1)
		return *m, nil

	case "enter":
		drafts, err := f.drafts()
		if err != nil {
			m.setNotice(errors.Notice(err), errors.GetSeverity(err))
			return *m, nil
		}
		for _, n := range nutrition.Nutrients() {
			if err := m.deps.Coordinator.SetDraft(n, drafts.Get(n)); err != nil {
				m.setNotice(errors.Notice(err), errors.GetSeverity(err))
				return *m, nil
			}
		}
		f.submitted = true
		return *m, m.confirmGoalsCmd(m.currentDate())
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return *m, cmd
}
