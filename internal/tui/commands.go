package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/intake/internal/editsession"
)

// Commands run remote calls off the update loop. Each returns exactly one
// message once the call completes.

func (m Model) refreshCmd() tea.Cmd {
	ctx, store, token := m.ctx, m.deps.Store, m.deps.Token
	return func() tea.Msg {
		return ledgerRefreshedMsg{err: store.Refresh(ctx, token)}
	}
}

func (m Model) loadGoalsCmd(date string) tea.Cmd {
	ctx, tracker, token := m.ctx, m.deps.Tracker, m.deps.Token
	return func() tea.Msg {
		g, err := tracker.LoadGoals(ctx, token, date)
		return goalsLoadedMsg{date: date, goals: g, err: err}
	}
}

func (m Model) loadMealsCmd() tea.Cmd {
	ctx, gw, token := m.ctx, m.deps.Gateway, m.deps.Token
	return func() tea.Msg {
		meals, err := gw.ListMeals(ctx, token)
		return mealsLoadedMsg{meals: meals, err: err}
	}
}

func (m Model) deleteCmd(date string, id int64) tea.Cmd {
	ctx, store, token := m.ctx, m.deps.Store, m.deps.Token
	return func() tea.Msg {
		return entryDeletedMsg{date: date, id: id, err: store.DeleteEntry(ctx, token, date, id)}
	}
}

func (m Model) confirmAddCmd(date string) tea.Cmd {
	ctx, coord, token := m.ctx, m.deps.Coordinator, m.deps.Token
	return func() tea.Msg {
		err := coord.ConfirmAdd(ctx, token, date)
		return confirmDoneMsg{state: editsession.AddingMeal, date: date, err: err}
	}
}

func (m Model) confirmGoalsCmd(date string) tea.Cmd {
	ctx, coord, token := m.ctx, m.deps.Coordinator, m.deps.Token
	return func() tea.Msg {
		err := coord.ConfirmGoals(ctx, token, date)
		return confirmDoneMsg{state: editsession.EditingGoals, date: date, err: err}
	}
}
