package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
	"github.com/Iron-Ham/intake/internal/tui/styles"
)

// progressBarWidth is the number of cells in a goal progress bar.
const progressBarWidth = 20

// View renders the workspace.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderDatePicker())
	b.WriteString("\n\n")
	b.WriteString(m.renderLedger())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())

	switch {
	case m.addForm != nil:
		b.WriteString(m.renderAddForm())
	case m.goalsForm != nil:
		b.WriteString(m.renderGoalsForm())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	header := styles.Header
	if m.width > 4 {
		header = header.Width(m.width - 4)
	}
	return header.Render("Daily Intake")
}

func (m Model) renderDatePicker() string {
	tabs := make([]string, 0, len(m.dates))
	for i, d := range m.dates {
		label := d[5:] // MM-DD
		if i == len(m.dates)-1 {
			label = "today"
		}
		if i == m.dateIndex {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "  " + styles.Muted.Render(m.currentDate())
}

func (m Model) renderLedger() string {
	var b strings.Builder
	i := 0
	for _, c := range ledger.Categories() {
		b.WriteString(styles.CategoryTitle.Render(c.Title()))
		b.WriteString("\n")

		for i < len(m.rows) && m.rows[i].category == c {
			b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
			b.WriteString("\n")
			i++
		}
		if len(m.day.Entries(c)) == 0 && !m.deps.Coordinator.AddControlVisible(c) {
			b.WriteString(styles.Muted.Render("  (empty)"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRow(r row, selected bool) string {
	var line string
	switch r.kind {
	case rowAdd:
		line = "+ add meal"
		if m.addForm != nil && m.addForm.category == r.category {
			line = "+ adding…"
		}
		if !selected {
			return "  " + styles.AddControl.Render(line)
		}
	default:
		e := r.entry
		line = fmt.Sprintf("%-24s %6sg %7s kcal  P %5s  C %5s  F %5s",
			truncate(e.Name, 24),
			formatAmount(e.Weight),
			formatAmount(e.Macros.Calories),
			formatAmount(e.Macros.Protein),
			formatAmount(e.Macros.Carbs),
			formatAmount(e.Macros.Fat),
		)
		if !selected {
			return "  " + styles.EntryRow.Render(line)
		}
	}
	return styles.Secondary.Render(">") + " " + styles.EntryRowActive.Render(line)
}

func (m Model) renderProgress() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Totals"))
	b.WriteString("\n")
	for _, p := range goals.Compare(ledger.Totals(m.day), m.goals) {
		b.WriteString(renderProgressLine(p))
		b.WriteString("\n")
	}
	return b.String()
}

func renderProgressLine(p goals.Progress) string {
	unit := p.Nutrient.Unit()
	label := fmt.Sprintf("%-9s", p.Name)
	if !p.HasGoal() {
		return fmt.Sprintf("%s %s %s",
			label,
			progressBar(0, false),
			styles.Muted.Render(fmt.Sprintf("%s %s (no goal)", formatAmount(p.Actual), unit)),
		)
	}
	return fmt.Sprintf("%s %s %s / %s %s  %3.0f%%",
		label,
		progressBar(p.Percent, true),
		formatAmount(p.Actual),
		formatAmount(p.Target),
		unit,
		p.Percent,
	)
}

func progressBar(percent float64, hasGoal bool) string {
	filled := int(percent / 100 * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	style := lipgloss.NewStyle().Foreground(styles.ProgressColor(percent, hasGoal))
	return style.Render(strings.Repeat("█", filled)) +
		styles.Muted.Render(strings.Repeat("░", progressBarWidth-filled))
}

func (m Model) renderAddForm() string {
	f := m.addForm
	var content strings.Builder
	content.WriteString(fmt.Sprintf("Add to %s:\n\n", f.category.Title()))

	if len(m.meals) == 0 {
		content.WriteString(styles.Muted.Render("No meals in the catalog"))
		content.WriteString("\n")
	}
	for i, meal := range m.meals {
		item := fmt.Sprintf("%s (%s kcal)", meal.Name, formatAmount(meal.Reference.Calories))
		if i == f.mealIndex {
			content.WriteString(styles.DropdownItemSelected.Render(" > " + item + " "))
		} else {
			content.WriteString(styles.DropdownItem.Render("   " + item + " "))
		}
		content.WriteString("\n")
	}

	content.WriteString("\nWeight: ")
	content.WriteString(f.weight.View())
	content.WriteString("\n\n")
	content.WriteString(styles.Muted.Render("↑/↓ to choose, enter to add, esc to cancel"))

	return "\n" + styles.FormBox.Render(content.String())
}

func (m Model) renderGoalsForm() string {
	f := m.goalsForm
	var content strings.Builder
	content.WriteString(fmt.Sprintf("Goals for %s:\n\n", m.currentDate()))

	for i, in := range f.inputs {
		cursor := "  "
		if i == f.focus {
			cursor = styles.Secondary.Render("> ")
		}
		n := nutrition.Nutrients()[i]
		content.WriteString(fmt.Sprintf("%s%-9s %s %s\n", cursor, n.String(), in.View(), n.Unit()))
	}

	content.WriteString("\n")
	content.WriteString(styles.Muted.Render("tab to move, blank leaves unchanged, enter to save, esc to cancel"))

	return "\n" + styles.FormBox.Render(content.String())
}

func (m Model) renderStatus() string {
	if m.deps.Coordinator.InFlight() {
		return styles.StatusBar.Render("Saving…")
	}
	if m.notice == "" {
		return ""
	}
	return styles.NoticeStyle(m.noticeSeverity).Render(styles.NoticeIcon(m.noticeSeverity) + " " + m.notice)
}

func (m Model) renderHelp() string {
	helpStyle := styles.HelpBar
	keyStyle := styles.HelpKey

	if m.addForm != nil || m.goalsForm != nil {
		return helpStyle.Render(
			keyStyle.Render("enter") + " confirm  " +
				keyStyle.Render("esc") + " cancel",
		)
	}

	return helpStyle.Render(
		keyStyle.Render("←/→") + " day  " +
			keyStyle.Render("j/k") + " navigate  " +
			keyStyle.Render("enter") + " add  " +
			keyStyle.Render("d") + " delete  " +
			keyStyle.Render("g") + " goals  " +
			keyStyle.Render("r") + " refresh  " +
			keyStyle.Render("q") + " quit",
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
