package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/intake/internal/errors"
)

var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	SurfaceColor   lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color
	BlueColor      lipgloss.Color

	ProgressUnder lipgloss.Color
	ProgressMet   lipgloss.Color
	ProgressOver  lipgloss.Color
	ProgressNone  lipgloss.Color

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	ContentBox  lipgloss.Style
	HelpBar     lipgloss.Style
	HelpKey     lipgloss.Style
	Header      lipgloss.Style
	StatusBar   lipgloss.Style

	CategoryTitle  lipgloss.Style
	EntryRow       lipgloss.Style
	EntryRowActive lipgloss.Style
	AddControl     lipgloss.Style

	ErrorMsg   lipgloss.Style
	SuccessMsg lipgloss.Style
	WarningMsg lipgloss.Style
	InfoMsg    lipgloss.Style

	FormBox              lipgloss.Style
	DropdownItem         lipgloss.Style
	DropdownItemSelected lipgloss.Style
)

func init() {
	apply(DefaultPalette())
}

// apply sets the package colors from p and rebuilds every style from them.
func apply(p *Palette) {
	PrimaryColor = p.Primary
	SecondaryColor = p.Secondary
	WarningColor = p.Warning
	ErrorColor = p.Error
	MutedColor = p.Muted
	SurfaceColor = p.Surface
	TextColor = p.Text
	BorderColor = p.Border
	BlueColor = p.Blue

	ProgressUnder = p.Under
	ProgressMet = p.Met
	ProgressOver = p.Over
	ProgressNone = p.None

	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Text = lipgloss.NewStyle().Foreground(TextColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	// Date picker tabs
	TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	ContentBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	StatusBar = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Padding(0, 1)

	// Ledger rows
	CategoryTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	EntryRow = lipgloss.NewStyle().
		Padding(0, 1)

	EntryRowActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 1)

	AddControl = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Padding(0, 1)

	ErrorMsg = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SuccessMsg = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	WarningMsg = lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)

	InfoMsg = lipgloss.NewStyle().
		Foreground(BlueColor)

	// Edit forms
	FormBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		MarginTop(1)

	DropdownItem = lipgloss.NewStyle().
		Foreground(TextColor).
		Padding(0, 1)

	DropdownItemSelected = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(true).
		Padding(0, 1)
}

// ProgressColor returns the bar color for a percent-of-goal value. hasGoal is
// false when no target is set.
func ProgressColor(percent float64, hasGoal bool) lipgloss.Color {
	switch {
	case !hasGoal:
		return ProgressNone
	case percent > 110:
		return ProgressOver
	case percent >= 90:
		return ProgressMet
	default:
		return ProgressUnder
	}
}

// NoticeStyle returns the style for a status-line notice of the given severity.
func NoticeStyle(sev errors.Severity) lipgloss.Style {
	switch sev {
	case errors.SeverityError:
		return ErrorMsg
	case errors.SeverityWarning:
		return WarningMsg
	default:
		return InfoMsg
	}
}

// NoticeIcon returns an icon for a notice severity.
func NoticeIcon(sev errors.Severity) string {
	switch sev {
	case errors.SeverityError:
		return "✗"
	case errors.SeverityWarning:
		return "!"
	default:
		return "●"
	}
}
