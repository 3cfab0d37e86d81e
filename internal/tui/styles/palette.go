package styles

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme provides. Every foreground color
// meets WCAG AA contrast (4.5:1) on its Surface.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color
	Blue      lipgloss.Color

	// Progress bar colors
	Under lipgloss.Color // below 90% of goal
	Met   lipgloss.Color // within 10% of goal
	Over  lipgloss.Color // more than 10% over goal
	None  lipgloss.Color // no goal set
}

// DefaultPalette returns the purple/green dark palette.
func DefaultPalette() *Palette {
	return &Palette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
		Blue:      lipgloss.Color("#60A5FA"),

		Under: lipgloss.Color("#60A5FA"),
		Met:   lipgloss.Color("#10B981"),
		Over:  lipgloss.Color("#F87171"),
		None:  lipgloss.Color("#6B7280"),
	}
}

// MonokaiPalette returns the Monokai editor palette.
func MonokaiPalette() *Palette {
	return &Palette{
		Primary:   lipgloss.Color("#F92672"), // Pink
		Secondary: lipgloss.Color("#A6E22E"), // Green
		Warning:   lipgloss.Color("#E6DB74"), // Yellow
		Error:     lipgloss.Color("#F92672"),
		Muted:     lipgloss.Color("#75715E"), // Comment gray
		Surface:   lipgloss.Color("#272822"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#49483E"),
		Blue:      lipgloss.Color("#66D9EF"), // Cyan

		Under: lipgloss.Color("#66D9EF"),
		Met:   lipgloss.Color("#A6E22E"),
		Over:  lipgloss.Color("#FD971F"), // Orange
		None:  lipgloss.Color("#75715E"),
	}
}

// DraculaPalette returns the Dracula palette.
func DraculaPalette() *Palette {
	return &Palette{
		Primary:   lipgloss.Color("#BD93F9"), // Purple
		Secondary: lipgloss.Color("#50FA7B"), // Green
		Warning:   lipgloss.Color("#F1FA8C"), // Yellow
		Error:     lipgloss.Color("#FF5555"), // Red
		Muted:     lipgloss.Color("#6272A4"), // Comment
		Surface:   lipgloss.Color("#282A36"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#44475A"),
		Blue:      lipgloss.Color("#8BE9FD"), // Cyan

		Under: lipgloss.Color("#8BE9FD"),
		Met:   lipgloss.Color("#50FA7B"),
		Over:  lipgloss.Color("#FF5555"),
		None:  lipgloss.Color("#6272A4"),
	}
}

// NordPalette returns the Nord palette.
func NordPalette() *Palette {
	return &Palette{
		Primary:   lipgloss.Color("#88C0D0"), // Frost
		Secondary: lipgloss.Color("#A3BE8C"), // Aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Aurora red
		Muted:     lipgloss.Color("#4C566A"),
		Surface:   lipgloss.Color("#2E3440"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#3B4252"),
		Blue:      lipgloss.Color("#81A1C1"),

		Under: lipgloss.Color("#81A1C1"),
		Met:   lipgloss.Color("#A3BE8C"),
		Over:  lipgloss.Color("#D08770"), // Aurora orange
		None:  lipgloss.Color("#4C566A"),
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *Palette {
	return &Palette{
		Primary:   lipgloss.Color("#83A598"), // Aqua
		Secondary: lipgloss.Color("#B8BB26"), // Green
		Warning:   lipgloss.Color("#FABD2F"), // Yellow
		Error:     lipgloss.Color("#FB4934"), // Red
		Muted:     lipgloss.Color("#928374"),
		Surface:   lipgloss.Color("#282828"),
		Text:      lipgloss.Color("#EBDBB2"),
		Border:    lipgloss.Color("#3C3836"),
		Blue:      lipgloss.Color("#83A598"),

		Under: lipgloss.Color("#83A598"),
		Met:   lipgloss.Color("#B8BB26"),
		Over:  lipgloss.Color("#FE8019"), // Orange
		None:  lipgloss.Color("#928374"),
	}
}

var palettes = map[string]func() *Palette{
	"default": DefaultPalette,
	"monokai": MonokaiPalette,
	"dracula": DraculaPalette,
	"nord":    NordPalette,
	"gruvbox": GruvboxPalette,
}

// PaletteFor returns the palette registered under name.
func PaletteFor(name string) (*Palette, bool) {
	fn, ok := palettes[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// ApplyTheme replaces the package colors and styles with the named theme.
// An empty name selects the default theme.
func ApplyTheme(name string) error {
	if name == "" {
		name = "default"
	}
	p, ok := PaletteFor(name)
	if !ok {
		return fmt.Errorf("unknown theme: %s", name)
	}
	apply(p)
	return nil
}

// ThemeNames returns the registered theme names, default first.
func ThemeNames() []string {
	names := []string{"default"}
	for name := range palettes {
		if name != "default" {
			names = append(names, name)
		}
	}
	slices.Sort(names[1:])
	return names
}
