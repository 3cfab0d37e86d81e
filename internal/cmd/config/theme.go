package config

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/intake/internal/tui/styles"
)

func newThemeCmd() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "List and inspect workspace color themes",
		Long: `List and inspect the color themes available to 'intake tui'.

Select a theme with:
  intake config set tui.theme nord`,
	}

	themeCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all available themes",
			Args:  cobra.NoArgs,
			RunE:  runThemeList,
		},
		&cobra.Command{
			Use:   "info <theme-name>",
			Short: "Show the colors of a theme",
			Args:  cobra.ExactArgs(1),
			RunE:  runThemeInfo,
		},
	)
	return themeCmd
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	active := viper.GetString("tui.theme")
	fmt.Fprintln(out, "Available themes:")
	for _, name := range styles.ThemeNames() {
		marker := " "
		if name == active {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s\n", marker, name)
	}
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	p, ok := styles.PaletteFor(name)
	if !ok {
		return fmt.Errorf("unknown theme: %s\n\nRun 'intake config theme list' to see available themes", name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n\n", name)
	colors := []struct {
		label string
		color lipgloss.Color
	}{
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"warning", p.Warning},
		{"error", p.Error},
		{"muted", p.Muted},
		{"surface", p.Surface},
		{"text", p.Text},
		{"border", p.Border},
		{"under goal", p.Under},
		{"goal met", p.Met},
		{"over goal", p.Over},
		{"no goal", p.None},
	}
	for _, c := range colors {
		swatch := lipgloss.NewStyle().Background(c.color).Render("  ")
		fmt.Fprintf(out, "  %-11s %s %s\n", c.label, swatch, c.color)
	}
	return nil
}
