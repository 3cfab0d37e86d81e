package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/tui"
	"github.com/Iron-Ham/intake/internal/tui/styles"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive intake workspace",
		Long: `Open the terminal workspace: pick one of the last few days, browse its
meals by category, add and delete meals and edit the day's goals.

Logs are written to the config directory unless logging.dir is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := styles.ApplyTheme(a.cfg.TUI.Theme); err != nil {
				return err
			}
			a.logger.Info("workspace started", "base_url", a.cfg.API.BaseURL)
			app := tui.New(cmd.Context(), tui.Deps{
				Gateway:      a.gateway,
				Store:        a.store,
				Tracker:      a.tracker,
				Coordinator:  a.coordinator,
				Token:        a.token,
				Logger:       a.logger,
				CalendarDays: a.cfg.Ledger.CalendarDays,
			}, a.bus)
			return app.Run()
		},
	}
}
