package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

func newGoalsCmd() *cobra.Command {
	goalsCmd := &cobra.Command{
		Use:   "goals",
		Short: "Show or change a day's nutrition goals",
	}
	goalsCmd.AddCommand(newGoalsShowCmd(), newGoalsSetCmd())
	return goalsCmd
}

func newGoalsShowCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day's goals and the progress towards them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateFlag(date)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.tracker.LoadGoals(cmd.Context(), a.token, day); err != nil {
				return err
			}
			// Progress still renders against zero intake if the ledger is unavailable.
			_ = a.store.Refresh(cmd.Context(), a.token)

			progress := a.tracker.Progress(a.store.GetDay(day))
			if asJSON {
				return writeJSON(cmd, progress)
			}
			return writeMarkdown(cmd, fmt.Sprintf("# Goals for %s\n\n%s", day, progressTable(progress)))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to show, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output progress as JSON")
	return cmd
}

func newGoalsSetCmd() *cobra.Command {
	var (
		date  string
		draft = make(map[nutrition.Nutrient]*float64)
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a day's goals",
		Long: `Change one or more of a day's goals. Goals that are not given, or are
given as 0, are left unchanged.

Example:
  intake goals set --calories 2100 --protein 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateFlag(date)
			if err != nil {
				return err
			}

			var drafts nutrition.Macros
			for n, v := range draft {
				drafts = drafts.With(n, *v)
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.coordinator.StartEditGoals(); err != nil {
				return err
			}
			for _, n := range nutrition.Nutrients() {
				if err := a.coordinator.SetDraft(n, drafts.Get(n)); err != nil {
					_ = a.coordinator.Cancel()
					return err
				}
			}

			empty := goals.BuildPatch(drafts).IsEmpty()
			if err := a.coordinator.ConfirmGoals(cmd.Context(), a.token, day); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if empty {
				fmt.Fprintln(out, "Nothing to update")
				return nil
			}
			current := a.tracker.Goals(day)
			parts := make([]string, 0, len(nutrition.Nutrients()))
			for _, n := range nutrition.Nutrients() {
				parts = append(parts, fmt.Sprintf("%s %s %s", n, amount(current.Get(n)), n.Unit()))
			}
			fmt.Fprintf(out, "Goals for %s: %s\n", day, strings.Join(parts, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to change, YYYY-MM-DD (default today)")
	for _, n := range nutrition.Nutrients() {
		draft[n] = cmd.Flags().Float64(n.String(), 0, fmt.Sprintf("%s goal in %s", n, n.Unit()))
	}
	return cmd
}
