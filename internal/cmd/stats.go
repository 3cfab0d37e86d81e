package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/goals"
)

func newStatsCmd() *cobra.Command {
	var (
		asJSON   bool
		nutrient string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show intake history as percent of goal",
		Long: `Display the intake history kept by the server as one series per
nutrient. Each day shows the amount eaten, the goal and the percent of the
goal reached (0 when no goal was set).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			series, err := a.tracker.LoadHistory(cmd.Context(), a.token)
			if err != nil {
				return err
			}

			if nutrient != "" {
				series = filterSeries(series, nutrient)
				if len(series) == 0 {
					return errors.NewValidationError("unknown nutrient: " + nutrient).
						WithField("nutrient").
						WithValue(nutrient)
				}
			}

			if asJSON {
				return writeJSON(cmd, series)
			}
			printStatsText(cmd, series)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output statistics as JSON")
	cmd.Flags().StringVar(&nutrient, "nutrient", "", "Only show one nutrient (calories, protein, carbs, fat)")
	return cmd
}

func filterSeries(series []goals.Series, name string) []goals.Series {
	for _, s := range series {
		if s.Name == name {
			return []goals.Series{s}
		}
	}
	return nil
}

func printStatsText(cmd *cobra.Command, series []goals.Series) {
	out := cmd.OutOrStdout()
	for i, s := range series {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, strings.ToUpper(s.Name))
		fmt.Fprintln(out, strings.Repeat("─", 50))
		if len(s.Points) == 0 {
			fmt.Fprintln(out, "No history")
			continue
		}
		for _, p := range s.Points {
			goal := "no goal"
			if p.Goal > 0 {
				goal = amount(p.Goal) + " " + s.Nutrient.Unit()
			}
			fmt.Fprintf(out, "%s  %10s %-4s / %-12s %5.0f%%\n",
				p.Date, amount(p.Value), s.Nutrient.Unit(), goal, p.Percent)
		}
	}
}
