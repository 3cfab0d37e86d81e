package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

func newDayCmd() *cobra.Command {
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Show or edit one day of the ledger",
	}
	dayCmd.AddCommand(newDayShowCmd(), newDayDeleteCmd())
	return dayCmd
}

func newDayShowCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day's meals, totals and goal progress",
		Long: `Refresh the ledger from the server and show one day: the meals of each
category with their scaled macros, the day's totals and the progress
towards the day's goals.`,
		Args: cobra.NoArgs,
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

			if err := a.store.Refresh(cmd.Context(), a.token); err != nil {
				return err
			}
			// Goals are optional for the report; a failure is already a notice.
			_, _ = a.tracker.LoadGoals(cmd.Context(), a.token, day)

			report := newDayReport(a.store.GetDay(day), a.tracker)
			if asJSON {
				return writeJSON(cmd, report)
			}
			return writeMarkdown(cmd, report.markdown())
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to show, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the day as JSON")
	return cmd
}

func newDayDeleteCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete one meal entry from a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return errors.NewValidationError("entry id must be a positive integer").
					WithField("entry-id").
					WithValue(args[0])
			}
			day, err := dateFlag(date)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DeleteEntry(cmd.Context(), a.token, day, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %d from %s\n", id, day)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date of the entry, YYYY-MM-DD (default today)")
	return cmd
}

// dayReport is the serialized form of a day with its totals and progress.
type dayReport struct {
	Date       string           `json:"date"`
	Categories []categoryReport `json:"categories"`
	Totals     nutrition.Macros `json:"totals"`
	Progress   []goals.Progress `json:"progress"`
}

type categoryReport struct {
	Category ledger.Category    `json:"category"`
	Title    string             `json:"title"`
	Entries  []ledger.MealEntry `json:"entries"`
}

func newDayReport(day ledger.DayRecord, tracker *goals.Tracker) dayReport {
	r := dayReport{
		Date:     day.Date,
		Totals:   ledger.Totals(day),
		Progress: tracker.Progress(day),
	}
	for _, c := range ledger.Categories() {
		entries := day.Entries(c)
		if entries == nil {
			entries = []ledger.MealEntry{}
		}
		r.Categories = append(r.Categories, categoryReport{Category: c, Title: c.Title(), Entries: entries})
	}
	return r
}

func (r dayReport) markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Date)

	for _, c := range r.Categories {
		fmt.Fprintf(&b, "## %s\n\n", c.Title)
		if len(c.Entries) == 0 {
			b.WriteString("_No meals_\n\n")
			continue
		}
		b.WriteString("| ID | Meal | Weight (g) | kcal | Protein (g) | Carbs (g) | Fat (g) |\n")
		b.WriteString("|---:|---|---:|---:|---:|---:|---:|\n")
		for _, e := range c.Entries {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
				e.ID, tableCell(e.Name), amount(e.Weight),
				amount(e.Macros.Calories), amount(e.Macros.Protein),
				amount(e.Macros.Carbs), amount(e.Macros.Fat))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Totals\n\n")
	b.WriteString(progressTable(r.Progress))
	return b.String()
}

// tableCell escapes text for a markdown table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, `|`, `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func progressTable(progress []goals.Progress) string {
	var b strings.Builder
	b.WriteString("| Nutrient | Actual | Goal | Progress |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, p := range progress {
		goal, percent := "-", "-"
		if p.HasGoal() {
			goal = amount(p.Target) + " " + p.Nutrient.Unit()
			percent = fmt.Sprintf("%.0f%%", p.Percent)
		}
		fmt.Fprintf(&b, "| %s | %s %s | %s | %s |\n", p.Name, amount(p.Actual), p.Nutrient.Unit(), goal, percent)
	}
	return b.String()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMarkdown(cmd *cobra.Command, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// amount formats v with at most one decimal.
func amount(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
