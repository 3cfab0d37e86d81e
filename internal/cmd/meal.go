package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/ledger"
)

func newMealCmd() *cobra.Command {
	mealCmd := &cobra.Command{
		Use:   "meal",
		Short: "Add meals to the ledger",
	}
	mealCmd.AddCommand(newMealAddCmd())
	return mealCmd
}

func newMealAddCmd() *cobra.Command {
	var (
		date     string
		category string
		mealID   int64
		weight   float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog meal to a day",
		Long: `Add a meal from the catalog to one category of a day.

Example:
  intake meal add --category secondBreakfast --meal 7 --weight 120

Categories: ` + strings.Join(categoryLabels(), ", ") + `
Run 'intake meals' to list catalog meal ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := ledger.ParseLabel(category)
			if !ok {
				return errors.NewValidationError("unknown category: " + category).
					WithField("category").
					WithValue(category)
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

			if err := a.coordinator.StartAdd(c); err != nil {
				return err
			}
			if err := a.coordinator.SetCandidate(mealID, weight); err != nil {
				return err
			}
			if err := a.coordinator.ConfirmAdd(cmd.Context(), a.token, day); err != nil {
				_ = a.coordinator.Cancel()
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added meal %d (%sg) to %s on %s\n", mealID, amount(weight), c.Title(), day)
			record := a.store.GetDay(day)
			fmt.Fprintf(out, "%s now has %d entries, day total %s kcal\n",
				c.Title(), len(record.Entries(c)), amount(ledger.Totals(record).Calories))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to add to, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "meal category, e.g. lunch or secondBreakfast")
	cmd.Flags().Int64Var(&mealID, "meal", 0, "catalog meal id")
	cmd.Flags().Float64Var(&weight, "weight", 0, "consumed weight in grams")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newMealsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "meals",
		Short: "List the meal catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			meals, err := a.gateway.ListMeals(cmd.Context(), a.token)
			if err != nil {
				return a.notify(err)
			}
			if asJSON {
				return writeJSON(cmd, meals)
			}

			out := cmd.OutOrStdout()
			if len(meals) == 0 {
				fmt.Fprintln(out, "No meals in the catalog")
				return nil
			}
			fmt.Fprintf(out, "%-6s %-28s %8s %8s %8s %8s\n", "ID", "NAME", "KCAL", "PROTEIN", "CARBS", "FAT")
			fmt.Fprintln(out, strings.Repeat("─", 71))
			for _, m := range meals {
				fmt.Fprintf(out, "%-6d %-28s %8s %8s %8s %8s\n",
					m.ID, m.Name,
					amount(m.Reference.Calories), amount(m.Reference.Protein),
					amount(m.Reference.Carbs), amount(m.Reference.Fat))
				if len(m.Ingredients) > 0 {
					names := make([]string, 0, len(m.Ingredients))
					for _, ing := range m.Ingredients {
						names = append(names, ing.Name)
					}
					fmt.Fprintf(out, "       %s\n", strings.Join(names, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the catalog as JSON")
	return cmd
}

func categoryLabels() []string {
	labels := make([]string, 0, len(ledger.Categories()))
	for _, c := range ledger.Categories() {
		labels = append(labels, c.Label())
	}
	return labels
}
