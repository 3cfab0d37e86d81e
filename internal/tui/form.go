package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// addForm collects the candidate of an AddingMeal session. submitted is set
// once a confirm has been dispatched and cleared if the session stays open.
type addForm struct {
	category  ledger.Category
	mealIndex int
	weight    textinput.Model
	submitted bool
}

func newAddForm(category ledger.Category) *addForm {
	ti := textinput.New()
	ti.Placeholder = "grams"
	ti.CharLimit = 8
	ti.Width = 10
	ti.Focus()
	return &addForm{category: category, weight: ti}
}

// weightValue parses the weight input. Blank reads as zero.
func (f *addForm) weightValue() (float64, error) {
	return parseAmount("weight", f.weight.Value())
}

// goalsForm collects the drafts of an EditingGoals session, one input per
// nutrient in display order.
type goalsForm struct {
	inputs    []textinput.Model
	focus     int
	submitted bool
}

func newGoalsForm(current nutrition.Macros) *goalsForm {
	f := &goalsForm{}
	for i, n := range nutrition.Nutrients() {
		ti := textinput.New()
		ti.CharLimit = 8
		ti.Width = 10
		ti.Placeholder = formatAmount(current.Get(n))
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// move shifts focus by delta, wrapping around.
func (f *goalsForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// drafts parses every input. Blank inputs read as zero, meaning unchanged.
func (f *goalsForm) drafts() (nutrition.Macros, error) {
	var d nutrition.Macros
	for i, n := range nutrition.Nutrients() {
		v, err := parseAmount(n.String(), f.inputs[i].Value())
		if err != nil {
			return nutrition.Macros{}, err
		}
		d = d.With(n, v)
	}
	return d, nil
}

func parseAmount(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewValidationError(field + " must be a number").
			WithField(field).
			WithValue(s).
			WithCause(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewValidationError(field + " must be a finite number").
			WithField(field).
			WithValue(s)
	}
	if v < 0 {
		return 0, errors.NewValidationError(field + " cannot be negative").
			WithField(field).
			WithValue(v)
	}
	return v, nil
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
