package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Iron-Ham/intake/internal/nutrition"
)

// Number decodes from either a JSON number or a numeric JSON string.
// The API serializes some decimal columns as strings.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", s, err)
		}
		*n = Number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// DayEntry is one calendar date and the consumption records logged on it.
type DayEntry struct {
	Date     string    `json:"date"`
	DayMeals []DayMeal `json:"dayMeals"`
}

// DayMeal is a raw consumption record: a meal eaten in a given category
// with a given weight in grams.
type DayMeal struct {
	ID       int64       `json:"id"`
	Weight   Number      `json:"weight"`
	MealType string      `json:"mealType"`
	Meal     MealProfile `json:"meal"`
}

// MealProfile is the reference nutrition profile of the consumed meal.
// Weight is the profile's own declared weight; it is only meaningful when
// the ledger scales per reference weight.
type MealProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Calories Number `json:"calories"`
	Proteins Number `json:"proteins"`
	Carbs    Number `json:"carbs"`
	Fats     Number `json:"fats"`
	Weight   Number `json:"weight"`
}

// Macros returns the profile's reference values.
func (p MealProfile) Macros() nutrition.Macros {
	return nutrition.Macros{
		Calories: float64(p.Calories),
		Protein:  float64(p.Proteins),
		Carbs:    float64(p.Carbs),
		Fat:      float64(p.Fats),
	}
}

// Meal is a catalog meal that can be logged against a day.
type Meal struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Reference   nutrition.Macros `json:"reference"`
	Ingredients []Ingredient     `json:"ingredients,omitempty"`
}

// Ingredient is a catalog ingredient referenced by a meal.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// mealWire mirrors the catalog payload, where ingredients are an id -> name object.
type mealWire struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Calories    Number            `json:"calories"`
	Proteins    Number            `json:"proteins"`
	Carbs       Number            `json:"carbs"`
	Fats        Number            `json:"fats"`
	Ingredients map[string]string `json:"ingredients"`
}

func (w mealWire) toMeal() (Meal, error) {
	m := Meal{
		ID:   w.ID,
		Name: w.Name,
		Reference: nutrition.Macros{
			Calories: float64(w.Calories),
			Protein:  float64(w.Proteins),
			Carbs:    float64(w.Carbs),
			Fat:      float64(w.Fats),
		},
	}
	for key, name := range w.Ingredients {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return Meal{}, fmt.Errorf("ingredient id %q: %w", key, err)
		}
		m.Ingredients = append(m.Ingredients, Ingredient{ID: id, Name: name})
	}
	sort.Slice(m.Ingredients, func(i, j int) bool {
		return m.Ingredients[i].ID < m.Ingredients[j].ID
	})
	return m, nil
}

// HistoryEntry is one day of the intake history: what was eaten and what the
// targets were.
type HistoryEntry struct {
	Date   string
	Actual nutrition.Macros
	Goal   nutrition.Macros
}

// appendRequest is the body of the append-entry call.
type appendRequest struct {
	Date     string  `json:"date"`
	MealID   int64   `json:"mealId"`
	MealType string  `json:"mealType"`
	Weight   float64 `json:"weight"`
}

// GoalPatch is a partial update of a day's targets. Nil fields are omitted
// from the payload and therefore left unchanged remotely.
type GoalPatch struct {
	Calories *float64 `json:"caloriesGoal,omitempty"`
	Protein  *float64 `json:"proteinGoal,omitempty"`
	Carbs    *float64 `json:"carbsGoal,omitempty"`
	Fat      *float64 `json:"fatGoal,omitempty"`
}

// Set sets the target for n.
func (p *GoalPatch) Set(n nutrition.Nutrient, v float64) {
	switch n {
	case nutrition.Calories:
		p.Calories = &v
	case nutrition.Protein:
		p.Protein = &v
	case nutrition.Carbs:
		p.Carbs = &v
	case nutrition.Fat:
		p.Fat = &v
	}
}

// Get returns the target for n and whether it is present.
func (p GoalPatch) Get(n nutrition.Nutrient) (float64, bool) {
	var v *float64
	switch n {
	case nutrition.Calories:
		v = p.Calories
	case nutrition.Protein:
		v = p.Protein
	case nutrition.Carbs:
		v = p.Carbs
	case nutrition.Fat:
		v = p.Fat
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// IsEmpty reports whether the patch changes nothing.
func (p GoalPatch) IsEmpty() bool {
	return p.Calories == nil && p.Protein == nil && p.Carbs == nil && p.Fat == nil
}
