package ledger

import (
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// MealEntry is one consumed meal with its absolute macro values.
type MealEntry struct {
	ID     int64            `json:"id"`
	MealID int64            `json:"mealId"`
	Name   string           `json:"name"`
	Weight float64          `json:"weight"`
	Macros nutrition.Macros `json:"macros"`
}

// DayRecord is the categorized ledger for one calendar date. Every category
// is always present, possibly with no entries.
type DayRecord struct {
	Date  string                   `json:"date"`
	Meals map[Category][]MealEntry `json:"meals"`
}

// EmptyDay returns a DayRecord for date with all six categories empty.
func EmptyDay(date string) DayRecord {
	meals := make(map[Category][]MealEntry, len(categoryLabels))
	for _, c := range Categories() {
		meals[c] = []MealEntry{}
	}
	return DayRecord{Date: date, Meals: meals}
}

// Entries returns the entries of category c in source order.
func (d DayRecord) Entries(c Category) []MealEntry {
	return d.Meals[c]
}

// Len returns the number of entries across all categories.
func (d DayRecord) Len() int {
	n := 0
	for _, entries := range d.Meals {
		n += len(entries)
	}
	return n
}

// Find returns the entry with id and the category holding it.
func (d DayRecord) Find(id int64) (MealEntry, Category, bool) {
	for _, c := range Categories() {
		for _, e := range d.Meals[c] {
			if e.ID == id {
				return e, c, true
			}
		}
	}
	return MealEntry{}, Other, false
}

// clone returns a deep copy so callers cannot mutate the cache.
func (d DayRecord) clone() DayRecord {
	out := DayRecord{Date: d.Date, Meals: make(map[Category][]MealEntry, len(d.Meals))}
	for c, entries := range d.Meals {
		out.Meals[c] = append([]MealEntry{}, entries...)
	}
	return out
}

// Group classifies the raw records of one day entry into categories and scales
// each record. Records keep their source order within a category and unknown
// category codes land in Other.
func Group(day gateway.DayEntry, s Scaler) DayRecord {
	rec := EmptyDay(day.Date)
	for _, raw := range day.DayMeals {
		c := FromWireCode(raw.MealType)
		rec.Meals[c] = append(rec.Meals[c], scaleEntry(raw, s))
	}
	return rec
}

func scaleEntry(raw gateway.DayMeal, s Scaler) MealEntry {
	weight := float64(raw.Weight)
	return MealEntry{
		ID:     raw.ID,
		MealID: raw.Meal.ID,
		Name:   raw.Meal.Name,
		Weight: weight,
		Macros: s.Scale(raw.Meal.Macros(), float64(raw.Meal.Weight), weight),
	}
}

// Totals sums every entry's macros across all categories of day.
func Totals(day DayRecord) nutrition.Macros {
	var total nutrition.Macros
	for _, c := range Categories() {
		for _, e := range day.Meals[c] {
			total = total.Add(e.Macros)
		}
	}
	return total
}
