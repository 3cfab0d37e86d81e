// Package nutrition defines the four tracked macronutrients and the value
// type shared by ledger entries, daily totals and goal targets.
package nutrition

import "fmt"

// Nutrient identifies one of the tracked macronutrients.
type Nutrient int

const (
	Calories Nutrient = iota
	Protein
	Carbs
	Fat
)

// Nutrients returns the tracked nutrients in display order.
func Nutrients() []Nutrient {
	return []Nutrient{Calories, Protein, Carbs, Fat}
}

// String returns the lower-case key used in wire payloads and CLI flags.
func (n Nutrient) String() string {
	switch n {
	case Calories:
		return "calories"
	case Protein:
		return "protein"
	case Carbs:
		return "carbs"
	case Fat:
		return "fat"
	default:
		return fmt.Sprintf("nutrient(%d)", int(n))
	}
}

// Unit returns the display unit for the nutrient.
func (n Nutrient) Unit() string {
	if n == Calories {
		return "kcal"
	}
	return "g"
}

// Macros holds one value per tracked nutrient. Depending on context it is an
// entry's absolute intake, a day's total, or a day's targets.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Get returns the value for n.
func (m Macros) Get(n Nutrient) float64 {
	switch n {
	case Calories:
		return m.Calories
	case Protein:
		return m.Protein
	case Carbs:
		return m.Carbs
	case Fat:
		return m.Fat
	default:
		return 0
	}
}

// With returns a copy of m with n set to v.
func (m Macros) With(n Nutrient, v float64) Macros {
	switch n {
	case Calories:
		m.Calories = v
	case Protein:
		m.Protein = v
	case Carbs:
		m.Carbs = v
	case Fat:
		m.Fat = v
	}
	return m
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// IsZero reports whether every value is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}
