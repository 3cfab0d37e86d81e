package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/intake/internal/config"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

// Basis selects what a reference profile's values are relative to.
type Basis int

const (
	// BasisPer100g treats reference values as per 100 grams.
	BasisPer100g Basis = iota
	// BasisReferenceWeight treats reference values as per the profile's own
	// declared weight.
	BasisReferenceWeight
)

var hundred = decimal.NewFromInt(100)

// ParseBasis maps a ledger.scaling config value to a Basis.
func ParseBasis(s string) (Basis, error) {
	switch s {
	case config.ScalingPer100g, "":
		return BasisPer100g, nil
	case config.ScalingPerReferenceWeight:
		return BasisReferenceWeight, nil
	default:
		return BasisPer100g, fmt.Errorf("unknown scaling %q", s)
	}
}

// String returns the config spelling of the basis.
func (b Basis) String() string {
	if b == BasisReferenceWeight {
		return config.ScalingPerReferenceWeight
	}
	return config.ScalingPer100g
}

// Scaler converts reference macro values into absolute values for a consumed
// weight. A Scaler applies exactly one Basis to every entry it sees.
type Scaler struct {
	basis Basis
}

// NewScaler returns a Scaler using basis.
func NewScaler(basis Basis) Scaler {
	return Scaler{basis: basis}
}

// Basis returns the scaler's convention.
func (s Scaler) Basis() Basis {
	return s.basis
}

// Scale returns ref × consumed / basis for every nutrient. referenceWeight is
// only consulted under BasisReferenceWeight; if it is not positive the result
// is all zeros.
func (s Scaler) Scale(ref nutrition.Macros, referenceWeight, consumed float64) nutrition.Macros {
	basis := hundred
	if s.basis == BasisReferenceWeight {
		if referenceWeight <= 0 {
			return nutrition.Macros{}
		}
		basis = decimal.NewFromFloat(referenceWeight)
	}

	ratio := decimal.NewFromFloat(consumed)
	var out nutrition.Macros
	for _, n := range nutrition.Nutrients() {
		v := decimal.NewFromFloat(ref.Get(n)).Mul(ratio).Div(basis)
		out = out.With(n, v.InexactFloat64())
	}
	return out
}
