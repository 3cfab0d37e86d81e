// Package ledger turns the remote list of day entries into per-day,
// per-category records with absolute macro values, and caches them by date.
package ledger

import (
	"fmt"
	"strings"
	"unicode"
)

// Category is one of the six fixed meal buckets of a day.
type Category int

const (
	Breakfast Category = iota
	SecondBreakfast
	Lunch
	Dinner
	Snack
	Other
)

var categoryLabels = [...]string{
	Breakfast:       "breakfast",
	SecondBreakfast: "secondBreakfast",
	Lunch:           "lunch",
	Dinner:          "dinner",
	Snack:           "snack",
	Other:           "other",
}

// Categories returns the six categories in display order.
func Categories() []Category {
	return []Category{Breakfast, SecondBreakfast, Lunch, Dinner, Snack, Other}
}

// Label returns the lower-camel-case label, e.g. "secondBreakfast".
func (c Category) Label() string {
	if c < Breakfast || c > Other {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryLabels[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Label()
}

// Code returns the wire code, e.g. "SECOND_BREAKFAST".
func (c Category) Code() string {
	return ToCode(c.Label())
}

// Title returns a human-readable heading, e.g. "Second breakfast".
func (c Category) Title() string {
	code := strings.ToLower(strings.ReplaceAll(c.Code(), "_", " "))
	if code == "" {
		return code
	}
	return strings.ToUpper(code[:1]) + code[1:]
}

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	if c < Breakfast || c > Other {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.Label()), nil
}

// UnmarshalText decodes a label.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseLabel(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}

// ParseLabel returns the category with the given label.
func ParseLabel(label string) (Category, bool) {
	for _, c := range Categories() {
		if c.Label() == label {
			return c, true
		}
	}
	return Other, false
}

// FromWireCode returns the category whose wire code equals code exactly.
// Any other code, including case or underscore variants, maps to Other.
func FromWireCode(code string) Category {
	for _, c := range Categories() {
		if c.Code() == code {
			return c
		}
	}
	return Other
}

// ToCode converts a lower-camel-case label to its wire code: an underscore is
// inserted before every upper-case letter that follows a lower-case letter or
// digit, then the result is upper-cased.
func ToCode(label string) string {
	var b strings.Builder
	b.Grow(len(label) + 4)

	var prev rune
	for i, r := range label {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToUpper(b.String())
}

// FromCode converts a wire code back to its lower-camel-case label. It is
// the inverse of ToCode for canonical codes only; use FromWireCode to
// classify codes received from the server.
func FromCode(code string) string {
	parts := strings.Split(strings.ToLower(code), "_")

	var b strings.Builder
	b.Grow(len(code))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		b.WriteString(p)
	}
	return b.String()
}
