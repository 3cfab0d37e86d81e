package ledger

import (
	"encoding/json"
	"testing"
)

func TestCategoryCodes(t *testing.T) {
	tests := []struct {
		cat   Category
		label string
		code  string
		title string
	}{
		{Breakfast, "breakfast", "BREAKFAST", "Breakfast"},
		{SecondBreakfast, "secondBreakfast", "SECOND_BREAKFAST", "Second breakfast"},
		{Lunch, "lunch", "LUNCH", "Lunch"},
		{Dinner, "dinner", "DINNER", "Dinner"},
		{Snack, "snack", "SNACK", "Snack"},
		{Other, "other", "OTHER", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := tt.cat.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if got := tt.cat.Code(); got != tt.code {
				t.Errorf("Code() = %q, want %q", got, tt.code)
			}
			if got := tt.cat.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
			if got := FromWireCode(tt.code); got != tt.cat {
				t.Errorf("FromWireCode(%q) = %v, want %v", tt.code, got, tt.cat)
			}
		})
	}
}

func TestCodeTransformIsBijective(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		code := ToCode(c.Label())
		if seen[code] {
			t.Errorf("code %q produced twice", code)
		}
		seen[code] = true

		if got := FromCode(code); got != c.Label() {
			t.Errorf("FromCode(ToCode(%q)) = %q", c.Label(), got)
		}
		if got := ToCode(FromCode(code)); got != code {
			t.Errorf("ToCode(FromCode(%q)) = %q", code, got)
		}
	}
}

func TestToCode(t *testing.T) {
	tests := map[string]string{
		"secondBreakfast": "SECOND_BREAKFAST",
		"meal2Go":         "MEAL2_GO",
		"ABC":             "ABC",
		"lunch":           "LUNCH",
		"":                "",
	}
	for in, want := range tests {
		if got := ToCode(in); got != want {
			t.Errorf("ToCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromWireCode_Unknown(t *testing.T) {
	for _, code := range []string{
		"BRUNCH", "", "lunch_box", "SECOND-BREAKFAST",
		"lunch", "Lunch", "LUNCH_", "_DINNER", " SNACK",
		"second__breakfast", "SECOND__BREAKFAST", "secondBreakfast",
	} {
		if got := FromWireCode(code); got != Other {
			t.Errorf("FromWireCode(%q) = %v, want other", code, got)
		}
	}
}

func TestCategory_JSONKey(t *testing.T) {
	rec := EmptyDay("2024-05-01")
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded DayRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Meals) != len(Categories()) {
		t.Errorf("decoded %d categories, want %d", len(decoded.Meals), len(Categories()))
	}
	if _, ok := decoded.Meals[SecondBreakfast]; !ok {
		t.Error("secondBreakfast key should survive a round trip")
	}
}
