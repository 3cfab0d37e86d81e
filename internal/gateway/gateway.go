// Package gateway talks to the remote nutrition API on behalf of the ledger,
// the goal tracker and the edit sessions.
//
// Every operation takes the caller's bearer token. An empty token
// short-circuits locally with a KindNoCredential SyncError; no request is
// issued. Every other failure is reported as a *errors.SyncError of kind
// Unreachable, RequestFailed or Malformed and is logged once, here.
package gateway

import (
	"context"

	"github.com/Iron-Ham/intake/internal/nutrition"
)

// Gateway is the set of remote operations the intake workspace depends on.
type Gateway interface {
	// ListDays returns every day entry with its nested consumption records.
	ListDays(ctx context.Context, token string) ([]DayEntry, error)

	// DeleteMealEntry removes one consumption record from a day.
	DeleteMealEntry(ctx context.Context, token, date string, entryID int64) error

	// AppendMealEntry adds a consumption record to a day.
	AppendMealEntry(ctx context.Context, token, date string, mealID int64, categoryCode string, weight float64) error

	// GetGoals returns the goal targets for date. Absent targets are zero.
	GetGoals(ctx context.Context, token, date string) (nutrition.Macros, error)

	// PatchGoals updates the targets present in patch and leaves the rest alone.
	PatchGoals(ctx context.Context, token, date string, patch GoalPatch) error

	// ListHistory returns per-day actuals alongside per-day targets.
	ListHistory(ctx context.Context, token string) ([]HistoryEntry, error)

	// ListMeals returns the meal catalog.
	ListMeals(ctx context.Context, token string) ([]Meal, error)
}
