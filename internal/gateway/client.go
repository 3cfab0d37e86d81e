package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/logging"
	"github.com/Iron-Ham/intake/internal/nutrition"
)

const (
	// daysPath lists day entries and accepts new consumption records.
	daysPath = "api/calories/days"

	// historyPath serves per-day actuals and targets and accepts goal patches.
	historyPath = "api/statistics/intake-history"

	// mealsPath serves the meal catalog.
	mealsPath = "api/calories/meals"

	// defaultTimeout is the HTTP request timeout.
	defaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of a failed response body is kept for logging.
	maxErrorBody = 512
)

// Operation names used in SyncErrors and log entries.
const (
	OpListDays    = "list days"
	OpDeleteEntry = "delete entry"
	OpAppendEntry = "append entry"
	OpGetGoals    = "get goals"
	OpPatchGoals  = "patch goals"
	OpListHistory = "list history"
	OpListMeals   = "list meals"
)

// Client implements Gateway over the nutrition API's JSON endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

var _ Gateway = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used to report failed calls.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client rooted at baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.WithComponent("gateway")
	return c
}

// request describes a single API call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do performs req and returns the raw response body of a 2xx reply.
func (c *Client) do(ctx context.Context, token string, req request) ([]byte, error) {
	if token == "" {
		return nil, c.fail(errors.NewSyncError(req.op, errors.KindNoCredential, nil), "")
	}

	u := c.baseURL + "/" + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(errors.NewSyncError(req.op, errors.KindUnreachable, err), "")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(errors.NewSyncError(req.op, errors.KindUnreachable, err), "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, c.fail(errors.NewSyncError(req.op, errors.KindRequestFailed, nil).WithStatus(resp.StatusCode), snippet)
	}

	return data, nil
}

// malformed builds and logs a KindMalformed error for op.
func (c *Client) malformed(op string, cause error) error {
	return c.fail(errors.NewSyncError(op, errors.KindMalformed, cause), "")
}

func (c *Client) fail(err *errors.SyncError, body string) error {
	args := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Status != 0 {
		args = append(args, "status", err.Status)
	}
	if body != "" {
		args = append(args, "body", body)
	}
	if cause := err.Unwrap(); cause != nil && err.Kind != errors.KindRequestFailed {
		args = append(args, "error", cause.Error())
	}
	c.logger.Warn("remote call failed", args...)
	return err
}

// ListDays returns every day entry with its nested consumption records.
func (c *Client) ListDays(ctx context.Context, token string) ([]DayEntry, error) {
	data, err := c.do(ctx, token, request{op: OpListDays, method: http.MethodGet, path: daysPath})
	if err != nil {
		return nil, err
	}

	if !isJSONArray(data) {
		return nil, c.malformed(OpListDays, fmt.Errorf("expected a JSON array"))
	}

	var days []DayEntry
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, c.malformed(OpListDays, err)
	}
	for i, d := range days {
		if d.Date == "" {
			return nil, c.malformed(OpListDays, fmt.Errorf("day %d has no date", i))
		}
	}
	return days, nil
}

// DeleteMealEntry removes one consumption record from a day.
func (c *Client) DeleteMealEntry(ctx context.Context, token, date string, entryID int64) error {
	path := daysPath + "/" + url.PathEscape(date) + "/" + strconv.FormatInt(entryID, 10)
	_, err := c.do(ctx, token, request{op: OpDeleteEntry, method: http.MethodDelete, path: path})
	return err
}

// AppendMealEntry adds a consumption record to a day. categoryCode is the
// wire form of the meal category, e.g. "SECOND_BREAKFAST".
func (c *Client) AppendMealEntry(ctx context.Context, token, date string, mealID int64, categoryCode string, weight float64) error {
	_, err := c.do(ctx, token, request{
		op:     OpAppendEntry,
		method: http.MethodPost,
		path:   daysPath,
		body: appendRequest{
			Date:     date,
			MealID:   mealID,
			MealType: categoryCode,
			Weight:   weight,
		},
	})
	return err
}

// GetGoals returns the goal targets for date, read from the intake history.
// A date missing from the history has all-zero targets.
func (c *Client) GetGoals(ctx context.Context, token, date string) (nutrition.Macros, error) {
	history, err := c.listHistory(ctx, token, OpGetGoals)
	if err != nil {
		return nutrition.Macros{}, err
	}
	for _, h := range history {
		if h.Date == date {
			return h.Goal, nil
		}
	}
	return nutrition.Macros{}, nil
}

// PatchGoals updates the targets present in patch and leaves the rest alone.
func (c *Client) PatchGoals(ctx context.Context, token, date string, patch GoalPatch) error {
	_, err := c.do(ctx, token, request{
		op:     OpPatchGoals,
		method: http.MethodPatch,
		path:   historyPath,
		query:  url.Values{"date": []string{date}},
		body:   patch,
	})
	return err
}

// ListHistory returns per-day actuals alongside per-day targets, sorted by date.
func (c *Client) ListHistory(ctx context.Context, token string) ([]HistoryEntry, error) {
	return c.listHistory(ctx, token, OpListHistory)
}

// historyWire is one history row. Every numeric column may arrive as a
// string; unparsable or missing values read as zero.
type historyWire struct {
	Date         *string `json:"date"`
	Calories     lenient `json:"calories"`
	Protein      lenient `json:"protein"`
	Carbs        lenient `json:"carbs"`
	Fat          lenient `json:"fat"`
	CaloriesGoal lenient `json:"caloriesGoal"`
	ProteinGoal  lenient `json:"proteinGoal"`
	CarbsGoal    lenient `json:"carbsGoal"`
	FatGoal      lenient `json:"fatGoal"`
}

// lenient is a Number that never fails to decode.
type lenient float64

// UnmarshalJSON implements json.Unmarshaler.
func (l *lenient) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		*l = 0
		return nil
	}
	*l = lenient(n)
	return nil
}

func (c *Client) listHistory(ctx context.Context, token, op string) ([]HistoryEntry, error) {
	data, err := c.do(ctx, token, request{op: op, method: http.MethodGet, path: historyPath})
	if err != nil {
		return nil, err
	}

	rows, err := historyRows(data)
	if err != nil {
		return nil, c.malformed(op, err)
	}

	history := make([]HistoryEntry, 0, len(rows))
	for i, r := range rows {
		if r.Date == nil {
			return nil, c.malformed(op, fmt.Errorf("history row %d has no date", i))
		}
		history = append(history, HistoryEntry{
			Date: *r.Date,
			Actual: nutrition.Macros{
				Calories: float64(r.Calories),
				Protein:  float64(r.Protein),
				Carbs:    float64(r.Carbs),
				Fat:      float64(r.Fat),
			},
			Goal: nutrition.Macros{
				Calories: float64(r.CaloriesGoal),
				Protein:  float64(r.ProteinGoal),
				Carbs:    float64(r.CarbsGoal),
				Fat:      float64(r.FatGoal),
			},
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history, nil
}

// historyRows accepts either a bare array of rows or an object wrapping the
// rows under "history".
func historyRows(data []byte) ([]historyWire, error) {
	if !isJSONArray(data) {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		wrapped, err := jsonpath.Get("$.history", doc)
		if err != nil {
			return nil, fmt.Errorf("no history array: %w", err)
		}
		if _, ok := wrapped.([]any); !ok {
			return nil, fmt.Errorf("history is %T, not an array", wrapped)
		}
		if data, err = json.Marshal(wrapped); err != nil {
			return nil, err
		}
	}

	var rows []historyWire
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMeals returns the meal catalog in server order.
func (c *Client) ListMeals(ctx context.Context, token string) ([]Meal, error) {
	data, err := c.do(ctx, token, request{op: OpListMeals, method: http.MethodGet, path: mealsPath})
	if err != nil {
		return nil, err
	}

	if !isJSONArray(data) {
		return nil, c.malformed(OpListMeals, fmt.Errorf("expected a JSON array"))
	}

	var wire []mealWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, c.malformed(OpListMeals, err)
	}

	meals := make([]Meal, 0, len(wire))
	for _, w := range wire {
		m, err := w.toMeal()
		if err != nil {
			return nil, c.malformed(OpListMeals, err)
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func isJSONArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}
