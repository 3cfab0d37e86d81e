// Package testutil provides a fake nutrition API for intake tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/intake/internal/nutrition"
)

// DefaultToken is the bearer token the fake API accepts unless overridden.
const DefaultToken = "test-token"

// CatalogMeal is a meal the fake API knows about. Reference values are per
// Weight grams; Weight defaults to 100.
type CatalogMeal struct {
	ID          int64
	Name        string
	Reference   nutrition.Macros
	Weight      float64
	Ingredients map[int64]string
}

// Record is one consumption record stored by the fake API.
type Record struct {
	ID       int64
	MealType string
	Weight   float64
	MealID   int64
}

// Request is a request received by the fake API.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// FakeAPI is an in-memory implementation of the nutrition API served over
// httptest. It is safe for concurrent use.
type FakeAPI struct {
	*httptest.Server

	// Token is the accepted bearer token.
	Token string

	// HistoryWrapped makes intake-history reply with {"history": [...]}
	// instead of a bare array.
	HistoryWrapped bool

	mu       sync.Mutex
	meals    map[int64]CatalogMeal
	days     map[string][]Record
	goals    map[string]nutrition.Macros
	nextID   int64
	failures map[string]int
	requests []Request
}

// NewFakeAPI starts a FakeAPI that is closed when the test completes.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	api := &FakeAPI{
		Token:    DefaultToken,
		meals:    make(map[int64]CatalogMeal),
		days:     make(map[string][]Record),
		goals:    make(map[string]nutrition.Macros),
		nextID:   1,
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/calories/days", api.listDays)
	mux.HandleFunc("POST /api/calories/days", api.appendRecord)
	mux.HandleFunc("DELETE /api/calories/days/{date}/{id}", api.deleteRecord)
	mux.HandleFunc("GET /api/statistics/intake-history", api.listHistory)
	mux.HandleFunc("PATCH /api/statistics/intake-history", api.patchGoals)
	mux.HandleFunc("GET /api/calories/meals", api.listMeals)

	api.Server = httptest.NewServer(api.middleware(mux))
	t.Cleanup(api.Close)
	return api
}

// AddMeal registers a catalog meal.
func (a *FakeAPI) AddMeal(m CatalogMeal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m.Weight == 0 {
		m.Weight = 100
	}
	a.meals[m.ID] = m
}

// AddRecord stores a consumption record for date and returns its id. The date
// is created if needed.
func (a *FakeAPI) AddRecord(date, mealType string, mealID int64, weight float64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addRecordLocked(date, Record{MealType: mealType, MealID: mealID, Weight: weight})
}

func (a *FakeAPI) addRecordLocked(date string, r Record) int64 {
	r.ID = a.nextID
	a.nextID++
	a.days[date] = append(a.days[date], r)
	return r.ID
}

// AddDay makes date appear in the day list even with no records.
func (a *FakeAPI) AddDay(date string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.days[date]; !ok {
		a.days[date] = []Record{}
	}
}

// Records returns the records stored for date.
func (a *FakeAPI) Records(date string) []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Record(nil), a.days[date]...)
}

// SetGoals stores the goal targets for date.
func (a *FakeAPI) SetGoals(date string, goals nutrition.Macros) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.goals[date] = goals
}

// Goals returns the goal targets stored for date.
func (a *FakeAPI) Goals(date string) nutrition.Macros {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.goals[date]
}

// FailNext makes the next request matching method and path answer with status.
// path is the URL path without query, e.g. "/api/calories/days".
func (a *FakeAPI) FailNext(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+path] = status
}

// Requests returns every request received so far.
func (a *FakeAPI) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// RequestCount returns how many requests matched method and path.
func (a *FakeAPI) RequestCount(method, path string) int {
	n := 0
	for _, r := range a.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (a *FakeAPI) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
		})
		key := r.Method + " " + r.URL.Path
		status, fail := a.failures[key]
		delete(a.failures, key)
		token := a.Token
		a.mu.Unlock()

		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *FakeAPI) sortedDates() []string {
	dates := make([]string, 0, len(a.days))
	for d := range a.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (a *FakeAPI) mealJSON(id int64) map[string]any {
	m := a.meals[id]
	return map[string]any{
		"id":       m.ID,
		"name":     m.Name,
		"calories": m.Reference.Calories,
		"proteins": m.Reference.Protein,
		"carbs":    m.Reference.Carbs,
		"fats":     m.Reference.Fat,
		"weight":   m.Weight,
	}
}

func (a *FakeAPI) listDays(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	out := make([]map[string]any, 0, len(a.days))
	for _, date := range a.sortedDates() {
		dayMeals := make([]map[string]any, 0, len(a.days[date]))
		for _, rec := range a.days[date] {
			dayMeals = append(dayMeals, map[string]any{
				"id":       rec.ID,
				"weight":   rec.Weight,
				"mealType": rec.MealType,
				"meal":     a.mealJSON(rec.MealID),
			})
		}
		out = append(out, map[string]any{"date": date, "dayMeals": dayMeals})
	}
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (a *FakeAPI) appendRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string  `json:"date"`
		MealID   int64   `json:"mealId"`
		MealType string  `json:"mealType"`
		Weight   float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.meals[req.MealID]; !ok || req.Date == "" || req.Weight <= 0 {
		http.Error(w, "invalid record", http.StatusBadRequest)
		return
	}
	id := a.addRecordLocked(req.Date, Record{MealType: req.MealType, MealID: req.MealID, Weight: req.Weight})
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (a *FakeAPI) deleteRecord(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	records := a.days[date]
	for i, rec := range records {
		if rec.ID == id {
			a.days[date] = append(records[:i:i], records[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (a *FakeAPI) listHistory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	dateSet := make(map[string]struct{})
	for d := range a.days {
		dateSet[d] = struct{}{}
	}
	for d := range a.goals {
		dateSet[d] = struct{}{}
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]map[string]any, 0, len(dates))
	for _, date := range dates {
		var actual nutrition.Macros
		for _, rec := range a.days[date] {
			m := a.meals[rec.MealID]
			if m.Weight <= 0 {
				continue
			}
			for _, n := range nutrition.Nutrients() {
				actual = actual.With(n, actual.Get(n)+m.Reference.Get(n)*rec.Weight/m.Weight)
			}
		}
		g := a.goals[date]
		rows = append(rows, map[string]any{
			"date":         date,
			"calories":     actual.Calories,
			"protein":      actual.Protein,
			"carbs":        actual.Carbs,
			"fat":          actual.Fat,
			"caloriesGoal": g.Calories,
			"proteinGoal":  g.Protein,
			"carbsGoal":    g.Carbs,
			"fatGoal":      g.Fat,
		})
	}
	wrapped := a.HistoryWrapped
	a.mu.Unlock()

	if wrapped {
		writeJSON(w, http.StatusOK, map[string]any{"history": rows})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *FakeAPI) patchGoals(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing date", http.StatusBadRequest)
		return
	}
	var patch map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	g := a.goals[date]
	for _, n := range nutrition.Nutrients() {
		if v, ok := patch[n.String()+"Goal"]; ok {
			g = g.With(n, v)
		}
	}
	a.goals[date] = g
	w.WriteHeader(http.StatusNoContent)
}

func (a *FakeAPI) listMeals(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	ids := make([]int64, 0, len(a.meals))
	for id := range a.meals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		m := a.meals[id]
		ingredients := make(map[string]string, len(m.Ingredients))
		for iid, name := range m.Ingredients {
			ingredients[strconv.FormatInt(iid, 10)] = name
		}
		entry := a.mealJSON(id)
		delete(entry, "weight")
		entry["ingredients"] = ingredients
		out = append(out, entry)
	}
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
