// Package fakeapi is an in-memory implementation of the business REST API
// for tests. It keeps every record in memory, counts calls per route and
// can be told to fail a route.
package fakeapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/erazemk/trgovina/internal/model"
)

type failure struct {
	status  int
	message string
}

// Server holds the fake API state.
type Server struct {
	mu sync.Mutex

	items   []model.Item
	nextSKU int
	locked  map[string]bool

	transactions []model.Transaction
	nextTxID     int64

	assets      []model.Asset
	nextAssetID int64

	categories []model.CatalogEntry
	conditions []model.CatalogEntry

	overview model.Overview
	analyses map[string]model.Analysis

	failures map[string]failure
	calls    map[string]int
	bodies   map[string][]map[string]any
}

// New returns an empty fake API with a default catalog.
func New() *Server {
	return &Server{
		nextSKU:     1,
		nextTxID:    1,
		nextAssetID: 1,
		locked:      make(map[string]bool),
		categories: []model.CatalogEntry{
			{Name: "dresses"}, {Name: "tops"}, {Name: "outerwear"},
		},
		conditions: []model.CatalogEntry{
			{Name: model.ConditionNWT}, {Name: model.ConditionNWOT}, {Name: model.ConditionGood},
		},
		analyses: make(map[string]model.Analysis),
		failures: make(map[string]failure),
		calls:    make(map[string]int),
		bodies:   make(map[string][]map[string]any),
	}
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.track)

	inv := r.PathPrefix("/api/inventory").Subrouter()
	inv.HandleFunc("", s.listItems).Methods(http.MethodGet)
	inv.HandleFunc("", s.createItem).Methods(http.MethodPost)
	inv.HandleFunc("/search", s.searchItems).Methods(http.MethodPost)
	inv.HandleFunc("/summary", s.summary).Methods(http.MethodGet)
	inv.HandleFunc("/brands", s.brands).Methods(http.MethodGet)
	inv.HandleFunc("/filter-options", s.filterOptions).Methods(http.MethodGet)
	inv.HandleFunc("/check-edit-permissions/{sku}", s.checkEdit).Methods(http.MethodGet)
	inv.HandleFunc("/{sku}", s.getItem).Methods(http.MethodGet)
	inv.HandleFunc("/{sku}", s.updateItem).Methods(http.MethodPut)
	inv.HandleFunc("/{sku}", s.deleteItem).Methods(http.MethodDelete)
	inv.HandleFunc("/{sku}/sell", s.sellItem).Methods(http.MethodPost)

	r.HandleFunc("/api/categories-and-conditions", s.catalog).Methods(http.MethodGet)
	r.HandleFunc("/api/categories/inventory", s.addCategory).Methods(http.MethodPost)
	r.HandleFunc("/api/conditions", s.addCondition).Methods(http.MethodPost)

	r.HandleFunc("/api/transactions", s.listTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.createTransaction).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/summary", s.transactionSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.getTransaction).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.updateTransaction).Methods(http.MethodPut)
	r.HandleFunc("/api/transactions/{id:[0-9]+}", s.deleteTransaction).Methods(http.MethodDelete)

	r.HandleFunc("/api/assets", s.listAssets).Methods(http.MethodGet)
	r.HandleFunc("/api/assets", s.createAsset).Methods(http.MethodPost)
	r.HandleFunc("/api/assets/{id:[0-9]+}", s.getAsset).Methods(http.MethodGet)
	r.HandleFunc("/api/assets/{id:[0-9]+}", s.updateAsset).Methods(http.MethodPut)
	r.HandleFunc("/api/assets/{id:[0-9]+}", s.deleteAsset).Methods(http.MethodDelete)

	r.HandleFunc("/api/insights/health-score", s.healthScore).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/{section}", s.analysis).Methods(http.MethodGet)

	return r
}

// track counts calls per route and applies injected failures.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)

		s.mu.Lock()
		s.calls[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			if f.message == "" {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(f.status)
				w.Write([]byte("<html>upstream unavailable</html>"))
				return
			}
			jsonError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(r *http.Request) string {
	tpl := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if t, err := route.GetPathTemplate(); err == nil {
			tpl = t
		}
	}
	return r.Method + " " + tpl
}

// Fail makes every call to route answer with status. Routes are written
// as method and path template, e.g. "POST /api/inventory/{sku}/sell". An
// empty message makes the body non-JSON.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Bodies returns the decoded request bodies received by route.
func (s *Server) Bodies(route string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.bodies[route]...)
}

func (s *Server) record(r *http.Request, body map[string]any) {
	s.bodies[routeKey(r)] = append(s.bodies[routeKey(r)], body)
}
