package fakeapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/erazemk/trgovina/internal/model"
)

// SetOverview sets the health score payload.
func (s *Server) SetOverview(o model.Overview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overview = o
}

// SetAnalysis sets the payload of one analysis section, e.g.
// "trend-analysis".
func (s *Server) SetAnalysis(section string, a model.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[section] = a
}

func (s *Server) healthScore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jsonResponse(w, http.StatusOK, map[string]any{
		"health_score":   s.overview.HealthScore,
		"quick_insights": s.overview.QuickInsights,
	})
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]
	switch section {
	case "inventory-analysis", "sales-analytics", "profit-optimization", "trend-analysis":
	default:
		jsonError(w, http.StatusNotFound, "Unknown insights section")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := make(map[string]any, len(s.analyses[section]))
	for k, v := range s.analyses[section] {
		fields[k] = v
	}
	jsonResponse(w, http.StatusOK, fields)
}
