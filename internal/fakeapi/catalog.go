package fakeapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/erazemk/trgovina/internal/model"
)

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jsonResponse(w, http.StatusOK, map[string]any{
		"categories": s.categories,
		"conditions": s.conditions,
	})
}

func (s *Server) addCategory(w http.ResponseWriter, r *http.Request) {
	var entry model.CatalogEntry
	if err := s.decodeJSON(r, &entry); err != nil || strings.TrimSpace(entry.Name) == "" {
		jsonError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if containsEntry(s.categories, entry.Name) {
		jsonError(w, http.StatusBadRequest, "Category already exists")
		return
	}
	s.categories = append(s.categories, entry)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"categories": s.categories,
		"message":    "Category added successfully",
	})
}

func (s *Server) addCondition(w http.ResponseWriter, r *http.Request) {
	var entry model.CatalogEntry
	if err := s.decodeJSON(r, &entry); err != nil || strings.TrimSpace(entry.Name) == "" {
		jsonError(w, http.StatusBadRequest, "Condition name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if containsEntry(s.conditions, entry.Name) {
		jsonError(w, http.StatusBadRequest, "Condition already exists")
		return
	}
	s.conditions = append(s.conditions, entry)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"conditions": s.conditions,
		"message":    "Condition added successfully",
	})
}

func containsEntry(entries []model.CatalogEntry, name string) bool {
	return slices.ContainsFunc(entries, func(e model.CatalogEntry) bool {
		return strings.EqualFold(e.Name, name)
	})
}
