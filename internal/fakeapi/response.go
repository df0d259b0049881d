package fakeapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// jsonResponse writes a success envelope merged with the given fields.
func jsonResponse(w http.ResponseWriter, status int, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// jsonError writes a failure envelope.
func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON decodes a JSON request body into target and records the raw
// body for Bodies.
func (s *Server) decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.mu.Lock()
	s.record(r, raw)
	s.mu.Unlock()

	return json.Unmarshal(data, target)
}
