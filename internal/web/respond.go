package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/erazemk/trgovina/internal/editor"
	"github.com/erazemk/trgovina/internal/notify"
)

// redirect carries the request's alerts over to target and redirects there.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if err := s.flash.Write(w, notify.StackFrom(r.Context()).Alerts()); err != nil {
		slog.Error("failed to write flash cookie", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// reload shows the request's alerts and navigates to target after the
// configured delay.
func (s *Server) reload(w http.ResponseWriter, r *http.Request, target string) {
	seconds := max(int(math.Ceil(s.reloadDelay.Seconds())), 1)
	w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", seconds, target))

	data := struct {
		PageData
		Target  string
		Seconds int
	}{
		PageData: s.page(r, "Updating", ""),
		Target:   target,
		Seconds:  seconds,
	}
	s.templates.Render(w, http.StatusOK, "reload.html", data)
}

// finish presents an operation that closed its modal.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, outcome editor.Outcome, target string) {
	if outcome == editor.Reload {
		s.reload(w, r, target)
		return
	}
	s.redirect(w, r, target)
}

// returnTo returns the page a form came from, read from its "return" field.
// Only local URLs under base are accepted; modal parameters are dropped.
func returnTo(r *http.Request, base string) string {
	u, err := url.Parse(r.FormValue("return"))
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path != base {
		return base
	}
	q := u.Query()
	for _, k := range modalParams {
		q.Del(k)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

var modalParams = []string{"modal", "sku", "id"}

// keepQuery returns the query of the page without modal parameters.
func keepQuery(u *url.URL) url.Values {
	q := u.Query()
	for _, k := range modalParams {
		q.Del(k)
	}
	return q
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]any{"success": false, "error": msg})
}
