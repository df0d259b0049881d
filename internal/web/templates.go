package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/erazemk/trgovina/internal/editor"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
	webembed "github.com/erazemk/trgovina/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	funcs := editor.FuncMap()
	funcs["add"] = func(a, b int) int { return a + b }
	funcs["sub"] = func(a, b int) int { return a - b }
	funcs["pathEscape"] = url.PathEscape
	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	funcs["dict"] = func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	}
	funcs["names"] = func(entries []model.CatalogEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Name
		}
		return out
	}
	funcs["alertIcon"] = func(kind notify.Kind) string {
		switch kind {
		case notify.Success:
			return "✓"
		case notify.Danger:
			return "!"
		case notify.Warning:
			return "⚠"
		default:
			return "i"
		}
	}
	funcs["scoreClass"] = func(score float64) string {
		switch {
		case score >= 80:
			return "score-excellent"
		case score >= 60:
			return "score-good"
		case score >= 40:
			return "score-fair"
		default:
			return "score-poor"
		}
	}
	return funcs
}

var pages = []string{
	"dashboard.html",
	"inventory.html",
	"financial.html",
	"assets.html",
	"insights.html",
	"reload.html",
	"unavailable.html",
	"error.html",
}

// LoadTemplates parses all page templates with the layout and partials.
func LoadTemplates() (*Templates, error) {
	return loadTemplates(webembed.TemplatesFS())
}

func loadTemplates(tfs fs.FS) (*Templates, error) {
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	partialBytes, err := fs.ReadFile(tfs, "partials.html")
	if err != nil {
		return nil, fmt.Errorf("reading partials template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		for _, src := range []struct {
			name string
			body []byte
		}{{"layout", layoutBytes}, {"partials", partialBytes}, {page, pageBytes}} {
			if tmpl, err = tmpl.Parse(string(src.body)); err != nil {
				return nil, fmt.Errorf("parsing %s for %s: %w", src.name, page, err)
			}
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a page with the given status. The page is executed into a
// buffer first so a template failure still yields a clean 500.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title  string
	Active string
	Alerts []notify.Alert
}
