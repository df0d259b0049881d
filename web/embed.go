// Package web embeds the page templates and static assets served by the
// front end.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed templates/*.html
	templateFiles embed.FS

	//go:embed static
	staticFiles embed.FS
)

// TemplatesFS returns the layout, partial and page templates.
func TemplatesFS() fs.FS {
	return sub(templateFiles, "templates")
}

// StaticFS returns the stylesheet and scripts.
func StaticFS() fs.FS {
	return sub(staticFiles, "static")
}

// StaticHandler serves the assets under prefix. Assets may be cached for
// an hour.
func StaticHandler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.FS(StaticFS())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// sub panics on a bad directory name, which only a broken embed directive
// can produce.
func sub(fsys embed.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return s
}
