// Package web holds the HTML templates and the echo renderer that serves them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// fragments render without the base layout.
var fragments = map[string]bool{
	"user_popup.html": true,
}

type page struct {
	tmpl  *template.Template
	entry string
}

// Renderer implements echo.Renderer. Every page is parsed together with the
// base layout and the shared partials so that pages cannot clobber each
// other's "content" block.
type Renderer struct {
	pages map[string]page
}

func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]page)}
	for _, name := range names {
		base := path.Base(name)
		if base == "base.html" || strings.HasPrefix(base, "_") {
			continue
		}

		tmpl := template.New(base).Funcs(funcs)
		entry := "base"
		if fragments[base] {
			tmpl, err = tmpl.ParseFS(templateFS, name)
			entry = base
		} else {
			tmpl, err = tmpl.ParseFS(templateFS, "templates/base.html", "templates/_*.html", name)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		r.pages[base] = page{tmpl: tmpl, entry: entry}
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	p, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return p.tmpl.ExecuteTemplate(w, p.entry, data)
}

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"datetime":   formatDateTime,
	"date":       formatDate,
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}
