// Package render turns page payloads into HTML documents.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

// Template identifiers.
const (
	ExampleForm = "example_app/example-form.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages maps each template identifier to its file; every page is rendered
// inside templates/base.html.
var pages = map[string]string{
	ExampleForm: "templates/example-form.html",
}

// Renderer renders pages parsed once at construction.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page template.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for name, file := range pages {
		t, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render writes the page name filled with data to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "base.html", data)
}
