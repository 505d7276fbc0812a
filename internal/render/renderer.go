package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"linernotes/internal/listing"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the listing templates. It is safe for concurrent use.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("render").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// RenderListing writes the count text, the card list and the empty state
func (r *Renderer) RenderListing(w io.Writer, view View) error {
	return r.templates.ExecuteTemplate(w, "listing", view)
}

// RenderPage writes the complete albums page
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	return r.templates.ExecuteTemplate(w, "page", page)
}

// RenderError writes the albums page in its load-failure state
func (r *Renderer) RenderError(w io.Writer, msg string) error {
	page := NewPage(ErrorView(msg), listing.NewViewState(), nil)
	return r.templates.ExecuteTemplate(w, "page", page)
}
