package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// TemplateName is the bundled template served by the sort page.
const TemplateName = "sorttemplate.htm"

// Context keys expected by the template.
const (
	KeySortType = "sort_type"
	KeyTrips    = "trips"
)

//go:embed templates/sorttemplate.htm
var templates embed.FS

var ErrNotCompiled = errors.New("template not compiled")

// RenderError wraps any failure to produce the page.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Context is the data handed to the template for one response.
type Context map[string]any

// NewContext builds the context for the active sort key and ordered trips.
func NewContext(sortKey string, trips []trip.Trip) Context {
	if trips == nil {
		trips = []trip.Trip{}
	}
	return Context{
		KeySortType: sortKey,
		KeyTrips:    trips,
	}
}

type Renderer struct {
	tmpl *template.Template
}

// New parses the bundled template.
func New() (*Renderer, error) {
	tmpl, err := template.New(TemplateName).
		Option("missingkey=error").
		ParseFS(templates, "templates/"+TemplateName)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", TemplateName, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template against ctx. A missing context key is an
// error rather than an empty value.
func (r *Renderer) Render(ctx Context) (string, error) {
	if r == nil || r.tmpl == nil {
		return "", &RenderError{Template: TemplateName, Err: ErrNotCompiled}
	}

	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, TemplateName, map[string]any(ctx)); err != nil {
		return "", &RenderError{Template: TemplateName, Err: err}
	}
	return b.String(), nil
}
