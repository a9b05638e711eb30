// Package render turns a validated configuration tree into the final
// multi-stage build-file text.
//
// The renderer consumes only the plain data tree produced by the
// schema package, never the typed entity. Missing keys are a template
// error rather than silent empty output, so the renderer doubles as a
// check that the tree handed over is complete.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/Dockerfile.tmpl
var templateFS embed.FS

// Renderer renders configuration trees into build-file text. Construct
// one with New and share it freely; rendering is stateless.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded build-file template.
func New() (*Renderer, error) {
	tmpl, err := template.New("Dockerfile.tmpl").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"cmdInstruction":  cmdInstruction,
			"runInstructions": runInstructions,
			"envInstruction":  envInstruction,
			"argInstructions": argInstructions,
			"extrasFlags":     extrasFlags,
		}).
		ParseFS(templateFS, "templates/Dockerfile.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing build-file template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the build-file text for a configuration tree.
func (r *Renderer) Render(tree map[string]any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, tree); err != nil {
		return "", fmt.Errorf("rendering build-file: %w", err)
	}
	return b.String(), nil
}
