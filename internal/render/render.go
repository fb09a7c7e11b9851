// Package render renders the HTML frontend and archival report pages from
// Jinja2-syntax templates embedded in the binary.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// Template names served by the engine.
const (
	IndexTemplate  = "index.html.tpl"
	ReportTemplate = "report.html.tpl"
)

// Engine renders embedded pongo2 templates. Parsed templates are cached after
// first use. Safe for concurrent use by multiple goroutines.
type Engine struct {
	set *pongo2.TemplateSet

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// New creates an Engine backed by the embedded template files.
func New() (*Engine, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: open embedded templates: %w", err)
	}
	return &Engine{
		set:       pongo2.NewSet("riskapi", pongo2.NewFSLoader(sub)),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// Render executes the named template with the given context and returns the
// resulting HTML.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("render: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}
