// Package handler contains the HTTP handlers of the travel tracker.
//
// Handlers parse the form, call the service, and either render a page or
// redirect. They never talk to the database directly.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// page names, one per file in the template directory
const (
	pageIndex = "index"
	pageNew   = "new"
	pageError = "error"
)

// Pages holds one parsed template set per page.
//
// Every page file defines {{define "content"}}, and base.html renders it with
// {{template "content" .}}. Parsing two pages into one set would let the
// second "content" overwrite the first, so each page gets its own set.
type Pages struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewPages parses base.html together with each page file in templateDir.
// Templates are parsed once at startup and reused for every request.
func NewPages(templateDir string, logger *slog.Logger) (*Pages, error) {
	p := &Pages{
		templates: make(map[string]*template.Template),
		logger:    logger,
	}

	for _, name := range []string{pageIndex, pageNew, pageError} {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// Render executes the named page into a buffer and writes it with status.
//
// Buffering means a template error can still become a clean 500 instead of
// a half-written page with a 200 header already sent.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := p.templates[name]
	if !ok {
		p.logger.Error("unknown page", slog.String("page", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		p.logger.Error("failed to render template",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.Warn("failed to write response", slog.String("error", err.Error()))
	}
}
