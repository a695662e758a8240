// Package handler contains the HTTP handlers: they parse requests, call
// the service layer, and render templates or redirects. No business
// rules live here.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// pages are the templates the renderer knows about. Each is parsed
// together with base.html so it can fill the base's content block.
var pages = []string{"index.html", "register.html", "login.html", "dashboard.html"}

// Renderer holds the parsed templates so they're compiled once at startup
// and reused on every request.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{
		templates: templates,
		logger:    logger,
	}, nil
}

// Render executes a page template. The flash (if any) is popped off the
// request and merged into the template data as "Flash".
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	tmpl, ok := rn.templates[page]
	if !ok {
		rn.logger.Error("unknown template requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = make(map[string]any)
	}
	if _, exists := data["Flash"]; !exists {
		data["Flash"] = takeFlash(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
