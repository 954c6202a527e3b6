package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/irielink/internal/model"
	webembed "github.com/erazemk/irielink/web"
)

// pages lists every page template. Each is parsed together with the layout.
var pages = []string{
	"index.html",
	"full_list.html",
	"contact.html",
	"login.html",
	"dashboard.html",
	"not_found.html",
	"error.html",
}

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// itemFormData feeds the shared item form fields on the dashboard.
type itemFormData struct {
	Item       model.Item
	Categories []model.Category
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dollars": model.FormatCents,
		"lower":   strings.ToLower,
		"statusLabel": func(status string) string {
			switch status {
			case model.ItemStatusAvailable:
				return "Available"
			case model.ItemStatusClaimed:
				return "Claimed"
			case model.ItemStatusPurchased:
				return "Purchased"
			default:
				return status
			}
		},
		"itemForm": func(item model.Item, categories []model.Category) itemFormData {
			return itemFormData{Item: item, Categories: categories}
		},
	}
}

// LoadTemplates parses all page templates from the embedded file system.
func LoadTemplates() (*Templates, error) {
	tfs, err := webembed.TemplatesFS()
	if err != nil {
		return nil, err
	}
	return ParseTemplates(tfs)
}

// ParseTemplates parses the layout and every page from tfs.
func ParseTemplates(tfs fs.FS) (*Templates, error) {
	layout, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		body, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl, err := template.New(page).Funcs(FuncMap()).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		if tmpl, err = tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		ts.templates[page] = tmpl
	}
	return ts, nil
}

// Render writes the named page with the given status code.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Session Session
	Error   string
	Notice  string
}
