// Package web embeds the HTML templates and static assets served by the
// registry.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static assets, rooted at the static directory.
func StaticFS() (fs.FS, error) {
	return sub("static")
}

// TemplatesFS returns the page templates, rooted at the templates directory.
func TemplatesFS() (fs.FS, error) {
	return sub("templates")
}

func sub(dir string) (fs.FS, error) {
	f, err := fs.Sub(content, dir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded %s: %w", dir, err)
	}
	return f, nil
}
