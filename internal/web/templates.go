// Package web holds the server-rendered templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded template. Pages are addressed by their
// {{ define }} name, not by file name.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
