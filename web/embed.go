package web

import (
	"embed"
	"html/template"
	"io/fs"
)

// VerifyTemplate names the public verification page template.
const VerifyTemplate = "verify.html"

// templateFS embeds the server-rendered pages into the Go binary.
//
//go:embed templates/*.html
var templateFS embed.FS

// FS returns the embedded filesystem rooted at the templates directory.
func FS() (fs.FS, error) {
	return fs.Sub(templateFS, "templates")
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
