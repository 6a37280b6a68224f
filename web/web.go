// Package web bundles the HTML templates into the binary and exposes a
// configured view engine for the Fiber app.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

// Engine returns the HTML view engine backed by the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The subtree is embedded at build time; a failure here is a packaging bug.
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
