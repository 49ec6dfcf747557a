// Package resources provides the static assets of the editor and of
// rendered pages.
package resources

import (
	"embed"
	"io/fs"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

//go:embed static/*
var staticFS embed.FS

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return "/static/" + name
}

// Asset returns the embedded content of a static asset. Rendered pages
// inline their stylesheet and animation script with it.
func Asset(name string) ([]byte, error) {
	return fs.ReadFile(staticFS, "static/"+name)
}
