//go:build !dev

package resources

import (
	"io/fs"
	"net/http"
)

// Handler serves the embedded static assets. Asset URLs are not
// fingerprinted, so browsers revalidate after a short time.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix("/static/", http.FileServerFS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		files.ServeHTTP(w, r)
	})
}
