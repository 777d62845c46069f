package http

import (
	"io/fs"
	"net/http"
)

// ServeDashboard serves the embedded single-page dashboard.
func ServeDashboard(webFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(webFS, "index.html")
		if err != nil {
			http.Error(w, "Dashboard page not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Write(data)
	}
}

// ServeStatic serves any other embedded asset under /static.
func ServeStatic(webFS fs.FS) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(webFS)))
}
