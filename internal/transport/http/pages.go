package http

import (
	"net/http"
	"path/filepath"
)

// page отдаёт статическую HTML-страницу из web-каталога
func (h *Handler) page(name string) http.HandlerFunc {
	path := filepath.Join(h.WebDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

// static раздаёт css/js из web/static
func (h *Handler) static() http.Handler {
	fileServer := http.FileServer(http.Dir(filepath.Join(h.WebDir, "static")))
	return http.StripPrefix("/static/", fileServer)
}
