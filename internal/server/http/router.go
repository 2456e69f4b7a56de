package httpserver

import "net/http"

// NewMux mounts the API under /api/ and the frontend assets from webDir.
func NewMux(h *Handler, webDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", h)
	RegisterStaticRoutes(mux, webDir)
	return mux
}
