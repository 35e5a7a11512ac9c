package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/apierror"
	"github.com/gatherly/server/internal/images"
)

type ImagesHandler struct {
	resolver *images.Resolver
	env      string
}

func NewImagesHandler(resolver *images.Resolver, env string) *ImagesHandler {
	return &ImagesHandler{resolver: resolver, env: env}
}

// Serve streams a static event image. Invalid path components get the same
// 404 a missing file would, so the route leaks nothing about the layout.
func (h *ImagesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolver.Resolve(r.PathValue("eventId"), r.PathValue("filename"))
	if err != nil {
		apierror.Write(w, r, http.StatusNotFound, "Image not found", err, h.env)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	http.ServeFile(w, r, path)
}
