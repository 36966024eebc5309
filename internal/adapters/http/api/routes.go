package api

import (
	"net/http"
)

type routesResponse struct {
	Routes []string `json:"routes"`
}

// RoutesHandler lists the routes with a trained model.
type RoutesHandler struct {
	deps Dependencies
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(deps Dependencies) *RoutesHandler {
	return &RoutesHandler{deps: deps}
}

// HandleRoutes handles GET /routes requests.
func (h *RoutesHandler) HandleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ids, err := h.deps.ListRoutes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, routesResponse{Routes: ids})
}
