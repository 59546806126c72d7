package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafamelo/econochat/backend/internal/model/persona"
	"github.com/rafamelo/econochat/backend/pkg/utils"
)

// Handler serves the static persona and target-profile listings.
type Handler struct {
	catalog persona.Store
}

// New creates the persona handler.
func New(catalog persona.Store) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes mounts the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/target-profiles", h.handleListTargetProfiles)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.ListPersonas())
}

func (h *Handler) handleListTargetProfiles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.ListTargetProfiles())
}
