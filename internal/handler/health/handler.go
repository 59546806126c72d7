package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/rafamelo/econochat/backend/internal/service/chat"
	"github.com/rafamelo/econochat/backend/pkg/utils"
)

// Handler serves the provider health probe.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the health handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the health route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

// handleHealth always answers 200; the body carries the tri-state status so
// monitoring can distinguish degraded from down.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.Health(r.Context()))
}
