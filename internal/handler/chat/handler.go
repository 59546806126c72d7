package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	chatService "github.com/rafamelo/econochat/backend/internal/service/chat"
	"github.com/rafamelo/econochat/backend/internal/service/provider"
	"github.com/rafamelo/econochat/backend/pkg/utils"
)

const (
	maxSessionIDLength = 100
	maxMessageLength   = 4000
)

// Handler serves the reactive and proactive chat endpoints.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/proactive", h.handleProactive)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID     string `json:"session_id"`
		Message       string `json:"message"`
		ModelOverride string `json:"model_override"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	// Limits are in characters, not bytes; accented text near the cap
	// must still pass.
	details := map[string]string{}
	if payload.SessionID == "" || utf8.RuneCountInString(payload.SessionID) > maxSessionIDLength {
		details["session_id"] = "must be between 1 and 100 characters"
	}
	if payload.Message == "" || utf8.RuneCountInString(payload.Message) > maxMessageLength {
		details["message"] = "must be between 1 and 4000 characters"
	}
	if len(details) > 0 {
		utils.RespondValidationError(w, details)
		return
	}

	reply, err := h.chatSvc.Chat(r.Context(), chatService.ChatRequest{
		SessionID:     payload.SessionID,
		Message:       payload.Message,
		ModelOverride: payload.ModelOverride,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleProactive(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID       string `json:"persona_id"`
		TargetProfileID string `json:"target_profile_id"`
		ModelOverride   string `json:"model_override"`
		PersonaOverride string `json:"persona_override"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	if payload.PersonaID == "" {
		utils.RespondValidationError(w, map[string]string{"persona_id": "is required"})
		return
	}

	reply, err := h.chatSvc.Proactive(r.Context(), chatService.ProactiveRequest{
		PersonaID:       payload.PersonaID,
		TargetProfileID: payload.TargetProfileID,
		ModelOverride:   payload.ModelOverride,
		PersonaOverride: payload.PersonaOverride,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrPersonaNotFound):
		utils.RespondError(w, http.StatusNotFound, "persona_not_found", err.Error())
	case errors.Is(err, chatService.ErrProfileNotFound):
		utils.RespondError(w, http.StatusNotFound, "target_profile_not_found", err.Error())
	case errors.Is(err, provider.ErrModelNotFound):
		utils.RespondError(w, http.StatusServiceUnavailable, "model_not_found", err.Error())
	case errors.Is(err, provider.ErrUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "provider_unavailable", err.Error())
	default:
		log.Printf("[chat] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal_error", "unexpected error while processing the message")
	}
}
