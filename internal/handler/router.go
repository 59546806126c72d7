package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rafamelo/econochat/backend/internal/handler/chat"
	"github.com/rafamelo/econochat/backend/internal/handler/health"
	"github.com/rafamelo/econochat/backend/internal/handler/persona"
	middlewarePkg "github.com/rafamelo/econochat/backend/internal/middleware"
	personaModel "github.com/rafamelo/econochat/backend/internal/model/persona"
	chatService "github.com/rafamelo/econochat/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, catalog personaModel.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat.New(chatSvc).RegisterRoutes(r)
	persona.New(catalog).RegisterRoutes(r)
	health.New(chatSvc).RegisterRoutes(r)

	return r
}
