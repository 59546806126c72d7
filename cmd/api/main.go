package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/handler"
	"github.com/rafamelo/econochat/backend/internal/model/persona"
	chatService "github.com/rafamelo/econochat/backend/internal/service/chat"
	"github.com/rafamelo/econochat/backend/internal/service/memory"
	"github.com/rafamelo/econochat/backend/internal/service/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog := persona.NewMemoryStore(persona.Seed(), persona.SeedTargetProfiles())

	var store memory.Store
	if cfg.Memory.UseSQLite {
		store, err = memory.OpenSQLiteStore(cfg.Memory.SQLitePath, cfg.Memory.MaxTurns)
		if err != nil {
			log.Fatalf("failed to open sqlite session store: %v", err)
		}
		log.Printf("session history persisted to %s (max %d turns per session)", cfg.Memory.SQLitePath, cfg.Memory.MaxTurns)
	} else {
		store = memory.NewInMemoryStore(cfg.Memory.MaxTurns, cfg.Memory.MaxSessions)
		log.Printf("session history kept in RAM only (max %d turns per session)", cfg.Memory.MaxTurns)
	}
	defer store.Close()

	llm, provErr := provider.New(ctx, cfg.Provider)
	if provErr != nil {
		log.Printf("warning: failed to initialize %s provider: %v", cfg.Provider.Active, provErr)
		log.Println("service will start anyway and report unhealthy until the configuration is fixed")
	} else {
		log.Printf("provider %s ready (model=%s, timeout=%s)", llm.Name(), llm.Model(), cfg.Provider.Timeout)
	}

	chatSvc := chatService.NewService(chatService.Config{
		Provider:         llm,
		ProviderErr:      provErr,
		FallbackProvider: cfg.Provider.Active,
		FallbackModel:    cfg.Provider.DefaultModel(),
		Memory:           store,
		Personas:         catalog,
		SystemPrompt:     cfg.Bot.SystemPrompt,
	})

	router := handler.NewRouter(chatSvc, catalog)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Econochat backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
