package chat

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	chatmodel "github.com/rafamelo/econochat/backend/internal/model/chat"
	"github.com/rafamelo/econochat/backend/internal/model/persona"
	"github.com/rafamelo/econochat/backend/internal/service/memory"
	"github.com/rafamelo/econochat/backend/internal/service/provider"
)

var (
	ErrPersonaNotFound = errors.New("persona not found")
	ErrProfileNotFound = errors.New("target profile not found")
)

// ChatRequest carries one reactive chat call.
type ChatRequest struct {
	SessionID     string
	Message       string
	ModelOverride string
}

// ProactiveRequest carries one proactive notification call. Overrides apply
// to that single request and never mutate catalog or provider state.
type ProactiveRequest struct {
	PersonaID       string
	TargetProfileID string
	ModelOverride   string
	PersonaOverride string
}

// Config wires the orchestrator's collaborators. Provider may be nil when
// construction failed at startup; ProviderErr is then surfaced via Health
// and FallbackProvider/FallbackModel fill the health report fields.
type Config struct {
	Provider         provider.Provider
	ProviderErr      error
	FallbackProvider string
	FallbackModel    string
	Memory           memory.Store
	Personas         persona.Store
	SystemPrompt     string
}

// Service composes session memory, the persona catalog and the provider
// abstraction into the two request types plus the health probe.
type Service struct {
	provider         provider.Provider
	providerErr      error
	fallbackProvider string
	fallbackModel    string
	memory           memory.Store
	personas         persona.Store
	systemPrompt     string

	// locks serializes read-append pairs per session id so concurrent
	// turns on one session cannot drop each other. Session ids hash onto
	// a fixed pool, so churning unique ids cannot grow the table; two
	// sessions sharing a slot merely serialize against each other.
	locks [sessionLockShards]sync.Mutex
}

// sessionLockShards sizes the session lock pool.
const sessionLockShards = 256

// NewService builds the orchestrator.
func NewService(cfg Config) *Service {
	return &Service{
		provider:         cfg.Provider,
		providerErr:      cfg.ProviderErr,
		fallbackProvider: cfg.FallbackProvider,
		fallbackModel:    cfg.FallbackModel,
		memory:           cfg.Memory,
		personas:         cfg.Personas,
		systemPrompt:     cfg.SystemPrompt,
	}
}

// Chat answers a reactive message: history + new user turn go to the
// provider, then both the user turn and the reply are stored back.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (chatmodel.Reply, error) {
	if s.provider == nil {
		return chatmodel.Reply{}, s.notConfigured()
	}

	mu := s.sessionLock(req.SessionID)
	mu.Lock()
	defer mu.Unlock()

	history, err := s.memory.History(req.SessionID)
	if err != nil {
		return chatmodel.Reply{}, fmt.Errorf("load history: %w", err)
	}

	turns := make([]chatmodel.Turn, 0, len(history)+2)
	if s.systemPrompt != "" {
		turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleSystem, Content: s.systemPrompt})
	}
	turns = append(turns, history...)
	turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleUser, Content: req.Message})

	reply, err := s.provider.Generate(ctx, turns, req.ModelOverride)
	if err != nil {
		return chatmodel.Reply{}, err
	}

	if err := s.memory.Append(req.SessionID, chatmodel.RoleUser, req.Message); err != nil {
		return chatmodel.Reply{}, fmt.Errorf("store user turn: %w", err)
	}
	if err := s.memory.Append(req.SessionID, chatmodel.RoleAssistant, reply); err != nil {
		return chatmodel.Reply{}, fmt.Errorf("store assistant turn: %w", err)
	}

	log.Printf("[chat] session=%s history=%d reply_len=%d", req.SessionID, len(history), len(reply))

	return chatmodel.Reply{
		SessionID: req.SessionID,
		Reply:     reply,
		Provider:  s.provider.Name(),
		Model:     s.usedModel(req.ModelOverride),
	}, nil
}

// Proactive generates a persona-driven opening message. It never reads or
// writes session memory; the returned session id is freshly minted so the
// caller may adopt it as a conversation key.
func (s *Service) Proactive(ctx context.Context, req ProactiveRequest) (chatmodel.Reply, error) {
	p, ok := s.personas.FindPersona(req.PersonaID)
	if !ok {
		return chatmodel.Reply{}, fmt.Errorf("%w: %q", ErrPersonaNotFound, req.PersonaID)
	}

	var profile *persona.TargetProfile
	if req.TargetProfileID != "" {
		found, ok := s.personas.FindTargetProfile(req.TargetProfileID)
		if !ok {
			return chatmodel.Reply{}, fmt.Errorf("%w: %q", ErrProfileNotFound, req.TargetProfileID)
		}
		profile = &found
	}

	if s.provider == nil {
		return chatmodel.Reply{}, s.notConfigured()
	}

	systemPrompt := p.SystemPrompt
	if req.PersonaOverride != "" {
		systemPrompt = req.PersonaOverride
	}

	turns := []chatmodel.Turn{
		{Role: chatmodel.RoleSystem, Content: systemPrompt},
		{Role: chatmodel.RoleUser, Content: proactiveInstruction(profile)},
	}

	reply, err := s.provider.Generate(ctx, turns, req.ModelOverride)
	if err != nil {
		return chatmodel.Reply{}, err
	}

	log.Printf("[proactive] persona=%s profile=%s reply_len=%d", req.PersonaID, req.TargetProfileID, len(reply))

	return chatmodel.Reply{
		SessionID: uuid.NewString(),
		Reply:     reply,
		Provider:  s.provider.Name(),
		Model:     s.usedModel(req.ModelOverride),
	}, nil
}

// Health probes the configured provider and classifies the result.
func (s *Service) Health(ctx context.Context) chatmodel.HealthReport {
	if s.provider == nil {
		message := "llm provider not configured"
		if s.providerErr != nil {
			message = s.providerErr.Error()
		}
		return chatmodel.HealthReport{
			Status:            "unhealthy",
			Provider:          s.fallbackProvider,
			Model:             s.fallbackModel,
			ProviderAvailable: false,
			Message:           message,
		}
	}

	if s.provider.IsAvailable(ctx) {
		return chatmodel.HealthReport{
			Status:            "healthy",
			Provider:          s.provider.Name(),
			Model:             s.provider.Model(),
			ProviderAvailable: true,
		}
	}

	return chatmodel.HealthReport{
		Status:            "degraded",
		Provider:          s.provider.Name(),
		Model:             s.provider.Model(),
		ProviderAvailable: false,
		Message:           fmt.Sprintf("provider %q is not responding", s.provider.Name()),
	}
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockShards]
}

func (s *Service) usedModel(override string) string {
	if override != "" {
		return override
	}
	return s.provider.Model()
}

func (s *Service) notConfigured() error {
	if s.providerErr != nil {
		return fmt.Errorf("%w: %v", provider.ErrUnavailable, s.providerErr)
	}
	return fmt.Errorf("%w: no llm provider configured", provider.ErrUnavailable)
}

func proactiveInstruction(profile *persona.TargetProfile) string {
	var b strings.Builder
	b.WriteString("Gere uma mensagem curta (máximo 2 frases) para iniciar uma conversa com o usuário de forma proativa. ")
	b.WriteString("Não use 'Olá' ou 'Oi' genéricos, vá direto ao ponto no seu estilo.")
	if profile != nil {
		b.WriteString("\n\nContexto sobre o destinatário da mensagem: ")
		b.WriteString(profile.Description)
	}
	return b.String()
}
