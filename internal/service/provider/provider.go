package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

var (
	// ErrUnavailable signals that the back-end could not be reached or
	// returned a fatal status. Surfaced to callers as degraded service.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrModelNotFound signals that the back-end rejected the requested
	// model name, either the configured default or a per-call override.
	ErrModelNotFound = errors.New("model not found")
)

// Provider generates a reply from an ordered list of role-tagged turns.
// modelOverride, when non-empty, applies to that single call only; it must
// never alter the default used by subsequent calls.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, turns []chat.Turn, modelOverride string) (string, error)
	IsAvailable(ctx context.Context) bool
}

// New builds the back-end selected by cfg.Active. Selection happens once at
// startup; the returned provider is shared by all requests.
func New(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Active {
	case "ollama":
		return NewOllama(cfg.Ollama, cfg.Timeout), nil
	case "huggingface":
		p, err := NewHuggingFace(cfg.HuggingFace, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "gemini":
		p, err := NewGemini(cfg.Gemini, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ark":
		p, err := NewArk(ctx, cfg.Ark, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Active)
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toWireMessages(turns []chat.Turn) []wireMessage {
	msgs := make([]wireMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, wireMessage{Role: string(t.Role), Content: t.Content})
	}
	return msgs
}
