package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

// Ollama talks to a local Ollama inference server over its REST API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama builds the Ollama back-end.
func NewOllama(cfg config.OllamaConfig, timeout time.Duration) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Ollama) Name() string { return "ollama" }

func (p *Ollama) Model() string { return p.model }

// Generate calls the /api/chat endpoint with the full turn list, requesting
// a complete (non-streamed) reply.
func (p *Ollama) Generate(ctx context.Context, turns []chat.Turn, modelOverride string) (string, error) {
	model := p.model
	if modelOverride != "" {
		model = modelOverride
	}

	body, err := json.Marshal(map[string]any{
		"model":    model,
		"messages": toWireMessages(turns),
		"stream":   false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: cannot reach ollama at %s: %v", ErrUnavailable, p.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: model %q is not installed, run: ollama pull %s", ErrModelNotFound, model, model)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ollama returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	return strings.TrimSpace(payload.Message.Content), nil
}

// IsAvailable checks that the server answers /api/tags and that the
// configured model is among the installed ones. Ollama may report the model
// with or without a tag suffix, so matching is on the base name.
func (p *Ollama) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false
	}

	base := strings.SplitN(p.model, ":", 2)[0]
	for _, m := range payload.Models {
		if strings.Contains(m.Name, base) {
			return true
		}
	}
	return false
}
