package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

// Gemini talks to the Google generative language API.
type Gemini struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGemini builds the Gemini back-end. An API key is mandatory.
func NewGemini(cfg config.GeminiConfig, timeout time.Duration) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini selected but GEMINI_API_KEY is not set")
	}

	return &Gemini{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (p *Gemini) Name() string { return "gemini" }

func (p *Gemini) Model() string { return p.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (p *Gemini) Generate(ctx context.Context, turns []chat.Turn, modelOverride string) (string, error) {
	model := p.model
	if modelOverride != "" {
		model = modelOverride
	}

	payload := map[string]any{}

	var contents []geminiContent
	for _, t := range turns {
		switch t.Role {
		case chat.RoleSystem:
			payload["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: t.Content}}}
		case chat.RoleUser:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: t.Content}}})
		case chat.RoleAssistant:
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: t.Content}}})
		}
	}
	payload["contents"] = contents

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(model), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: cannot reach gemini api: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		// The API answers 404 for unknown models and 400 for malformed names.
		return "", fmt.Errorf("%w: gemini rejected model %q (status %d)", ErrModelNotFound, model, resp.StatusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: gemini api key rejected, check GEMINI_API_KEY", ErrUnavailable)
	default:
		return "", fmt.Errorf("%w: gemini returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrUnavailable)
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

// IsAvailable fetches the model metadata endpoint with the configured key.
func (p *Gemini) IsAvailable(ctx context.Context) bool {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
