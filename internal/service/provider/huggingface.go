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

// historyWindow limits how many trailing turns are flattened into the text
// prompt; the hosted inference API has no chat format and a short context.
const historyWindow = 4

// HuggingFace talks to the hosted HuggingFace inference API. The API is
// text-in/text-out, so the turn list is flattened into a single prompt.
type HuggingFace struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

// NewHuggingFace builds the HuggingFace back-end. A token is mandatory.
func NewHuggingFace(cfg config.HuggingFaceConfig, timeout time.Duration) (*HuggingFace, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("huggingface selected but HF_TOKEN is not set")
	}

	return &HuggingFace{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (p *HuggingFace) Name() string { return "huggingface" }

func (p *HuggingFace) Model() string { return p.model }

func (p *HuggingFace) Generate(ctx context.Context, turns []chat.Turn, modelOverride string) (string, error) {
	model := p.model
	if modelOverride != "" {
		model = modelOverride
	}

	body, err := json.Marshal(map[string]any{
		"inputs": flattenTurns(turns),
		"parameters": map[string]any{
			"max_new_tokens":   256,
			"temperature":      0.7,
			"do_sample":        true,
			"return_full_text": false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal huggingface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build huggingface request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: cannot reach huggingface api: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", fmt.Errorf("%w: huggingface token rejected, check HF_TOKEN", ErrUnavailable)
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: model %q does not exist on huggingface", ErrModelNotFound, model)
	case http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: model %q is still loading, retry shortly", ErrUnavailable, model)
	default:
		return "", fmt.Errorf("%w: huggingface returned status %d", ErrUnavailable, resp.StatusCode)
	}

	// The generated text arrives either as a bare object or a one-element list.
	var asList []struct {
		GeneratedText string `json:"generated_text"`
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return strings.TrimSpace(asList[0].GeneratedText), nil
	}

	var asObject struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	return strings.TrimSpace(asObject.GeneratedText), nil
}

// IsAvailable probes the model endpoint; 503 means the model is warming up
// but the API itself answers.
func (p *HuggingFace) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models/"+p.model, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable
}

func flattenTurns(turns []chat.Turn) string {
	var b strings.Builder

	var system string
	var conversation []chat.Turn
	for _, t := range turns {
		if t.Role == chat.RoleSystem {
			system = t.Content
			continue
		}
		conversation = append(conversation, t)
	}

	if system != "" {
		b.WriteString("[Sistema]: ")
		b.WriteString(system)
		b.WriteString("\n\n")
	}

	start := 0
	if len(conversation) > historyWindow+1 {
		start = len(conversation) - historyWindow - 1
	}
	for _, t := range conversation[start:] {
		label := "Usuário"
		if t.Role == chat.RoleAssistant {
			label = "Assistente"
		}
		fmt.Fprintf(&b, "[%s]: %s\n", label, t.Content)
	}

	b.WriteString("[Assistente]:")
	return b.String()
}
