package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

// Ark talks to volcengine Ark through the eino chat-model component.
type Ark struct {
	chatModel model.ChatModel
	modelName string
	baseURL   string
	client    *http.Client
}

// NewArk builds the Ark back-end from the eino-ext chat model.
func NewArk(ctx context.Context, cfg config.ArkConfig, timeout time.Duration) (*Ark, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}

	return &Ark{
		chatModel: chatModel,
		modelName: cfg.Model,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (p *Ark) Name() string { return "ark" }

func (p *Ark) Model() string { return p.modelName }

func (p *Ark) Generate(ctx context.Context, turns []chat.Turn, modelOverride string) (string, error) {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case chat.RoleSystem:
			msgs = append(msgs, schema.SystemMessage(t.Content))
		case chat.RoleUser:
			msgs = append(msgs, schema.UserMessage(t.Content))
		case chat.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		}
	}

	var opts []model.Option
	if modelOverride != "" {
		opts = append(opts, model.WithModel(modelOverride))
	}

	out, err := p.chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: ark generation failed: %v", ErrUnavailable, err)
	}

	return strings.TrimSpace(out.Content), nil
}

// IsAvailable probes the Ark gateway; any HTTP answer counts as reachable
// since the API exposes no cheap authenticated ping.
func (p *Ark) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
