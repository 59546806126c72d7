package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting of the service, loaded once at startup.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Memory   MemoryConfig
	Bot      BotConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	prov, err := loadProviderConfig()
	if err != nil {
		return nil, err
	}

	mem, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Provider: prov,
		Memory:   mem,
		Bot:      loadBotConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ProviderConfig selects the active LLM back-end and carries the settings of
// every back-end so the selection is a pure startup decision.
type ProviderConfig struct {
	Active      string
	Timeout     time.Duration
	Ollama      OllamaConfig
	HuggingFace HuggingFaceConfig
	Gemini      GeminiConfig
	Ark         ArkConfig
}

// DefaultModel reports the configured model of the active back-end, used for
// health reporting when the provider itself could not be constructed.
func (c ProviderConfig) DefaultModel() string {
	switch c.Active {
	case "ollama":
		return c.Ollama.Model
	case "huggingface":
		return c.HuggingFace.Model
	case "gemini":
		return c.Gemini.Model
	case "ark":
		return c.Ark.Model
	default:
		return ""
	}
}

// OllamaConfig describes a local Ollama inference server.
type OllamaConfig struct {
	BaseURL string
	Model   string
}

// HuggingFaceConfig describes the hosted HuggingFace inference API.
type HuggingFaceConfig struct {
	BaseURL string
	Token   string
	Model   string
}

// GeminiConfig describes the hosted Google generative language API.
type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ArkConfig describes the volcengine Ark back-end accessed through eino.
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required Ark credentials were provided.
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an eino chat model from the Ark settings.
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadProviderConfig() (ProviderConfig, error) {
	active := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "ollama"))
	switch active {
	case "ollama", "huggingface", "gemini", "ark":
	default:
		return ProviderConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q: use ollama, huggingface, gemini or ark", active)
	}

	timeoutSeconds := 120
	if override, err := parseOptionalIntEnv("PROVIDER_TIMEOUT_SECONDS"); err != nil {
		return ProviderConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ProviderConfig{}, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	arkCfg, err := loadArkConfig()
	if err != nil {
		return ProviderConfig{}, err
	}

	return ProviderConfig{
		Active:  active,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
		Ollama: OllamaConfig{
			BaseURL: getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getEnvOrDefault("OLLAMA_MODEL", "qwen2.5:0.5b"),
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL: getEnvOrDefault("HF_BASE_URL", "https://api-inference.huggingface.co"),
			Token:   strings.TrimSpace(os.Getenv("HF_TOKEN")),
			Model:   getEnvOrDefault("HF_MODEL", "microsoft/DialoGPT-small"),
		},
		Gemini: GeminiConfig{
			BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Ark: arkCfg,
	}, nil
}

func loadArkConfig() (ArkConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return ArkConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return ArkConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return ArkConfig{}, err
	}

	return ArkConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// MemoryConfig bounds the per-session history and the session map itself.
type MemoryConfig struct {
	MaxTurns    int
	MaxSessions int
	UseSQLite   bool
	SQLitePath  string
}

func loadMemoryConfig() (MemoryConfig, error) {
	maxTurns := 10
	if override, err := parseOptionalIntEnv("MEMORY_MAX_MESSAGES"); err != nil {
		return MemoryConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return MemoryConfig{}, fmt.Errorf("MEMORY_MAX_MESSAGES must be positive, got %d", *override)
		}
		maxTurns = *override
	}

	maxSessions := 1000
	if override, err := parseOptionalIntEnv("MEMORY_MAX_SESSIONS"); err != nil {
		return MemoryConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return MemoryConfig{}, fmt.Errorf("MEMORY_MAX_SESSIONS must be positive, got %d", *override)
		}
		maxSessions = *override
	}

	useSQLite, err := parseBoolEnv("USE_SQLITE", false)
	if err != nil {
		return MemoryConfig{}, err
	}

	return MemoryConfig{
		MaxTurns:    maxTurns,
		MaxSessions: maxSessions,
		UseSQLite:   useSQLite,
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "./data/conversations.db"),
	}, nil
}

// BotConfig carries prompt defaults applied to every reactive conversation.
type BotConfig struct {
	SystemPrompt string
}

func loadBotConfig() BotConfig {
	return BotConfig{
		SystemPrompt: getEnvOrDefault("BOT_SYSTEM_PROMPT",
			"Você é um assistente virtual amigável e prestativo. "+
				"Responda sempre em português brasileiro de forma clara e objetiva."),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
