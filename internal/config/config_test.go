package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "PROVIDER_TIMEOUT_SECONDS", "MEMORY_MAX_MESSAGES", "MEMORY_MAX_SESSIONS", "USE_SQLITE", "BOT_SYSTEM_PROMPT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Provider.Active != "ollama" {
		t.Fatalf("unexpected default provider %q", cfg.Provider.Active)
	}
	if cfg.Provider.Timeout != 120*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Provider.Timeout)
	}
	if cfg.Memory.MaxTurns != 10 || cfg.Memory.MaxSessions != 1000 {
		t.Fatalf("unexpected memory bounds: %+v", cfg.Memory)
	}
	if cfg.Memory.UseSQLite {
		t.Fatal("sqlite must be off by default")
	}
	if cfg.Bot.SystemPrompt == "" {
		t.Fatal("expected a default system prompt")
	}
}

func TestLoadProviderSelection(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Provider.Active != "gemini" {
		t.Fatalf("provider selector not normalized: %q", cfg.Provider.Active)
	}
	if cfg.Provider.DefaultModel() != "gemini-1.5-pro" {
		t.Fatalf("unexpected default model %q", cfg.Provider.DefaultModel())
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "skynet")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "80 80")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestLoadAcceptsFullAddr(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsInvalidMemoryBound(t *testing.T) {
	t.Setenv("MEMORY_MAX_MESSAGES", "zero")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric MEMORY_MAX_MESSAGES")
	}
}

func TestLoadMemoryOverrides(t *testing.T) {
	t.Setenv("MEMORY_MAX_MESSAGES", "6")
	t.Setenv("USE_SQLITE", "true")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Memory.MaxTurns != 6 {
		t.Fatalf("unexpected max turns %d", cfg.Memory.MaxTurns)
	}
	if !cfg.Memory.UseSQLite || cfg.Memory.SQLitePath != "/tmp/test.db" {
		t.Fatalf("sqlite settings not applied: %+v", cfg.Memory)
	}
}

func TestArkConfigEnabled(t *testing.T) {
	cfg := ArkConfig{Model: "m", APIKey: "k"}
	if !cfg.Enabled() {
		t.Fatal("api key + model must enable ark")
	}

	cfg = ArkConfig{Model: "m"}
	if cfg.Enabled() {
		t.Fatal("model without credentials must not enable ark")
	}

	cfg = ArkConfig{Model: "m", AccessKey: "ak", SecretKey: "sk"}
	if !cfg.Enabled() {
		t.Fatal("ak/sk pair must enable ark")
	}
}
