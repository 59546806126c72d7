package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rafamelo/econochat/backend/internal/config"
	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

func newGeminiForURL(t *testing.T, url string) *Gemini {
	t.Helper()

	p, err := NewGemini(config.GeminiConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewGemini err: %v", err)
	}
	return p
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	_, err := NewGemini(config.GeminiConfig{Model: "x"}, time.Second)
	if err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "resposta gemini"}},
				},
			}},
		})
	}))
	defer srv.Close()

	p := newGeminiForURL(t, srv.URL)
	reply, err := p.Generate(context.Background(), []chat.Turn{
		{Role: chat.RoleSystem, Content: "seja breve"},
		{Role: chat.RoleUser, Content: "oi"},
		{Role: chat.RoleAssistant, Content: "olá"},
		{Role: chat.RoleUser, Content: "continue"},
	}, "")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if reply != "resposta gemini" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !strings.Contains(gotPath, "gemini-1.5-flash:generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected key %q", gotKey)
	}
	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Fatal("systemInstruction missing from request")
	}
	contents, ok := gotBody["contents"].([]any)
	if !ok || len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %v", gotBody["contents"])
	}
	second := contents[1].(map[string]any)
	if second["role"] != "model" {
		t.Fatalf("assistant turn must map to role model, got %v", second["role"])
	}
}

func TestGeminiGenerateUsesOverrideModel(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}},
			}},
		})
	}))
	defer srv.Close()

	p := newGeminiForURL(t, srv.URL)
	if _, err := p.Generate(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "oi"}}, "gemini-1.5-pro"); err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if !strings.Contains(gotPath, "gemini-1.5-pro:generateContent") {
		t.Fatalf("override not applied, path %q", gotPath)
	}
	if p.Model() != "gemini-1.5-flash" {
		t.Fatalf("default model mutated to %q", p.Model())
	}
}

func TestGeminiGenerateUnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newGeminiForURL(t, srv.URL)
	_, err := p.Generate(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "oi"}}, "no-such-model")
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestGeminiGenerateBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newGeminiForURL(t, srv.URL)
	_, err := p.Generate(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "oi"}}, "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGeminiGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p, err := NewGemini(config.GeminiConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
	}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewGemini err: %v", err)
	}

	_, err = p.Generate(context.Background(), []chat.Turn{{Role: chat.RoleUser, Content: "oi"}}, "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestGeminiIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/gemini-1.5-flash") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newGeminiForURL(t, srv.URL)
	if !p.IsAvailable(context.Background()) {
		t.Fatal("expected available")
	}
}
