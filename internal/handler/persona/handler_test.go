package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rafamelo/econochat/backend/internal/model/persona"
)

func setupRouter() *chi.Mux {
	catalog := persona.NewMemoryStore(persona.Seed(), persona.SeedTargetProfiles())
	r := chi.NewRouter()
	New(catalog).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListPersonas(t *testing.T) {
	r := setupRouter()

	resp := get(t, r, "/personas")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body []map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != len(persona.Seed()) {
		t.Fatalf("expected %d personas, got %d", len(persona.Seed()), len(body))
	}
	if body[0]["id"] == "" || body[0]["description"] == "" {
		t.Fatalf("expected id and description fields, got %+v", body[0])
	}
}

func TestListPersonasHidesSystemPrompt(t *testing.T) {
	r := setupRouter()

	resp := get(t, r, "/personas")

	var body []map[string]any
	json.Unmarshal(resp.Body.Bytes(), &body)
	for _, item := range body {
		if _, ok := item["SystemPrompt"]; ok {
			t.Fatal("system prompt must not be exposed")
		}
	}
}

func TestListTargetProfiles(t *testing.T) {
	r := setupRouter()

	resp := get(t, r, "/target-profiles")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body []map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body) != len(persona.SeedTargetProfiles()) {
		t.Fatalf("expected %d profiles, got %d", len(persona.SeedTargetProfiles()), len(body))
	}
}

func TestListOrderRepeatsAcrossCalls(t *testing.T) {
	r := setupRouter()

	first := get(t, r, "/personas").Body.String()
	second := get(t, r, "/personas").Body.String()

	if first != second {
		t.Fatal("persona listing must be identical across calls")
	}
}
