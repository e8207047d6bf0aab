package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/roster-sync/internal/config"
)

func TestConfigHandler_Get(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI = config.OpenAIConfig{Token: "sk-test-token"}
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)

	if result.DatabaseDriver != "sqlite" {
		t.Errorf("expected driver sqlite, got %q", result.DatabaseDriver)
	}
	if len(result.Leagues) != 2 || result.Leagues[0] != "nhl" {
		t.Errorf("unexpected leagues %v", result.Leagues)
	}

	available := make(map[string]bool)
	for _, p := range result.Providers {
		available[p.Name] = p.Available
	}
	want := map[string]bool{"openai": true, "gemini": false, "ollama": true}
	for name, ok := range want {
		if available[name] != ok {
			t.Errorf("provider %s: expected available=%v, got %v", name, ok, available[name])
		}
	}
}

func TestConfigHandler_DoesNotLeakSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI.Token = "sk-secret"
	cfg.Gemini.APIKey = "gemini-secret"
	cfg.Database.URL = "postgres://user:secret@db/rosters"

	recorder := httptest.NewRecorder()
	NewConfigHandler(cfg).Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	body := recorder.Body.String()
	for _, secret := range []string{"sk-secret", "gemini-secret", "user:secret"} {
		if strings.Contains(body, secret) {
			t.Errorf("response leaks %q: %s", secret, body)
		}
	}
}
