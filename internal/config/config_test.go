package config

import (
	"testing"
	"time"
)

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset", "", 25},
		{"valid", "10", 10},
		{"zero", "0", 25},
		{"negative", "-3", 25},
		{"garbage", "abc", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", 25); got != tt.expected {
				t.Errorf("envInt() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_ENV_DURATION", "1500ms")
	if got := envDuration("TEST_ENV_DURATION", time.Second); got != 1500*time.Millisecond {
		t.Errorf("envDuration() = %v, want 1.5s", got)
	}

	t.Setenv("TEST_ENV_DURATION", "soon")
	if got := envDuration("TEST_ENV_DURATION", time.Second); got != time.Second {
		t.Errorf("envDuration() = %v, want default", got)
	}
}

func TestEnvList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset", "", nil},
		{"single", "https://rosters.example.com", []string{"https://rosters.example.com"}},
		{"spaces and blanks", " https://a.example.com , ,https://b.example.com,", []string{"https://a.example.com", "https://b.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_LIST", tt.value)
			got := envList("TEST_ENV_LIST")
			if len(got) != len(tt.want) {
				t.Fatalf("envList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("envList()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad_Web(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://rosters.example.com")
	t.Setenv("OLLAMA_MODEL", "qwen2.5:7b")

	cfg := Load()
	if len(cfg.Web.AllowedOrigins) != 1 || cfg.Web.AllowedOrigins[0] != "https://rosters.example.com" {
		t.Errorf("unexpected allowed origins %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Ollama.Model != "qwen2.5:7b" {
		t.Errorf("expected ollama model from env, got %q", cfg.Ollama.Model)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DRIVER", "CLEANUP_PAGE_SIZE", "CLEANUP_DELETE_CHUNK", "CLEANUP_UPSERT_CHUNK", "STATMUSE_REQUEST_DELAY", "STATMUSE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Cleanup.PageSize != 1000 || cfg.Cleanup.DeleteChunkSize != 100 || cfg.Cleanup.UpsertChunkSize != 1000 {
		t.Errorf("unexpected cleanup defaults: %+v", cfg.Cleanup)
	}
	if cfg.StatMuse.RequestDelay != 800*time.Millisecond {
		t.Errorf("expected 800ms request delay, got %v", cfg.StatMuse.RequestDelay)
	}
	if cfg.StatMuse.URL != "https://www.statmuse.com" {
		t.Errorf("unexpected StatMuse URL %q", cfg.StatMuse.URL)
	}
}

func TestLoad_Leagues(t *testing.T) {
	cfg := Load()

	if len(cfg.Leagues) != 3 {
		t.Fatalf("expected 3 leagues, got %d", len(cfg.Leagues))
	}

	nhl, err := cfg.League("nhl")
	if err != nil {
		t.Fatalf("League(nhl) error: %v", err)
	}
	if nhl.Table != "nhl_rosters" || nhl.Origin != "birthplace" {
		t.Errorf("unexpected nhl league: %+v", nhl)
	}
	if len(nhl.Teams) != 32 {
		t.Errorf("expected 32 NHL teams, got %d", len(nhl.Teams))
	}

	nba, err := cfg.League("nba")
	if err != nil {
		t.Fatalf("League(nba) error: %v", err)
	}
	if nba.Origin != "college" {
		t.Errorf("expected nba origin college, got %q", nba.Origin)
	}
	clippers, ok := nba.Team("los-angeles-clippers")
	if !ok || clippers.Slug != "la-clippers" {
		t.Errorf("expected clippers slug la-clippers, got %+v", clippers)
	}

	if _, err := cfg.League("nfl"); err == nil {
		t.Error("expected error for unknown league")
	}
}

func TestTeam_SlugFor(t *testing.T) {
	cfg := Load()
	nhl, _ := cfg.League("nhl")
	utah, ok := nhl.Team("utah-hockey-club")
	if !ok {
		t.Fatal("utah-hockey-club not configured")
	}

	if got := utah.SlugFor(2025); got != "utah-hockey-club" {
		t.Errorf("SlugFor(2025) = %q", got)
	}
	if got := utah.SlugFor(2026); got != "utah-mammoth" {
		t.Errorf("SlugFor(2026) = %q", got)
	}
}

func TestGetModelPricing(t *testing.T) {
	cfg := Load()

	if p := cfg.GetModelPricing("gpt-4.1-mini"); p.Standard.Input <= 0 {
		t.Errorf("expected pricing for gpt-4.1-mini, got %+v", p)
	}
	if p := cfg.GetModelPricing("unknown-model"); p.Standard.Input != 0 || p.Batch.Output != 0 {
		t.Errorf("expected zero pricing for unknown model, got %+v", p)
	}
}

func TestParseLeagues_InvalidOrigin(t *testing.T) {
	_, err := parseLeagues([]byte("leagues:\n  - key: x\n    table: x_rosters\n    origin: planet\n"))
	if err == nil {
		t.Error("expected error for invalid origin")
	}
}
