package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database/mock"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// testConfig creates a config with two small leagues
func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite"},
		Cleanup:  config.CleanupConfig{PageSize: 2, SampleLimit: 1},
		Leagues: []config.League{
			{
				Key: "nhl", Name: "NHL", Table: "nhl_rosters", Origin: "birthplace", DefaultSeason: 2026,
				Teams: []config.Team{
					{ID: "tampa-bay-lightning", Slug: "tampa-bay-lightning", StatMuseID: 31},
					{ID: "utah-hockey-club", Slug: "utah-hockey-club", StatMuseID: 40,
						Renames: []config.SlugRename{{FromSeason: 2026, Slug: "utah-mammoth"}}},
				},
			},
			{
				Key: "nba", Name: "NBA", Table: "nba_rosters", Origin: "college", DefaultSeason: 2026,
				Teams: []config.Team{{ID: "boston-celtics", Slug: "boston-celtics", StatMuseID: 1}},
			},
		},
	}
}

// testStore creates a mock store with a few NHL rows. Ids 1 and 2 collide once
// normalized, id 6 needs its jersey padded and ids 4 and 5 are suspicious.
func testStore() *mock.Store {
	store := mock.NewStore()
	store.Add("nhl_rosters",
		roster.Record{TeamID: "tampa-bay-lightning", SeasonYear: 2025, PlayerName: "Ryan BurrR. Burr", JerseyNumber: "9"},
		roster.Record{TeamID: "tampa-bay-lightning", SeasonYear: 2025, PlayerName: "Ryan Burr", JerseyNumber: "09"},
		roster.Record{TeamID: "tampa-bay-lightning", SeasonYear: 2025, PlayerName: "Victor Hedman", JerseyNumber: "77"},
		roster.Record{TeamID: "tampa-bay-lightning", SeasonYear: 2024, PlayerName: "John F. Kennedy", JerseyNumber: "10"},
		roster.Record{TeamID: "tampa-bay-lightning", SeasonYear: 2024, PlayerName: "Mary J. Blige", JerseyNumber: "12"},
		roster.Record{TeamID: "utah-hockey-club", SeasonYear: 2025, PlayerName: "Clayton Keller", JerseyNumber: "9"},
	)
	store.Add("nba_rosters",
		roster.Record{TeamID: "boston-celtics", SeasonYear: 2026, PlayerName: "Jayson Tatum", JerseyNumber: "00", College: "Duke"},
	)
	return store
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// leagueRequest creates a request for a league scoped endpoint
func leagueRequest(method, path, league string) *http.Request {
	return requestWithChiParams(httptest.NewRequest(method, path, nil), map[string]string{"league": league})
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
