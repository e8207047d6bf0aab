package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
)

// errDatabaseUnavailable is returned when the server runs without a store.
var errDatabaseUnavailable = errors.New("database not configured")

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string, defaultVal int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key + " parameter")
	}
	return n, nil
}

// leagueFromRequest resolves the {league} URL parameter, writing a 404 when it is unknown.
func leagueFromRequest(cfg *config.Config, w http.ResponseWriter, r *http.Request) *config.League {
	key := strings.ToLower(chi.URLParam(r, "league"))
	league, err := cfg.League(key)
	if err != nil {
		respondError(w, http.StatusNotFound, "league not found")
		return nil
	}
	return league
}

// storeStatus maps store errors to HTTP statuses.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, errDatabaseUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
