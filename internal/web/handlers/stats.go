package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/logging"
)

const statsCacheTTL = time.Minute

// statsCache holds cached stats with expiry
type statsCache struct {
	mu        sync.RWMutex
	data      *StatsResponse
	expiresAt time.Time
}

func (c *statsCache) get() (*StatsResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

func (c *statsCache) set(data *StatsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = time.Now().Add(statsCacheTTL)
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// StatsHandler reports how many records every league table holds
type StatsHandler struct {
	config *config.Config
	store  database.RosterReader
	cache  statsCache
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(cfg *config.Config, store database.RosterReader) *StatsHandler {
	return &StatsHandler{
		config: cfg,
		store:  store,
	}
}

// InvalidateCache clears the cached stats so the next request counts again
func (h *StatsHandler) InvalidateCache() {
	h.cache.invalidate()
}

// StatsResponse represents the statistics response
type StatsResponse struct {
	Total   int            `json:"total"`
	Leagues map[string]int `json:"leagues"`
}

// Get returns per league record counts
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.get(); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, errDatabaseUnavailable.Error())
		return
	}

	stats := &StatsResponse{Leagues: make(map[string]int, len(h.config.Leagues))}
	for _, league := range h.config.Leagues {
		n, err := h.store.Count(r.Context(), league.Table)
		if err != nil {
			logging.FromContext(r.Context()).Error().Err(err).Str("table", league.Table).Msg("count failed")
			respondError(w, storeStatus(err), "failed to count records")
			return
		}
		stats.Leagues[league.Key] = n
		stats.Total += n
	}

	h.cache.set(stats)
	respondJSON(w, http.StatusOK, stats)
}
