package handlers

import (
	"net/http"
	"sync"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/names"
	"github.com/kozaktomas/roster-sync/internal/reconcile"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// CleanupHandler previews cleanup passes. It never writes to the store.
type CleanupHandler struct {
	config     *config.Config
	store      reconcile.Store
	normalizer names.Normalizer

	// running holds the leagues with a preview in flight
	mu      sync.Mutex
	running map[string]bool
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cfg *config.Config, store reconcile.Store, n names.Normalizer) *CleanupHandler {
	if n == nil {
		n = names.StatMuse
	}
	return &CleanupHandler{
		config:     cfg,
		store:      store,
		normalizer: n,
		running:    make(map[string]bool),
	}
}

// PreviewResponse is the outcome of a dry run cleanup pass
type PreviewResponse struct {
	League         string          `json:"league"`
	Table          string          `json:"table"`
	Scanned        int             `json:"scanned"`
	Updates        int             `json:"updates"`
	Deletes        int             `json:"deletes"`
	Unchanged      int             `json:"unchanged"`
	Suspicious     []string        `json:"suspicious"`
	PlannedUpdates []roster.Record `json:"planned_updates"`
	PlannedDeletes []int64         `json:"planned_deletes"`
	DurationMs     int64           `json:"duration_ms"`
}

// Preview reconciles a snapshot of the league table and returns what a cleanup would do.
// Query parameter limit caps the planned updates and deletes listed (default 100, max 1000).
func (h *CleanupHandler) Preview(w http.ResponseWriter, r *http.Request) {
	league := leagueFromRequest(h.config, w, r)
	if league == nil {
		return
	}
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, errDatabaseUnavailable.Error())
		return
	}
	limit, err := queryInt(r, "limit", constants.DefaultRosterLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit = min(limit, constants.MaxRosterLimit)

	if !h.acquire(league.Key) {
		respondError(w, http.StatusConflict, "a preview for this league is already running")
		return
	}
	defer h.release(league.Key)

	report, err := reconcile.Pass(r.Context(), h.store, league.Table, h.normalizer, reconcile.PassOptions{
		PageSize: h.config.Cleanup.PageSize,
		DryRun:   true,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("table", league.Table).Msg("cleanup preview failed")
		respondError(w, storeStatus(err), "failed to read roster table")
		return
	}

	res := report.Result
	sample := h.config.Cleanup.SampleLimit
	if sample <= 0 {
		sample = constants.DefaultSampleLimit
	}
	suspicious := res.Suspicious[:min(sample, len(res.Suspicious))]
	respondJSON(w, http.StatusOK, PreviewResponse{
		League:         league.Key,
		Table:          league.Table,
		Scanned:        report.Scanned,
		Updates:        len(res.Updates),
		Deletes:        len(res.Deletes),
		Unchanged:      res.Unchanged,
		Suspicious:     nonNil(suspicious),
		PlannedUpdates: nonNil(res.Updates[:min(limit, len(res.Updates))]),
		PlannedDeletes: nonNil(res.Deletes[:min(limit, len(res.Deletes))]),
		DurationMs:     report.Duration.Milliseconds(),
	})
}

func (h *CleanupHandler) acquire(league string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running[league] {
		return false
	}
	h.running[league] = true
	return true
}

func (h *CleanupHandler) release(league string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.running, league)
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
