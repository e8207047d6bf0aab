package handlers

import (
	"net/http"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// RostersHandler serves roster records from the store
type RostersHandler struct {
	config *config.Config
	store  database.RosterReader
}

// NewRostersHandler creates a new rosters handler
func NewRostersHandler(cfg *config.Config, store database.RosterReader) *RostersHandler {
	return &RostersHandler{config: cfg, store: store}
}

// RostersResponse is one page of roster records
type RostersResponse struct {
	League  string          `json:"league"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Records []roster.Record `json:"records"`
}

// List returns records of a league, optionally filtered by team and season.
// Query parameters: team, season, limit (default 100, max 1000), offset.
func (h *RostersHandler) List(w http.ResponseWriter, r *http.Request) {
	league := leagueFromRequest(h.config, w, r)
	if league == nil {
		return
	}
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, errDatabaseUnavailable.Error())
		return
	}

	filter := database.Filter{TeamID: r.URL.Query().Get("team")}
	var err error
	if filter.SeasonYear, err = queryInt(r, "season", 0); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Limit, err = queryInt(r, "limit", constants.DefaultRosterLimit); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch {
	case filter.Limit == 0:
		filter.Limit = constants.DefaultRosterLimit
	case filter.Limit > constants.MaxRosterLimit:
		filter.Limit = constants.MaxRosterLimit
	}
	if filter.TeamID != "" {
		if _, ok := league.Team(filter.TeamID); !ok {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
	}

	records, err := h.store.List(r.Context(), league.Table, filter)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).
			Str("table", league.Table).
			Str("team", sanitizeForLog(filter.TeamID)).
			Msg("list rosters failed")
		respondError(w, storeStatus(err), "failed to list rosters")
		return
	}
	if records == nil {
		records = []roster.Record{}
	}

	respondJSON(w, http.StatusOK, RostersResponse{
		League:  league.Key,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Records: records,
	})
}
