package handlers

import (
	"net/http"

	"github.com/kozaktomas/roster-sync/internal/config"
)

// LeaguesHandler serves the configured leagues and their teams
type LeaguesHandler struct {
	config *config.Config
}

// NewLeaguesHandler creates a new leagues handler
func NewLeaguesHandler(cfg *config.Config) *LeaguesHandler {
	return &LeaguesHandler{config: cfg}
}

// LeagueResponse describes one league
type LeagueResponse struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Table         string `json:"table"`
	Origin        string `json:"origin"`
	DefaultSeason int    `json:"default_season"`
	Teams         int    `json:"teams"`
}

// TeamResponse describes one team
type TeamResponse struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	StatMuseID int    `json:"statmuse_id"`
	// CurrentSlug is the slug used for the league's default season
	CurrentSlug string `json:"current_slug"`
}

// List returns all leagues
func (h *LeaguesHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]LeagueResponse, 0, len(h.config.Leagues))
	for _, l := range h.config.Leagues {
		out = append(out, LeagueResponse{
			Key:           l.Key,
			Name:          l.Name,
			Table:         l.Table,
			Origin:        l.Origin,
			DefaultSeason: l.DefaultSeason,
			Teams:         len(l.Teams),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Teams returns the teams of one league
func (h *LeaguesHandler) Teams(w http.ResponseWriter, r *http.Request) {
	league := leagueFromRequest(h.config, w, r)
	if league == nil {
		return
	}

	out := make([]TeamResponse, 0, len(league.Teams))
	for i := range league.Teams {
		t := &league.Teams[i]
		out = append(out, TeamResponse{
			ID:          t.ID,
			Slug:        t.Slug,
			StatMuseID:  t.StatMuseID,
			CurrentSlug: t.SlugFor(league.DefaultSeason),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
