package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/roster-sync/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config)
	leaguesHandler := handlers.NewLeaguesHandler(s.config)
	rostersHandler := handlers.NewRostersHandler(s.config, s.store)
	statsHandler := handlers.NewStatsHandler(s.config, s.store)
	cleanupHandler := handlers.NewCleanupHandler(s.config, s.store, s.normalizer)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/config", configHandler.Get)
		r.Get("/stats", statsHandler.Get)

		r.Get("/leagues", leaguesHandler.List)
		r.Route("/leagues/{league}", func(r chi.Router) {
			r.Get("/teams", leaguesHandler.Teams)
			r.Get("/rosters", rostersHandler.List)
			r.Post("/cleanup/preview", cleanupHandler.Preview)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
}
