package handlers

import (
	"net/http"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Providers      []ProviderInfo `json:"providers"`
	DatabaseDriver string         `json:"database_driver"`
	Leagues        []string       `json:"leagues"`
}

// ProviderInfo represents information about an AI provider
type ProviderInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Get returns the non-secret parts of the configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	providers := []ProviderInfo{
		{Name: constants.ProviderOpenAI, Available: h.config.OpenAI.Token != ""},
		{Name: constants.ProviderGemini, Available: h.config.Gemini.APIKey != ""},
		{Name: constants.ProviderOllama, Available: true}, // local
	}

	leagues := make([]string, 0, len(h.config.Leagues))
	for _, l := range h.config.Leagues {
		leagues = append(leagues, l.Key)
	}

	respondJSON(w, http.StatusOK, ConfigResponse{
		Providers:      providers,
		DatabaseDriver: h.config.Database.Driver,
		Leagues:        leagues,
	})
}
