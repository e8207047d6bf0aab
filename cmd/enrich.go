package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/roster-sync/internal/ai"
	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/enrich"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <league>",
	Short: "Generate player name pronunciations using AI",
	Long: `Ask an AI model how to pronounce the names of players that have no
pronunciation yet, and store the phonetic spelling, IPA, Chinese
transliteration and an upper-cased hardware safe name.

A record the model fails on is logged and skipped; the next run picks
it up again.

Examples:
  # Enrich up to ENRICH_LIMIT NHL players with OpenAI
  roster-sync enrich nhl

  # One team and season with Gemini
  roster-sync enrich nba --provider gemini --team boston-celtics --season 2026

  # Local model, no delay between calls
  roster-sync enrich mlb --provider ollama --delay 0s`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().String("provider", constants.ProviderOpenAI, "AI provider to use: openai, gemini, ollama")
	enrichCmd.Flags().String("team", "", "Enrich only this team id")
	enrichCmd.Flags().Int("season", 0, "Enrich only this season")
	enrichCmd.Flags().Int("limit", 0, "Maximum records to enrich (default: ENRICH_LIMIT)")
	enrichCmd.Flags().Duration("delay", -1, "Pause between AI calls (default: ENRICH_DELAY)")
	enrichCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

// EnrichResult represents the result of an enrichment run
type EnrichResult struct {
	RunID         string  `json:"run_id"`
	League        string  `json:"league"`
	Provider      string  `json:"provider"`
	Candidates    int     `json:"candidates"`
	Enriched      int     `json:"enriched"`
	Failed        int     `json:"failed"`
	InputTokens   int     `json:"input_tokens"`
	OutputTokens  int     `json:"output_tokens"`
	TotalCost     float64 `json:"total_cost_usd"`
	DurationMs    int64   `json:"duration_ms"`
	DurationHuman string  `json:"duration_human,omitempty"`
}

// newProvider creates the pronunciation provider selected by name.
func newProvider(ctx context.Context, cfg *config.Config, name string) (ai.Provider, error) {
	switch name {
	case constants.ProviderOpenAI:
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		pricing := cfg.GetModelPricing("gpt-4.1-mini")
		return ai.NewOpenAIProvider(cfg.OpenAI.Token,
			ai.RequestPricing{Input: pricing.Standard.Input, Output: pricing.Standard.Output},
		), nil
	case constants.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		pricing := cfg.GetModelPricing("gemini-2.5-flash")
		provider, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, "",
			ai.RequestPricing{Input: pricing.Standard.Input, Output: pricing.Standard.Output},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		return provider, nil
	case constants.ProviderOllama:
		return ai.NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, gemini, ollama)", name)
	}
}

func runEnrich(cmd *cobra.Command, args []string) error {
	providerName := mustGetString(cmd, "provider")
	teamID := mustGetString(cmd, "team")
	season := mustGetInt(cmd, "season")
	limit := mustGetInt(cmd, "limit")
	delay := mustGetDuration(cmd, "delay")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	league, err := cfg.League(args[0])
	if err != nil {
		return err
	}
	if teamID != "" {
		if _, ok := league.Team(teamID); !ok {
			return fmt.Errorf("unknown team %q in league %s", teamID, league.Key)
		}
	}
	if limit <= 0 {
		limit = cfg.Enrich.Limit
	}
	if delay < 0 {
		delay = cfg.Enrich.Delay
	}

	ctx, cancel := signalContext(jsonOutput)
	defer cancel()

	runID := uuid.NewString()
	ctx = logging.WithField(ctx, "run_id", runID)
	ctx = logging.WithField(ctx, "league", league.Key)
	startTime := time.Now()

	provider, err := newProvider(ctx, cfg, providerName)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !jsonOutput {
		fmt.Printf("Enriching %s (%s)\n", league.Name, league.Table)
		fmt.Printf("Provider: %s\n", provider.Name())
		fmt.Printf("Run: %s\n\n", runID)
	}

	opts := enrich.Options{
		TeamID:     teamID,
		SeasonYear: season,
		Limit:      limit,
		Delay:      delay,
	}
	if !jsonOutput {
		bar := newProgressBar(-1, "Enriching players", "players")
		opts.OnRecord = func(rec roster.Record, err error) {
			bar.Describe(rec.PlayerName)
			bar.Add(1)
		}
	}

	report, err := enrich.Run(ctx, store, provider, league, opts)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	duration := time.Since(startTime)
	result := EnrichResult{
		RunID:      runID,
		League:     league.Key,
		Provider:   provider.Name(),
		DurationMs: duration.Milliseconds(),
	}
	if report != nil {
		result.Candidates = report.Candidates
		result.Enriched = report.Enriched
		result.Failed = report.Failed
		result.InputTokens = report.Usage.InputTokens
		result.OutputTokens = report.Usage.OutputTokens
		result.TotalCost = report.Usage.TotalCost
	}

	if jsonOutput {
		result.DurationHuman = formatDuration(duration)
		return outputJSON(result)
	}

	fmt.Printf("\n\nEnrichment complete in %s\n", formatDuration(duration))
	fmt.Printf("  Candidates: %d\n", result.Candidates)
	fmt.Printf("  Enriched:   %d\n", result.Enriched)
	if result.Failed > 0 {
		fmt.Printf("  Failed:     %d (see log)\n", result.Failed)
	}
	if result.InputTokens > 0 || result.OutputTokens > 0 {
		fmt.Printf("\nAPI Usage:\n")
		fmt.Printf("  Input tokens: %d\n", result.InputTokens)
		fmt.Printf("  Output tokens: %d\n", result.OutputTokens)
		fmt.Printf("  Total cost: $%.4f\n", result.TotalCost)
	}
	if ctx.Err() != nil {
		fmt.Println("Interrupted before all players were enriched")
	}
	return nil
}
