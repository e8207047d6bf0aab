package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/export"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/roster"
	"github.com/kozaktomas/roster-sync/internal/seed"
	"github.com/kozaktomas/roster-sync/internal/statmuse"
)

var seedCmd = &cobra.Command{
	Use:   "seed <league>",
	Short: "Scrape team rosters from StatMuse",
	Long: `Scrape the rosters of a league from StatMuse and upsert them into the
league table, or write them to a CSV file instead.

Player names are normalized and jersey numbers padded before they are
stored. A team season that fails is logged and skipped; a season without
a roster page is counted as missing.

Examples:
  # Seed the current NHL season
  roster-sync seed nhl

  # Seed several seasons of one team
  roster-sync seed nhl --team tampa-bay-lightning --start 2015 --end 2025

  # Export to CSV without touching the database
  roster-sync seed nba --csv nba.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("start", 0, "First season to seed (default: the league's current season)")
	seedCmd.Flags().Int("end", 0, "Last season to seed (default: same as --start)")
	seedCmd.Flags().String("team", "", "Seed only this team id")
	seedCmd.Flags().String("csv", "", "Write rosters to this CSV file instead of the database")
	seedCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

// SeedResult represents the result of a seed run
type SeedResult struct {
	RunID   string `json:"run_id"`
	League  string `json:"league"`
	Target  string `json:"target"`
	Seasons []int  `json:"seasons"`
	seed.Report
	DurationMs    int64  `json:"duration_ms"`
	DurationHuman string `json:"duration_human,omitempty"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	teamID := mustGetString(cmd, "team")
	csvPath := mustGetString(cmd, "csv")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	league, err := cfg.League(args[0])
	if err != nil {
		return err
	}
	start, end, err := seasonRange(cmd, league)
	if err != nil {
		return err
	}
	teams, err := seed.Teams(league, teamID)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(jsonOutput)
	defer cancel()

	runID := uuid.NewString()
	ctx = logging.WithField(ctx, "run_id", runID)
	ctx = logging.WithField(ctx, "league", league.Key)
	startTime := time.Now()

	client, err := statmuse.NewClient(cfg.StatMuse)
	if err != nil {
		return fmt.Errorf("failed to create StatMuse client: %w", err)
	}
	if captureDir != "" {
		if err := client.SetCaptureDir(captureDir); err != nil {
			return err
		}
	}
	scraper := statmuse.NewScraper(client, nil)

	var sink seed.Sink
	target := league.Table
	var csvWriter *export.Writer
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer f.Close()
		csvWriter = export.NewWriter(f, roster.OriginField(league.Origin))
		sink = seed.NewCSVSink(csvWriter)
		target = csvPath
	} else {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		sink = &seed.StoreSink{Writer: store, ChunkSize: cfg.Cleanup.UpsertChunkSize}
	}

	if !jsonOutput {
		fmt.Printf("Seeding %s into %s\n", league.Name, target)
		fmt.Printf("Teams: %d, seasons: %d-%d\n", len(teams), start, end)
		fmt.Printf("Run: %s\n\n", runID)
	}

	opts := seed.Options{StartSeason: start, EndSeason: end, TeamID: teamID}
	if !jsonOutput {
		bar := newProgressBar(len(teams)*(end-start+1), "Seeding rosters", "seasons")
		opts.OnTeamSeason = func(team *config.Team, season, n int, err error) {
			bar.Describe(fmt.Sprintf("%s %d", team.ID, season))
			bar.Add(1)
		}
	}

	report, runErr := seed.Run(ctx, scraper, sink, league, opts)
	if csvWriter != nil {
		if err := csvWriter.Flush(); err != nil {
			return err
		}
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("seeding failed: %w", runErr)
	}

	duration := time.Since(startTime)
	result := SeedResult{
		RunID:      runID,
		League:     league.Key,
		Target:     target,
		DurationMs: duration.Milliseconds(),
	}
	for s := start; s <= end; s++ {
		result.Seasons = append(result.Seasons, s)
	}
	if report != nil {
		result.Report = *report
	}

	if jsonOutput {
		result.DurationHuman = formatDuration(duration)
		return outputJSON(result)
	}

	fmt.Printf("\n\nSeed complete in %s\n", formatDuration(duration))
	fmt.Printf("  Team seasons: %d\n", result.TeamSeasons)
	fmt.Printf("  Records:      %d\n", result.Records)
	fmt.Printf("  Missing:      %d\n", result.Missing)
	if result.Failed > 0 {
		fmt.Printf("  Failed:       %d (see log)\n", result.Failed)
	}
	if runErr != nil {
		fmt.Println("  Interrupted before all teams were seeded")
	}
	return nil
}
