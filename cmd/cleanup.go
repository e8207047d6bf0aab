package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/names"
	"github.com/kozaktomas/roster-sync/internal/reconcile"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [league...]",
	Short: "Repair player names and jersey numbers in the roster tables",
	Long: `Snapshot each league table, normalize player names and pad jersey
numbers, and write the result back.

Renaming a record can make it collide with another record of the same
team and season. A record that already carries the clean name keeps
it and the renamed one is deleted; when neither does, the first record
in id order claims it. Deletes run before updates.

Names that still contain an abbreviation marker after cleanup are
listed for a manual look.

Examples:
  # Clean every configured league
  roster-sync cleanup

  # Preview the NHL cleanup without writing
  roster-sync cleanup nhl --dry-run

  # JSON output for scripting
  roster-sync cleanup nhl nba --json`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().Bool("dry-run", false, "Classify records without applying changes")
	cleanupCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

// CleanupTableResult is the outcome of one table
type CleanupTableResult struct {
	League     string   `json:"league"`
	Table      string   `json:"table"`
	Scanned    int      `json:"scanned"`
	Updates    int      `json:"updates"`
	Deletes    int      `json:"deletes"`
	Unchanged  int      `json:"unchanged"`
	Suspicious []string `json:"suspicious,omitempty"`
	Updated    int      `json:"updated"`
	Deleted    int      `json:"deleted"`
	Errors     []string `json:"errors,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// CleanupResult represents the result of a cleanup run
type CleanupResult struct {
	RunID         string               `json:"run_id"`
	DryRun        bool                 `json:"dry_run"`
	Success       bool                 `json:"success"`
	Tables        []CleanupTableResult `json:"tables"`
	DurationMs    int64                `json:"duration_ms"`
	DurationHuman string               `json:"duration_human,omitempty"`
}

func runCleanup(cmd *cobra.Command, args []string) error {
	dryRun := mustGetBool(cmd, "dry-run")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	leagues, err := leaguesFromArgs(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(jsonOutput)
	defer cancel()

	runID := uuid.NewString()
	ctx = logging.WithField(ctx, "run_id", runID)
	startTime := time.Now()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !jsonOutput {
		fmt.Printf("Run: %s\n", runID)
		if dryRun {
			fmt.Println("Mode: DRY RUN (no changes will be applied)")
		}
	}

	sampleLimit := cfg.Cleanup.SampleLimit
	if sampleLimit <= 0 {
		sampleLimit = constants.DefaultSampleLimit
	}

	result := CleanupResult{RunID: runID, DryRun: dryRun, Success: true}
	for _, league := range leagues {
		if ctx.Err() != nil {
			break
		}
		leagueCtx := logging.WithField(ctx, "league", league.Key)

		if !jsonOutput {
			fmt.Printf("\n%s (%s)\n", league.Name, league.Table)
		}

		var snapshotBar, bar *progressbar.ProgressBar
		opts := reconcile.PassOptions{
			PageSize: cfg.Cleanup.PageSize,
			DryRun:   dryRun,
			Apply: reconcile.ApplyOptions{
				DeleteChunkSize: cfg.Cleanup.DeleteChunkSize,
				UpsertChunkSize: cfg.Cleanup.UpsertChunkSize,
			},
		}
		if !jsonOutput {
			snapshotBar = newProgressBar(-1, "Reading snapshot", "records")
			opts.OnPage = func(n int) { snapshotBar.Add(n) }
			opts.Apply.OnChunk = func(op reconcile.Op, n int) {
				if bar == nil {
					snapshotBar.Finish()
					bar = newProgressBar(-1, "Writing changes", "rows")
				}
				bar.Describe(fmt.Sprintf("Writing changes (%s)", op))
				bar.Add(n)
			}
		}

		report, err := reconcile.Pass(leagueCtx, store, league.Table, names.StatMuse, opts)
		if err != nil {
			logging.FromContext(leagueCtx).Error().Err(err).Msg("cleanup pass failed")
			result.Success = false
			result.Tables = append(result.Tables, CleanupTableResult{
				League: league.Key,
				Table:  league.Table,
				Errors: []string{err.Error()},
			})
			if !jsonOutput {
				fmt.Printf("  Error: %v\n", err)
			}
			continue
		}
		if bar != nil {
			bar.Finish()
		} else if snapshotBar != nil {
			snapshotBar.Finish()
		}

		tableResult := summarizePass(league, report, sampleLimit)
		logSuspicious(leagueCtx, report.Result.Suspicious, sampleLimit)
		if len(tableResult.Errors) > 0 {
			result.Success = false
		}
		result.Tables = append(result.Tables, tableResult)

		if !jsonOutput {
			printTableResult(tableResult, dryRun)
		}
	}

	duration := time.Since(startTime)
	result.DurationMs = duration.Milliseconds()

	if jsonOutput {
		result.DurationHuman = formatDuration(duration)
		return outputJSON(result)
	}

	fmt.Printf("\nCleanup complete in %s\n", formatDuration(duration))
	if ctx.Err() != nil {
		fmt.Println("Interrupted before all leagues were cleaned")
	}
	if !result.Success {
		return errors.New("cleanup finished with errors")
	}
	return nil
}

// summarizePass turns a pass report into the per table result, sampling suspicious names.
func summarizePass(league *config.League, report *reconcile.PassReport, sampleLimit int) CleanupTableResult {
	res := report.Result
	suspicious := res.Suspicious
	if sampleLimit > 0 && len(suspicious) > sampleLimit {
		suspicious = suspicious[:sampleLimit]
	}

	out := CleanupTableResult{
		League:     league.Key,
		Table:      report.Table,
		Scanned:    report.Scanned,
		Updates:    len(res.Updates),
		Deletes:    len(res.Deletes),
		Unchanged:  res.Unchanged,
		Suspicious: suspicious,
		DurationMs: report.Duration.Milliseconds(),
	}
	if report.Applied != nil {
		out.Updated = report.Applied.Updated
		out.Deleted = report.Applied.Deleted
		for _, chunkErr := range report.Applied.Errors {
			out.Errors = append(out.Errors, chunkErr.Error())
		}
	}
	return out
}

func printTableResult(r CleanupTableResult, dryRun bool) {
	fmt.Printf("\n  Scanned:   %d\n", r.Scanned)
	fmt.Printf("  Unchanged: %d\n", r.Unchanged)
	if dryRun {
		fmt.Printf("  Would update: %d\n", r.Updates)
		fmt.Printf("  Would delete: %d\n", r.Deletes)
	} else {
		fmt.Printf("  Updated:   %d of %d\n", r.Updated, r.Updates)
		fmt.Printf("  Deleted:   %d of %d\n", r.Deleted, r.Deletes)
	}
	if len(r.Suspicious) > 0 {
		fmt.Printf("  Suspicious names (sample):\n")
		for _, name := range r.Suspicious {
			fmt.Printf("    - %s\n", name)
		}
	}
	if len(r.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}

// logSuspicious logs up to limit names that still look abbreviated.
func logSuspicious(ctx context.Context, suspicious []string, limit int) {
	if len(suspicious) == 0 {
		return
	}
	sample := suspicious
	if limit > 0 && len(sample) > limit {
		sample = sample[:limit]
	}
	logging.FromContext(ctx).Warn().
		Int("count", len(suspicious)).
		Strs("sample", sample).
		Msg("names still contain an abbreviation marker")
}
