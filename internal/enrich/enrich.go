// Package enrich fills the pronunciation columns of roster records using an AI provider.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/roster-sync/internal/ai"
	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Options controls an enrichment run.
type Options struct {
	TeamID     string
	SeasonYear int
	Limit      int           // records per run, defaults to constants.DefaultEnrichLimit
	Delay      time.Duration // pause between provider calls

	// OnRecord is called after each record with the error it failed with, if any
	OnRecord func(rec roster.Record, err error)
}

// Report summarizes an enrichment run.
type Report struct {
	Candidates int
	Enriched   int
	Failed     int
	Usage      ai.Usage
}

// Run enriches up to opts.Limit records of the league table that have no phonetic name yet.
// A failure for one record is logged and counted; only listing failures and
// cancellation abort the run.
func Run(ctx context.Context, store database.PronunciationWriter, provider ai.Provider, league *config.League, opts Options) (*Report, error) {
	log := logging.FromContext(ctx)

	limit := opts.Limit
	if limit <= 0 {
		limit = constants.DefaultEnrichLimit
	}

	records, err := store.ListUnenriched(ctx, league.Table, database.Filter{
		TeamID:     opts.TeamID,
		SeasonYear: opts.SeasonYear,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list records to enrich: %w", err)
	}

	report := &Report{Candidates: len(records)}
	provider.ResetUsage()

	for i, rec := range records {
		if i > 0 && opts.Delay > 0 {
			if err := sleep(ctx, opts.Delay); err != nil {
				report.Usage = *provider.GetUsage()
				return report, err
			}
		}

		err := enrichOne(ctx, store, provider, league, rec)
		if err != nil {
			report.Failed++
			log.Warn().Err(err).
				Int64("id", rec.ID).
				Str("player", rec.PlayerName).
				Str("team", rec.TeamID).
				Msg("enrichment failed")
		} else {
			report.Enriched++
			log.Debug().Int64("id", rec.ID).Str("player", rec.PlayerName).Msg("enriched")
		}
		if opts.OnRecord != nil {
			opts.OnRecord(rec, err)
		}
		if ctx.Err() != nil {
			report.Usage = *provider.GetUsage()
			return report, ctx.Err()
		}
	}

	report.Usage = *provider.GetUsage()
	return report, nil
}

func enrichOne(ctx context.Context, store database.PronunciationWriter, provider ai.Provider, league *config.League, rec roster.Record) error {
	pron, err := provider.Pronounce(ctx, Request(league, rec))
	if err != nil {
		return err
	}
	pron.HardwareSafe = roster.HardwareSafeName(rec.PlayerName)
	if err := store.UpdatePronunciation(ctx, league.Table, rec.ID, *pron); err != nil {
		return fmt.Errorf("store pronunciation: %w", err)
	}
	return nil
}

// Request builds the provider request for one record of the league.
func Request(league *config.League, rec roster.Record) ai.PronunciationRequest {
	req := ai.PronunciationRequest{
		League:      league.Name,
		PlayerName:  rec.PlayerName,
		TeamID:      rec.TeamID,
		OriginLabel: "Birthplace",
		Origin:      rec.Birthplace,
	}
	if roster.OriginField(league.Origin) == roster.OriginCollege {
		req.OriginLabel = "College"
		req.Origin = rec.College
	}
	return req
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
