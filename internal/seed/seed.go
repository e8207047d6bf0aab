// Package seed ingests scraped team rosters into a sink, one team season at a time.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/export"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/reconcile"
	"github.com/kozaktomas/roster-sync/internal/roster"
	"github.com/kozaktomas/roster-sync/internal/statmuse"
)

// Scraper returns the canonical roster of one team season.
type Scraper interface {
	Scrape(ctx context.Context, league *config.League, team *config.Team, season int) ([]roster.Record, error)
}

// Sink receives the records of one team season.
type Sink interface {
	Write(ctx context.Context, league *config.League, records []roster.Record) error
}

// Options selects what to seed.
type Options struct {
	StartSeason int
	EndSeason   int
	TeamID      string // empty seeds every team of the league

	// OnTeamSeason is called after every team season with the records written and the error, if any
	OnTeamSeason func(team *config.Team, season, records int, err error)
}

// Report summarizes a seed run.
type Report struct {
	TeamSeasons int `json:"team_seasons"`
	Records     int `json:"records"`
	Missing     int `json:"missing"` // team seasons without a roster page
	Failed      int `json:"failed"`
}

// Teams returns the teams to seed, or an error when teamID is not part of the league.
func Teams(league *config.League, teamID string) ([]*config.Team, error) {
	if teamID != "" {
		team, ok := league.Team(teamID)
		if !ok {
			return nil, fmt.Errorf("unknown team %q in league %s", teamID, league.Key)
		}
		return []*config.Team{team}, nil
	}
	teams := make([]*config.Team, 0, len(league.Teams))
	for i := range league.Teams {
		teams = append(teams, &league.Teams[i])
	}
	return teams, nil
}

// Run scrapes every selected team season and writes it to sink. A failed team
// season is logged and skipped; only cancellation and bad options abort the run.
func Run(ctx context.Context, scraper Scraper, sink Sink, league *config.League, opts Options) (*Report, error) {
	if opts.StartSeason == 0 {
		opts.StartSeason = league.DefaultSeason
	}
	if opts.EndSeason == 0 {
		opts.EndSeason = opts.StartSeason
	}
	if opts.EndSeason < opts.StartSeason {
		return nil, fmt.Errorf("end season %d is before start season %d", opts.EndSeason, opts.StartSeason)
	}
	teams, err := Teams(league, opts.TeamID)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	report := &Report{}
	for _, team := range teams {
		for season := opts.StartSeason; season <= opts.EndSeason; season++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.TeamSeasons++

			n, err := seedOne(ctx, scraper, sink, league, team, season)
			switch {
			case errors.Is(err, statmuse.ErrNotFound):
				report.Missing++
				log.Warn().Str("team", team.ID).Int("season", season).Msg("no roster page")
				err = nil
			case err != nil && ctx.Err() != nil:
				return report, ctx.Err()
			case err != nil:
				report.Failed++
				log.Error().Err(err).Str("team", team.ID).Int("season", season).Msg("seeding team season failed")
			default:
				report.Records += n
				log.Debug().Str("team", team.ID).Int("season", season).Int("records", n).Msg("team season seeded")
			}
			if opts.OnTeamSeason != nil {
				opts.OnTeamSeason(team, season, n, err)
			}
		}
	}
	return report, nil
}

func seedOne(ctx context.Context, scraper Scraper, sink Sink, league *config.League, team *config.Team, season int) (int, error) {
	records, err := scraper.Scrape(ctx, league, team, season)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := sink.Write(ctx, league, records); err != nil {
		return 0, fmt.Errorf("write %d records: %w", len(records), err)
	}
	return len(records), nil
}

// StoreSink upserts records into the league table by identity.
type StoreSink struct {
	Writer    database.RosterWriter
	ChunkSize int
}

func (s *StoreSink) Write(ctx context.Context, league *config.League, records []roster.Record) error {
	size := s.ChunkSize
	if size <= 0 {
		size = constants.DefaultUpsertChunkSize
	}
	for _, chunk := range reconcile.Chunk(records, size) {
		if err := s.Writer.UpsertByIdentity(ctx, league.Table, chunk); err != nil {
			return err
		}
	}
	return nil
}

// CSVSink appends records to a CSV export.
type CSVSink struct {
	mu sync.Mutex
	w  *export.Writer
}

// NewCSVSink wraps an export writer. The caller flushes it when the run is over.
func NewCSVSink(w *export.Writer) *CSVSink {
	return &CSVSink{w: w}
}

func (s *CSVSink) Write(_ context.Context, _ *config.League, records []roster.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(records)
}
