package statmuse

import (
	"bytes"
	"context"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/names"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Fetcher downloads a roster page. *Client implements it.
type Fetcher interface {
	FetchRoster(ctx context.Context, league string, team *config.Team, season int) ([]byte, error)
}

// Scraper turns roster pages into canonical, deduplicated records.
type Scraper struct {
	fetcher    Fetcher
	normalizer names.Normalizer
}

// NewScraper creates a scraper. A nil normalizer uses names.StatMuse.
func NewScraper(f Fetcher, n names.Normalizer) *Scraper {
	if n == nil {
		n = names.StatMuse
	}
	return &Scraper{fetcher: f, normalizer: n}
}

// Scrape returns the canonical roster of one team season.
// A missing page is reported as ErrNotFound.
func (s *Scraper) Scrape(ctx context.Context, league *config.League, team *config.Team, season int) ([]roster.Record, error) {
	page, err := s.fetcher.FetchRoster(ctx, league.Key, team, season)
	if err != nil {
		return nil, err
	}
	rows, err := ParseRoster(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	origin := roster.OriginField(league.Origin)
	records := make([]roster.Record, 0, len(rows))
	for _, row := range rows {
		rec := roster.FromRaw(team.ID, season, row, origin, s.normalizer)
		if rec.PlayerName == "" {
			continue
		}
		records = append(records, rec)
	}
	return roster.Dedupe(records), nil
}
