package database

import (
	"context"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Filter narrows roster listings. Zero values match everything.
type Filter struct {
	TeamID     string
	SeasonYear int
	Limit      int
	Offset     int
}

// RosterReader provides read-only access to a roster table
type RosterReader interface {
	// FetchPage returns up to limit records ordered by id, starting at offset
	FetchPage(ctx context.Context, table string, limit, offset int) ([]roster.Record, error)
	// List returns records matching the filter ordered by team, season and player name
	List(ctx context.Context, table string, filter Filter) ([]roster.Record, error)
	// Count returns the number of records in the table
	Count(ctx context.Context, table string) (int, error)
}

// RosterWriter provides bulk write access to a roster table.
// Every method is idempotent, replaying a call has no additional effect.
type RosterWriter interface {
	// UpsertByIdentity inserts records or updates the row sharing (team_id, season_year, player_name).
	// Pronunciation columns of existing rows are left untouched.
	UpsertByIdentity(ctx context.Context, table string, records []roster.Record) error
	// UpsertByID writes records over the rows with the same id, in slice order
	UpsertByID(ctx context.Context, table string, records []roster.Record) error
	// DeleteByIDs removes the rows with the given ids; unknown ids are ignored
	DeleteByIDs(ctx context.Context, table string, ids []int64) error
}

// PronunciationWriter reads and writes the AI generated pronunciation columns
type PronunciationWriter interface {
	// ListUnenriched returns records without a phonetic name, ordered by id
	ListUnenriched(ctx context.Context, table string, filter Filter) ([]roster.Record, error)
	// UpdatePronunciation stores the pronunciation of one record
	UpdatePronunciation(ctx context.Context, table string, id int64, p roster.Pronunciation) error
}

// Store is a complete roster storage backend
type Store interface {
	RosterReader
	RosterWriter
	PronunciationWriter
	Close() error
}
