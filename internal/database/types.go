package database

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

// ErrUnknownTable is returned for table names outside RosterTables.
var ErrUnknownTable = errors.New("unknown roster table")

// RosterTables lists the tables a backend manages. Table names are interpolated
// into SQL, so every backend validates against this list first.
var RosterTables = []string{"nhl_rosters", "mlb_rosters", "nba_rosters"}

// ValidateTable returns ErrUnknownTable unless table is one of RosterTables.
func ValidateTable(table string) error {
	if !slices.Contains(RosterTables, table) {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

// Snapshot reads the whole table page by page in id order.
// onPage, when set, is called with the size of every page read.
func Snapshot(ctx context.Context, r RosterReader, table string, pageSize int, onPage func(n int)) ([]roster.Record, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	var all []roster.Record
	offset := 0
	for {
		page, err := r.FetchPage(ctx, table, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page at offset %d: %w", table, offset, err)
		}
		if onPage != nil {
			onPage(len(page))
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		offset += len(page)
	}
}
