package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/names"
)

// Store is what a cleanup pass reads from and writes to.
type Store interface {
	database.RosterReader
	Writer
}

// PassOptions configures one cleanup pass over a table.
type PassOptions struct {
	PageSize int  // snapshot page size, defaults to constants.DefaultPageSize
	DryRun   bool // classify only, never write
	Apply    ApplyOptions

	// OnPage is called with the size of every snapshot page read
	OnPage func(n int)
}

// PassReport summarizes a cleanup pass.
type PassReport struct {
	Table    string        `json:"table"`
	Scanned  int           `json:"scanned"`
	DryRun   bool          `json:"dry_run"`
	Result   Result        `json:"result"`
	Applied  *ApplyReport  `json:"applied,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Pass snapshots table, reconciles the snapshot and, unless DryRun is set, applies the result.
// Only a failed snapshot is an error; failed write chunks are reported in Applied.
func Pass(ctx context.Context, s Store, table string, n names.Normalizer, opts PassOptions) (*PassReport, error) {
	if n == nil {
		n = names.StatMuse
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	log := logging.FromContext(ctx).With().Str("table", table).Logger()
	start := time.Now()

	snapshot, err := database.Snapshot(ctx, s, table, pageSize, opts.OnPage)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", table, err)
	}

	res := Reconcile(snapshot, n)
	log.Info().
		Int("scanned", len(snapshot)).
		Int("updates", len(res.Updates)).
		Int("deletes", len(res.Deletes)).
		Int("unchanged", res.Unchanged).
		Int("suspicious", len(res.Suspicious)).
		Msg("reconciled snapshot")

	report := &PassReport{
		Table:   table,
		Scanned: len(snapshot),
		DryRun:  opts.DryRun,
		Result:  res,
	}
	if !opts.DryRun {
		applied := Apply(ctx, s, table, res, opts.Apply)
		report.Applied = &applied
	}
	report.Duration = time.Since(start)
	return report, nil
}
