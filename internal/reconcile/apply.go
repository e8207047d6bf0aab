package reconcile

import (
	"context"
	"fmt"

	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/logging"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Writer is the part of a roster store Apply needs.
type Writer interface {
	DeleteByIDs(ctx context.Context, table string, ids []int64) error
	UpsertByID(ctx context.Context, table string, records []roster.Record) error
}

// ApplyOptions tunes batching. Zero sizes fall back to the package defaults.
type ApplyOptions struct {
	DeleteChunkSize int
	UpsertChunkSize int
	// OnChunk is called after every chunk, successful or not, with the chunk size
	OnChunk func(op Op, n int)
}

// Op names a batched write.
type Op string

const (
	OpDelete Op = "delete"
	OpUpsert Op = "upsert"
)

// ChunkError records one failed chunk.
type ChunkError struct {
	Op    Op    `json:"op"`
	Chunk int   `json:"chunk"` // zero based
	Size  int   `json:"size"`
	Err   error `json:"-"`
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("%s chunk %d (%d rows): %v", e.Op, e.Chunk, e.Size, e.Err)
}

func (e ChunkError) Unwrap() error {
	return e.Err
}

// ApplyReport summarizes a best effort apply.
type ApplyReport struct {
	Deleted int          `json:"deleted"`
	Updated int          `json:"updated"`
	Errors  []ChunkError `json:"errors,omitempty"`
}

// Failed reports whether any chunk failed.
func (r ApplyReport) Failed() bool {
	return len(r.Errors) > 0
}

// Apply writes res to the table: deletes first, then updates, both chunked.
// A failed chunk is logged and recorded; the remaining chunks still run.
func Apply(ctx context.Context, w Writer, table string, res Result, opts ApplyOptions) ApplyReport {
	if opts.DeleteChunkSize <= 0 {
		opts.DeleteChunkSize = constants.DefaultDeleteChunkSize
	}
	if opts.UpsertChunkSize <= 0 {
		opts.UpsertChunkSize = constants.DefaultUpsertChunkSize
	}
	log := logging.FromContext(ctx).With().Str("table", table).Logger()

	var report ApplyReport
	deleteChunks := Chunk(res.Deletes, opts.DeleteChunkSize)
	for i, ids := range deleteChunks {
		if err := w.DeleteByIDs(ctx, table, ids); err != nil {
			report.Errors = append(report.Errors, ChunkError{Op: OpDelete, Chunk: i, Size: len(ids), Err: err})
			log.Error().Err(err).Int("chunk", i+1).Int("chunks", len(deleteChunks)).Msg("delete chunk failed")
		} else {
			report.Deleted += len(ids)
			log.Debug().Int("chunk", i+1).Int("chunks", len(deleteChunks)).Msg("deleted chunk")
		}
		if opts.OnChunk != nil {
			opts.OnChunk(OpDelete, len(ids))
		}
	}

	upsertChunks := Chunk(res.Updates, opts.UpsertChunkSize)
	for i, records := range upsertChunks {
		if err := w.UpsertByID(ctx, table, records); err != nil {
			report.Errors = append(report.Errors, ChunkError{Op: OpUpsert, Chunk: i, Size: len(records), Err: err})
			log.Error().Err(err).Int("chunk", i+1).Int("chunks", len(upsertChunks)).Msg("upsert chunk failed")
		} else {
			report.Updated += len(records)
			log.Debug().Int("chunk", i+1).Int("chunks", len(upsertChunks)).Msg("upserted chunk")
		}
		if opts.OnChunk != nil {
			opts.OnChunk(OpUpsert, len(records))
		}
	}
	return report
}
