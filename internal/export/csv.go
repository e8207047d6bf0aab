// Package export writes scraped rosters to CSV instead of the store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Header returns the CSV header row for a league storing origin in the given column.
func Header(origin roster.OriginField) []string {
	col := string(origin)
	if col == "" {
		col = string(roster.OriginBirthplace)
	}
	return []string{
		"team_id", "season_year", "player_name", "jersey_number",
		"position", "height", "weight", "birth_date", col,
	}
}

// Writer streams records as CSV rows. The header is written before the first row.
type Writer struct {
	csv         *csv.Writer
	origin      roster.OriginField
	wroteHeader bool
	rows        int
}

// NewWriter creates a CSV writer for the given origin column.
func NewWriter(w io.Writer, origin roster.OriginField) *Writer {
	return &Writer{csv: csv.NewWriter(w), origin: origin}
}

// Write appends records. Call Flush when done.
func (w *Writer) Write(records []roster.Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	for i := range records {
		if err := w.csv.Write(w.row(&records[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		w.rows++
	}
	return nil
}

// Flush writes the header if nothing was written yet and flushes buffered rows.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	if err := w.csv.Write(Header(w.origin)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return nil
}

func (w *Writer) row(r *roster.Record) []string {
	origin := r.Birthplace
	if w.origin == roster.OriginCollege {
		origin = r.College
	}
	return []string{
		r.TeamID,
		strconv.Itoa(r.SeasonYear),
		r.PlayerName,
		r.JerseyNumber,
		r.Position,
		r.Height,
		r.Weight,
		r.BirthDate,
		origin,
	}
}

// WriteCSV writes a header and all records to w.
func WriteCSV(w io.Writer, records []roster.Record, origin roster.OriginField) error {
	cw := NewWriter(w, origin)
	if err := cw.Write(records); err != nil {
		return err
	}
	return cw.Flush()
}
