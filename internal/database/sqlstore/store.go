// Package sqlstore implements database.Store on top of database/sql.
// Queries are written with '?' placeholders and rebound for dialects that use $n.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	Name string
	// Dollar switches placeholders from '?' to $1, $2, ...
	Dollar bool
	// BirthDate is the select expression rendering birth_date as YYYY-MM-DD text
	BirthDate string
	// Now is the current timestamp expression
	Now string
	// Upsert renders the conflict clause appended to an INSERT
	Upsert func(target, update []string, now string) string
}

var (
	identityColumns = []string{"team_id", "season_year", "player_name"}
	dataColumns     = []string{
		"team_id", "season_year", "player_name", "jersey_number", "position",
		"height", "weight", "birth_date", "birthplace", "college",
	}
	// written by UpsertByIdentity on conflict; identity columns are the conflict target
	scrapedColumns = dataColumns[3:]
)

// OnConflict renders the PostgreSQL and SQLite upsert clause.
func OnConflict(target, update []string, now string) string {
	sets := make([]string, 0, len(update)+1)
	for _, c := range update {
		sets = append(sets, c+" = excluded."+c)
	}
	sets = append(sets, "updated_at = "+now)
	return "ON CONFLICT (" + strings.Join(target, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}

// OnDuplicateKey renders the MySQL/MariaDB upsert clause. The conflict target is implied by the unique keys.
func OnDuplicateKey(_, update []string, now string) string {
	sets := make([]string, 0, len(update)+1)
	for _, c := range update {
		sets = append(sets, c+" = VALUES("+c+")")
	}
	sets = append(sets, "updated_at = "+now)
	return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

// Store is a database.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ database.Store = (*Store)(nil)

// New wraps db. The caller keeps ownership of schema management.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// Rebind converts '?' placeholders to the dialect's style.
func (s *Store) Rebind(query string) string {
	if !s.dialect.Dollar {
		return query
	}
	var b strings.Builder
	idx := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			fmt.Fprintf(&b, "$%d", idx)
			idx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

func (s *Store) selectColumns() string {
	return "id, team_id, season_year, player_name, jersey_number, position, height, weight, " +
		s.dialect.BirthDate + " AS birth_date, birthplace, college, " +
		"phonetic_name, ipa_name, chinese_name, hardware_safe_name"
}

func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if err := database.ValidateTable(table); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *Store) FetchPage(ctx context.Context, table string, limit, offset int) ([]roster.Record, error) {
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	query := "SELECT " + s.selectColumns() + " FROM " + table + " ORDER BY id LIMIT ? OFFSET ?"
	return s.query(ctx, query, limit, offset)
}

func (s *Store) List(ctx context.Context, table string, filter database.Filter) ([]roster.Record, error) {
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	where, args := filterClause(nil, filter)
	query := "SELECT " + s.selectColumns() + " FROM " + table + where +
		" ORDER BY team_id, season_year, player_name, id"
	query, args = limitClause(query, args, filter)
	return s.query(ctx, query, args...)
}

func (s *Store) ListUnenriched(ctx context.Context, table string, filter database.Filter) ([]roster.Record, error) {
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	where, args := filterClause([]string{"phonetic_name IS NULL"}, filter)
	query := "SELECT " + s.selectColumns() + " FROM " + table + where + " ORDER BY id"
	query, args = limitClause(query, args, filter)
	return s.query(ctx, query, args...)
}

func (s *Store) UpdatePronunciation(ctx context.Context, table string, id int64, p roster.Pronunciation) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	query := "UPDATE " + table + " SET phonetic_name = ?, ipa_name = ?, chinese_name = ?, hardware_safe_name = ?, updated_at = " +
		s.dialect.Now + " WHERE id = ?"
	_, err := s.db.ExecContext(ctx, s.Rebind(query),
		nullString(p.Phonetic), nullString(p.IPA), nullString(p.Chinese), nullString(p.HardwareSafe), id)
	if err != nil {
		return fmt.Errorf("update pronunciation of %s id %d: %w", table, id, err)
	}
	return nil
}

func (s *Store) UpsertByIdentity(ctx context.Context, table string, records []roster.Record) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	query := insertStatement(table, dataColumns) + " " +
		s.dialect.Upsert(identityColumns, scrapedColumns, s.dialect.Now)
	return s.execEach(ctx, query, records, func(r *roster.Record) []any {
		return dataValues(r)
	})
}

func (s *Store) UpsertByID(ctx context.Context, table string, records []roster.Record) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	cols := append([]string{"id"}, dataColumns...)
	query := insertStatement(table, cols) + " " + s.dialect.Upsert([]string{"id"}, dataColumns, s.dialect.Now)
	return s.execEach(ctx, query, records, func(r *roster.Record) []any {
		return append([]any{r.ID}, dataValues(r)...)
	})
}

func (s *Store) DeleteByIDs(ctx context.Context, table string, ids []int64) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := "DELETE FROM " + table + " WHERE id IN (" + placeholders(len(ids)) + ")"
	if _, err := s.db.ExecContext(ctx, s.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete %d rows from %s: %w", len(ids), table, err)
	}
	return nil
}

// execEach runs query once per record inside a single transaction, in slice order.
func (s *Store) execEach(ctx context.Context, query string, records []roster.Record, values func(*roster.Record) []any) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, s.Rebind(query))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		if _, err := stmt.ExecContext(ctx, values(&records[i])...); err != nil {
			return fmt.Errorf("write %s: %w", records[i].Identity(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]roster.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	var records []roster.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}
