// Package sqlite is the single file roster backend, used for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/database/sqlstore"
)

// Dialect is the SQLite flavour of the shared roster SQL.
var Dialect = sqlstore.Dialect{
	Name:      "sqlite",
	BirthDate: "birth_date",
	Now:       "CURRENT_TIMESTAMP",
	Upsert:    sqlstore.OnConflict,
}

const tableSchema = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	team_id TEXT NOT NULL,
	season_year INTEGER NOT NULL,
	player_name TEXT NOT NULL,
	jersey_number TEXT,
	position TEXT,
	height TEXT,
	weight TEXT,
	birth_date TEXT,
	birthplace TEXT,
	college TEXT,
	phonetic_name TEXT,
	ipa_name TEXT,
	chinese_name TEXT,
	hardware_safe_name TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(team_id, season_year, player_name)
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_team_season ON %[1]s(team_id, season_year);
`

// Repository is a database.Store backed by SQLite.
type Repository struct {
	*sqlstore.Store
	path string
}

var _ database.Store = (*Repository)(nil)

// NewRepository opens the database at path (":memory:" for a private in-memory database).
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	return &Repository{Store: sqlstore.New(db, Dialect), path: path}, nil
}

// Open connects and ensures the schema exists.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
	repo, err := NewRepository(strings.TrimPrefix(cfg.URL, "sqlite://"))
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the roster tables if they don't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, table := range database.RosterTables {
		if _, err := r.DB().ExecContext(ctx, fmt.Sprintf(tableSchema, table)); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}
