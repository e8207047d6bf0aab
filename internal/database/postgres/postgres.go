package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/database/sqlstore"
)

// Dialect is the PostgreSQL flavour of the shared roster SQL.
var Dialect = sqlstore.Dialect{
	Name:      "postgres",
	Dollar:    true,
	BirthDate: "to_char(birth_date, 'YYYY-MM-DD')",
	Now:       "NOW()",
	Upsert:    sqlstore.OnConflict,
}

// Pool manages a PostgreSQL connection pool and serves the roster tables.
type Pool struct {
	*sqlstore.Store
	db *sql.DB
}

var _ database.Store = (*Pool)(nil)

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Store: sqlstore.New(db, Dialect), db: db}, nil
}

// Open connects, runs pending migrations and returns the pool as a database.Store.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}

// DeleteByIDs removes rows with a single array parameter instead of one placeholder per id.
func (p *Pool) DeleteByIDs(ctx context.Context, table string, ids []int64) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return fmt.Errorf("delete %d rows from %s: %w", len(ids), table, err)
	}
	return nil
}
