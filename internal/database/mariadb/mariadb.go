// Package mariadb serves the roster tables from MariaDB or MySQL.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/database/sqlstore"
)

// Dialect is the MariaDB flavour of the shared roster SQL.
var Dialect = sqlstore.Dialect{
	Name:      "mysql",
	BirthDate: "DATE_FORMAT(birth_date, '%Y-%m-%d')",
	Now:       "CURRENT_TIMESTAMP",
	Upsert:    sqlstore.OnDuplicateKey,
}

const tableSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	team_id VARCHAR(64) NOT NULL,
	season_year INT NOT NULL,
	player_name VARCHAR(255) NOT NULL,
	jersey_number VARCHAR(8),
	position VARCHAR(32),
	height VARCHAR(16),
	weight VARCHAR(16),
	birth_date DATE,
	birthplace VARCHAR(255),
	college VARCHAR(255),
	phonetic_name VARCHAR(255),
	ipa_name VARCHAR(255),
	chinese_name VARCHAR(255),
	hardware_safe_name VARCHAR(255),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY identity_key (team_id, season_year, player_name),
	KEY team_season (team_id, season_year)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`

// Pool manages a MariaDB connection pool.
type Pool struct {
	*sqlstore.Store
}

var _ database.Store = (*Pool)(nil)

// NewPool creates a new MariaDB connection pool.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	// Validate the DSN up front so a typo fails with a readable message
	if _, err := mysql.ParseDSN(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid MariaDB DSN: %w", err)
	}

	db, err := sql.Open("mysql", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{Store: sqlstore.New(db, Dialect)}, nil
}

// Open connects and ensures the roster tables exist.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the roster tables if they don't exist.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	for _, table := range database.RosterTables {
		if _, err := p.DB().ExecContext(ctx, fmt.Sprintf(tableSchema, table)); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}
