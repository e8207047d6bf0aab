package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/database/mariadb"
	"github.com/kozaktomas/roster-sync/internal/database/postgres"
	"github.com/kozaktomas/roster-sync/internal/database/sqlite"
	"github.com/kozaktomas/roster-sync/internal/logging"
)

func init() {
	database.RegisterBackend("postgres", postgres.Open)
	database.RegisterBackend("mysql", mariadb.Open)
	database.RegisterBackend("mariadb", mariadb.Open)
	database.RegisterBackend("sqlite", sqlite.Open)
}

// openStore connects the configured backend. The caller closes the store.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	logging.FromContext(ctx).Debug().
		Str("driver", cfg.Database.Driver).
		Strs("backends", database.Backends()).
		Msg("opening roster store")

	store, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// leaguesFromArgs resolves league keys, defaulting to every configured league.
func leaguesFromArgs(cfg *config.Config, args []string) ([]*config.League, error) {
	if len(args) == 0 {
		out := make([]*config.League, 0, len(cfg.Leagues))
		for i := range cfg.Leagues {
			out = append(out, &cfg.Leagues[i])
		}
		return out, nil
	}

	out := make([]*config.League, 0, len(args))
	for _, key := range args {
		league, err := cfg.League(key)
		if err != nil {
			return nil, err
		}
		out = append(out, league)
	}
	return out, nil
}
