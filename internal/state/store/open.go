package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/metromood/internal/config"
	"github.com/MrJamesThe3rd/metromood/internal/database"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

// Open connects the repository selected by cfg.Store.Driver. The returned
// close function releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (state.Repository, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return NewMemory(), func() error { return nil }, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}

		return NewRedis(client), client.Close, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			db      *sql.DB
			dialect Dialect
			err     error
		)

		if cfg.Store.Driver == config.DriverSQLite {
			db, err = database.NewSQLite(cfg.Store.SQLitePath)
			dialect = DialectSQLite
		} else {
			db, err = database.New(cfg.ConnectionString())
			dialect = DialectPostgres
		}

		if err != nil {
			return nil, nil, err
		}

		s, err := New(db, dialect)
		if err == nil {
			err = s.Migrate(ctx)
		}

		if err != nil {
			db.Close()
			return nil, nil, err
		}

		return s, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
