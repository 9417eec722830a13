package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type queries struct {
	schema string
	load   string
	save   string
}

var dialects = map[Dialect]queries{
	DialectPostgres: {
		schema: `CREATE TABLE IF NOT EXISTS app_state (
			name       TEXT PRIMARY KEY,
			blob       TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		load: `SELECT blob FROM app_state WHERE name = $1`,
		save: `INSERT INTO app_state (name, blob, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`,
	},
	DialectSQLite: {
		schema: `CREATE TABLE IF NOT EXISTS app_state (
			name       TEXT PRIMARY KEY,
			blob       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		load: `SELECT blob FROM app_state WHERE name = ?`,
		save: `INSERT INTO app_state (name, blob, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
	},
}

// Store keeps state blobs in a single key/value table.
type Store struct {
	db *sql.DB
	q  queries
}

func New(db *sql.DB, dialect Dialect) (*Store, error) {
	q, ok := dialects[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	return &Store{db: db, q: q}, nil
}

// Migrate creates the state table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.schema); err != nil {
		return fmt.Errorf("creating state table: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var blob string

	err := s.db.QueryRowContext(ctx, s.q.load, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrNoState
	}

	if err != nil {
		return nil, fmt.Errorf("loading state %q: %w", key, err)
	}

	return []byte(blob), nil
}

func (s *Store) Save(ctx context.Context, key string, blob []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.save, key, string(blob), time.Now().UTC()); err != nil {
		return fmt.Errorf("saving state %q: %w", key, err)
	}

	return nil
}
