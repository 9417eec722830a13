package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/config"
	"github.com/MrJamesThe3rd/metromood/internal/database"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/state/store"
)

func TestStore_SQLite(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "metromood.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db, store.DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	_, err = s.Load(ctx, state.DefaultKey)
	assert.ErrorIs(t, err, state.ErrNoState)

	require.NoError(t, s.Save(ctx, state.DefaultKey, []byte(`{"cycleLength":28}`)))
	require.NoError(t, s.Save(ctx, state.DefaultKey, []byte(`{"cycleLength":30}`)))

	got, err := s.Load(ctx, state.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cycleLength":30}`, string(got))
}

func TestStore_UnknownDialect(t *testing.T) {
	_, err := store.New(nil, "oracle")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := store.NewRedis(client)

	_, err := s.Load(ctx, state.DefaultKey)
	assert.ErrorIs(t, err, state.ErrNoState)

	require.NoError(t, s.Save(ctx, state.DefaultKey, []byte(`{"periodLength":4}`)))

	got, err := s.Load(ctx, state.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"periodLength":4}`, string(got))

	raw, err := mr.Get(state.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"periodLength":4}`, raw)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.Load(ctx, state.DefaultKey)
	assert.ErrorIs(t, err, state.ErrNoState)

	blob := []byte(`{"cycleLength":28}`)
	require.NoError(t, s.Save(ctx, state.DefaultKey, blob))

	blob[0] = 'x'

	got, err := s.Load(ctx, state.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"cycleLength":28}`, string(got))
}

func TestOpen(t *testing.T) {
	type testCase struct {
		name    string
		setup   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Memory",
			setup: func(_ *testing.T, cfg *config.Config) {
				cfg.Store.Driver = config.DriverMemory
			},
		},
		{
			name: "SQLite",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Store.Driver = config.DriverSQLite
				cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "data", "metromood.db")
			},
		},
		{
			name: "Redis",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Store.Driver = config.DriverRedis
				cfg.Redis.Addr = miniredis.RunT(t).Addr()
			},
		},
		{
			name: "UnknownDriver",
			setup: func(_ *testing.T, cfg *config.Config) {
				cfg.Store.Driver = "etcd"
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			var cfg config.Config
			tc.setup(t, &cfg)

			repo, closeRepo, err := store.Open(ctx, &cfg)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { closeRepo() })

			require.NoError(t, repo.Save(ctx, state.DefaultKey, []byte(`{}`)))

			got, err := repo.Load(ctx, state.DefaultKey)
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(got))
		})
	}
}
