// Package postgres implements the durable credential store: users,
// refresh-token records, and bot installations, all over one pgx pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL DEFAULT '',
	discord_id TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token TEXT PRIMARY KEY,
	user_id UUID NOT NULL,
	issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens (user_id);

CREATE TABLE IF NOT EXISTS bot_installations (
	guild_id TEXT PRIMARY KEY,
	bot_token TEXT NOT NULL,
	guild_name TEXT NOT NULL DEFAULT '',
	guild_icon TEXT NOT NULL DEFAULT '',
	discord_user_id TEXT NOT NULL,
	installed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Connect opens a pooled connection to the database and verifies it is
// reachable.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("[postgres.Connect] DATABASE_URL is required")
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Connect] parse database URL")
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Connect] create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "[postgres.Connect] ping")
	}

	return pool, nil
}

// Migrate creates the schema if it does not already exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "[postgres.Migrate] apply schema")
	}
	return nil
}
