package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
        id          BIGINT PRIMARY KEY,
        name        TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        price       NUMERIC(10, 2) NOT NULL,
        category    TEXT NOT NULL,
        popular     BOOLEAN NOT NULL DEFAULT FALSE,
        is_new      BOOLEAN NOT NULL DEFAULT FALSE,
        image       TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS profile_slots (
        profile    TEXT NOT NULL,
        slot       TEXT NOT NULL,
        value      BYTEA NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (profile, slot)
    )`,
}

// Connect opens a pool and makes sure the tables used by the repositories exist.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("error ensuring schema: %w", err)
		}
	}
	return pool, nil
}
