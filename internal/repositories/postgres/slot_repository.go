package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/besteats/internal/repositories"
)

type SlotRepository struct {
	pool    *pgxpool.Pool
	profile string
}

func NewSlotRepository(pool *pgxpool.Pool, profile string) *SlotRepository {
	return &SlotRepository{pool: pool, profile: profile}
}

func (r *SlotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM profile_slots WHERE profile = $1 AND slot = $2`,
		r.profile, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}
	return value, nil
}

func (r *SlotRepository) Save(ctx context.Context, key string, value []byte) error {
	query := `
        INSERT INTO profile_slots (profile, slot, value, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (profile, slot)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	if _, err := r.pool.Exec(ctx, query, r.profile, key, value); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}
