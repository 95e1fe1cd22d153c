package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/combatsim/internal/game/loadout"
)

// PostgresStore persists weapon builds in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL. The schema must already be
// migrated (see RunMigrations).
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Pool returns the underlying pgx pool.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// LoadBuilds returns every stored build ordered by weapon id.
func (s *PostgresStore) LoadBuilds(ctx context.Context) ([]loadout.WeaponBuild, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT weapon_id, mod_1, mod_2, mod_3, core
		 FROM weapon_builds ORDER BY weapon_id`)
	if err != nil {
		return nil, fmt.Errorf("querying weapon builds: %w", err)
	}
	builds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (loadout.WeaponBuild, error) {
		var b loadout.WeaponBuild
		err := row.Scan(&b.WeaponID, &b.Mods[0], &b.Mods[1], &b.Mods[2], &b.Core)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning weapon builds: %w", err)
	}
	return builds, nil
}

// SaveBuild inserts or replaces the build of b.WeaponID.
func (s *PostgresStore) SaveBuild(ctx context.Context, b loadout.WeaponBuild) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO weapon_builds (weapon_id, mod_1, mod_2, mod_3, core, updated_at)
		 VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		 ON CONFLICT (weapon_id) DO UPDATE SET
		     mod_1 = EXCLUDED.mod_1,
		     mod_2 = EXCLUDED.mod_2,
		     mod_3 = EXCLUDED.mod_3,
		     core = EXCLUDED.core,
		     updated_at = EXCLUDED.updated_at`,
		b.WeaponID, b.Mods[0], b.Mods[1], b.Mods[2], b.Core,
	)
	if err != nil {
		return fmt.Errorf("saving build %q: %w", b.WeaponID, err)
	}
	return nil
}

// LoadUnlocked returns unlocked weapon ids ordered by id.
func (s *PostgresStore) LoadUnlocked(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT weapon_id FROM unlocked_weapons ORDER BY weapon_id`)
	if err != nil {
		return nil, fmt.Errorf("querying unlocked weapons: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning unlocked weapons: %w", err)
	}
	return ids, nil
}

// SaveUnlocked replaces the unlocked set in one transaction.
func (s *PostgresStore) SaveUnlocked(ctx context.Context, ids []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM unlocked_weapons`); err != nil {
		return fmt.Errorf("clearing unlocked weapons: %w", err)
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`INSERT INTO unlocked_weapons (weapon_id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting unlocked weapons: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing unlocked weapons: %w", err)
	}
	return nil
}
