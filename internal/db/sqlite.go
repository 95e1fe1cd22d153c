package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/udisondev/combatsim/internal/game/loadout"
)

// SQLiteStore persists weapon builds in a local SQLite file.
// Used for single-player profiles where no database server is available.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite file at path and applies
// the embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteStore{db: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadBuilds returns every stored build ordered by weapon id.
func (s *SQLiteStore) LoadBuilds(ctx context.Context) ([]loadout.WeaponBuild, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT weapon_id, mod_1, mod_2, mod_3, core
		 FROM weapon_builds ORDER BY weapon_id`)
	if err != nil {
		return nil, fmt.Errorf("querying weapon builds: %w", err)
	}
	defer rows.Close()

	var builds []loadout.WeaponBuild
	for rows.Next() {
		var b loadout.WeaponBuild
		if err := rows.Scan(&b.WeaponID, &b.Mods[0], &b.Mods[1], &b.Mods[2], &b.Core); err != nil {
			return nil, fmt.Errorf("scanning weapon build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weapon builds: %w", err)
	}
	return builds, nil
}

// SaveBuild inserts or replaces the build of b.WeaponID.
func (s *SQLiteStore) SaveBuild(ctx context.Context, b loadout.WeaponBuild) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weapon_builds (weapon_id, mod_1, mod_2, mod_3, core, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (weapon_id) DO UPDATE SET
		     mod_1 = excluded.mod_1,
		     mod_2 = excluded.mod_2,
		     mod_3 = excluded.mod_3,
		     core = excluded.core,
		     updated_at = excluded.updated_at`,
		b.WeaponID, b.Mods[0], b.Mods[1], b.Mods[2], b.Core,
	)
	if err != nil {
		return fmt.Errorf("saving build %q: %w", b.WeaponID, err)
	}
	return nil
}

// LoadUnlocked returns unlocked weapon ids ordered by id.
func (s *SQLiteStore) LoadUnlocked(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT weapon_id FROM unlocked_weapons ORDER BY weapon_id`)
	if err != nil {
		return nil, fmt.Errorf("querying unlocked weapons: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning unlocked weapon: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unlocked weapons: %w", err)
	}
	return ids, nil
}

// SaveUnlocked replaces the unlocked set in one transaction.
func (s *SQLiteStore) SaveUnlocked(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM unlocked_weapons`); err != nil {
		return fmt.Errorf("clearing unlocked weapons: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unlocked_weapons (weapon_id) VALUES (?) ON CONFLICT DO NOTHING`, id); err != nil {
			return fmt.Errorf("inserting unlocked weapon %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing unlocked weapons: %w", err)
	}
	return nil
}
