package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/combatsim/internal/config"
	"github.com/udisondev/combatsim/internal/game/loadout"
)

// ErrUnsupportedDriver is returned by Open for an unknown storage driver.
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// Store is a closable persistence backend for weapon builds.
type Store interface {
	loadout.Store
	Close() error
}

// memoryStore adapts loadout.MemoryStore to Store.
type memoryStore struct {
	*loadout.MemoryStore
}

func (memoryStore) Close() error { return nil }

// Open connects the backend selected by cfg.Driver and applies migrations.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memoryStore{loadout.NewMemoryStore()}, nil

	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("build storage ready", "driver", cfg.Driver, "path", cfg.SQLitePath)
		return s, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("build storage ready",
			"driver", cfg.Driver,
			"host", cfg.Database.Host,
			"db", cfg.Database.DBName)
		return s, nil

	default:
		return nil, fmt.Errorf("%q: %w", cfg.Driver, ErrUnsupportedDriver)
	}
}
