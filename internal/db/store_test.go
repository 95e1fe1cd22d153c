package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/combatsim/internal/config"
	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/game/loadout"
)

func TestMain(m *testing.M) {
	if err := data.LoadWeaponTemplates(); err != nil {
		fmt.Fprintf(os.Stderr, "loading weapon templates: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// testStoreContract runs the behaviour every Store must share.
func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		builds, err := s.LoadBuilds(ctx)
		require.NoError(t, err)
		assert.Empty(t, builds)
		ids, err := s.LoadUnlocked(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("builds upsert", func(t *testing.T) {
		railgun := loadout.WeaponBuild{WeaponID: "railgun", Core: loadout.CoreMarksman}
		blaster := loadout.WeaponBuild{WeaponID: "blaster", Mods: [loadout.SlotCount]string{loadout.ModHotLoads}}
		require.NoError(t, s.SaveBuild(ctx, railgun))
		require.NoError(t, s.SaveBuild(ctx, blaster))

		blaster.Mods[1] = loadout.ModLongBarrel
		blaster.Core = loadout.CoreOverclock
		require.NoError(t, s.SaveBuild(ctx, blaster))

		builds, err := s.LoadBuilds(ctx)
		require.NoError(t, err)
		assert.Equal(t, []loadout.WeaponBuild{blaster, railgun}, builds)
	})

	t.Run("unlocked replaced", func(t *testing.T) {
		require.NoError(t, s.SaveUnlocked(ctx, []string{"seeker", "blaster", "seeker"}))
		require.NoError(t, s.SaveUnlocked(ctx, []string{"blaster", "lance"}))

		ids, err := s.LoadUnlocked(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"blaster", "lance"}, ids)

		require.NoError(t, s.SaveUnlocked(ctx, nil))
		ids, err = s.LoadUnlocked(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestMemoryStore(t *testing.T) {
	s, err := Open(context.Background(), config.Storage{Driver: config.DriverMemory})
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "builds.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	testStoreContract(t, s)
	require.NoError(t, s.Close())

	// Повторное открытие: миграции идемпотентны, данные на месте.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	builds, err := s.LoadBuilds(ctx)
	require.NoError(t, err)
	assert.Len(t, builds, 2)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.Storage{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = OpenSQLite(ctx, "  ")
	assert.Error(t, err)

	s, err := Open(ctx, config.Storage{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestLoadout_FlushAndReloadThroughSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profile.db")
	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	l := loadout.New(s)
	require.NoError(t, l.Unlock("seeker"))
	ok, err := l.SetModifier("seeker", 0, loadout.ModSmartLock)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, l.Dirty())
	require.NoError(t, l.Flush(ctx))
	assert.False(t, l.Dirty())

	reloaded := loadout.New(s)
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.IsUnlocked("seeker"))
	assert.Equal(t, l.Build("seeker"), reloaded.Build("seeker"))
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, dsn))
	require.NoError(t, RunMigrations(ctx, dsn), "migrations are idempotent")

	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}
