package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/combatsim/internal/ai"
	"github.com/udisondev/combatsim/internal/config"
	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/db"
	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/loadout"
	"github.com/udisondev/combatsim/internal/sim"
	"github.com/udisondev/combatsim/internal/telemetry"
)

const ConfigPath = "config/combatsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Config first: it decides the log level
	cfgPath := ConfigPath
	if p := os.Getenv("COMBATSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("combatsim starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"realtime", cfg.Realtime,
		"seed", cfg.Seed)

	if err := data.LoadWeaponTemplates(); err != nil {
		return fmt.Errorf("loading weapon templates: %w", err)
	}
	if cfg.WeaponsOverlay != "" {
		if err := data.LoadWeaponOverlay(cfg.WeaponsOverlay); err != nil {
			return fmt.Errorf("loading weapon overlay: %w", err)
		}
		slog.Info("weapon overlay applied", "path", cfg.WeaponsOverlay)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown", "error", err)
		}
	}()

	store, err := db.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening build storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("closing build storage", "error", err)
		}
	}()

	lo := loadout.New(store)
	if err := lo.Load(ctx); err != nil {
		return fmt.Errorf("loading weapon builds: %w", err)
	}
	if err := applyBuild(lo, cfg.Skirmish); err != nil {
		return err
	}

	engine, err := buildScene(&cfg, lo, fx.LogEmitter{})
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	runner := sim.NewRunner(engine, cfg.TickInterval())
	runner.Realtime = cfg.Realtime
	runner.RunFor = cfg.RunFor

	g, gctx := errgroup.WithContext(ctx)
	simDone := make(chan struct{})

	g.Go(func() error {
		defer close(simDone)
		slog.Info("starting simulation",
			"interval", cfg.TickInterval(),
			"actors", engine.Arena().Len(),
			"covers", engine.Covers().Len())
		if err := runner.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return flushLoop(gctx, lo, cfg.Storage.FlushInterval, simDone)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	st := engine.Stats()
	slog.Info("combatsim stopped",
		"sim_time", engine.Now(),
		"ticks", st.Ticks,
		"shots", st.Shots,
		"kills", st.Kills,
		"spawns", st.Spawns,
		"covers_destroyed", st.CoversDestroyed)
	return nil
}

// flushLoop saves dirty builds every interval and once more when the
// simulation ends.
func flushLoop(ctx context.Context, lo *loadout.Loadout, interval time.Duration, done <-chan struct{}) error {
	final := func() error {
		// ctx may already be cancelled; the last flush gets its own deadline.
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lo.Flush(flushCtx); err != nil {
			return fmt.Errorf("flushing weapon builds: %w", err)
		}
		return nil
	}

	if interval <= 0 {
		select {
		case <-ctx.Done():
		case <-done:
		}
		return final()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return final()
		case <-done:
			return final()
		case <-ticker.C:
			if !lo.Dirty() {
				continue
			}
			if err := lo.Flush(ctx); err != nil {
				slog.Error("periodic build flush failed", "error", err)
			}
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
