package sim

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/udisondev/combatsim/internal/sim"

// Runner drives an Engine at a fixed cadence.
type Runner struct {
	engine   *Engine
	interval time.Duration

	// Realtime paces steps with a wall-clock ticker; otherwise steps run
	// back to back.
	Realtime bool
	// RunFor stops the run after this much simulated time; zero runs until
	// one side is wiped out or the context is cancelled.
	RunFor time.Duration

	tracer trace.Tracer
	// onTick вызывается после каждого шага (для отчётов и тестов).
	onTick func(e *Engine)
}

// NewRunner creates a runner stepping e every interval.
func NewRunner(e *Engine, interval time.Duration) *Runner {
	return &Runner{
		engine:   e,
		interval: interval,
		Realtime: true,
		tracer:   otel.Tracer(tracerName),
	}
}

// SetTickCallback sets a hook called after every step.
func (r *Runner) SetTickCallback(fn func(e *Engine)) { r.onTick = fn }

// Run steps the engine until the fight ends, RunFor elapses or ctx is done.
// Returns ctx.Err() on cancellation and nil when the run finished on its own.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("simulation started",
		"interval", r.interval,
		"realtime", r.Realtime,
		"runFor", r.RunFor)

	if !r.Realtime {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.tick(ctx) {
				return nil
			}
		}
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "at", r.engine.Now())
			return ctx.Err()

		case <-ticker.C:
			if r.tick(ctx) {
				return nil
			}
		}
	}
}

// tick runs one traced step and reports whether the run is over.
func (r *Runner) tick(ctx context.Context) bool {
	e := r.engine
	_, span := r.tracer.Start(ctx, "sim.Step", trace.WithAttributes(
		attribute.Int64("sim.tick", int64(e.Stats().Ticks)),
		attribute.Int64("sim.now_ms", e.Now().Milliseconds()),
	))
	e.Step(r.interval)
	span.SetAttributes(
		attribute.Int("sim.actors", e.Arena().Len()),
		attribute.Int("sim.projectiles", e.Projectiles().Len()),
	)
	span.End()

	if r.onTick != nil {
		r.onTick(e)
	}

	if e.Done() {
		st := e.Stats()
		slog.Info("simulation finished",
			"at", e.Now(),
			"ticks", st.Ticks,
			"shots", st.Shots,
			"kills", st.Kills)
		return true
	}
	return r.RunFor > 0 && e.Now() >= r.RunFor
}
