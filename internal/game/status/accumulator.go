// Package status implements accumulating status effects (Ignite, Toxin, Stun).
//
// Each hit adds buildup to a per-actor, per-kind meter capped at Threshold.
// Reaching the threshold activates the effect for a fixed window and resets
// the meter. Active effects are resolved on a fixed cadence that does not
// depend on the caller's frame rate.
package status

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/model"
)

// Threshold is the buildup value that activates an effect.
const Threshold = 10.0

// Tuning holds per-kind durations and damage rates.
type Tuning struct {
	Cadence        time.Duration
	IgniteDuration time.Duration
	IgniteDPS      float64
	ToxinDuration  time.Duration
	ToxinDPS       float64
	StunDuration   time.Duration
}

// DefaultTuning returns the stock values.
func DefaultTuning() Tuning {
	return Tuning{
		Cadence:        100 * time.Millisecond,
		IgniteDuration: 4 * time.Second,
		IgniteDPS:      8,
		ToxinDuration:  6 * time.Second,
		ToxinDPS:       2.5,
		StunDuration:   1500 * time.Millisecond,
	}
}

// Duration returns the active window length for kind.
func (t Tuning) Duration(kind model.StatusKind) time.Duration {
	switch kind {
	case model.StatusIgnite:
		return t.IgniteDuration
	case model.StatusToxin:
		return t.ToxinDuration
	case model.StatusStun:
		return t.StunDuration
	default:
		return 0
	}
}

// DPS returns the health damage per second for kind (0 for Stun).
func (t Tuning) DPS(kind model.StatusKind) float64 {
	switch kind {
	case model.StatusIgnite:
		return t.IgniteDPS
	case model.StatusToxin:
		return t.ToxinDPS
	default:
		return 0
	}
}

// HealthSink receives status damage. It must bypass shields.
type HealthSink interface {
	ApplyHealthDamage(id model.ActorID, amount int32) int32
}

// State is the per-(actor, kind) record.
type State struct {
	Accumulated float64
	ActiveFrom  time.Duration
	ActiveUntil time.Duration
	// carry — дробный остаток урона, переносится между тиками.
	carry float64
}

// Active reports whether the effect window covers now.
func (s *State) Active(now time.Duration) bool {
	return s.ActiveUntil > s.ActiveFrom && now >= s.ActiveFrom && now < s.ActiveUntil
}

type key struct {
	actor model.ActorID
	kind  model.StatusKind
}

// Accumulator tracks status buildup for every actor.
// Not goroutine-safe: owned by the simulation tick.
type Accumulator struct {
	tuning Tuning
	sink   HealthSink
	fx     fx.Emitter

	states map[key]*State
	order  []key // insertion order, deterministic ticking

	clock time.Duration // last resolved cadence step
}

// NewAccumulator creates an accumulator. sink may be nil when only Stun is used.
func NewAccumulator(tuning Tuning, sink HealthSink, emitter fx.Emitter) *Accumulator {
	if tuning.Cadence <= 0 {
		tuning.Cadence = DefaultTuning().Cadence
	}
	if emitter == nil {
		emitter = fx.Discard
	}
	return &Accumulator{
		tuning: tuning,
		sink:   sink,
		fx:     emitter,
		states: make(map[key]*State),
	}
}

// Tuning returns the active tuning.
func (a *Accumulator) Tuning() Tuning { return a.tuning }

func (a *Accumulator) state(actor model.ActorID, kind model.StatusKind) *State {
	k := key{actor, kind}
	st, ok := a.states[k]
	if !ok {
		st = &State{}
		a.states[k] = st
		a.order = append(a.order, k)
	}
	return st
}

// OnHit adds amount of buildup. Returns true when the hit activated the effect.
// The meter never exceeds Threshold: reaching it triggers and resets to 0.
// A trigger during an active window extends that window.
func (a *Accumulator) OnHit(actor model.ActorID, kind model.StatusKind, amount float64, now time.Duration) bool {
	if kind == model.StatusNone || actor == model.NoActor {
		return false
	}
	if math.IsNaN(amount) || amount <= 0 {
		return false
	}

	st := a.state(actor, kind)
	sum := st.Accumulated + amount
	if sum < Threshold {
		st.Accumulated = sum
		return false
	}

	d := a.tuning.Duration(kind)
	if !st.Active(now) {
		if st.ActiveUntil > st.ActiveFrom {
			// Прошлое окно уже закончилось, но его хвост ещё не отбит каденсом.
			a.burn(key{actor, kind}, st, a.clock, st.ActiveUntil)
		}
		st.ActiveFrom = now
		st.carry = 0
	}
	st.ActiveUntil = now + d
	st.Accumulated = 0

	a.fx.Emit(fx.Effect{
		Kind:     fx.KindStatus,
		Actor:    actor,
		Status:   kind,
		Color:    fx.StatusColor(kind),
		Duration: d,
	})
	slog.Debug("status triggered",
		"actor", actor,
		"kind", kind.String(),
		"until", st.ActiveUntil)
	return true
}

// Advance resolves every whole cadence step up to now.
// Damage per step is DPS × overlap of the step with the active window,
// so the total over a window is independent of the cadence.
func (a *Accumulator) Advance(now time.Duration) {
	c := a.tuning.Cadence
	for a.clock+c <= now {
		a.clock += c
		a.step(a.clock-c, a.clock)
	}
}

func (a *Accumulator) step(from, to time.Duration) {
	for _, k := range a.order {
		dps := a.tuning.DPS(k.kind)
		if dps <= 0 {
			continue
		}
		st := a.states[k]
		if st.ActiveUntil <= st.ActiveFrom {
			continue
		}

		a.burn(k, st, from, to)

		if to >= st.ActiveUntil {
			// Окно закончилось: остаток меньше единицы отбрасывается.
			st.ActiveFrom, st.ActiveUntil = 0, 0
			st.carry = 0
		}
	}
}

// burn applies DPS for the overlap of [from, to) with the active window,
// carrying the fractional remainder.
func (a *Accumulator) burn(k key, st *State, from, to time.Duration) {
	lo := max(from, st.ActiveFrom)
	hi := min(to, st.ActiveUntil)
	if hi <= lo {
		return
	}
	total := a.tuning.DPS(k.kind)*(hi-lo).Seconds() + st.carry
	whole := math.Floor(total + 1e-9)
	st.carry = total - whole
	if st.carry < 0 {
		st.carry = 0
	}
	if whole >= 1 && a.sink != nil {
		a.sink.ApplyHealthDamage(k.actor, int32(whole))
	}
}

// Active reports whether kind is active on actor at now.
func (a *Accumulator) Active(actor model.ActorID, kind model.StatusKind, now time.Duration) bool {
	st, ok := a.states[key{actor, kind}]
	return ok && st.Active(now)
}

// Stunned reports whether actor is frozen by Stun.
func (a *Accumulator) Stunned(actor model.ActorID, now time.Duration) bool {
	return a.Active(actor, model.StatusStun, now)
}

// Disoriented reports whether actor is under Toxin's wander override.
// Callers decide which actors the override applies to.
func (a *Accumulator) Disoriented(actor model.ActorID, now time.Duration) bool {
	return a.Active(actor, model.StatusToxin, now)
}

// Accumulated returns the current buildup of kind on actor.
func (a *Accumulator) Accumulated(actor model.ActorID, kind model.StatusKind) float64 {
	if st, ok := a.states[key{actor, kind}]; ok {
		return st.Accumulated
	}
	return 0
}

// ActiveUntil returns the end of the active window, or 0 when idle.
func (a *Accumulator) ActiveUntil(actor model.ActorID, kind model.StatusKind) time.Duration {
	if st, ok := a.states[key{actor, kind}]; ok {
		return st.ActiveUntil
	}
	return 0
}

// Remove drops every record of actor. Called when the actor is destroyed.
func (a *Accumulator) Remove(actor model.ActorID) {
	for _, kind := range model.StatusKinds {
		delete(a.states, key{actor, kind})
	}
	a.order = slices.DeleteFunc(a.order, func(k key) bool { return k.actor == actor })
}

// Len returns the number of tracked (actor, kind) records.
func (a *Accumulator) Len() int { return len(a.states) }
