package ai

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/model"
)

// BeamEliteConfig tunes the beam-sweep elite.
type BeamEliteConfig struct {
	Range float64
	Gap   time.Duration // idle time between attacks

	SweepDuration time.Duration
	SweepArc      float64 // full arc, radians
	SweepDPS      float64

	// LockAfter sweeps unlock one locked beam.
	LockAfter    int
	LockAim      time.Duration
	LockDuration time.Duration
	LockDPS      float64
}

// DefaultBeamEliteConfig returns stock beam-elite tuning.
func DefaultBeamEliteConfig() BeamEliteConfig {
	return BeamEliteConfig{
		Range:         550,
		Gap:           1500 * time.Millisecond,
		SweepDuration: 1500 * time.Millisecond,
		SweepArc:      math.Pi / 2,
		SweepDPS:      12,
		LockAfter:     3,
		LockAim:       time.Second,
		LockDuration:  1200 * time.Millisecond,
		LockDPS:       45,
	}
}

// BeamElite alternates sweeping beams with a locked beam after every
// LockAfter completed sweeps.
type BeamElite struct {
	cfg BeamEliteConfig

	sweeps     int
	sweepStart float64
	target     model.ActorID
	carry      float64
}

// NewBeamElite creates a beam-elite controller.
func NewBeamElite(cfg BeamEliteConfig) *BeamElite {
	return &BeamElite{cfg: cfg}
}

// Sweeps returns the completed sweeps since the last locked beam.
func (b *BeamElite) Sweeps() int { return b.sweeps }

func (b *BeamElite) Think(env Env, self *model.Actor) Decision {
	now := env.Now()
	var d Decision

	switch self.AI.Phase {
	case model.PhaseSweep:
		k := float64(self.AI.Elapsed(now)) / float64(b.cfg.SweepDuration)
		self.Facing = model.NormalizeAngle(b.sweepStart + b.cfg.SweepArc*math.Min(1, k))
		b.cast(env, self, b.cfg.SweepDPS, &d)
		if self.AI.Expired(now) {
			b.sweeps++
			b.carry = 0
			if b.sweeps >= b.cfg.LockAfter {
				enter(self, model.PhaseLockAim, now, b.cfg.LockAim)
				b.track(env, self)
				d.Effects = append(d.Effects, telegraph(self.Pos, self.Pos.Add(model.FromAngle(self.Facing).Scale(b.cfg.Range)), b.cfg.LockAim, fx.ColorViolet))
				break
			}
			enter(self, model.PhaseIdle, now, b.cfg.Gap)
		}

	case model.PhaseLockAim:
		b.track(env, self)
		if self.AI.Expired(now) {
			enter(self, model.PhaseLockBeam, now, b.cfg.LockDuration)
		}

	case model.PhaseLockBeam:
		// Направление зафиксировано на весь луч.
		b.cast(env, self, b.cfg.LockDPS, &d)
		if self.AI.Expired(now) {
			b.sweeps = 0
			b.carry = 0
			enter(self, model.PhaseIdle, now, b.cfg.Gap)
		}

	default:
		if self.AI.Until > 0 && !self.AI.Expired(now) {
			break
		}
		t := env.NearestHostile(self, b.cfg.Range)
		if t == nil {
			break
		}
		b.target = t.ID
		b.sweepStart = t.Pos.Sub(self.Pos).Angle() - b.cfg.SweepArc/2
		self.Facing = model.NormalizeAngle(b.sweepStart)
		enter(self, model.PhaseSweep, now, b.cfg.SweepDuration)
	}
	return d
}

func (b *BeamElite) track(env Env, self *model.Actor) {
	t := env.Actor(b.target)
	if t == nil || t.IsDead() {
		t = env.NearestHostile(self, 0)
	}
	if t != nil {
		b.target = t.ID
		face(self, t.Pos)
	}
}

// cast traces one tick of beam along the current facing.
func (b *BeamElite) cast(env Env, self *model.Actor, dps float64, d *Decision) {
	dir := model.FromAngle(self.Facing)
	ray := env.Raycast(self.Pos, dir, b.cfg.Range, self.Team)
	d.Effects = append(d.Effects, fx.Effect{Kind: fx.KindBeam, Pos: self.Pos, End: ray.End, Color: fx.ColorViolet})

	if ray.Actor == model.NoActor && ray.Cover == model.NoCover {
		b.carry = 0
		return
	}
	total := dps*env.Dt().Seconds() + b.carry
	whole := math.Floor(total + 1e-9)
	b.carry = math.Max(0, total-whole)
	if whole < 1 {
		return
	}
	switch {
	case ray.Actor != model.NoActor:
		d.Damage = append(d.Damage, combat.DamageRequest{Source: self.ID, Target: ray.Actor, Amount: int32(whole)})
	default:
		d.CoverDamage = append(d.CoverDamage, combat.CoverDamage{Cover: ray.Cover, Amount: int32(whole)})
	}
}

func (b *BeamElite) Interrupt(now time.Duration, self *model.Actor) {
	switch self.AI.Phase {
	case model.PhaseSweep, model.PhaseLockAim, model.PhaseLockBeam:
		// Прерванная атака не засчитывается как развёртка.
		b.carry = 0
		enter(self, model.PhaseIdle, now, b.cfg.Gap)
	}
}
