package ai

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// ShieldedConfig tunes the shield bearer.
type ShieldedConfig struct {
	AggroRange float64
	KeepAt     float64 // preferred distance to the target
	SpeedScale float64

	// TurnRate bounds arc rotation when the actor has no arc of its own.
	TurnRate float64 // radians per second
}

// DefaultShieldedConfig returns stock shield-bearer tuning.
func DefaultShieldedConfig() ShieldedConfig {
	return ShieldedConfig{
		AggroRange: 500,
		KeepAt:     120,
		SpeedScale: 0.5,
		TurnRate:   math.Pi / 3,
	}
}

// Shielded slowly rotates its facing arc toward its target while closing in.
// Blocking itself is resolved by the projectile collider against the arc.
type Shielded struct {
	cfg ShieldedConfig
}

// NewShielded creates a shield-bearer controller.
func NewShielded(cfg ShieldedConfig) *Shielded {
	return &Shielded{cfg: cfg}
}

func (s *Shielded) Think(env Env, self *model.Actor) Decision {
	var d Decision
	now := env.Now()
	if self.AI.Phase != model.PhaseTracking {
		enter(self, model.PhaseTracking, now, 0)
	}

	t := env.NearestHostile(self, s.cfg.AggroRange)
	if t == nil {
		return d
	}

	rate := s.cfg.TurnRate
	if self.Arc != nil && self.Arc.TurnRate > 0 {
		rate = self.Arc.TurnRate
	}
	want := t.Pos.Sub(self.Pos).Angle()
	self.Facing = model.RotateTowards(self.Facing, want, rate*env.Dt().Seconds())

	d.Move = toward(self, t.Pos, s.cfg.SpeedScale, s.cfg.KeepAt)
	return d
}

func (s *Shielded) Interrupt(time.Duration, *model.Actor) {}
