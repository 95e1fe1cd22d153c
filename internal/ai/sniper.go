package ai

import (
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/model"
)

// SniperConfig tunes the aimed sniper.
type SniperConfig struct {
	Range       float64
	Cooldown    time.Duration
	AimTime     time.Duration
	FireRecoil  time.Duration
	Damage      int32
	CoverDamage int32

	// KeepAway is the distance the sniper backs off to during cooldown.
	KeepAway float64
}

// DefaultSniperConfig returns stock sniper tuning.
func DefaultSniperConfig() SniperConfig {
	return SniperConfig{
		Range:       900,
		Cooldown:    2500 * time.Millisecond,
		AimTime:     1200 * time.Millisecond,
		FireRecoil:  150 * time.Millisecond,
		Damage:      45,
		CoverDamage: 45,
		KeepAway:    250,
	}
}

// Sniper runs Cooldown → Aiming → Fire → Cooldown. The shot is resolved as
// one swept segment along the locked aim, so no speed can tunnel past a target.
type Sniper struct {
	cfg    SniperConfig
	target model.ActorID
}

// NewSniper creates a sniper controller.
func NewSniper(cfg SniperConfig) *Sniper {
	return &Sniper{cfg: cfg}
}

func (s *Sniper) Think(env Env, self *model.Actor) Decision {
	now := env.Now()
	var d Decision

	switch self.AI.Phase {
	case model.PhaseAiming:
		t := env.Actor(s.target)
		if t != nil && !t.IsDead() {
			face(self, t.Pos)
		}
		if self.AI.Expired(now) {
			enter(self, model.PhaseFire, now, s.cfg.FireRecoil)
			s.fire(env, self, &d)
		}

	case model.PhaseFire:
		if self.AI.Expired(now) {
			enter(self, model.PhaseCooldown, now, s.cfg.Cooldown)
		}

	case model.PhaseCooldown:
		t := env.NearestHostile(self, s.cfg.Range)
		if t != nil && self.Pos.Dist(t.Pos) < s.cfg.KeepAway {
			d.Move = self.Pos.Sub(t.Pos).Normalize().Scale(self.Speed)
		}
		if !self.AI.Expired(now) || t == nil || !env.LineOfSight(self.Pos, t.Pos) {
			break
		}
		s.target = t.ID
		face(self, t.Pos)
		enter(self, model.PhaseAiming, now, s.cfg.AimTime)
		d.Effects = append(d.Effects, telegraph(self.Pos, t.Pos, s.cfg.AimTime, fx.ColorRed))

	default:
		enter(self, model.PhaseCooldown, now, s.cfg.Cooldown)
	}
	return d
}

func (s *Sniper) fire(env Env, self *model.Actor, d *Decision) {
	dir := model.FromAngle(self.Facing)
	origin := self.Pos.Add(dir.Scale(self.Radius))
	ray := env.Raycast(origin, dir, s.cfg.Range, self.Team)

	d.Effects = append(d.Effects,
		fx.Effect{Kind: fx.KindMuzzle, Pos: origin, Color: fx.ColorWhite},
		fx.Effect{Kind: fx.KindBeam, Pos: origin, End: ray.End, Duration: 80 * time.Millisecond, Color: fx.ColorRed},
	)
	switch {
	case ray.Actor != model.NoActor:
		d.Damage = append(d.Damage, combat.DamageRequest{Source: self.ID, Target: ray.Actor, Amount: s.cfg.Damage})
	case ray.Cover != model.NoCover:
		d.CoverDamage = append(d.CoverDamage, combat.CoverDamage{Cover: ray.Cover, Amount: s.cfg.CoverDamage})
	}
}

func (s *Sniper) Interrupt(now time.Duration, self *model.Actor) {
	if self.AI.Phase == model.PhaseAiming || self.AI.Phase == model.PhaseFire {
		enter(self, model.PhaseCooldown, now, s.cfg.Cooldown)
	}
}
