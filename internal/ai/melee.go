package ai

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/model"
)

// MeleeConfig tunes the melee brawler.
type MeleeConfig struct {
	AggroRange  float64
	AttackRange float64 // reach beyond both body radii
	HalfAngle   float64 // radians
	Damage      int32

	Windup  time.Duration
	Attack  time.Duration
	Recover time.Duration

	// RecoverSpeedScale is the movement penalty after a swing.
	RecoverSpeedScale float64
}

// DefaultMeleeConfig returns stock melee tuning.
func DefaultMeleeConfig() MeleeConfig {
	return MeleeConfig{
		AggroRange:        400,
		AttackRange:       28,
		HalfAngle:         math.Pi / 4,
		Damage:            12,
		Windup:            400 * time.Millisecond,
		Attack:            150 * time.Millisecond,
		Recover:           600 * time.Millisecond,
		RecoverSpeedScale: 0.35,
	}
}

// Melee runs Idle → Windup → Attack → Recover → Idle.
type Melee struct {
	cfg    MeleeConfig
	target model.ActorID
}

// NewMelee creates a melee controller.
func NewMelee(cfg MeleeConfig) *Melee {
	return &Melee{cfg: cfg}
}

func (m *Melee) Think(env Env, self *model.Actor) Decision {
	now := env.Now()
	var d Decision

	switch self.AI.Phase {
	case model.PhaseWindup:
		// Заморожен, направление зафиксировано.
		if self.AI.Expired(now) {
			enter(self, model.PhaseAttack, now, m.cfg.Attack)
			m.swing(env, self, &d)
		}

	case model.PhaseAttack:
		if self.AI.Expired(now) {
			enter(self, model.PhaseRecover, now, m.cfg.Recover)
		}

	case model.PhaseRecover:
		if t := m.acquire(env, self); t != nil {
			face(self, t.Pos)
			d.Move = toward(self, t.Pos, m.cfg.RecoverSpeedScale, m.reach(self, t))
		}
		if self.AI.Expired(now) {
			enter(self, model.PhaseIdle, now, 0)
		}

	default:
		t := m.acquire(env, self)
		if t == nil {
			break
		}
		face(self, t.Pos)
		if self.Pos.Dist(t.Pos) <= m.reach(self, t) {
			enter(self, model.PhaseWindup, now, m.cfg.Windup)
			d.Effects = append(d.Effects, fx.Effect{
				Kind:     fx.KindTelegraph,
				Pos:      self.Pos,
				End:      self.Pos.Add(model.FromAngle(self.Facing).Scale(self.Radius + m.cfg.AttackRange)),
				Radius:   m.cfg.AttackRange,
				Duration: m.cfg.Windup,
				Color:    fx.ColorRed,
			})
			break
		}
		d.Move = toward(self, t.Pos, 1, 0)
	}
	return d
}

// swing applies the attack once to every hostile inside the cone.
func (m *Melee) swing(env Env, self *model.Actor, d *Decision) {
	env.Hostiles(self, func(a *model.Actor) bool {
		dir := a.Pos.Sub(self.Pos)
		if dir.Len() > m.reach(self, a) {
			return true
		}
		if !model.WithinCone(self.Facing, dir, m.cfg.HalfAngle) {
			return true
		}
		d.Damage = append(d.Damage, combat.DamageRequest{
			Source: self.ID,
			Target: a.ID,
			Amount: m.cfg.Damage,
		})
		return true
	})
}

func (m *Melee) reach(self, t *model.Actor) float64 {
	return self.Radius + t.Radius + m.cfg.AttackRange
}

func (m *Melee) acquire(env Env, self *model.Actor) *model.Actor {
	if t := env.Actor(m.target); t != nil && !t.IsDead() && t.Pos.Dist(self.Pos) <= m.cfg.AggroRange*1.5 {
		return t
	}
	t := env.NearestHostile(self, m.cfg.AggroRange)
	if t == nil {
		m.target = model.NoActor
		return nil
	}
	m.target = t.ID
	return t
}

func (m *Melee) Interrupt(now time.Duration, self *model.Actor) {
	switch self.AI.Phase {
	case model.PhaseWindup, model.PhaseAttack:
		enter(self, model.PhaseIdle, now, 0)
	}
}
