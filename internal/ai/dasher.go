package ai

import (
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/model"
)

// DasherConfig tunes the charge-dash boss.
type DasherConfig struct {
	TriggerRange  float64
	Prep          time.Duration
	DashTime      time.Duration
	DashSpeed     float64
	Wait          time.Duration
	Dashes        int
	Cooldown      time.Duration
	ContactDamage int32
	CoverDamage   int32
	Knockback     float64
}

// DefaultDasherConfig returns stock dasher tuning.
func DefaultDasherConfig() DasherConfig {
	return DasherConfig{
		TriggerRange:  600,
		Prep:          700 * time.Millisecond,
		DashTime:      400 * time.Millisecond,
		DashSpeed:     900,
		Wait:          500 * time.Millisecond,
		Dashes:        3,
		Cooldown:      4 * time.Second,
		ContactDamage: 20,
		CoverDamage:   40,
		Knockback:     350,
	}
}

// Dasher runs Idle → Prep → (Dash → Wait)×N → Done → Idle.
// Each dash damages every actor and cover it sweeps through at most once.
type Dasher struct {
	cfg DasherConfig

	heading   model.Vec2
	dashes    int
	lastPos   model.Vec2
	hitActors map[model.ActorID]struct{}
	hitCovers map[model.CoverID]struct{}
}

// NewDasher creates a charge-dash controller.
func NewDasher(cfg DasherConfig) *Dasher {
	return &Dasher{
		cfg:       cfg,
		hitActors: make(map[model.ActorID]struct{}),
		hitCovers: make(map[model.CoverID]struct{}),
	}
}

// DashesDone returns how many dashes of the current sequence completed.
func (b *Dasher) DashesDone() int { return b.dashes }

func (b *Dasher) Think(env Env, self *model.Actor) Decision {
	now := env.Now()
	var d Decision

	switch self.AI.Phase {
	case model.PhasePrep:
		if self.AI.Expired(now) {
			b.startDash(self, now)
			d.Move = b.heading.Scale(b.cfg.DashSpeed)
		}

	case model.PhaseDash:
		b.sweep(env, self, &d)
		if !self.AI.Expired(now) {
			d.Move = b.heading.Scale(b.cfg.DashSpeed)
			break
		}
		b.dashes++
		if b.dashes >= b.cfg.Dashes {
			enter(self, model.PhaseDone, now, b.cfg.Cooldown)
			break
		}
		enter(self, model.PhaseWait, now, b.cfg.Wait)
		b.aim(env, self, &d, b.cfg.Wait)

	case model.PhaseWait:
		if self.AI.Expired(now) {
			b.startDash(self, now)
			d.Move = b.heading.Scale(b.cfg.DashSpeed)
		}

	case model.PhaseDone:
		if self.AI.Expired(now) {
			enter(self, model.PhaseIdle, now, 0)
		}

	default:
		t := env.NearestHostile(self, b.cfg.TriggerRange)
		if t == nil {
			break
		}
		b.dashes = 0
		enter(self, model.PhasePrep, now, b.cfg.Prep)
		b.aim(env, self, &d, b.cfg.Prep)
	}
	return d
}

// aim locks the heading toward the nearest hostile and telegraphs it.
func (b *Dasher) aim(env Env, self *model.Actor, d *Decision, dur time.Duration) {
	if t := env.NearestHostile(self, 0); t != nil {
		face(self, t.Pos)
	}
	b.heading = model.FromAngle(self.Facing)
	length := b.cfg.DashSpeed * b.cfg.DashTime.Seconds()
	d.Effects = append(d.Effects, telegraph(self.Pos, self.Pos.Add(b.heading.Scale(length)), dur, fx.ColorOrange))
}

func (b *Dasher) startDash(self *model.Actor, now time.Duration) {
	enter(self, model.PhaseDash, now, b.cfg.DashTime)
	b.lastPos = self.Pos
	clear(b.hitActors)
	clear(b.hitCovers)
}

// sweep tests the segment travelled since the previous tick.
func (b *Dasher) sweep(env Env, self *model.Actor, d *Decision) {
	from, to := b.lastPos, self.Pos
	b.lastPos = self.Pos

	env.Hostiles(self, func(a *model.Actor) bool {
		if _, done := b.hitActors[a.ID]; done {
			return true
		}
		if _, ok := model.SegmentCircle(from, to, a.Pos, a.Radius+self.Radius); !ok {
			return true
		}
		b.hitActors[a.ID] = struct{}{}
		d.Damage = append(d.Damage, combat.DamageRequest{
			Source:       self.ID,
			Target:       a.ID,
			Amount:       b.cfg.ContactDamage,
			Knockback:    b.heading.Scale(b.cfg.Knockback),
			KnockbackFor: 200 * time.Millisecond,
		})
		return true
	})

	for _, c := range env.SweepCover(from, to, self.Radius) {
		if _, done := b.hitCovers[c.Cover]; done {
			continue
		}
		b.hitCovers[c.Cover] = struct{}{}
		d.CoverDamage = append(d.CoverDamage, combat.CoverDamage{Cover: c.Cover, Amount: b.cfg.CoverDamage})
	}
}

func (b *Dasher) Interrupt(now time.Duration, self *model.Actor) {
	switch self.AI.Phase {
	case model.PhasePrep, model.PhaseDash:
		// Прерванный рывок засчитывается, серия продолжается после оглушения.
		if self.AI.Phase == model.PhaseDash {
			b.dashes++
		}
		if b.dashes >= b.cfg.Dashes {
			enter(self, model.PhaseDone, now, b.cfg.Cooldown)
			return
		}
		enter(self, model.PhaseWait, now, b.cfg.Wait)
	}
}
