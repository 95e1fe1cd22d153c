package ai

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/combatsim/internal/fx"
	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/game/projectile"
	"github.com/udisondev/combatsim/internal/model"
)

// Env is the read-only world view of the AI phase.
// The arena is never mutated while controllers think.
type Env interface {
	Now() time.Duration
	Dt() time.Duration

	Actor(id model.ActorID) *model.Actor
	// NearestHostile returns the closest living hostile; maxDist <= 0 is unlimited.
	NearestHostile(self *model.Actor, maxDist float64) *model.Actor
	Hostiles(self *model.Actor, fn func(a *model.Actor) bool)

	LineOfSight(from, to model.Vec2) bool
	SweepCover(from, to model.Vec2, radius float64) []projectile.CoverContact
	Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) projectile.RayHit

	Stunned(id model.ActorID) bool
	Disoriented(id model.ActorID) bool

	Rand() *rand.Rand
}

// Decision is what a controller wants to happen this tick.
// Move is a velocity in units per second.
type Decision struct {
	Move        model.Vec2
	Damage      []combat.DamageRequest
	CoverDamage []combat.CoverDamage
	Spawns      []*model.Actor
	Effects     []fx.Effect
}

func (d *Decision) merge(o Decision) {
	d.Damage = append(d.Damage, o.Damage...)
	d.CoverDamage = append(d.CoverDamage, o.CoverDamage...)
	d.Spawns = append(d.Spawns, o.Spawns...)
	d.Effects = append(d.Effects, o.Effects...)
}

// Controller is an archetype state machine driving one actor.
// Controllers own the actor's AIState and facing.
type Controller interface {
	// Think runs one tick of the state machine.
	Think(env Env, self *model.Actor) Decision

	// Interrupt cancels a channelled action (aim, windup, dash, beam).
	Interrupt(now time.Duration, self *model.Actor)
}

// Background is implemented by controllers with timers that keep running
// while the override layers suppress Think.
type Background interface {
	Background(env Env, self *model.Actor) Decision
}

// enter switches self to phase p, logging the transition when AI debug is on.
func enter(self *model.Actor, p model.AIPhase, now, d time.Duration) {
	if IsDebugEnabled() {
		slog.Debug("AI phase",
			"actor", self.ID,
			"archetype", self.Archetype,
			"from", self.AI.Phase,
			"to", p,
			"at", now)
	}
	self.AI.Enter(p, now, d)
}

// face turns self toward target instantly.
func face(self *model.Actor, target model.Vec2) {
	if d := target.Sub(self.Pos); !d.IsZero() {
		self.Facing = d.Angle()
	}
}

// toward returns the velocity moving self toward target at speed k·Speed,
// stopping at stopDist.
func toward(self *model.Actor, target model.Vec2, k, stopDist float64) model.Vec2 {
	d := target.Sub(self.Pos)
	if d.Len() <= stopDist {
		return model.Vec2{}
	}
	return d.Normalize().Scale(self.Speed * k)
}

func telegraph(from, to model.Vec2, d time.Duration, c fx.Color) fx.Effect {
	return fx.Effect{Kind: fx.KindTelegraph, Pos: from, End: to, Duration: d, Color: c}
}
