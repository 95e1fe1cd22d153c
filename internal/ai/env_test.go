package ai

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/combatsim/internal/game/combat"
	"github.com/udisondev/combatsim/internal/game/projectile"
	"github.com/udisondev/combatsim/internal/model"
	"github.com/udisondev/combatsim/internal/world"
)

// fakeEnv is an Env over a real arena with hand-rolled ray queries.
type fakeEnv struct {
	now, dt     time.Duration
	arena       *world.Arena
	covers      *world.CoverSet
	stunned     map[model.ActorID]bool
	disoriented map[model.ActorID]bool
	noSight     bool
	rng         *rand.Rand
}

func newFakeEnv(dt time.Duration) *fakeEnv {
	return &fakeEnv{
		dt:          dt,
		arena:       world.NewArena(nil),
		covers:      world.NewCoverSet(nil),
		stunned:     make(map[model.ActorID]bool),
		disoriented: make(map[model.ActorID]bool),
		rng:         rand.New(rand.NewPCG(1, 1)),
	}
}

func (e *fakeEnv) add(a *model.Actor) *model.Actor {
	e.arena.Add(a)
	return a
}

func (e *fakeEnv) player(pos model.Vec2) *model.Actor {
	p := model.NewActor("player", model.TeamPlayer, 1000, pos)
	p.Caps |= model.CapPlayer
	return e.add(p)
}

func (e *fakeEnv) Now() time.Duration { return e.now }
func (e *fakeEnv) Dt() time.Duration  { return e.dt }

func (e *fakeEnv) Actor(id model.ActorID) *model.Actor { return e.arena.Actor(id) }

func (e *fakeEnv) NearestHostile(self *model.Actor, maxDist float64) *model.Actor {
	return e.arena.NearestHostile(self.Pos, self.Team, maxDist)
}

func (e *fakeEnv) Hostiles(self *model.Actor, fn func(a *model.Actor) bool) {
	e.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == self.Team {
			return true
		}
		return fn(a)
	})
}

func (e *fakeEnv) LineOfSight(_, _ model.Vec2) bool { return !e.noSight }

func (e *fakeEnv) SweepCover(from, to model.Vec2, radius float64) []projectile.CoverContact {
	var out []projectile.CoverContact
	e.covers.Each(func(c *model.Cover) bool {
		if t, ok := c.SegmentHit(from, to, radius); ok && !c.Destroyed() {
			out = append(out, projectile.CoverContact{Cover: c.ID, T: t})
		}
		return true
	})
	return out
}

func (e *fakeEnv) Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) projectile.RayHit {
	to := origin.Add(dir.Scale(maxDist))
	best := math.Inf(1)
	hit := projectile.RayHit{End: to, Dist: maxDist}
	e.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == team {
			return true
		}
		if t, ok := model.SegmentCircle(origin, to, a.Pos, a.Radius); ok && t < best {
			best = t
			hit.Actor, hit.Cover = a.ID, model.NoCover
		}
		return true
	})
	for _, c := range e.SweepCover(origin, to, 0) {
		if c.T < best {
			best = c.T
			hit.Actor, hit.Cover = model.NoActor, c.Cover
		}
	}
	if !math.IsInf(best, 1) {
		hit.End = origin.Lerp(to, best)
		hit.Dist = maxDist * best
	}
	return hit
}

func (e *fakeEnv) Stunned(id model.ActorID) bool     { return e.stunned[id] }
func (e *fakeEnv) Disoriented(id model.ActorID) bool { return e.disoriented[id] }
func (e *fakeEnv) Rand() *rand.Rand                  { return e.rng }

// step runs one manager tick, moves actors by their orders and returns the
// orders of the tick.
func (e *fakeEnv) step(m *Manager) []Order {
	orders := m.Think(e)
	for _, o := range orders {
		if a := e.arena.Actor(o.Actor); a != nil {
			a.Pos = a.Pos.Add(o.Decision.Move.Scale(e.dt.Seconds()))
		}
	}
	e.now += e.dt
	return orders
}

func damageTo(orders []Order, target model.ActorID) []combat.DamageRequest {
	var out []combat.DamageRequest
	for _, o := range orders {
		for _, r := range o.Decision.Damage {
			if r.Target == target {
				out = append(out, r)
			}
		}
	}
	return out
}
