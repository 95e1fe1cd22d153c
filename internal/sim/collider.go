package sim

import (
	"math"
	"slices"

	"github.com/udisondev/combatsim/internal/game/projectile"
	"github.com/udisondev/combatsim/internal/model"
	"github.com/udisondev/combatsim/internal/world"
)

// collider answers projectile queries over the live arena, the cover set and
// the static occluder. Pure reads: nothing here mutates the world.
type collider struct {
	arena  *world.Arena
	covers *world.CoverSet
	occ    world.Occluder
}

func (c *collider) InBounds(p model.Vec2) bool { return c.occ.InBounds(p) }

func (c *collider) Blocked(from, to model.Vec2) (float64, bool) {
	return c.occ.Raycast(from, to)
}

func (c *collider) SweepActors(from, to model.Vec2, radius float64, team model.Team, piercing bool) []projectile.ActorContact {
	var out []projectile.ActorContact
	c.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == team {
			return true
		}
		if !piercing {
			if t, ok := world.ArcBlocks(a, from, to, radius); ok {
				out = append(out, projectile.ActorContact{Actor: a.ID, T: t, Contact: projectile.ContactDeflected})
				return true
			}
		}
		if t, ok := model.SegmentCircle(from, to, a.Pos, a.Radius+radius); ok {
			out = append(out, projectile.ActorContact{Actor: a.ID, T: t, Contact: projectile.ContactActor})
		}
		return true
	})
	slices.SortStableFunc(out, func(a, b projectile.ActorContact) int {
		return cmpT(a.T, b.T)
	})
	return out
}

func (c *collider) SweepCover(from, to model.Vec2, radius float64) []projectile.CoverContact {
	var out []projectile.CoverContact
	c.covers.Each(func(cv *model.Cover) bool {
		if cv.Destroyed() {
			return true
		}
		if t, ok := cv.SegmentHit(from, to, radius); ok {
			out = append(out, projectile.CoverContact{Cover: cv.ID, T: t})
		}
		return true
	})
	slices.SortStableFunc(out, func(a, b projectile.CoverContact) int {
		return cmpT(a.T, b.T)
	})
	return out
}

// Raycast stops on the first wall, cover, facing arc or hostile body.
// An arc stops the ray without reporting an actor.
func (c *collider) Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) projectile.RayHit {
	to := origin.Add(dir.Scale(maxDist))
	limit := 1.0
	if t, ok := c.Blocked(origin, to); ok {
		limit = t
	}

	var hit projectile.RayHit
	if cs := c.SweepActors(origin, to, 0, team, false); len(cs) > 0 && cs[0].T <= limit {
		limit = cs[0].T
		if cs[0].Contact == projectile.ContactActor {
			hit.Actor = cs[0].Actor
		}
	}
	if cs := c.SweepCover(origin, to, 0); len(cs) > 0 && cs[0].T < limit {
		limit = cs[0].T
		hit.Actor = model.NoActor
		hit.Cover = cs[0].Cover
	}
	hit.End = origin.Lerp(to, limit)
	hit.Dist = maxDist * limit
	return hit
}

func (c *collider) ActorPos(id model.ActorID) (model.Vec2, bool) {
	a := c.arena.Actor(id)
	if a == nil || a.IsDead() {
		return model.Vec2{}, false
	}
	return a.Pos, true
}

func (c *collider) Hostiles(team model.Team, fn func(id model.ActorID, pos model.Vec2) bool) {
	c.arena.Each(func(a *model.Actor) bool {
		if a.IsDead() || a.Team == team {
			return true
		}
		return fn(a.ID, a.Pos)
	})
}

// blockedAt reports whether an actor circle at p would leave the arena or
// overlap a wall or intact cover.
func (c *collider) blockedAt(p model.Vec2, radius float64) bool {
	if !c.occ.InBounds(p) {
		return true
	}
	blocked := false
	c.covers.Each(func(cv *model.Cover) bool {
		if !cv.Destroyed() && cv.OverlapsCircle(p, radius) {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

// moveTo returns how far along from→to an actor of radius may go.
// A blocked move stops just short of the obstacle.
func (c *collider) moveTo(from, to model.Vec2, radius float64) model.Vec2 {
	if t, ok := c.occ.Raycast(from, to); ok {
		to = from.Lerp(to, math.Max(0, t-1e-3))
	}
	if !c.blockedAt(to, radius) {
		return to
	}
	lo, hi := 0.0, 1.0
	for range 12 {
		mid := (lo + hi) / 2
		if c.blockedAt(from.Lerp(to, mid), radius) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return from.Lerp(to, lo)
}

func cmpT(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
