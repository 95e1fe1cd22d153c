package projectile

import (
	"math"
	"slices"

	"github.com/udisondev/combatsim/internal/model"
)

type fakeActor struct {
	id      model.ActorID
	pos     model.Vec2
	radius  float64
	team    model.Team
	deflect bool
	dead    bool
}

type fakeWall struct{ lo, hi model.Vec2 }

// fakeWorld is a minimal Collider over a handful of circles and boxes.
type fakeWorld struct {
	size   float64
	actors []*fakeActor
	covers []*model.Cover
	walls  []fakeWall
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{size: 5000}
}

func (w *fakeWorld) addActor(id model.ActorID, pos model.Vec2, team model.Team) *fakeActor {
	a := &fakeActor{id: id, pos: pos, radius: 10, team: team}
	w.actors = append(w.actors, a)
	return a
}

func (w *fakeWorld) addCover(id model.CoverID, center model.Vec2) *model.Cover {
	c := model.NewCover(center, model.V(10, 10), 100)
	c.ID = id
	w.covers = append(w.covers, c)
	return c
}

func (w *fakeWorld) addWall(lo, hi model.Vec2) {
	w.walls = append(w.walls, fakeWall{lo, hi})
}

func (w *fakeWorld) InBounds(p model.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= w.size && p.Y <= w.size
}

func (w *fakeWorld) Blocked(from, to model.Vec2) (float64, bool) {
	best, ok := math.Inf(1), false
	for _, wall := range w.walls {
		if t, hit := model.SegmentAABB(from, to, wall.lo, wall.hi); hit && t < best {
			best, ok = t, true
		}
	}
	return best, ok
}

func (w *fakeWorld) SweepActors(from, to model.Vec2, radius float64, team model.Team, piercing bool) []ActorContact {
	var out []ActorContact
	for _, a := range w.actors {
		if a.dead || a.team == team {
			continue
		}
		t, ok := model.SegmentCircle(from, to, a.pos, a.radius+radius)
		if !ok {
			continue
		}
		c := ContactActor
		if a.deflect && !piercing {
			c = ContactDeflected
		}
		out = append(out, ActorContact{Actor: a.id, T: t, Contact: c})
	}
	slices.SortStableFunc(out, func(a, b ActorContact) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return out
}

func (w *fakeWorld) SweepCover(from, to model.Vec2, radius float64) []CoverContact {
	var out []CoverContact
	for _, c := range w.covers {
		if c.Destroyed() {
			continue
		}
		if t, ok := c.SegmentHit(from, to, radius); ok {
			out = append(out, CoverContact{Cover: c.ID, T: t})
		}
	}
	slices.SortStableFunc(out, func(a, b CoverContact) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return out
}

func (w *fakeWorld) Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) RayHit {
	to := origin.Add(dir.Scale(maxDist))
	hit := RayHit{End: to, Dist: maxDist}
	limit := 1.0
	if t, ok := w.Blocked(origin, to); ok {
		limit = t
	}
	if cs := w.SweepActors(origin, to, 0, team, true); len(cs) > 0 && cs[0].T <= limit {
		limit = cs[0].T
		hit.Actor = cs[0].Actor
	}
	if cs := w.SweepCover(origin, to, 0); len(cs) > 0 && cs[0].T < limit {
		limit = cs[0].T
		hit.Actor = model.NoActor
		hit.Cover = cs[0].Cover
	}
	hit.End = origin.Lerp(to, limit)
	hit.Dist = maxDist * limit
	return hit
}

func (w *fakeWorld) ActorPos(id model.ActorID) (model.Vec2, bool) {
	for _, a := range w.actors {
		if a.id == id && !a.dead {
			return a.pos, true
		}
	}
	return model.Vec2{}, false
}

func (w *fakeWorld) Hostiles(team model.Team, fn func(id model.ActorID, pos model.Vec2) bool) {
	for _, a := range w.actors {
		if a.dead || a.team == team {
			continue
		}
		if !fn(a.id, a.pos) {
			return
		}
	}
}
