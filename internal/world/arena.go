package world

import (
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/combatsim/internal/model"
)

// Arena is the live collection of actors, indexed by stable id and iterated
// in insertion order.
//
// During a tick the arena is read-only: spawns and removals are queued and
// applied by Flush in the cleanup phase. Not goroutine-safe.
type Arena struct {
	ids   *ObjectIDGenerator
	byID  map[model.ActorID]*model.Actor
	order []*model.Actor

	pendingSpawn  []*model.Actor
	pendingRemove []model.ActorID
}

// NewArena creates an empty arena. A nil generator gets a private one.
func NewArena(ids *ObjectIDGenerator) *Arena {
	if ids == nil {
		ids = NewObjectIDGenerator()
	}
	return &Arena{
		ids:  ids,
		byID: make(map[model.ActorID]*model.Actor),
	}
}

// Add inserts a immediately and assigns its id. Use outside of a tick.
func (ar *Arena) Add(a *model.Actor) model.ActorID {
	a.ID = ar.ids.NextActorID()
	ar.byID[a.ID] = a
	ar.order = append(ar.order, a)
	return a.ID
}

// QueueSpawn assigns an id now and inserts a on the next Flush.
func (ar *Arena) QueueSpawn(a *model.Actor) model.ActorID {
	a.ID = ar.ids.NextActorID()
	ar.pendingSpawn = append(ar.pendingSpawn, a)
	return a.ID
}

// QueueRemove schedules removal of id on the next Flush.
// Unknown and already queued ids are ignored.
func (ar *Arena) QueueRemove(id model.ActorID) {
	if _, ok := ar.byID[id]; !ok || slices.Contains(ar.pendingRemove, id) {
		return
	}
	ar.pendingRemove = append(ar.pendingRemove, id)
}

// Flush applies queued removals then queued spawns.
func (ar *Arena) Flush() (spawned []*model.Actor, removed []model.ActorID) {
	if len(ar.pendingRemove) > 0 {
		removed = ar.pendingRemove
		ar.pendingRemove = nil
		for _, id := range removed {
			delete(ar.byID, id)
		}
		ar.order = slices.DeleteFunc(ar.order, func(a *model.Actor) bool {
			_, ok := ar.byID[a.ID]
			return !ok
		})
	}
	if len(ar.pendingSpawn) > 0 {
		spawned = ar.pendingSpawn
		ar.pendingSpawn = nil
		for _, a := range spawned {
			ar.byID[a.ID] = a
			ar.order = append(ar.order, a)
		}
		slog.Debug("arena spawned actors", "count", len(spawned), "total", len(ar.order))
	}
	return spawned, removed
}

// Actor returns the live actor with id, or nil.
func (ar *Arena) Actor(id model.ActorID) *model.Actor {
	return ar.byID[id]
}

// Each iterates actors in insertion order until fn returns false.
func (ar *Arena) Each(fn func(a *model.Actor) bool) {
	for _, a := range ar.order {
		if !fn(a) {
			return
		}
	}
}

// Len returns the number of live actors.
func (ar *Arena) Len() int { return len(ar.order) }

// Pending returns the number of queued spawns.
func (ar *Arena) Pending() int { return len(ar.pendingSpawn) }

// CountAlive returns the number of living actors of team.
func (ar *Arena) CountAlive(team model.Team) int {
	n := 0
	for _, a := range ar.order {
		if a.Team == team && !a.IsDead() {
			n++
		}
	}
	return n
}

// NearestHostile returns the closest living actor hostile to team within
// maxDist of from. Ties keep insertion order.
func (ar *Arena) NearestHostile(from model.Vec2, team model.Team, maxDist float64) *model.Actor {
	var best *model.Actor
	bestSq := math.Inf(1)
	if maxDist > 0 {
		bestSq = maxDist*maxDist + 1e-9
	}
	for _, a := range ar.order {
		if a.Team == team || a.IsDead() {
			continue
		}
		if d := a.Pos.DistSq(from); d < bestSq {
			best, bestSq = a, d
		}
	}
	return best
}
