package projectile

import "github.com/udisondev/combatsim/internal/model"

// Contact is the outcome of a swept actor test.
type Contact uint8

const (
	// ContactActor — the sweep touched the actor's body.
	ContactActor Contact = iota + 1
	// ContactDeflected — the sweep hit the actor's facing arc and is blocked.
	ContactDeflected
)

// ActorContact is one actor touched by a sweep.
type ActorContact struct {
	Actor   model.ActorID
	T       float64 // fraction along the swept segment
	Contact Contact
}

// CoverContact is one cover piece touched by a sweep.
type CoverContact struct {
	Cover model.CoverID
	T     float64
}

// RayHit is the result of a ray cast. Actor and Cover are zero when the ray
// ended on a wall or at max distance.
type RayHit struct {
	End   model.Vec2
	Dist  float64
	Actor model.ActorID
	Cover model.CoverID
}

// Collider is the world/occlusion collaborator. All methods are pure queries.
type Collider interface {
	// InBounds reports whether p lies inside the arena.
	InBounds(p model.Vec2) bool
	// Blocked returns the first fraction along from→to hitting a static wall.
	Blocked(from, to model.Vec2) (t float64, ok bool)
	// SweepActors returns living actors hostile to team that the segment
	// from→to (inflated by radius) touches, ordered by T. Non-piercing
	// sweeps report ContactDeflected for actors whose facing arc blocks them.
	SweepActors(from, to model.Vec2, radius float64, team model.Team, piercing bool) []ActorContact
	// SweepCover returns intact cover touched by the segment, ordered by T.
	SweepCover(from, to model.Vec2, radius float64) []CoverContact
	// Raycast casts from origin along dir up to maxDist and stops on the
	// first wall, cover or actor hostile to team.
	Raycast(origin, dir model.Vec2, maxDist float64, team model.Team) RayHit
	// ActorPos returns the position of a living actor.
	ActorPos(id model.ActorID) (model.Vec2, bool)
	// Hostiles calls fn for every living actor hostile to team in arena
	// order until fn returns false.
	Hostiles(team model.Team, fn func(id model.ActorID, pos model.Vec2) bool)
}
