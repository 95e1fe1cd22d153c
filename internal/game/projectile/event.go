package projectile

import "github.com/udisondev/combatsim/internal/model"

// Event is a contact proposed by the simulator. Concrete types: Hit,
// CoverHit, Detonation, Deflected, Expired.
type Event interface {
	projectile() ID
}

// Hit is a direct contact with an actor.
type Hit struct {
	Projectile ID
	Owner      model.ActorID
	Target     model.ActorID
	Pos        model.Vec2
	Dir        model.Vec2
	Payload    Payload
}

// CoverHit is a direct contact with destructible cover.
type CoverHit struct {
	Projectile ID
	Owner      model.ActorID
	Cover      model.CoverID
	Pos        model.Vec2
	Damage     int32
}

// Detonation — an explosive payload went off at Pos. Primary is the directly
// struck actor, NoActor for proximity-free detonations.
type Detonation struct {
	Projectile ID
	Owner      model.ActorID
	Team       model.Team
	Pos        model.Vec2
	Primary    model.ActorID
	Payload    Payload
}

// Deflected — a facing arc blocked the projectile.
type Deflected struct {
	Projectile ID
	Target     model.ActorID
	Pos        model.Vec2
}

// ExpireReason says why a projectile stopped without contact.
type ExpireReason uint8

const (
	ExpireRange ExpireReason = iota + 1
	ExpireBounds
	ExpireWall
	ExpireSpent
)

func (r ExpireReason) String() string {
	switch r {
	case ExpireRange:
		return "range"
	case ExpireBounds:
		return "bounds"
	case ExpireWall:
		return "wall"
	case ExpireSpent:
		return "spent"
	default:
		return "unknown"
	}
}

// Expired — the projectile was removed without delivering its payload.
type Expired struct {
	Projectile ID
	Pos        model.Vec2
	Reason     ExpireReason
}

func (e Hit) projectile() ID        { return e.Projectile }
func (e CoverHit) projectile() ID   { return e.Projectile }
func (e Detonation) projectile() ID { return e.Projectile }
func (e Deflected) projectile() ID  { return e.Projectile }
func (e Expired) projectile() ID    { return e.Projectile }

// Source returns the projectile that produced e.
func Source(e Event) ID { return e.projectile() }
