// Package projectile simulates in-flight projectiles and weapon triggers.
//
// The Simulator owns a flat, insertion-ordered list of projectile records and
// advances each one through an update function looked up by its behaviour
// kind. It only proposes contacts: geometry queries go to a Collider, and
// the resulting Events are applied by the damage pipeline.
package projectile

import (
	"time"

	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/model"
)

// ID is a projectile handle, unique for the simulator's lifetime.
type ID uint32

// Payload is what a projectile delivers on contact.
type Payload struct {
	Damage       int32
	Status       model.StatusKind
	StatusAmount float64

	// Explosives
	BlastRadius float64
	// SplashDamage is the explicit splash value of inherent explosives.
	SplashDamage int32
	// Inherent marks shots that are explosives by nature (grenade, mine)
	// as opposed to a bullet carrying an explosive add-on.
	Inherent bool
	// AddOn marks a bullet carrying an explosive add-on.
	AddOn bool
}

// Explosive reports whether the payload detonates.
func (p Payload) Explosive() bool {
	return p.Inherent || p.AddOn
}

// Behavior is the tagged flight variant of a projectile.
// Each concrete type holds exactly the fields its variant needs.
type Behavior interface {
	Kind() data.ProjectileKind
}

// Straight flies ballistically until it hits something or runs out of range.
type Straight struct{}

// Piercing passes through up to Remaining distinct actors (-1 = unlimited)
// and ignores destructible cover.
type Piercing struct {
	Remaining int32
	hit       map[model.ActorID]struct{}
}

// Guided turns toward its target at a bounded rate.
type Guided struct {
	TurnRate float64 // radians per second
	Target   model.ActorID
	AimPoint model.Vec2

	// SmartLock restricts guidance to a forward cone of LockFOV (full angle).
	SmartLock bool
	LockFOV   float64
	// SeekRadius bounds the replacement-target search.
	SeekRadius float64

	reachedAim bool
}

// Explosive travels to Dest (or max range) and detonates.
type Explosive struct {
	Dest model.Vec2
}

// Mine parks at Dest, arms, then waits for a hostile to come close or for
// its safety timeout.
type Mine struct {
	Dest          model.Vec2
	TriggerRadius float64
	ArmDelay      time.Duration
	Timeout       time.Duration

	Parked   bool
	ParkedAt time.Duration
}

// Charged pierces every actor and cover piece for its remaining flight,
// damaging each of them once. Only static walls stop it.
type Charged struct {
	Fraction float64 // charge fraction the shot was released at
	hit      map[model.ActorID]struct{}
	covers   map[model.CoverID]struct{}
}

func (Straight) Kind() data.ProjectileKind   { return data.KindStraight }
func (*Piercing) Kind() data.ProjectileKind  { return data.KindPiercing }
func (*Guided) Kind() data.ProjectileKind    { return data.KindGuided }
func (*Explosive) Kind() data.ProjectileKind { return data.KindExplosive }
func (*Mine) Kind() data.ProjectileKind      { return data.KindMine }
func (*Charged) Kind() data.ProjectileKind   { return data.KindCharged }

// markHit records id in a hit set and reports whether it was new.
func markHit(set *map[model.ActorID]struct{}, id model.ActorID) bool {
	if *set == nil {
		*set = make(map[model.ActorID]struct{}, 4)
	}
	if _, dup := (*set)[id]; dup {
		return false
	}
	(*set)[id] = struct{}{}
	return true
}

// Projectile is a single in-flight record.
type Projectile struct {
	ID    ID
	Owner model.ActorID
	Team  model.Team

	Pos    model.Vec2
	Vel    model.Vec2
	Radius float64

	Payload  Payload
	Behavior Behavior

	// Remaining is the distance left before range expiry.
	Remaining float64
	SpawnedAt time.Duration

	dead bool
}

// Kind returns the behaviour tag.
func (p *Projectile) Kind() data.ProjectileKind {
	if p.Behavior == nil {
		return data.KindStraight
	}
	return p.Behavior.Kind()
}

// Pierces reports whether facing arcs let this projectile through.
func (p *Projectile) Pierces() bool {
	switch p.Behavior.(type) {
	case *Piercing, *Charged:
		return true
	}
	return false
}

// Alive reports whether the projectile is still simulated.
func (p *Projectile) Alive() bool { return !p.dead }

// Speed returns the current speed.
func (p *Projectile) Speed() float64 { return p.Vel.Len() }
