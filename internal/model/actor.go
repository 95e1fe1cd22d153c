package model

import (
	"math"
	"time"
)

// ActorID is a stable handle into the live actor arena.
// Zero is never assigned and means "no actor".
type ActorID uint32

// NoActor is the empty handle.
const NoActor ActorID = 0

// Team groups actors that do not damage each other.
type Team uint8

const (
	TeamPlayer Team = iota + 1
	TeamHostile
)

// Capability is a bit set describing what kind of combatant an actor is.
type Capability uint16

const (
	CapPlayer     Capability = 1 << iota // driven by the input collaborator
	CapBoss                              // immune to disorientation
	CapReinforcer                        // periodically calls allies
	CapFacingArc                         // carries a blocking facing arc
)

// Has reports whether all bits of c2 are set.
func (c Capability) Has(c2 Capability) bool {
	return c&c2 == c2
}

// Archetype selects the AI state machine an enemy runs.
type Archetype uint8

const (
	ArchetypeNone Archetype = iota
	ArchetypeMelee
	ArchetypeSniper
	ArchetypeDasher
	ArchetypeShielded
	ArchetypeBeamElite
)

// String returns human-readable archetype name
func (a Archetype) String() string {
	switch a {
	case ArchetypeNone:
		return "NONE"
	case ArchetypeMelee:
		return "MELEE"
	case ArchetypeSniper:
		return "SNIPER"
	case ArchetypeDasher:
		return "DASHER"
	case ArchetypeShielded:
		return "SHIELDED"
	case ArchetypeBeamElite:
		return "BEAM_ELITE"
	default:
		return "UNKNOWN"
	}
}

// ParseArchetype converts a config name into an Archetype.
func ParseArchetype(s string) (Archetype, bool) {
	switch s {
	case "melee":
		return ArchetypeMelee, true
	case "sniper":
		return ArchetypeSniper, true
	case "dasher":
		return ArchetypeDasher, true
	case "shielded":
		return ArchetypeShielded, true
	case "beam_elite":
		return ArchetypeBeamElite, true
	}
	return ArchetypeNone, false
}

// Shield is a depletable barrier that absorbs damage before health.
type Shield struct {
	Current int32
	Max     int32

	// Regeneration starts RegenDelay after the last absorbed hit.
	RegenDelay     time.Duration
	RegenPerSecond float64

	// PreventOverflow drops the remainder of the hit that breaks the shield.
	PreventOverflow bool
	// CounterCooldown gates the automatic counterattack of the overflow guard.
	// Zero disables the counterattack.
	CounterCooldown time.Duration

	lastHitAt      time.Duration
	regenCarry     float64
	counterReadyAt time.Duration
}

// Absorb takes amount from the shield and returns what it could not absorb.
// broke is true when this hit brought a non-empty shield to zero.
func (s *Shield) Absorb(amount int32, now time.Duration) (absorbed, remainder int32, broke bool) {
	if amount <= 0 {
		return 0, 0, false
	}
	s.lastHitAt = now
	s.regenCarry = 0
	if s.Current <= 0 {
		return 0, amount, false
	}
	if amount < s.Current {
		s.Current -= amount
		return amount, 0, false
	}
	absorbed = s.Current
	s.Current = 0
	return absorbed, amount - absorbed, true
}

// Regenerate restores shield points once the regen delay has elapsed.
// Fractional regeneration is carried between calls.
func (s *Shield) Regenerate(now, dt time.Duration) {
	if s.Current >= s.Max || s.RegenPerSecond <= 0 {
		return
	}
	if now-s.lastHitAt < s.RegenDelay {
		return
	}
	s.regenCarry += s.RegenPerSecond * dt.Seconds()
	whole := math.Floor(s.regenCarry)
	if whole <= 0 {
		return
	}
	s.regenCarry -= whole
	s.Current += int32(whole)
	if s.Current >= s.Max {
		s.Current = s.Max
		s.regenCarry = 0
	}
}

// CounterReady reports whether the overflow counterattack is off cooldown.
func (s *Shield) CounterReady(now time.Duration) bool {
	return s.CounterCooldown > 0 && now >= s.counterReadyAt
}

// ConsumeCounter starts the counterattack cooldown window.
func (s *Shield) ConsumeCounter(now time.Duration) {
	s.counterReadyAt = now + s.CounterCooldown
}

// FacingArc is a frontal barrier that blocks non-piercing projectiles.
type FacingArc struct {
	HalfAngle float64 // radians
	Radius    float64 // blocking starts at this distance from the actor center
	TurnRate  float64 // max radians per second the arc can rotate
}

// Actor is a simulated combatant.
// Not goroutine-safe: actors are owned by the simulation goroutine.
type Actor struct {
	ID        ActorID
	Name      string
	Team      Team
	Caps      Capability
	Archetype Archetype

	Health    int32
	MaxHealth int32
	Shield    *Shield
	Arc       *FacingArc

	Pos    Vec2
	Vel    Vec2
	Facing float64 // radians
	Radius float64
	Speed  float64 // units per second

	// Weapon is the equipped weapon id (players and armed enemies).
	Weapon string

	AI AIState

	knockbackUntil time.Duration
	knockbackVel   Vec2
}

// NewActor creates an actor at full health.
func NewActor(name string, team Team, health int32, pos Vec2) *Actor {
	return &Actor{
		Name:      name,
		Team:      team,
		Health:    health,
		MaxHealth: health,
		Pos:       pos,
		Radius:    12,
		Speed:     120,
	}
}

// IsDead returns true when health reached zero.
func (a *Actor) IsDead() bool { return a.Health <= 0 }

// IsPlayer returns true for input-driven actors.
func (a *Actor) IsPlayer() bool { return a.Caps.Has(CapPlayer) }

// IsBoss returns true for boss-class actors.
func (a *Actor) IsBoss() bool { return a.Caps.Has(CapBoss) }

// HostileTo reports whether a and other are on opposing teams.
func (a *Actor) HostileTo(other *Actor) bool {
	return a.Team != other.Team
}

// ReduceHealth subtracts amount from health without touching the shield.
// Returns the health actually lost.
func (a *Actor) ReduceHealth(amount int32) int32 {
	if amount <= 0 || a.IsDead() {
		return 0
	}
	if amount > a.Health {
		amount = a.Health
	}
	a.Health -= amount
	return amount
}

// ShieldPoints returns the current shield value, 0 without a shield.
func (a *Actor) ShieldPoints() int32 {
	if a.Shield == nil {
		return 0
	}
	return a.Shield.Current
}

// ApplyKnockback forces velocity vel until now+d, overriding AI movement.
func (a *Actor) ApplyKnockback(vel Vec2, now, d time.Duration) {
	a.knockbackVel = vel
	a.knockbackUntil = now + d
}

// Knockback returns the forced velocity while a knockback window is open.
func (a *Actor) Knockback(now time.Duration) (Vec2, bool) {
	if now >= a.knockbackUntil {
		return Vec2{}, false
	}
	return a.knockbackVel, true
}
