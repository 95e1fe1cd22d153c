package projectile

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/game/loadout"
	"github.com/udisondev/combatsim/internal/model"
)

// BeamCoolDelay — пауза после отпускания, прежде чем нагрев начнёт спадать.
const BeamCoolDelay = 300 * time.Millisecond

// BeamState is the heat machine phase of a continuous beam.
type BeamState uint8

const (
	BeamReady BeamState = iota
	BeamFiring
	BeamCooling
	BeamOverheated
)

func (s BeamState) String() string {
	switch s {
	case BeamReady:
		return "ready"
	case BeamFiring:
		return "firing"
	case BeamCooling:
		return "cooling"
	case BeamOverheated:
		return "overheated"
	default:
		return "unknown"
	}
}

// BeamHit is one tick of beam contact.
type BeamHit struct {
	Owner  model.ActorID
	Start  model.Vec2
	End    model.Vec2
	Target model.ActorID
	Cover  model.CoverID
	Damage int32

	Status       model.StatusKind
	StatusAmount float64
}

// Beam is a continuous ray weapon gated by heat.
// Heat grows while firing and cools after BeamCoolDelay once released.
// Saturation locks the beam out for the reload duration.
type Beam struct {
	Stats loadout.Stats
	State BeamState
	Heat  float64 // [0,1]

	releasedAt time.Duration
	lockUntil  time.Duration
	carry      float64
}

// NewBeam creates a ready, cold beam.
func NewBeam(st loadout.Stats) *Beam {
	return &Beam{Stats: st}
}

// LockedUntil returns the end of the overheat lockout.
func (b *Beam) LockedUntil() time.Duration { return b.lockUntil }

// Update advances the heat machine and reports whether the beam fires this tick.
func (b *Beam) Update(held bool, now, dt time.Duration) bool {
	if b.State == BeamOverheated {
		if now < b.lockUntil {
			return false
		}
		b.State = BeamReady
		b.Heat = 0
	}

	if held {
		b.State = BeamFiring
		b.Heat += b.Stats.HeatPerSecond * dt.Seconds()
		if b.Heat >= 1 {
			b.Heat = 1
			b.State = BeamOverheated
			b.lockUntil = now + b.Stats.ReloadDuration
			b.carry = 0
			slog.Debug("beam overheated",
				"weapon", b.Stats.WeaponID,
				"until", b.lockUntil)
		}
		return true
	}

	if b.State == BeamFiring {
		b.State = BeamCooling
		b.releasedAt = now
	}
	if b.State == BeamCooling && now-b.releasedAt >= BeamCoolDelay {
		b.Heat -= b.Stats.CoolPerSecond * dt.Seconds()
		if b.Heat <= 0 {
			b.Heat = 0
			b.State = BeamReady
		}
	}
	return false
}

// Cast traces the beam for one firing tick. Damage is DPS·dt with the
// fractional part carried to the next tick while the beam stays on target.
func (b *Beam) Cast(shot Shot, dt time.Duration, w Collider) BeamHit {
	dir := shot.Dir()
	rng := b.Stats.Range
	if rng <= 0 {
		rng = defaultRange
	}
	ray := w.Raycast(shot.Origin, dir, rng, shot.Team)

	hit := BeamHit{
		Owner:  shot.Owner,
		Start:  shot.Origin,
		End:    ray.End,
		Target: ray.Actor,
		Cover:  ray.Cover,
	}
	if ray.Actor == model.NoActor && ray.Cover == model.NoCover {
		b.carry = 0
		return hit
	}

	total := float64(b.Stats.Damage)*dt.Seconds() + b.carry
	whole := math.Floor(total + 1e-9)
	b.carry = math.Max(0, total-whole)
	hit.Damage = int32(whole)

	if ray.Actor != model.NoActor {
		hit.Status = b.Stats.Status
		hit.StatusAmount = b.Stats.StatusAmount * dt.Seconds()
	}
	return hit
}
