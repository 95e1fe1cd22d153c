package projectile

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/game/loadout"
	"github.com/udisondev/combatsim/internal/model"
)

const (
	// ProjectileRadius is the collision radius of every projectile.
	ProjectileRadius = 4.0
	// DefaultPierce applies to piercing shots without an explicit count.
	DefaultPierce int32 = 2
	// MineArmDelay — время после парковки, в течение которого мина не реагирует.
	MineArmDelay = 250 * time.Millisecond

	defaultRange = 1000.0
	defaultSpeed = 600.0
)

// Shot describes who fires and where to.
type Shot struct {
	Owner  model.ActorID
	Team   model.Team
	Origin model.Vec2
	Aim    model.Vec2
	// Target is the optional lock for guided shots.
	Target model.ActorID
}

// Dir returns the unit direction from Origin to Aim.
// A degenerate aim points along +X.
func (s Shot) Dir() model.Vec2 {
	d := s.Aim.Sub(s.Origin).Normalize()
	if d.IsZero() {
		return model.V(1, 0)
	}
	return d
}

// PayloadOf builds the payload carried by shots of st.
func PayloadOf(st loadout.Stats) Payload {
	inherent := st.InherentlyExplosive()
	return Payload{
		Damage:       st.Damage,
		Status:       st.Status,
		StatusAmount: st.StatusAmount,
		BlastRadius:  st.BlastRadius,
		SplashDamage: st.SplashDamage,
		Inherent:     inherent,
		AddOn:        st.ExplosiveAddOn && !inherent,
	}
}

// NewProjectile builds a projectile for one pellet of st flying along dir.
// Beam weapons have no projectile and return false.
func NewProjectile(st loadout.Stats, shot Shot, dir model.Vec2) (Projectile, bool) {
	if st.Beam || st.Kind == data.KindBeam {
		return Projectile{}, false
	}

	speed := st.ProjectileSpeed
	if speed <= 0 {
		speed = defaultSpeed
	}
	rng := st.Range
	if rng <= 0 {
		rng = defaultRange
	}

	p := Projectile{
		Owner:     shot.Owner,
		Team:      shot.Team,
		Pos:       shot.Origin,
		Vel:       dir.Normalize().Scale(speed),
		Radius:    ProjectileRadius,
		Payload:   PayloadOf(st),
		Remaining: rng,
	}

	// Точка подрыва лежит на линии самой дробины, а не в точке прицела.
	dest := shot.Aim
	if d := dir.Normalize(); !d.IsZero() {
		dest = shot.Origin.Add(d.Scale(shot.Origin.Dist(shot.Aim)))
	}

	switch st.Kind {
	case data.KindPiercing:
		pierce := st.Pierce
		if pierce == 0 {
			pierce = DefaultPierce
		}
		p.Behavior = &Piercing{Remaining: pierce}
	case data.KindGuided:
		p.Behavior = &Guided{
			TurnRate:   st.TurnRate,
			Target:     shot.Target,
			AimPoint:   shot.Aim,
			SmartLock:  st.SmartLock,
			LockFOV:    st.LockFOV,
			SeekRadius: rng,
		}
	case data.KindExplosive:
		p.Behavior = &Explosive{Dest: dest}
	case data.KindMine:
		p.Behavior = &Mine{
			Dest:          dest,
			TriggerRadius: st.MineTriggerRadius,
			ArmDelay:      MineArmDelay,
			Timeout:       st.MineTimeout,
		}
	case data.KindCharged:
		p.Behavior = &Charged{Fraction: 1}
	default:
		p.Behavior = Straight{}
	}
	return p, true
}

// ChargeMinScale is the damage multiplier of an instantly released charge.
const ChargeMinScale = 0.3

// ScaleCharge scales damage, speed and spread tightening by the charge
// fraction f ∈ [0,1].
func ScaleCharge(st loadout.Stats, f float64) loadout.Stats {
	f = math.Max(0, math.Min(1, f))
	mult := ChargeMinScale + (1-ChargeMinScale)*f
	st.Damage = max(1, int32(math.Floor(float64(st.Damage)*mult+1e-9)))
	st.ProjectileSpeed *= 0.5 + 0.5*f
	st.SpreadAngle *= 1 - f
	return st
}
