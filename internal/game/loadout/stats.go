package loadout

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/model"
)

// Stats is the effective weapon: a base definition folded through the build's
// modifiers and core. Plain value; every transform returns a new copy.
type Stats struct {
	WeaponID string
	Kind     data.ProjectileKind

	Damage          int32
	FireInterval    time.Duration
	ProjectileSpeed float64
	MagazineSize    int32
	MagazineScale   float64
	MagazineRoundUp bool
	ReloadDuration  time.Duration
	SpreadAngle     float64
	PelletCount     int32
	Range           float64

	Beam       bool
	Charge     bool
	ChargeHold bool
	ChargeTime time.Duration
	Launcher   bool
	Continuous bool

	// Distinct actors a piercing shot may hit; -1 means unlimited.
	Pierce int32

	BlastRadius    float64
	SplashDamage   int32
	ExplosiveAddOn bool

	TurnRate  float64
	SmartLock bool
	LockFOV   float64 // full cone, radians

	MineTriggerRadius float64
	MineTimeout       time.Duration

	HeatPerSecond float64
	CoolPerSecond float64

	Status       model.StatusKind
	StatusAmount float64

	// OverflowGuard grants the wielder's shield overflow prevention.
	OverflowGuard bool
}

// BaseStats converts a definition into an unmodified Stats value.
func BaseStats(def *data.WeaponDefinition) Stats {
	s := Stats{
		WeaponID:          def.ID,
		Kind:              def.Kind,
		Damage:            def.Damage,
		FireInterval:      def.FireInterval,
		ProjectileSpeed:   def.ProjectileSpeed,
		MagazineSize:      def.MagazineSize,
		MagazineScale:     1,
		ReloadDuration:    def.Reload(),
		SpreadAngle:       def.SpreadAngle,
		PelletCount:       def.PelletCount,
		Range:             def.Range,
		Beam:              def.Beam,
		Charge:            def.Charge,
		ChargeTime:        def.ChargeTime,
		Launcher:          def.Launcher,
		Continuous:        def.Continuous,
		Pierce:            def.Pierce,
		BlastRadius:       def.BlastRadius,
		SplashDamage:      def.SplashDamage,
		TurnRate:          def.TurnRate,
		MineTriggerRadius: def.MineTriggerRadius,
		MineTimeout:       def.MineTimeout,
		HeatPerSecond:     def.HeatPerSecond,
		CoolPerSecond:     def.CoolPerSecond,
		Status:            def.Status,
		StatusAmount:      def.StatusAmount,
	}
	if s.PelletCount < 1 {
		s.PelletCount = 1
	}
	if def.Kind == data.KindCharged {
		// Charged shots pierce everything for their remaining flight.
		s.Pierce = -1
	}
	return s
}

// MagazineCapacity returns the scaled magazine size.
// Rounding direction follows MagazineRoundUp; never below 1.
func (s Stats) MagazineCapacity() int32 {
	raw := float64(s.MagazineSize) * s.MagazineScale
	var n float64
	if s.MagazineRoundUp {
		n = math.Ceil(raw - 1e-9)
	} else {
		n = math.Floor(raw + 1e-9)
	}
	if n < 1 {
		return 1
	}
	return int32(n)
}

// InherentlyExplosive reports whether the shots are explosives by nature.
func (s Stats) InherentlyExplosive() bool {
	return s.Kind.InherentlyExplosive()
}

// Explosive reports whether shots detonate at all (inherent or add-on).
func (s Stats) Explosive() bool {
	return s.InherentlyExplosive() || s.ExplosiveAddOn
}

// scaleDamage multiplies damage and floors the result.
func scaleDamage(d int32, k float64) int32 {
	return int32(math.Floor(float64(d)*k + 1e-9))
}

func scaleDuration(d time.Duration, k float64) time.Duration {
	return time.Duration(float64(d) * k)
}
