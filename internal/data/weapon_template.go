package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// ProjectileKind is the behaviour variant a weapon's shots use.
type ProjectileKind uint8

const (
	KindStraight ProjectileKind = iota
	KindPiercing
	KindGuided
	KindExplosive
	KindMine
	KindCharged
	KindBeam
)

var kindNames = [...]string{
	KindStraight:  "straight",
	KindPiercing:  "piercing",
	KindGuided:    "guided",
	KindExplosive: "explosive",
	KindMine:      "mine",
	KindCharged:   "charged",
	KindBeam:      "beam",
}

// String returns the config name of the kind.
func (k ProjectileKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// InherentlyExplosive reports whether shots of this kind are explosives by
// nature (as opposed to a bullet carrying an explosive add-on).
func (k ProjectileKind) InherentlyExplosive() bool {
	return k == KindExplosive || k == KindMine
}

// ParseProjectileKind converts a config name into a ProjectileKind.
func ParseProjectileKind(s string) (ProjectileKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return ProjectileKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown projectile kind %q", s)
}

// Class default reload durations.
const (
	DefaultReload  = 1500 * time.Millisecond
	LauncherReload = 1000 * time.Millisecond
)

// WeaponDefinition is the immutable base entry of a weapon.
// Loaded once; never mutated after LoadWeaponTemplates.
type WeaponDefinition struct {
	ID   string
	Name string
	Kind ProjectileKind

	Damage          int32
	FireInterval    time.Duration
	ProjectileSpeed float64 // units per second
	MagazineSize    int32
	ReloadDuration  time.Duration // 0 = class default
	SpreadAngle     float64       // full cone, radians
	PelletCount     int32
	Range           float64

	Beam       bool
	Charge     bool
	Launcher   bool // launcher-class: shorter default reload
	Continuous bool // spread blooms while held

	// Piercing: number of distinct actors a shot may hit (-1 = unlimited).
	Pierce int32

	// Explosives
	BlastRadius  float64
	SplashDamage int32 // explicit splash for inherent explosives

	// Charged
	ChargeTime time.Duration

	// Guided
	TurnRate float64 // radians per second

	// Mines
	MineTriggerRadius float64
	MineTimeout       time.Duration

	// Beam heat
	HeatPerSecond float64
	CoolPerSecond float64

	// Status applied on hit
	Status       model.StatusKind
	StatusAmount float64
}

// Reload returns the configured reload or the class default.
func (d *WeaponDefinition) Reload() time.Duration {
	if d.ReloadDuration > 0 {
		return d.ReloadDuration
	}
	if d.Launcher {
		return LauncherReload
	}
	return DefaultReload
}
