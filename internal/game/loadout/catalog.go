package loadout

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/data"
	"github.com/udisondev/combatsim/internal/model"
)

// Built-in modifier ids.
const (
	ModHotLoads        = "hot_loads"
	ModRapidCycler     = "rapid_cycler"
	ModLongBarrel      = "long_barrel"
	ModExtendedMag     = "extended_mag"
	ModDrumMag         = "drum_mag"
	ModQuickReload     = "quick_reload"
	ModPiercingRounds  = "piercing_rounds"
	ModExplosiveRounds = "explosive_rounds"
	ModIncendiary      = "incendiary_rounds"
	ModToxic           = "toxic_rounds"
	ModConcussive      = "concussive_rounds"
	ModSeekerGuidance  = "seeker_guidance"
	ModSmartLock       = "smart_lock"
	ModCapacitor       = "capacitor"
	ModChoke           = "choke"
	ModHeatSink        = "heat_sink"
)

// Built-in core ids.
const (
	CoreOverclock = "overclock"
	CoreSiege     = "siege"
	CoreAegis     = "aegis"
	CoreCryo      = "cryo"
	CoreMarksman  = "marksman"
)

func projectileWeapon(base *data.WeaponDefinition) bool {
	return !base.Beam
}

func straightShots(base *data.WeaponDefinition) bool {
	return base.Kind == data.KindStraight
}

func statusFree(base *data.WeaponDefinition) bool {
	return !base.Beam && base.Status == model.StatusNone
}

func statusRounds(kind model.StatusKind, amount float64) func(Stats) Stats {
	return func(s Stats) Stats {
		s.Status = kind
		s.StatusAmount = amount
		return s
	}
}

func init() {
	RegisterModifier(ModifierDefinition{
		ID: ModHotLoads, Name: "Hot Loads",
		Apply: func(s Stats) Stats {
			s.Damage = scaleDamage(s.Damage, 1.10)
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModRapidCycler, Name: "Rapid Cycler",
		Allow: projectileWeapon,
		Apply: func(s Stats) Stats {
			s.FireInterval = scaleDuration(s.FireInterval, 0.85)
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModLongBarrel, Name: "Long Barrel",
		Apply: func(s Stats) Stats {
			s.ProjectileSpeed *= 1.2
			s.SpreadAngle *= 0.8
			s.Range *= 1.15
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModExtendedMag, Name: "Extended Magazine", MagazineClass: true,
		Allow: projectileWeapon,
		Apply: func(s Stats) Stats {
			s.MagazineScale *= 1.5
			s.MagazineRoundUp = true
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModDrumMag, Name: "Drum Magazine", MagazineClass: true,
		Allow: projectileWeapon,
		Apply: func(s Stats) Stats {
			s.MagazineScale *= 2
			s.ReloadDuration += 500 * time.Millisecond
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModQuickReload, Name: "Quick Reload",
		Apply: func(s Stats) Stats {
			s.ReloadDuration = scaleDuration(s.ReloadDuration, 0.7)
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModPiercingRounds, Name: "Piercing Rounds",
		Allow: straightShots,
		Apply: func(s Stats) Stats {
			s.Kind = data.KindPiercing
			s.Pierce = 3
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModExplosiveRounds, Name: "Explosive Rounds",
		Allow: func(base *data.WeaponDefinition) bool {
			return !base.Beam && !base.Kind.InherentlyExplosive()
		},
		Apply: func(s Stats) Stats {
			s.ExplosiveAddOn = true
			if s.BlastRadius < 48 {
				s.BlastRadius = 48
			}
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModIncendiary, Name: "Incendiary Rounds",
		Allow: statusFree,
		Apply: statusRounds(model.StatusIgnite, 2.5),
	})
	RegisterModifier(ModifierDefinition{
		ID: ModToxic, Name: "Toxic Rounds",
		Allow: statusFree,
		Apply: statusRounds(model.StatusToxin, 2),
	})
	RegisterModifier(ModifierDefinition{
		ID: ModConcussive, Name: "Concussive Rounds",
		Allow: statusFree,
		Apply: statusRounds(model.StatusStun, 1.5),
	})
	RegisterModifier(ModifierDefinition{
		ID: ModSeekerGuidance, Name: "Seeker Guidance",
		Allow: straightShots,
		Apply: func(s Stats) Stats {
			s.Kind = data.KindGuided
			s.TurnRate = 3
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModSmartLock, Name: "Smart Lock", OnlyFor: "seeker",
		Apply: func(s Stats) Stats {
			s.SmartLock = true
			s.LockFOV = 60 * math.Pi / 180
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModCapacitor, Name: "Capacitor", OnlyFor: "lance",
		Apply: func(s Stats) Stats {
			s.ChargeHold = true
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModChoke, Name: "Choke",
		Allow: func(base *data.WeaponDefinition) bool { return base.PelletCount > 1 },
		Apply: func(s Stats) Stats {
			s.SpreadAngle *= 0.6
			return s
		},
	})
	RegisterModifier(ModifierDefinition{
		ID: ModHeatSink, Name: "Heat Sink",
		Allow: func(base *data.WeaponDefinition) bool { return base.Beam },
		Apply: func(s Stats) Stats {
			s.HeatPerSecond *= 0.75
			return s
		},
	})

	RegisterCore(CoreDefinition{
		ID: CoreOverclock, Name: "Overclock",
		Apply: func(s Stats) Stats {
			s.Damage = scaleDamage(s.Damage, 1.25)
			s.FireInterval = scaleDuration(s.FireInterval, 1.1)
			return s
		},
	})
	RegisterCore(CoreDefinition{
		ID: CoreSiege, Name: "Siege",
		Allow: func(base *data.WeaponDefinition) bool { return base.Kind.InherentlyExplosive() },
		Apply: func(s Stats) Stats {
			s.BlastRadius *= 1.5
			s.SplashDamage = scaleDamage(s.SplashDamage, 1.25)
			return s
		},
	})
	RegisterCore(CoreDefinition{
		ID: CoreAegis, Name: "Aegis",
		Apply: func(s Stats) Stats {
			s.OverflowGuard = true
			return s
		},
	})
	RegisterCore(CoreDefinition{
		ID: CoreCryo, Name: "Cryo",
		Allow: func(base *data.WeaponDefinition) bool { return base.Beam },
		Apply: func(s Stats) Stats {
			s.HeatPerSecond *= 0.5
			s.Damage = scaleDamage(s.Damage, 0.9)
			return s
		},
	})
	RegisterCore(CoreDefinition{
		ID: CoreMarksman, Name: "Marksman", OnlyFor: "railgun",
		Apply: func(s Stats) Stats {
			if s.Pierce >= 0 {
				s.Pierce += 2
			}
			s.Damage = scaleDamage(s.Damage, 1.2)
			return s
		},
	})
}
