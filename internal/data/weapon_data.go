package data

import (
	"math"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

// weaponDefs — base weapon table.
var weaponDefs = []WeaponDefinition{
	{
		ID: "blaster", Name: "Blaster", Kind: KindStraight,
		Damage: 15, FireInterval: 250 * time.Millisecond, ProjectileSpeed: 900,
		MagazineSize: 12, SpreadAngle: deg(2), PelletCount: 1, Range: 900,
	},
	{
		ID: "scattergun", Name: "Scattergun", Kind: KindStraight,
		Damage: 6, FireInterval: 700 * time.Millisecond, ProjectileSpeed: 800,
		MagazineSize: 6, SpreadAngle: deg(24), PelletCount: 7, Range: 450,
	},
	{
		ID: "repeater", Name: "Repeater", Kind: KindStraight,
		Damage: 5, FireInterval: 80 * time.Millisecond, ProjectileSpeed: 1000,
		MagazineSize: 60, ReloadDuration: 2 * time.Second, SpreadAngle: deg(3), PelletCount: 1,
		Range: 800, Continuous: true,
	},
	{
		ID: "railgun", Name: "Railgun", Kind: KindPiercing,
		Damage: 40, FireInterval: 1200 * time.Millisecond, ProjectileSpeed: 2400,
		MagazineSize: 4, PelletCount: 1, Range: 1400, Pierce: 3,
	},
	{
		ID: "seeker", Name: "Seeker Pod", Kind: KindGuided,
		Damage: 22, FireInterval: 600 * time.Millisecond, ProjectileSpeed: 420,
		MagazineSize: 4, SpreadAngle: deg(6), PelletCount: 1, Range: 1200,
		Launcher: true, TurnRate: deg(180),
	},
	{
		ID: "launcher", Name: "Grenade Launcher", Kind: KindExplosive,
		Damage: 45, FireInterval: 900 * time.Millisecond, ProjectileSpeed: 520,
		MagazineSize: 3, PelletCount: 1, Range: 700,
		Launcher: true, BlastRadius: 80, SplashDamage: 20,
	},
	{
		ID: "minelayer", Name: "Mine Layer", Kind: KindMine,
		Damage: 60, FireInterval: time.Second, ProjectileSpeed: 360,
		MagazineSize: 3, PelletCount: 1, Range: 500,
		Launcher: true, BlastRadius: 90, SplashDamage: 30,
		MineTriggerRadius: 48, MineTimeout: 8 * time.Second,
	},
	{
		ID: "lance", Name: "Arc Lance", Kind: KindCharged,
		Damage: 80, FireInterval: 300 * time.Millisecond, ProjectileSpeed: 1600,
		MagazineSize: 5, SpreadAngle: deg(10), PelletCount: 1, Range: 1300,
		Charge: true, ChargeTime: 1200 * time.Millisecond,
	},
	{
		ID: "beam", Name: "Focus Beam", Kind: KindBeam,
		Damage: 30, // per second of contact
		MagazineSize: 1, ReloadDuration: 2 * time.Second, Range: 600,
		Beam: true, HeatPerSecond: 0.35, CoolPerSecond: 0.5,
	},
	{
		ID: "flamer", Name: "Flamer", Kind: KindStraight,
		Damage: 3, FireInterval: 100 * time.Millisecond, ProjectileSpeed: 500,
		MagazineSize: 40, SpreadAngle: deg(14), PelletCount: 1, Range: 260,
		Continuous: true, Status: model.StatusIgnite, StatusAmount: 1,
	},
}
