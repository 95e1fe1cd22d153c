package data

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatsim/internal/model"
)

// WeaponTable — глобальный registry всех weapon definitions.
// map[weaponID]*WeaponDefinition
var WeaponTable map[string]*WeaponDefinition

// GetWeapon returns the definition for id, or nil.
func GetWeapon(id string) *WeaponDefinition {
	if WeaponTable == nil {
		return nil
	}
	return WeaponTable[id]
}

// WeaponIDs returns all known weapon ids sorted.
func WeaponIDs() []string {
	ids := make([]string, 0, len(WeaponTable))
	for id := range WeaponTable {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// LoadWeaponTemplates строит WeaponTable из Go-литералов (weaponDefs).
func LoadWeaponTemplates() error {
	WeaponTable = make(map[string]*WeaponDefinition, len(weaponDefs))

	for i := range weaponDefs {
		def := weaponDefs[i]
		if _, dup := WeaponTable[def.ID]; dup {
			return fmt.Errorf("duplicate weapon id %q", def.ID)
		}
		WeaponTable[def.ID] = &def
	}

	slog.Info("loaded weapon templates", "count", len(WeaponTable))
	return nil
}

// weaponOverlay is the YAML shape of a tuning overlay.
// Nil fields keep the base value.
type weaponOverlay struct {
	Weapons map[string]weaponPatch `yaml:"weapons"`
}

type weaponPatch struct {
	Name              *string        `yaml:"name"`
	Kind              *string        `yaml:"kind"`
	Damage            *int32         `yaml:"damage"`
	FireInterval      *time.Duration `yaml:"fire_interval"`
	ProjectileSpeed   *float64       `yaml:"projectile_speed"`
	MagazineSize      *int32         `yaml:"magazine_size"`
	ReloadDuration    *time.Duration `yaml:"reload_duration"`
	SpreadDegrees     *float64       `yaml:"spread_degrees"`
	PelletCount       *int32         `yaml:"pellet_count"`
	Range             *float64       `yaml:"range"`
	Launcher          *bool          `yaml:"launcher"`
	Continuous        *bool          `yaml:"continuous"`
	Pierce            *int32         `yaml:"pierce"`
	BlastRadius       *float64       `yaml:"blast_radius"`
	SplashDamage      *int32         `yaml:"splash_damage"`
	ChargeTime        *time.Duration `yaml:"charge_time"`
	TurnRateDegrees   *float64       `yaml:"turn_rate_degrees"`
	MineTriggerRadius *float64       `yaml:"mine_trigger_radius"`
	MineTimeout       *time.Duration `yaml:"mine_timeout"`
	HeatPerSecond     *float64       `yaml:"heat_per_second"`
	CoolPerSecond     *float64       `yaml:"cool_per_second"`
	Status            *string        `yaml:"status"`
	StatusAmount      *float64       `yaml:"status_amount"`
}

// LoadWeaponOverlay applies a YAML tuning file on top of WeaponTable.
// Unknown ids add new weapons. A missing file is not an error.
// Must be called during initialization, before the simulation starts.
func LoadWeaponOverlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading weapon overlay %s: %w", path, err)
	}

	var overlay weaponOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parsing weapon overlay %s: %w", path, err)
	}

	if WeaponTable == nil {
		WeaponTable = make(map[string]*WeaponDefinition, len(overlay.Weapons))
	}

	for id, patch := range overlay.Weapons {
		def, ok := WeaponTable[id]
		if !ok {
			def = &WeaponDefinition{ID: id, Name: id, PelletCount: 1}
		}
		next := *def
		if err := patch.apply(&next); err != nil {
			return fmt.Errorf("weapon %q: %w", id, err)
		}
		WeaponTable[id] = &next
	}

	slog.Info("applied weapon overlay", "path", path, "weapons", len(overlay.Weapons))
	return nil
}

func (p weaponPatch) apply(d *WeaponDefinition) error {
	if p.Kind != nil {
		kind, err := ParseProjectileKind(*p.Kind)
		if err != nil {
			return err
		}
		d.Kind = kind
		d.Beam = kind == KindBeam
		d.Charge = kind == KindCharged
	}
	if p.Status != nil {
		kind, ok := model.ParseStatusKind(*p.Status)
		if !ok {
			return fmt.Errorf("unknown status %q", *p.Status)
		}
		d.Status = kind
	}
	setIf(&d.Name, p.Name)
	setIf(&d.Damage, p.Damage)
	setIf(&d.FireInterval, p.FireInterval)
	setIf(&d.ProjectileSpeed, p.ProjectileSpeed)
	setIf(&d.MagazineSize, p.MagazineSize)
	setIf(&d.ReloadDuration, p.ReloadDuration)
	setIf(&d.PelletCount, p.PelletCount)
	setIf(&d.Range, p.Range)
	setIf(&d.Launcher, p.Launcher)
	setIf(&d.Continuous, p.Continuous)
	setIf(&d.Pierce, p.Pierce)
	setIf(&d.BlastRadius, p.BlastRadius)
	setIf(&d.SplashDamage, p.SplashDamage)
	setIf(&d.ChargeTime, p.ChargeTime)
	setIf(&d.MineTriggerRadius, p.MineTriggerRadius)
	setIf(&d.MineTimeout, p.MineTimeout)
	setIf(&d.HeatPerSecond, p.HeatPerSecond)
	setIf(&d.CoolPerSecond, p.CoolPerSecond)
	setIf(&d.StatusAmount, p.StatusAmount)
	if p.SpreadDegrees != nil {
		d.SpreadAngle = deg(*p.SpreadDegrees)
	}
	if p.TurnRateDegrees != nil {
		d.TurnRate = deg(*p.TurnRateDegrees)
	}
	if d.Damage < 0 || d.MagazineSize < 0 || d.PelletCount < 0 {
		return fmt.Errorf("negative damage, magazine or pellet count")
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
