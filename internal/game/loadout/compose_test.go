package loadout

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatsim/internal/data"
)

func TestMain(m *testing.M) {
	if err := data.LoadWeaponTemplates(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func weapon(t *testing.T, id string) *data.WeaponDefinition {
	t.Helper()
	def := data.GetWeapon(id)
	require.NotNil(t, def, "weapon %q", id)
	return def
}

func TestCompose_EmptyBuildReturnsBase(t *testing.T) {
	for _, id := range data.WeaponIDs() {
		t.Run(id, func(t *testing.T) {
			def := weapon(t, id)
			assert.Equal(t, BaseStats(def), Compose(def, [SlotCount]string{}, ""))
		})
	}
}

func TestCompose_Deterministic(t *testing.T) {
	def := weapon(t, "launcher")
	mods := [SlotCount]string{ModHotLoads, ModDrumMag, ModQuickReload}

	first := Compose(def, mods, CoreSiege)
	for range 5 {
		assert.Equal(t, first, Compose(def, mods, CoreSiege))
	}
	// Базовое определение не изменилось.
	assert.Equal(t, int32(45), def.Damage)
	assert.Equal(t, 80.0, def.BlastRadius)
}

func TestCompose_DamageScenario(t *testing.T) {
	def := weapon(t, "blaster")
	require.Equal(t, int32(15), def.Damage)

	s := Compose(def, [SlotCount]string{ModHotLoads}, "")
	assert.Equal(t, int32(16), s.Damage, "floor(15*1.1)")

	// Duplicate in the second slot is dropped by sanitize.
	mods := [SlotCount]string{ModHotLoads, ModHotLoads, ""}
	assert.Equal(t, [SlotCount]string{ModHotLoads, "", ""}, SanitizeMods(mods))
	assert.Equal(t, int32(16), Compose(def, mods, "").Damage)
}

func TestCompose_ModifiersThenCore(t *testing.T) {
	def := weapon(t, "blaster")

	s := Compose(def, [SlotCount]string{ModHotLoads}, CoreOverclock)
	// 15 → 16 (mod) → floor(16*1.25) = 20 (core)
	assert.Equal(t, int32(20), s.Damage)
	assert.InDelta(t, float64(275*time.Millisecond), float64(s.FireInterval), float64(time.Microsecond))
}

func TestCompose_PreconditionsActAsIdentity(t *testing.T) {
	tests := []struct {
		name   string
		weapon string
		mods   [SlotCount]string
		core   string
	}{
		{"smart lock on blaster", "blaster", [SlotCount]string{ModSmartLock}, ""},
		{"capacitor on railgun", "railgun", [SlotCount]string{ModCapacitor}, ""},
		{"choke on single pellet", "blaster", [SlotCount]string{ModChoke}, ""},
		{"piercing rounds on railgun", "railgun", [SlotCount]string{ModPiercingRounds}, ""},
		{"heat sink on launcher", "launcher", [SlotCount]string{ModHeatSink}, ""},
		{"marksman on blaster", "blaster", [SlotCount]string{}, CoreMarksman},
		{"siege on blaster", "blaster", [SlotCount]string{}, CoreSiege},
		{"unknown core", "blaster", [SlotCount]string{}, "no_such_core"},
		{"unknown mods", "blaster", [SlotCount]string{"bogus", "", "nope"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := weapon(t, tt.weapon)
			assert.Equal(t, BaseStats(def), Compose(def, tt.mods, tt.core))
		})
	}
}

func TestCompose_OnlyForMatches(t *testing.T) {
	lance := Compose(weapon(t, "lance"), [SlotCount]string{ModCapacitor}, "")
	assert.True(t, lance.ChargeHold)
	assert.Equal(t, int32(-1), lance.Pierce, "charged shots pierce everything")

	seeker := Compose(weapon(t, "seeker"), [SlotCount]string{ModSmartLock}, "")
	assert.True(t, seeker.SmartLock)
	assert.Greater(t, seeker.LockFOV, 0.0)

	rail := Compose(weapon(t, "railgun"), [SlotCount]string{}, CoreMarksman)
	assert.Equal(t, int32(5), rail.Pierce)
	assert.Equal(t, int32(48), rail.Damage)
}

func TestCompose_KindChanges(t *testing.T) {
	blaster := weapon(t, "blaster")

	pierce := Compose(blaster, [SlotCount]string{ModPiercingRounds}, "")
	assert.Equal(t, data.KindPiercing, pierce.Kind)
	assert.Equal(t, int32(3), pierce.Pierce)

	guided := Compose(blaster, [SlotCount]string{ModSeekerGuidance}, "")
	assert.Equal(t, data.KindGuided, guided.Kind)
	assert.Greater(t, guided.TurnRate, 0.0)

	boom := Compose(blaster, [SlotCount]string{ModExplosiveRounds}, "")
	assert.True(t, boom.ExplosiveAddOn)
	assert.True(t, boom.Explosive())
	assert.False(t, boom.InherentlyExplosive())
}

func TestCompose_Magazine(t *testing.T) {
	launcher := weapon(t, "launcher")

	base := Compose(launcher, [SlotCount]string{}, "")
	assert.Equal(t, int32(3), base.MagazineCapacity())
	assert.Equal(t, data.LauncherReload, base.ReloadDuration)

	ext := Compose(launcher, [SlotCount]string{ModExtendedMag}, "")
	assert.Equal(t, int32(5), ext.MagazineCapacity(), "ceil(3*1.5)")

	drum := Compose(launcher, [SlotCount]string{ModDrumMag}, "")
	assert.Equal(t, int32(6), drum.MagazineCapacity())
	assert.Equal(t, 1500*time.Millisecond, drum.ReloadDuration)

	// Only the first magazine-class modifier survives.
	both := Compose(launcher, [SlotCount]string{ModExtendedMag, ModDrumMag, ""}, "")
	assert.Equal(t, ext, both)
}

func TestCompose_DefaultReload(t *testing.T) {
	blaster := Compose(weapon(t, "blaster"), [SlotCount]string{}, "")
	assert.Equal(t, data.DefaultReload, blaster.ReloadDuration)

	quick := Compose(weapon(t, "blaster"), [SlotCount]string{ModQuickReload}, "")
	assert.InDelta(t, float64(1050*time.Millisecond), float64(quick.ReloadDuration), float64(time.Microsecond))
}

func TestSanitizeMods(t *testing.T) {
	tests := []struct {
		name string
		in   [SlotCount]string
		want [SlotCount]string
	}{
		{"empty", [SlotCount]string{}, [SlotCount]string{}},
		{"compacts", [SlotCount]string{"", ModHotLoads, ""}, [SlotCount]string{ModHotLoads, "", ""}},
		{"drops duplicate", [SlotCount]string{ModHotLoads, ModLongBarrel, ModHotLoads}, [SlotCount]string{ModHotLoads, ModLongBarrel, ""}},
		{"drops unknown", [SlotCount]string{"bogus", ModChoke, ""}, [SlotCount]string{ModChoke, "", ""}},
		{"one magazine", [SlotCount]string{ModDrumMag, ModHotLoads, ModExtendedMag}, [SlotCount]string{ModDrumMag, ModHotLoads, ""}},
		{"full", [SlotCount]string{ModHotLoads, ModLongBarrel, ModQuickReload}, [SlotCount]string{ModHotLoads, ModLongBarrel, ModQuickReload}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMods(tt.in))
		})
	}
}

func TestSanitizeMods_Invariants(t *testing.T) {
	ids := append(ModifierIDs(), "", "bogus")

	for _, a := range ids {
		for _, b := range ids {
			for _, c := range ids {
				out := SanitizeMods([SlotCount]string{a, b, c})

				seen := map[string]bool{}
				magazines := 0
				for _, id := range out {
					if id == "" {
						continue
					}
					require.False(t, seen[id], "duplicate %q in %v", id, out)
					seen[id] = true
					def, ok := Modifier(id)
					require.True(t, ok)
					if def.MagazineClass {
						magazines++
					}
				}
				require.LessOrEqual(t, magazines, 1, "%v", out)
				// Идемпотентность.
				require.Equal(t, out, SanitizeMods(out))
			}
		}
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterModifier(ModifierDefinition{ID: ModHotLoads, Apply: func(s Stats) Stats { return s }})
	})
	assert.Panics(t, func() {
		RegisterCore(CoreDefinition{ID: CoreAegis, Apply: func(s Stats) Stats { return s }})
	})
}

func TestWeaponBuild_Sanitize(t *testing.T) {
	b := WeaponBuild{
		WeaponID: "blaster",
		Mods:     [SlotCount]string{ModExtendedMag, ModExtendedMag, ModDrumMag},
		Core:     "retired_core",
	}

	got := b.Sanitize()
	assert.Equal(t, [SlotCount]string{ModExtendedMag, "", ""}, got.Mods)
	assert.Empty(t, got.Core)
	assert.True(t, got.HasModifier(ModExtendedMag))
	assert.False(t, got.HasModifier(""))
}
