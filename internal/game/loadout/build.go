package loadout

// WeaponBuild is the persisted selection for one weapon id:
// three modifier slots plus a single core slot.
type WeaponBuild struct {
	WeaponID string
	Mods     [SlotCount]string
	Core     string
}

// Sanitize returns a copy with invalid or duplicate modifiers dropped and an
// unknown core cleared.
func (b WeaponBuild) Sanitize() WeaponBuild {
	b.Mods = SanitizeMods(b.Mods)
	if b.Core != "" {
		if _, ok := Core(b.Core); !ok {
			b.Core = ""
		}
	}
	return b
}

// HasModifier reports whether id occupies any slot.
func (b WeaponBuild) HasModifier(id string) bool {
	if id == "" {
		return false
	}
	for _, m := range b.Mods {
		if m == id {
			return true
		}
	}
	return false
}
