package loadout

import (
	"fmt"
	"slices"

	"github.com/udisondev/combatsim/internal/data"
)

// ModifierDefinition is a low-impact, stackable transform on weapon stats.
// Apply must be pure: it receives a copy and returns the new value.
type ModifierDefinition struct {
	ID   string
	Name string

	// OnlyFor restricts the modifier to one weapon id ("" = any weapon).
	OnlyFor string
	// MagazineClass modifiers are limited to one per build.
	MagazineClass bool
	// Allow is an optional extra precondition on the base definition.
	Allow func(base *data.WeaponDefinition) bool
	Apply func(s Stats) Stats
}

// CoreDefinition is the single high-impact transform applied after modifiers.
type CoreDefinition struct {
	ID      string
	Name    string
	OnlyFor string
	Allow   func(base *data.WeaponDefinition) bool
	Apply   func(s Stats) Stats
}

// modifierRegistry maps modifier id → definition.
// Populated by init() in catalog.go.
var modifierRegistry = map[string]*ModifierDefinition{}

// coreRegistry maps core id → definition.
var coreRegistry = map[string]*CoreDefinition{}

// RegisterModifier registers a modifier definition by id.
// Registering the same id twice is a programming error and panics.
func RegisterModifier(def ModifierDefinition) {
	if def.ID == "" || def.Apply == nil {
		panic("loadout: modifier needs an id and an Apply func")
	}
	if _, dup := modifierRegistry[def.ID]; dup {
		panic(fmt.Sprintf("loadout: duplicate modifier %q", def.ID))
	}
	modifierRegistry[def.ID] = &def
}

// RegisterCore registers a core definition by id.
func RegisterCore(def CoreDefinition) {
	if def.ID == "" || def.Apply == nil {
		panic("loadout: core needs an id and an Apply func")
	}
	if _, dup := coreRegistry[def.ID]; dup {
		panic(fmt.Sprintf("loadout: duplicate core %q", def.ID))
	}
	coreRegistry[def.ID] = &def
}

// Modifier returns the modifier registered under id.
func Modifier(id string) (*ModifierDefinition, bool) {
	def, ok := modifierRegistry[id]
	return def, ok
}

// Core returns the core registered under id.
func Core(id string) (*CoreDefinition, bool) {
	def, ok := coreRegistry[id]
	return def, ok
}

// ModifierIDs returns all registered modifier ids sorted.
func ModifierIDs() []string {
	ids := make([]string, 0, len(modifierRegistry))
	for id := range modifierRegistry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CoreIDs returns all registered core ids sorted.
func CoreIDs() []string {
	ids := make([]string, 0, len(coreRegistry))
	for id := range coreRegistry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Applies reports whether the modifier's preconditions hold for base.
func (m *ModifierDefinition) Applies(base *data.WeaponDefinition) bool {
	return applies(m.OnlyFor, m.Allow, base)
}

// Applies reports whether the core's preconditions hold for base.
func (c *CoreDefinition) Applies(base *data.WeaponDefinition) bool {
	return applies(c.OnlyFor, c.Allow, base)
}

func applies(onlyFor string, allow func(*data.WeaponDefinition) bool, base *data.WeaponDefinition) bool {
	if base == nil {
		return false
	}
	if onlyFor != "" && onlyFor != base.ID {
		return false
	}
	if allow != nil && !allow(base) {
		return false
	}
	return true
}
