package loadout

import "github.com/udisondev/combatsim/internal/data"

// SlotCount is the number of modifier slots in a build.
const SlotCount = 3

// SanitizeMods drops empty, unknown and duplicate ids and keeps only the first
// magazine-class modifier. Survivors are compacted to the front in their
// original order. Never fails.
func SanitizeMods(mods [SlotCount]string) [SlotCount]string {
	var out [SlotCount]string
	n := 0
	magazine := false

	for _, id := range mods {
		if id == "" {
			continue
		}
		def, ok := Modifier(id)
		if !ok {
			continue
		}
		dup := false
		for _, kept := range out[:n] {
			if kept == id {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if def.MagazineClass {
			if magazine {
				continue
			}
			magazine = true
		}
		out[n] = id
		n++
	}
	return out
}

// Compose folds base through the sanitized modifier slots in slot order and
// then the core. Modifiers or cores whose preconditions fail act as identity,
// so stale builds still compose.
func Compose(base *data.WeaponDefinition, mods [SlotCount]string, core string) Stats {
	s := BaseStats(base)

	for _, id := range SanitizeMods(mods) {
		if id == "" {
			continue
		}
		def, _ := Modifier(id)
		if !def.Applies(base) {
			continue
		}
		s = def.Apply(s)
	}

	if core != "" {
		if def, ok := Core(core); ok && def.Applies(base) {
			s = def.Apply(s)
		}
	}
	return s
}
