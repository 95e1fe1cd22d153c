package model

// Intent is the per-tick abstract input for an input-driven actor.
// The core never polls devices; the input collaborator fills this in.
type Intent struct {
	Move        Vec2 // desired movement direction, length ≤ 1
	Aim         Vec2 // world-space aim point
	FireHeld    bool
	FirePressed bool // true only on the tick the trigger went down
	Reload      bool
}

// StatusKind enumerates accumulating status effects.
type StatusKind uint8

const (
	StatusNone StatusKind = iota
	StatusIgnite
	StatusToxin
	StatusStun
)

// StatusKinds lists all real status kinds in a stable order.
var StatusKinds = [...]StatusKind{StatusIgnite, StatusToxin, StatusStun}

// String returns human-readable status name
func (k StatusKind) String() string {
	switch k {
	case StatusNone:
		return "none"
	case StatusIgnite:
		return "ignite"
	case StatusToxin:
		return "toxin"
	case StatusStun:
		return "stun"
	default:
		return "unknown"
	}
}

// ParseStatusKind converts a config name into a StatusKind.
func ParseStatusKind(s string) (StatusKind, bool) {
	switch s {
	case "", "none":
		return StatusNone, true
	case "ignite":
		return StatusIgnite, true
	case "toxin":
		return StatusToxin, true
	case "stun":
		return StatusStun, true
	}
	return StatusNone, false
}
