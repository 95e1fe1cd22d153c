package world

import "github.com/udisondev/combatsim/internal/model"

// ArcBlocks tests a swept circle of radius against the facing arc of a.
// The arc blocks when the sweep reaches the arc radius from a's center at an
// angle within the arc half-angle of a's facing. t is the blocking fraction.
func ArcBlocks(a *model.Actor, from, to model.Vec2, radius float64) (float64, bool) {
	arc := a.Arc
	if arc == nil || arc.HalfAngle <= 0 {
		return 0, false
	}
	r := max(arc.Radius, a.Radius) + radius
	t, ok := model.SegmentCircle(from, to, a.Pos, r)
	if !ok {
		return 0, false
	}
	contact := from.Lerp(to, t)
	if !model.WithinCone(a.Facing, contact.Sub(a.Pos), arc.HalfAngle) {
		return 0, false
	}
	return t, true
}
