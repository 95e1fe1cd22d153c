package model

import "math"

// CoverID is a stable handle of a destructible cover piece. Zero means none.
type CoverID uint32

// NoCover is the empty handle.
const NoCover CoverID = 0

// Cover is an axis-aligned destructible obstacle with its own health.
type Cover struct {
	ID       CoverID
	Center   Vec2
	HalfSize Vec2

	Health    int32
	MaxHealth int32

	// pressureCarry — дробный урон от продолжительного контакта.
	pressureCarry float64
}

// NewCover creates a cover piece at full health.
func NewCover(center, halfSize Vec2, health int32) *Cover {
	return &Cover{
		Center:    center,
		HalfSize:  halfSize,
		Health:    health,
		MaxHealth: health,
	}
}

// Destroyed returns true once health dropped to zero or below.
func (c *Cover) Destroyed() bool { return c.Health <= 0 }

// Min returns the lower-left corner.
func (c *Cover) Min() Vec2 { return c.Center.Sub(c.HalfSize) }

// Max returns the upper-right corner.
func (c *Cover) Max() Vec2 { return c.Center.Add(c.HalfSize) }

// Damage subtracts amount and returns the health actually lost.
func (c *Cover) Damage(amount int32) int32 {
	if amount <= 0 || c.Destroyed() {
		return 0
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	return amount
}

// Press accumulates fractional contact damage and applies its whole part.
func (c *Cover) Press(amount float64) int32 {
	if amount <= 0 || c.Destroyed() {
		return 0
	}
	c.pressureCarry += amount
	whole := math.Floor(c.pressureCarry)
	if whole < 1 {
		return 0
	}
	c.pressureCarry -= whole
	return c.Damage(int32(whole))
}

// ClosestPoint returns the point of the rectangle closest to p.
func (c *Cover) ClosestPoint(p Vec2) Vec2 {
	lo, hi := c.Min(), c.Max()
	return Vec2{
		X: math.Max(lo.X, math.Min(p.X, hi.X)),
		Y: math.Max(lo.Y, math.Min(p.Y, hi.Y)),
	}
}

// OverlapsCircle reports whether a circle touches the rectangle.
func (c *Cover) OverlapsCircle(center Vec2, radius float64) bool {
	return c.ClosestPoint(center).DistSq(center) <= radius*radius
}

// SegmentHit returns the first fraction t ∈ [0,1] at which the segment a→b,
// inflated by radius, enters the rectangle.
func (c *Cover) SegmentHit(a, b Vec2, radius float64) (float64, bool) {
	lo := c.Min().Sub(Vec2{X: radius, Y: radius})
	hi := c.Max().Add(Vec2{X: radius, Y: radius})
	return SegmentAABB(a, b, lo, hi)
}

// SegmentAABB intersects segment a→b with the box [lo, hi] (slab method).
// A segment starting inside the box hits at t = 0.
func SegmentAABB(a, b, lo, hi Vec2) (float64, bool) {
	d := b.Sub(a)
	tmin, tmax := 0.0, 1.0

	for axis := range 2 {
		var p, dd, l, h float64
		if axis == 0 {
			p, dd, l, h = a.X, d.X, lo.X, hi.X
		} else {
			p, dd, l, h = a.Y, d.Y, lo.Y, hi.Y
		}
		if math.Abs(dd) < 1e-12 {
			if p < l || p > h {
				return 0, false
			}
			continue
		}
		t1 := (l - p) / dd
		t2 := (h - p) / dd
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
