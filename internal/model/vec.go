package model

import "math"

// Vec2 — 2D вектор в мировых единицах (позиции, скорости, направления).
type Vec2 struct {
	X float64
	Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float64) Vec2 {
	return Vec2{X: math.Cos(a), Y: math.Sin(a)}
}

func (v Vec2) Add(o Vec2) Vec2       { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2       { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2  { return Vec2{X: v.X * k, Y: v.Y * k} }
func (v Vec2) Dot(o Vec2) float64    { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64  { return v.X*o.Y - v.Y*o.X }
func (v Vec2) LenSq() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64          { return math.Sqrt(v.LenSq()) }
func (v Vec2) IsZero() bool          { return v.X == 0 && v.Y == 0 }
func (v Vec2) Angle() float64        { return math.Atan2(v.Y, v.X) }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }
func (v Vec2) Dist(o Vec2) float64   { return v.Sub(o).Len() }

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rotate returns v rotated counter-clockwise by a radians.
func (v Vec2) Rotate(a float64) Vec2 {
	s, c := math.Sincos(a)
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Lerp interpolates between v and o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// NormalizeAngle wraps a into [-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDiff returns the signed shortest rotation from a to b, in [-π, π].
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// RotateTowards turns current toward target by at most maxStep radians.
func RotateTowards(current, target, maxStep float64) float64 {
	diff := AngleDiff(current, target)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}

// SegmentPointDistSq returns the squared distance from p to segment ab.
func SegmentPointDistSq(a, b, p Vec2) float64 {
	ab := b.Sub(a)
	l := ab.LenSq()
	if l == 0 {
		return p.DistSq(a)
	}
	t := p.Sub(a).Dot(ab) / l
	t = math.Max(0, math.Min(1, t))
	return p.DistSq(a.Add(ab.Scale(t)))
}

// SegmentCircle reports the first contact of segment ab with the circle (c, r).
// t is the fraction along ab where contact begins; a start point already
// inside the circle reports t = 0.
func SegmentCircle(a, b, c Vec2, r float64) (t float64, ok bool) {
	if a.DistSq(c) <= r*r {
		return 0, true
	}
	d := b.Sub(a)
	f := a.Sub(c)
	qa := d.Dot(d)
	if qa == 0 {
		return 0, false
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - r*r
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}
	t = (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// WithinCone reports whether dir lies within halfAngle of facing.
func WithinCone(facing float64, dir Vec2, halfAngle float64) bool {
	if dir.IsZero() {
		return true
	}
	return math.Abs(AngleDiff(facing, dir.Angle())) <= halfAngle
}
