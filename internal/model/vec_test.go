package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, math.Pi / 2},
		{"wrap positive", 3 * math.Pi / 2, -math.Pi / 2},
		{"wrap negative", -3 * math.Pi / 2, math.Pi / 2},
		{"two turns", 4*math.Pi + 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9)
		})
	}
}

func TestRotateTowards(t *testing.T) {
	// Bounded step
	assert.InDelta(t, 0.1, RotateTowards(0, 1, 0.1), 1e-9)
	assert.InDelta(t, -0.1, RotateTowards(0, -1, 0.1), 1e-9)

	// Snaps when within step
	assert.InDelta(t, 0.05, RotateTowards(0, 0.05, 0.1), 1e-9)

	// Takes the short way across ±π
	got := RotateTowards(math.Pi-0.05, -math.Pi+0.05, 0.2)
	assert.InDelta(t, -math.Pi+0.05, got, 1e-9)
}

func TestSegmentCircle(t *testing.T) {
	c := V(50, 0)

	tHit, ok := SegmentCircle(V(0, 0), V(100, 0), c, 10)
	assert.True(t, ok)
	assert.InDelta(t, 0.4, tHit, 1e-9)

	// Passing beside the circle
	_, ok = SegmentCircle(V(0, 20), V(100, 20), c, 10)
	assert.False(t, ok)

	// Segment ends before the circle
	_, ok = SegmentCircle(V(0, 0), V(30, 0), c, 10)
	assert.False(t, ok)

	// Starting inside
	tHit, ok = SegmentCircle(V(48, 0), V(100, 0), c, 10)
	assert.True(t, ok)
	assert.Equal(t, 0.0, tHit)
}

func TestSegmentCircle_FastSegmentDoesNotTunnel(t *testing.T) {
	// A segment far longer than the circle diameter still reports contact.
	_, ok := SegmentCircle(V(-10000, 1), V(10000, 1), V(0, 0), 2)
	assert.True(t, ok)
}

func TestWithinCone(t *testing.T) {
	assert.True(t, WithinCone(0, V(1, 0.1), math.Pi/8))
	assert.False(t, WithinCone(0, V(0, 1), math.Pi/8))
	assert.True(t, WithinCone(math.Pi, V(-1, 0), 0.01))
}

func TestSegmentPointDistSq(t *testing.T) {
	assert.InDelta(t, 25.0, SegmentPointDistSq(V(0, 0), V(10, 0), V(5, 5)), 1e-9)
	assert.InDelta(t, 25.0, SegmentPointDistSq(V(0, 0), V(10, 0), V(15, 0)), 1e-9)
	assert.InDelta(t, 4.0, SegmentPointDistSq(V(3, 3), V(3, 3), V(3, 5)), 1e-9)
}
