package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatsim/internal/model"
)

type cell struct{ x, y int32 }

func walk(it *LineIterator) []cell {
	var out []cell
	for it.Next() {
		out = append(out, cell{it.X(), it.Y()})
	}
	return out
}

func TestLineIterator(t *testing.T) {
	tests := []struct {
		name           string
		sx, sy, ex, ey int32
		want           []cell
	}{
		{"single", 2, 2, 2, 2, []cell{{2, 2}}},
		{"horizontal", 0, 0, 3, 0, []cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical back", 0, 2, 0, 0, []cell{{0, 2}, {0, 1}, {0, 0}}},
		{"shallow", 0, 0, 3, 1, []cell{{0, 0}, {1, 0}, {2, 1}, {3, 1}}},
		{"diagonal", 0, 0, -2, -2, []cell{{0, 0}, {-1, -1}, {-2, -2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, walk(NewLineIterator(tt.sx, tt.sy, tt.ex, tt.ey)))
		})
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(10, []string{
		"....",
		"..#.",
		"....",
	})
	require.NoError(t, err)

	w, h := g.Size()
	assert.InDelta(t, 40, w, 1e-9)
	assert.InDelta(t, 30, h, 1e-9)
	assert.True(t, g.Solid(2, 1))
	assert.False(t, g.Solid(1, 1))
	assert.False(t, g.Solid(-1, 0), "outside the grid is open")

	_, err = ParseGrid(10, []string{"..", "..."})
	assert.Error(t, err)
	_, err = ParseGrid(0, []string{"."})
	assert.Error(t, err)
	_, err = ParseGrid(10, nil)
	assert.Error(t, err)
}

func TestGrid_Raycast(t *testing.T) {
	g, err := ParseGrid(10, []string{
		"....",
		"..#.",
		"....",
	})
	require.NoError(t, err)

	tHit, hit := g.Raycast(model.V(5, 15), model.V(35, 15))
	require.True(t, hit)
	assert.InDelta(t, 0.5, tHit, 1e-9)
	assert.False(t, g.LineOfSight(model.V(5, 15), model.V(35, 15)))

	assert.True(t, g.LineOfSight(model.V(5, 5), model.V(35, 5)))
	assert.True(t, g.LineOfSight(model.V(5, 25), model.V(35, 25)))

	assert.True(t, g.InBounds(model.V(40, 30)))
	assert.False(t, g.InBounds(model.V(41, 0)))
}

func TestOpenField(t *testing.T) {
	f := OpenField{Width: 100, Height: 50}
	assert.True(t, f.LineOfSight(model.V(0, 0), model.V(100, 50)))
	_, hit := f.Raycast(model.V(0, 0), model.V(100, 50))
	assert.False(t, hit)
	assert.False(t, f.InBounds(model.V(0, 51)))
}

func TestArcBlocks(t *testing.T) {
	a := model.NewActor("shield", model.TeamHostile, 100, model.V(100, 100))
	a.Arc = &model.FacingArc{HalfAngle: math.Pi / 4, Radius: 20}

	tHit, ok := ArcBlocks(a, model.V(200, 100), model.V(100, 100), 0)
	require.True(t, ok, "frontal shot is blocked")
	assert.InDelta(t, 0.8, tHit, 1e-9)

	_, ok = ArcBlocks(a, model.V(0, 100), model.V(100, 100), 0)
	assert.False(t, ok, "shot from behind passes")

	_, ok = ArcBlocks(a, model.V(100, 300), model.V(100, 100), 0)
	assert.False(t, ok, "flank outside the half-angle passes")

	a.Arc = nil
	_, ok = ArcBlocks(a, model.V(200, 100), model.V(100, 100), 0)
	assert.False(t, ok)
}
