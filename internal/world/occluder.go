package world

import (
	"fmt"
	"math"

	"github.com/udisondev/combatsim/internal/model"
)

// Occluder answers static line-of-sight queries. Implementations are pure:
// the same query always yields the same answer.
type Occluder interface {
	// InBounds reports whether p lies inside the playable area.
	InBounds(p model.Vec2) bool
	// LineOfSight reports whether nothing static blocks from→to.
	LineOfSight(from, to model.Vec2) bool
	// Raycast returns the fraction along from→to where the first wall starts.
	Raycast(from, to model.Vec2) (t float64, hit bool)
}

// OpenField is an obstacle-free rectangle [0,W]×[0,H].
type OpenField struct {
	Width, Height float64
}

func (f OpenField) InBounds(p model.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= f.Width && p.Y <= f.Height
}

func (f OpenField) LineOfSight(_, _ model.Vec2) bool { return true }

func (f OpenField) Raycast(_, _ model.Vec2) (float64, bool) { return 0, false }

// Grid is a tile map of solid walls. Cells outside the grid are open;
// the playable area is the grid rectangle.
type Grid struct {
	cols, rows int32
	cellSize   float64
	solid      []bool
}

// NewGrid creates an empty cols×rows grid of square cells.
func NewGrid(cols, rows int32, cellSize float64) *Grid {
	return &Grid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		solid:    make([]bool, int(cols)*int(rows)),
	}
}

// ParseGrid builds a grid from text rows, '#' marks a wall.
// Every row must have the same width.
func ParseGrid(cellSize float64, rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse grid: no rows")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("parse grid: cell size %v must be positive", cellSize)
	}
	width := len(rows[0])
	g := NewGrid(int32(width), int32(len(rows)), cellSize)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parse grid: row %d has width %d, want %d", y, len(row), width)
		}
		for x, ch := range []byte(row) {
			if ch == '#' {
				g.SetSolid(int32(x), int32(y), true)
			}
		}
	}
	return g, nil
}

// Size returns the world-space extent of the grid.
func (g *Grid) Size() (w, h float64) {
	return float64(g.cols) * g.cellSize, float64(g.rows) * g.cellSize
}

// CellSize returns the side length of a cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// SetSolid marks cell (cx, cy). Out-of-range cells are ignored.
func (g *Grid) SetSolid(cx, cy int32, solid bool) {
	if !g.valid(cx, cy) {
		return
	}
	g.solid[int(cy)*int(g.cols)+int(cx)] = solid
}

// Solid reports whether cell (cx, cy) is a wall.
func (g *Grid) Solid(cx, cy int32) bool {
	if !g.valid(cx, cy) {
		return false
	}
	return g.solid[int(cy)*int(g.cols)+int(cx)]
}

// Cell returns the cell containing p.
func (g *Grid) Cell(p model.Vec2) (cx, cy int32) {
	return int32(math.Floor(p.X / g.cellSize)), int32(math.Floor(p.Y / g.cellSize))
}

func (g *Grid) valid(cx, cy int32) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

func (g *Grid) InBounds(p model.Vec2) bool {
	w, h := g.Size()
	return p.X >= 0 && p.Y >= 0 && p.X <= w && p.Y <= h
}

func (g *Grid) LineOfSight(from, to model.Vec2) bool {
	_, hit := g.Raycast(from, to)
	return !hit
}

// Raycast walks the cells on the Bresenham line from→to and returns the
// entry fraction into the first solid one.
func (g *Grid) Raycast(from, to model.Vec2) (float64, bool) {
	sx, sy := g.Cell(from)
	ex, ey := g.Cell(to)

	it := NewLineIterator(sx, sy, ex, ey)
	for it.Next() {
		cx, cy := it.X(), it.Y()
		if !g.Solid(cx, cy) {
			continue
		}
		lo := model.V(float64(cx)*g.cellSize, float64(cy)*g.cellSize)
		hi := lo.Add(model.V(g.cellSize, g.cellSize))
		if t, ok := model.SegmentAABB(from, to, lo, hi); ok {
			return t, true
		}
		// Bresenham touched a corner cell the exact segment misses.
	}
	return 0, false
}
