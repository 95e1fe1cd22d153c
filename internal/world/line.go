package world

// LineIterator walks grid cells along a 2D Bresenham line, start and end
// cells included.
type LineIterator struct {
	currentX, currentY int32
	targetX, targetY   int32
	deltaX, deltaY     int32
	stepX, stepY       int32
	err                int32
	started            bool
}

// NewLineIterator creates a Bresenham line iterator from (sx, sy) to (ex, ey).
func NewLineIterator(sx, sy, ex, ey int32) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
	}

	it.deltaX = abs32(ex - sx)
	it.deltaY = -abs32(ey - sy)

	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sy < ey {
		it.stepY = 1
	} else {
		it.stepY = -1
	}
	it.err = it.deltaX + it.deltaY
	return it
}

// Next advances the iterator to the next cell.
// Returns false when the target is reached.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // start cell
	}
	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	e2 := 2 * it.err
	if e2 >= it.deltaY {
		it.err += it.deltaY
		it.currentX += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.currentY += it.stepY
	}
	return true
}

// X returns the current cell column.
func (it *LineIterator) X() int32 { return it.currentX }

// Y returns the current cell row.
func (it *LineIterator) Y() int32 { return it.currentY }

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
