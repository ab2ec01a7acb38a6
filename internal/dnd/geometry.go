package dnd

// Point is a pointer position in host cells (terminal columns/rows).
type Point struct {
	X, Y int
}

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned box; the right and bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
