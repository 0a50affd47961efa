package geom

import "fmt"

const (
	// CellSize is the side length of one grid cell.
	CellSize = 1.0

	// Tolerance is the inset applied to an obstacle before testing it
	// against a moving rectangle (0.4% of a cell).
	Tolerance = 0.004 * CellSize
)

// Point is a position in grid units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. Min is never greater than Max on either axis.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewRect builds a rectangle from two corners in any order
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Point{X: min(x0, x1), Y: min(y0, y1)},
		Max: Point{X: max(x0, x1), Y: max(y0, y1)},
	}
}

// CellRect returns the rectangle covering grid cell (x, y)
func CellRect(x, y int) Rect {
	return SpanRect(x, y, 1, 1)
}

// SpanRect returns the rectangle covering w×h cells starting at cell (x, y)
func SpanRect(x, y, w, h int) Rect {
	return Rect{
		Min: Point{X: float64(x) * CellSize, Y: float64(y) * CellSize},
		Max: Point{X: float64(x+w) * CellSize, Y: float64(y+h) * CellSize},
	}
}

// Translate returns the rectangle moved by (dx, dy)
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X + dx, Y: r.Min.Y + dy},
		Max: Point{X: r.Max.X + dx, Y: r.Max.Y + dy},
	}
}

// Intersects reports whether r and other share at least one point
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}

// Contains reports whether p lies inside r or on its boundary
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows r by margin on every side
func (r Rect) Expand(margin float64) Rect {
	if margin < 0 {
		return r.Shrink(-margin)
	}
	return Rect{
		Min: Point{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: Point{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}

// Shrink insets r by margin on every side. An axis thinner than 2*margin
// collapses to its midpoint instead of inverting.
func (r Rect) Shrink(margin float64) Rect {
	if margin < 0 {
		return r.Expand(-margin)
	}
	out := Rect{
		Min: Point{X: r.Min.X + margin, Y: r.Min.Y + margin},
		Max: Point{X: r.Max.X - margin, Y: r.Max.Y - margin},
	}
	c := r.Center()
	if out.Min.X > out.Max.X {
		out.Min.X, out.Max.X = c.X, c.X
	}
	if out.Min.Y > out.Max.Y {
		out.Min.Y, out.Max.Y = c.Y, c.Y
	}
	return out
}

// Center returns the midpoint of r
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Width returns the horizontal extent of r
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of r
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Cell returns the grid cell holding the top-left corner of r
func (r Rect) Cell() (int, int) {
	return int(r.Min.X / CellSize), int(r.Min.Y / CellSize)
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%g,%g)-(%g,%g)]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Collides reports whether moving overlaps obstacle by more than Tolerance.
// It is the only collision predicate the simulator uses.
func Collides(moving, obstacle Rect) bool {
	return moving.Intersects(obstacle.Shrink(Tolerance))
}
