package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRect_NormalisesCorners(t *testing.T) {
	r := NewRect(4, 5, 1, 2)
	assert.Equal(t, Point{X: 1, Y: 2}, r.Min)
	assert.Equal(t, Point{X: 4, Y: 5}, r.Max)
}

func TestCellRect(t *testing.T) {
	r := CellRect(3, 7)
	assert.Equal(t, Rect{Min: Point{3, 7}, Max: Point{4, 8}}, r)
	assert.Equal(t, Point{3.5, 7.5}, r.Center())

	x, y := r.Cell()
	assert.Equal(t, 3, x)
	assert.Equal(t, 7, y)
}

func TestRect_Translate(t *testing.T) {
	r := CellRect(1, 1).Translate(CellSize, -CellSize)
	assert.Equal(t, CellRect(2, 0), r)
}

func TestRect_Intersects(t *testing.T) {
	base := SpanRect(2, 2, 3, 3)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", SpanRect(4, 4, 2, 2), true},
		{"contained", CellRect(3, 3), true},
		{"touching edge", CellRect(5, 2), true},
		{"touching corner", CellRect(5, 5), true},
		{"separate", CellRect(7, 7), false},
		{"separate on one axis only", SpanRect(2, 6, 3, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base), "intersection must be symmetric")
		})
	}
}

func TestRect_Contains(t *testing.T) {
	r := CellRect(0, 0)
	assert.True(t, r.Contains(Point{0.5, 0.5}))
	assert.True(t, r.Contains(Point{1, 1}), "boundary is inside")
	assert.False(t, r.Contains(Point{1.01, 0.5}))
}

func TestRect_ExpandShrink(t *testing.T) {
	r := SpanRect(2, 2, 4, 4)

	assert.Equal(t, SpanRect(0, 0, 8, 8), r.Expand(2))
	assert.Equal(t, SpanRect(3, 3, 2, 2), r.Shrink(1))
	assert.Equal(t, r.Shrink(1), r.Expand(-1))

	collapsed := r.Shrink(10)
	assert.Equal(t, r.Center(), collapsed.Min)
	assert.Equal(t, r.Center(), collapsed.Max)
	assert.Zero(t, collapsed.Width())
	assert.Zero(t, collapsed.Height())
}

func TestCollides(t *testing.T) {
	obstacle := SpanRect(5, 5, 2, 2)

	tests := []struct {
		name   string
		moving Rect
		want   bool
	}{
		{"left neighbour", CellRect(4, 5), false},
		{"right neighbour", CellRect(7, 6), false},
		{"above", CellRect(5, 4), false},
		{"diagonal corner", CellRect(4, 4), false},
		{"inside", CellRect(5, 5), true},
		{"half overlap", CellRect(4, 5).Translate(0.5, 0), true},
		{"overlap within tolerance", CellRect(4, 5).Translate(Tolerance/2, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collides(tt.moving, obstacle))
		})
	}
}
