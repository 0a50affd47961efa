package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/robot-cleaner/game/geom"
)

func TestWorld_StatusReachesComplete(t *testing.T) {
	config := WorldConfig{Name: "corridor", GridWidth: 5, GridHeight: 3}
	world, err := NewWorld(config, nil, CellSpec{X: 1, Y: 1}, CellSpec{X: 3, Y: 1})
	require.NoError(t, err)
	require.Equal(t, 3, world.Todo())

	assert.Equal(t, StatusRunning, world.Status())
	world.TryMove(Right)
	world.TryMove(Right)
	assert.Equal(t, StatusRunning, world.Status(), "the resting cell is not cleaned yet")
	assert.Equal(t, 2, world.CleanedCount())

	world.TryMove(Left)
	assert.Equal(t, StatusComplete, world.Status())
	assert.True(t, world.IsComplete())
	assert.InDelta(t, 1.0, world.Coverage(), 1e-9)
}

func TestWorld_ChargingPointTwoTone(t *testing.T) {
	config := WorldConfig{Name: "dock", GridWidth: 5, GridHeight: 3}
	world, err := NewWorld(config, nil, CellSpec{X: 1, Y: 1}, CellSpec{X: 2, Y: 1})
	require.NoError(t, err)

	assert.False(t, world.Docked())
	assert.Equal(t, ChargerIdleColor, world.ChargingPoint().Color)

	world.TryMove(Right)
	assert.True(t, world.Docked())
	assert.Equal(t, ChargerDockedColor, world.ChargingPoint().Color)
	assert.Equal(t, ChargerDockedColor, world.Snapshot().ChargingPoint.Color)
}

func TestWorld_SnapshotIsIndependent(t *testing.T) {
	config := WorldConfig{Name: "snap", GridWidth: 6, GridHeight: 6}
	world, err := NewWorld(config, nil, CellSpec{X: 1, Y: 1}, CellSpec{X: 4, Y: 4})
	require.NoError(t, err)

	world.TryMove(Right)
	snap := world.Snapshot()
	snap.Path[0] = geom.Point{X: -1, Y: -1}
	snap.Cleaned[0].Color = WallColor

	world.TryMove(Right)
	assert.Len(t, snap.Path, 1, "snapshot must not grow with the world")
	assert.Equal(t, geom.Point{X: 2.5, Y: 1.5}, world.Path()[0])
	assert.Equal(t, CoverageColor, world.Cleaned()[0].Color)
}

func TestWorld_ObjectsIncludeWallsLast(t *testing.T) {
	config := WorldConfig{Name: "walls", GridWidth: 8, GridHeight: 6}
	block := Object{Rect: geom.SpanRect(3, 2, 2, 2), Color: ObstaclePalette[2]}
	world, err := NewWorld(config, []Object{block}, CellSpec{X: 1, Y: 1}, CellSpec{X: 6, Y: 4})
	require.NoError(t, err)

	objects := world.Objects()
	require.Len(t, objects, 5)
	assert.Equal(t, block, objects[0])
	for _, wall := range objects[1:] {
		assert.Equal(t, WallColor, wall.Color)
	}
	// 6x4 interior minus the 2x2 block
	assert.Equal(t, 20, world.Todo())
	assert.NotEmpty(t, world.ID())
}

func TestNewWorld_RejectsBadLayouts(t *testing.T) {
	config := WorldConfig{Name: "bad", GridWidth: 8, GridHeight: 8}

	tests := []struct {
		name      string
		obstacles []Object
		robot     CellSpec
		charger   CellSpec
	}{
		{"robot in wall", nil, CellSpec{X: 0, Y: 3}, CellSpec{X: 4, Y: 4}},
		{"robot on charger", nil, CellSpec{X: 2, Y: 2}, CellSpec{X: 2, Y: 2}},
		{"robot inside obstacle", []Object{{Rect: geom.SpanRect(2, 2, 2, 2)}}, CellSpec{X: 3, Y: 3}, CellSpec{X: 6, Y: 6}},
		{"overlapping obstacles", []Object{{Rect: geom.SpanRect(2, 2, 2, 2)}, {Rect: geom.SpanRect(3, 3, 2, 2)}}, CellSpec{X: 1, Y: 1}, CellSpec{X: 6, Y: 6}},
		{"obstacle leaves interior", []Object{{Rect: geom.SpanRect(6, 6, 3, 1)}}, CellSpec{X: 1, Y: 1}, CellSpec{X: 2, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorld(config, tt.obstacles, tt.robot, tt.charger)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
