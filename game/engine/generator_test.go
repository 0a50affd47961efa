package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/robot-cleaner/game/geom"
)

func TestGenerate_ReferenceLayoutProperties(t *testing.T) {
	config := DefaultWorldConfig()

	for seed := int64(1); seed <= 60; seed++ {
		world, err := Generate(config, rand.New(rand.NewSource(seed)))
		require.NoError(t, err, "seed %d", seed)

		objects := world.Objects()
		require.GreaterOrEqual(t, len(objects), 4, "seed %d", seed)
		obstacles := objects[:len(objects)-4]
		assert.LessOrEqual(t, len(obstacles), config.MaxObstacles, "seed %d", seed)

		// No two objects overlap, walls included
		for i := range objects {
			for j := i + 1; j < len(objects); j++ {
				assert.False(t, geom.Collides(objects[i].Rect, objects[j].Rect),
					"seed %d: %s overlaps %s", seed, objects[i].Rect, objects[j].Rect)
			}
		}

		// Obstacles keep their margin from each other and the walls
		margin := float64(config.ObstacleMargin) * geom.CellSize
		for i, o := range obstacles {
			grown := o.Rect.Expand(margin)
			for j, other := range objects {
				if i == j {
					continue
				}
				assert.False(t, geom.Collides(grown, other.Rect),
					"seed %d: obstacle %s violates margin to %s", seed, o.Rect, other.Rect)
			}
		}

		robot := world.Robot().Rect
		charger := world.ChargingPoint().Rect
		assert.False(t, world.Blocks(robot), "seed %d: robot spawned inside an object", seed)
		assert.False(t, world.Blocks(charger), "seed %d: charging point spawned inside an object", seed)
		assert.NotEqual(t, robot, charger, "seed %d", seed)

		assert.Equal(t, CountTodo(config.GridWidth, config.GridHeight, objects), world.Todo())
		assert.LessOrEqual(t, world.Todo(), config.InteriorCells())
		assert.Zero(t, world.CleanedCount())
		assert.Zero(t, world.MoveCount())
	}
}

func TestGenerate_TodoExcludesObstacleCells(t *testing.T) {
	config := DefaultWorldConfig()
	world, err := Generate(config, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	objects := world.Objects()
	covered := 0
	for _, o := range objects[:len(objects)-4] {
		covered += int(o.Rect.Width() * o.Rect.Height())
	}
	assert.Equal(t, config.InteriorCells()-covered, world.Todo())
}

func TestGenerate_SameSeedSameLayout(t *testing.T) {
	config := DefaultWorldConfig()
	a, err := Generate(config, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := Generate(config, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, a.Objects(), b.Objects())
	assert.Equal(t, a.Robot(), b.Robot())
	assert.Equal(t, a.ChargingPoint(), b.ChargingPoint())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGenerate_FewerObstaclesThanRequested(t *testing.T) {
	// Only one 4x4 obstacle with its margin fits on this grid
	config := WorldConfig{
		Name:            "cramped",
		GridWidth:       10,
		GridHeight:      10,
		MinObstacles:    5,
		MaxObstacles:    5,
		MinObstacleSize: 4,
		MaxObstacleSize: 4,
		ObstacleMargin:  1,
		ScanMargin:      2,
		PlaceChance:     1,
	}

	world, err := Generate(config, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Len(t, world.Objects(), 5)
	assert.Equal(t, config.InteriorCells()-16, world.Todo())
}

func TestGenerate_NoObstacles(t *testing.T) {
	config := WorldConfig{Name: "empty", GridWidth: 12, GridHeight: 9}
	world, err := Generate(config, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, world.Objects(), 4)
	assert.Equal(t, 10*7, world.Todo())
}

func TestGenerate_SpawnExhausted(t *testing.T) {
	config := WorldConfig{
		Name:          "one-free-cell",
		GridWidth:     4,
		GridHeight:    3,
		SpawnAttempts: 50,
		Obstacles:     []ObstacleSpec{{X: 1, Y: 1, Width: 1, Height: 1}},
	}

	_, err := Generate(config, rand.New(rand.NewSource(9)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawnExhausted)
}

func TestGenerate_FixedLayout(t *testing.T) {
	config := WorldConfig{
		Name:       "fixed",
		GridWidth:  10,
		GridHeight: 8,
		Obstacles: []ObstacleSpec{
			{X: 3, Y: 2, Width: 2, Height: 3, Color: &ObstaclePalette[4]},
			{X: 7, Y: 5, Width: 1, Height: 1},
		},
		RobotSpawn:   &CellSpec{X: 1, Y: 1},
		ChargerSpawn: &CellSpec{X: 8, Y: 1},
	}

	world, err := Generate(config, nil)
	require.NoError(t, err)

	objects := world.Objects()
	require.Len(t, objects, 6)
	assert.Equal(t, geom.SpanRect(3, 2, 2, 3), objects[0].Rect)
	assert.Equal(t, ObstaclePalette[4], objects[0].Color)
	assert.Equal(t, ObstaclePalette[0], objects[1].Color)
	assert.Equal(t, geom.CellRect(1, 1), world.Robot().Rect)
	assert.Equal(t, geom.CellRect(8, 1), world.ChargingPoint().Rect)
	assert.Equal(t, 8*6-6-1, world.Todo())
}

func TestGenerate_FixedSpawnOnObstacle(t *testing.T) {
	config := WorldConfig{
		Name:       "bad-spawn",
		GridWidth:  8,
		GridHeight: 8,
		Obstacles:  []ObstacleSpec{{X: 2, Y: 2, Width: 2, Height: 2}},
		RobotSpawn: &CellSpec{X: 3, Y: 3},
	}

	_, err := Generate(config, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerate_RandomSpawnWithoutSource(t *testing.T) {
	config := WorldConfig{Name: "no-rng", GridWidth: 6, GridHeight: 6}
	_, err := Generate(config, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBoundaryWalls(t *testing.T) {
	walls := BoundaryWalls(6, 4)
	require.Len(t, walls, 4)

	for i := range walls {
		for j := i + 1; j < len(walls); j++ {
			assert.False(t, geom.Collides(walls[i].Rect, walls[j].Rect))
		}
	}

	// Every border cell is covered, no interior cell is
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			border := x == 0 || y == 0 || x == 5 || y == 3
			center := geom.CellRect(x, y).Center()
			assert.Equal(t, border, containsAny(center, walls), "cell (%d,%d)", x, y)
		}
	}
}

func TestCountTodo(t *testing.T) {
	objects := append([]Object{{Rect: geom.SpanRect(2, 2, 2, 1)}}, BoundaryWalls(6, 5)...)
	assert.Equal(t, 4*3-2, CountTodo(6, 5, objects))
}
