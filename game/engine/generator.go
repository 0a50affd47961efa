package engine

import (
	"fmt"
	"math/rand"

	"github.com/wricardo/robot-cleaner/game/geom"
)

// Generate builds a new world from config. Obstacles come from the fixed
// layout when one is configured, otherwise they are placed randomly using rng.
func Generate(config WorldConfig, rng *rand.Rand) (*World, error) {
	config = config.WithDefaults()
	if err := ValidateWorldConfig(&config); err != nil {
		return nil, err
	}

	walls := BoundaryWalls(config.GridWidth, config.GridHeight)

	var obstacles []Object
	if len(config.Obstacles) > 0 {
		obstacles = fixedObstacles(config.Obstacles, rng)
	} else {
		obstacles = generateObstacles(config, walls, rng)
	}

	return assemble(config, append(obstacles, walls...), rng)
}

// NewWorld builds a world from an explicit obstacle list and spawn cells.
// Walls are appended automatically.
func NewWorld(config WorldConfig, obstacles []Object, robot, charger CellSpec) (*World, error) {
	config = config.WithDefaults()
	config.Obstacles = nil
	config.RobotSpawn = &robot
	config.ChargerSpawn = &charger
	if err := ValidateWorldConfig(&config); err != nil {
		return nil, err
	}

	for i, o := range obstacles {
		if !config.inInterior(o.Rect) {
			return nil, fmt.Errorf("%w: obstacle %d %s leaves the interior", ErrInvalidConfig, i, o.Rect)
		}
		for j := 0; j < i; j++ {
			if geom.Collides(o.Rect, obstacles[j].Rect) {
				return nil, fmt.Errorf("%w: obstacle %d overlaps obstacle %d", ErrInvalidConfig, i, j)
			}
		}
	}

	objects := make([]Object, 0, len(obstacles)+4)
	objects = append(objects, obstacles...)
	objects = append(objects, BoundaryWalls(config.GridWidth, config.GridHeight)...)

	return assemble(config, objects, nil)
}

// assemble places the robot and the charging point and freezes the world
func assemble(config WorldConfig, objects []Object, rng *rand.Rand) (*World, error) {
	robot, err := spawnCell(config, config.RobotSpawn, objects, rng)
	if err != nil {
		return nil, fmt.Errorf("placing robot: %w", err)
	}

	// The robot counts as an obstacle only while the charging point is placed
	withRobot := append(objects[:len(objects):len(objects)], Object{Rect: robot})
	charger, err := spawnCell(config, config.ChargerSpawn, withRobot, rng)
	if err != nil {
		return nil, fmt.Errorf("placing charging point: %w", err)
	}

	return newWorld(config, objects, robot, charger), nil
}

// BoundaryWalls returns the four 1-cell walls around a width×height grid.
// Top and bottom span the full width, left and right fill the rows between
// them so no two walls overlap.
func BoundaryWalls(width, height int) []Object {
	return []Object{
		{Rect: geom.SpanRect(0, 0, width, 1), Color: WallColor},
		{Rect: geom.SpanRect(0, height-1, width, 1), Color: WallColor},
		{Rect: geom.SpanRect(0, 1, 1, height-2), Color: WallColor},
		{Rect: geom.SpanRect(width-1, 1, 1, height-2), Color: WallColor},
	}
}

// generateObstacles scans candidate cells row by row and keeps every
// candidate whose margin-expanded rectangle clears all accepted obstacles and
// the walls, until the drawn target count is reached.
func generateObstacles(config WorldConfig, walls []Object, rng *rand.Rand) []Object {
	target := between(rng, config.MinObstacles, config.MaxObstacles)
	if target == 0 {
		return nil
	}

	margin := float64(config.ObstacleMargin) * geom.CellSize
	obstacles := make([]Object, 0, target)

	for y := config.ScanMargin; y < config.GridHeight-config.ScanMargin; y++ {
		for x := config.ScanMargin; x < config.GridWidth-config.ScanMargin; x++ {
			if rng.Float64() >= config.PlaceChance {
				continue
			}

			w := between(rng, config.MinObstacleSize, config.MaxObstacleSize)
			h := between(rng, config.MinObstacleSize, config.MaxObstacleSize)
			rect := geom.SpanRect(x, y, w, h)
			grown := rect.Expand(margin)

			if collidesAny(grown, obstacles) || collidesAny(grown, walls) {
				continue
			}

			obstacles = append(obstacles, Object{Rect: rect, Color: randomColor(rng)})
			if len(obstacles) == target {
				return obstacles
			}
		}
	}

	return obstacles
}

func fixedObstacles(specs []ObstacleSpec, rng *rand.Rand) []Object {
	obstacles := make([]Object, 0, len(specs))
	for _, spec := range specs {
		color := ObstaclePalette[0]
		if spec.Color != nil {
			color = *spec.Color
		} else if rng != nil {
			color = randomColor(rng)
		}
		obstacles = append(obstacles, Object{Rect: spec.Rect(), Color: color})
	}
	return obstacles
}

// spawnCell returns the fixed cell when one is configured, otherwise samples
// random interior cells until one is free.
func spawnCell(config WorldConfig, fixed *CellSpec, objects []Object, rng *rand.Rand) (geom.Rect, error) {
	if fixed != nil {
		rect := fixed.Rect()
		if collidesAny(rect, objects) {
			return geom.Rect{}, fmt.Errorf("%w: cell (%d,%d) is occupied", ErrInvalidConfig, fixed.X, fixed.Y)
		}
		return rect, nil
	}

	if rng == nil {
		return geom.Rect{}, fmt.Errorf("%w: no spawn cell configured and no random source", ErrInvalidConfig)
	}

	for attempt := 0; attempt < config.SpawnAttempts; attempt++ {
		x := between(rng, 1, config.GridWidth-2)
		y := between(rng, 1, config.GridHeight-2)
		rect := geom.CellRect(x, y)
		if !collidesAny(rect, objects) {
			return rect, nil
		}
	}

	return geom.Rect{}, fmt.Errorf("%w after %d attempts on a %dx%d grid",
		ErrSpawnExhausted, config.SpawnAttempts, config.GridWidth, config.GridHeight)
}

// CountTodo returns the number of interior cells whose centre is not inside
// any object. Walls are objects, so the border is never counted.
func CountTodo(width, height int, objects []Object) int {
	todo := 0
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := geom.CellRect(x, y).Center()
			if !containsAny(center, objects) {
				todo++
			}
		}
	}
	return todo
}

func collidesAny(rect geom.Rect, objects []Object) bool {
	for _, obj := range objects {
		if geom.Collides(rect, obj.Rect) {
			return true
		}
	}
	return false
}

func containsAny(p geom.Point, objects []Object) bool {
	for _, obj := range objects {
		if obj.Rect.Contains(p) {
			return true
		}
	}
	return false
}

// between returns a uniform integer in [lo, hi]
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func randomColor(rng *rand.Rand) Color {
	return ObstaclePalette[rng.Intn(len(ObstaclePalette))]
}
