// Package engine provides the world model and movement rules of the cleaning
// robot simulator.
//
// The engine package implements:
//   - The entity model (Object, Color) shared by obstacles, walls, the robot
//     and the charging point
//   - Layout generation: non-overlapping obstacles, boundary walls and
//     collision-free spawn cells
//   - Collision-checked one-cell movement (World.TryMove)
//   - Coverage bookkeeping: cleaned cells, the path of visited centres and
//     the completion ratio
//   - World configuration loading and validation
//
// Core Types:
//
// World owns every piece of simulation state. Obstacles, walls, the charging
// point and todo are fixed at construction; the robot position, cleaned set,
// path and move count change only through TryMove. Snapshot returns an
// independent copy for presentation layers.
//
// Usage:
//
//	cfg := engine.DefaultWorldConfig()
//	world, err := engine.Generate(cfg, rand.New(rand.NewSource(seed)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := world.TryMove(engine.Right)
//	if result.Outcome == engine.Blocked {
//		// hit an obstacle, nothing changed
//	}
//	snap := world.Snapshot()
//
// Coverage Rules:
//
// An accepted move records the cell the robot just left, not the one it
// entered. Every cell the robot passes through is therefore recorded one move
// later, and the cell it finally rests on is only counted if it was left
// earlier in the run. A run is complete when the number of cleaned cells
// equals todo, the count of interior cells not covered by an obstacle.
package engine
