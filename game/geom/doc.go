// Package geom provides the axis-aligned geometry used by the cleaning robot
// simulator.
//
// Coordinates are expressed in grid units: one cell is CellSize wide and
// cell (x, y) covers [x, x+1] × [y, y+1]. Pixel scaling is left to whatever
// draws the grid.
//
// Collision Convention:
//
// Rect.Intersects is closed, so rectangles that only share an edge intersect.
// Every collision check in the simulator goes through Collides, which shrinks
// the obstacle by Tolerance first. That makes exactly adjacent cells
// enterable while anything that overlaps by more than the tolerance collides.
package geom
