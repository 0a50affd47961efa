package engine

import (
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/robot-cleaner/game/geom"
)

// World is the complete state of one simulation run
type World struct {
	id     string
	config WorldConfig

	objects []Object
	charger Object
	todo    int

	robot        Object
	cleaned      []Object
	cleanedIndex mapset.Set[geom.Rect]
	path         []geom.Point
	moveCount    int
	blockedCount int
}

func newWorld(config WorldConfig, objects []Object, robot, charger geom.Rect) *World {
	return &World{
		id:           uuid.New().String(),
		config:       config,
		objects:      objects,
		charger:      Object{Rect: charger, Color: ChargerIdleColor},
		todo:         CountTodo(config.GridWidth, config.GridHeight, objects),
		robot:        Object{Rect: robot, Color: RobotColor},
		cleaned:      []Object{},
		cleanedIndex: mapset.New[geom.Rect](),
		path:         []geom.Point{},
	}
}

// ID returns the unique identifier of this world
func (w *World) ID() string {
	return w.id
}

// Config returns the configuration the world was built from
func (w *World) Config() WorldConfig {
	return w.config
}

// Mode returns the navigation mode selected for this run
func (w *World) Mode() Mode {
	return w.config.Mode
}

// Size returns the grid extent in cells
func (w *World) Size() (int, int) {
	return w.config.GridWidth, w.config.GridHeight
}

// Objects returns a copy of the obstacles followed by the four walls
func (w *World) Objects() []Object {
	return append([]Object(nil), w.objects...)
}

// Robot returns the robot object
func (w *World) Robot() Object {
	return w.robot
}

// RobotCell returns the grid cell the robot occupies
func (w *World) RobotCell() (int, int) {
	return w.robot.Rect.Cell()
}

// Docked reports whether the robot sits on the charging point
func (w *World) Docked() bool {
	return w.robot.Rect == w.charger.Rect
}

// ChargingPoint returns the charging point coloured by whether the robot is docked
func (w *World) ChargingPoint() Object {
	cp := w.charger
	if w.Docked() {
		cp.Color = ChargerDockedColor
	}
	return cp
}

// Cleaned returns a copy of the cleaned cells in discovery order
func (w *World) Cleaned() []Object {
	return append([]Object(nil), w.cleaned...)
}

// IsCleaned reports whether the cell covered by rect has been recorded
func (w *World) IsCleaned(rect geom.Rect) bool {
	return w.cleanedIndex.Has(rect)
}

// Path returns a copy of the centres reached by accepted moves
func (w *World) Path() []geom.Point {
	return append([]geom.Point(nil), w.path...)
}

// CleanedCount returns the number of distinct cleaned cells
func (w *World) CleanedCount() int {
	return len(w.cleaned)
}

// Todo returns the number of free interior cells
func (w *World) Todo() int {
	return w.todo
}

// MoveCount returns the number of accepted moves
func (w *World) MoveCount() int {
	return w.moveCount
}

// BlockedCount returns the number of rejected move attempts
func (w *World) BlockedCount() int {
	return w.blockedCount
}

// Coverage returns the cleaned fraction of the free cells
func (w *World) Coverage() float64 {
	if w.todo == 0 {
		return 0
	}
	return float64(len(w.cleaned)) / float64(w.todo)
}

// IsComplete reports whether every free cell has been cleaned
func (w *World) IsComplete() bool {
	return w.todo > 0 && len(w.cleaned) >= w.todo
}

// Status returns Running until every free cell has been cleaned
func (w *World) Status() Status {
	if w.IsComplete() {
		return StatusComplete
	}
	return StatusRunning
}

// Blocks reports whether rect collides with any obstacle or wall
func (w *World) Blocks(rect geom.Rect) bool {
	return collidesAny(rect, w.objects)
}
