package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/robot-cleaner/game/geom"
)

const (
	// Validation constants
	MinGridSize          = 3
	MaxGridSize          = 256
	MaxBulkMoves         = 50
	MaxStepsPerCall      = 5000
	DefaultSpawnAttempts = 10000
	DefaultPlaceChance   = 0.6
)

// Color is an RGBA colour tag carried by every object
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB returns an opaque colour
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	CoverageColor      = RGB(255, 215, 0)
	RobotColor         = RGB(255, 190, 0)
	WallColor          = RGB(0, 0, 0)
	ChargerIdleColor   = RGB(0, 128, 0)
	ChargerDockedColor = RGB(144, 238, 144)

	// ObstaclePalette is the set random obstacles draw their colour from
	ObstaclePalette = []Color{
		RGB(0, 0, 255),     // blue
		RGB(255, 0, 0),     // red
		RGB(0, 255, 0),     // green
		RGB(255, 255, 0),   // yellow
		RGB(255, 128, 128), // light red
		RGB(0, 0, 139),     // dark blue
		RGB(240, 230, 140), // khaki
	}
)

// Object is a coloured rectangle. Obstacles, walls, the robot, the charging
// point and cleaned cells all use it; the collection it lives in is its role.
type Object struct {
	Rect  geom.Rect `json:"rect"`
	Color Color     `json:"color"`
}

// SameCell reports whether both objects cover exactly the same rectangle
func (o Object) SameCell(other Object) bool {
	return o.Rect == other.Rect
}

// Direction is one of the four unit moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction in the order the explorer probes them
var Directions = []Direction{Right, Down, Left, Up}

// Delta returns the cell offset of d. ok is false for unknown directions.
func (d Direction) Delta() (dx, dy int, ok bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	}
	return 0, 0, false
}

// Opposite returns the direction that undoes d
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// ParseDirection converts user input into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if _, _, ok := d.Delta(); !ok {
		return "", fmt.Errorf("invalid direction %q: want up, down, left or right", s)
	}
	return d, nil
}

// Outcome is the result of a single move attempt
type Outcome string

const (
	// Visited means the move was accepted and the vacated cell was recorded for the first time
	Visited Outcome = "visited"
	// NotVisited means the move was accepted but the vacated cell was already cleaned
	NotVisited Outcome = "not_visited"
	// Blocked means the move was rejected and nothing changed
	Blocked Outcome = "blocked"
)

// Accepted reports whether the robot actually moved
func (o Outcome) Accepted() bool {
	return o == Visited || o == NotVisited
}

// Mode selects how move commands are produced for a run
type Mode string

const (
	ModeManual      Mode = "manual"
	ModeExploration Mode = "exploration"
)

// ParseMode converts user input into a Mode. An empty string selects manual.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeManual, nil
	case ModeManual, ModeExploration:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q: want manual or exploration", s)
}

// Status is the state of a run as a whole
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	// StatusExhausted marks an exploration run whose frontier emptied
	// before every free cell was cleaned
	StatusExhausted Status = "exhausted"
)

// MoveResult describes one move attempt
type MoveResult struct {
	Outcome   Outcome   `json:"outcome"`
	Direction Direction `json:"direction"`
	From      geom.Rect `json:"from"`
	To        geom.Rect `json:"to"`
	// Vacated is the cell the robot left; zero when the move was blocked
	Vacated geom.Rect `json:"vacated"`
}
