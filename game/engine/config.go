package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/robot-cleaner/game/geom"
)

var (
	ErrInvalidConfig  = errors.New("invalid world config")
	ErrSpawnExhausted = errors.New("no free spawn cell found")
)

// CellSpec addresses a single grid cell
type CellSpec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect returns the rectangle covering the cell
func (c CellSpec) Rect() geom.Rect {
	return geom.CellRect(c.X, c.Y)
}

// ObstacleSpec is a fixed obstacle in cell units
type ObstacleSpec struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  *Color `json:"color,omitempty"`
}

// Rect returns the rectangle covered by the obstacle
func (o ObstacleSpec) Rect() geom.Rect {
	return geom.SpanRect(o.X, o.Y, o.Width, o.Height)
}

// WorldConfig describes how a world is built
type WorldConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	MinObstacles    int     `json:"min_obstacles"`
	MaxObstacles    int     `json:"max_obstacles"`
	MinObstacleSize int     `json:"min_obstacle_size"`
	MaxObstacleSize int     `json:"max_obstacle_size"`
	ObstacleMargin  int     `json:"obstacle_margin"`
	ScanMargin      int     `json:"scan_margin"`
	PlaceChance     float64 `json:"place_chance,omitempty"`
	SpawnAttempts   int     `json:"spawn_attempts,omitempty"`

	Mode Mode `json:"mode,omitempty"`

	// Fixed layout. When Obstacles is non-empty no random obstacles are drawn.
	Obstacles    []ObstacleSpec `json:"obstacles,omitempty"`
	RobotSpawn   *CellSpec      `json:"robot_spawn,omitempty"`
	ChargerSpawn *CellSpec      `json:"charger_spawn,omitempty"`
}

// DefaultWorldConfig returns the reference layout: a 32×25 grid with 3-6
// obstacles of 4-16 cells per side kept 2 cells apart.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Name:            "reference",
		Description:     "32x25 room with 3-6 random obstacles",
		GridWidth:       32,
		GridHeight:      25,
		MinObstacles:    3,
		MaxObstacles:    6,
		MinObstacleSize: 4,
		MaxObstacleSize: 16,
		ObstacleMargin:  2,
		ScanMargin:      3,
		PlaceChance:     DefaultPlaceChance,
		SpawnAttempts:   DefaultSpawnAttempts,
		Mode:            ModeManual,
	}
}

// WithDefaults fills the optional fields left at their zero value
func (c WorldConfig) WithDefaults() WorldConfig {
	if c.PlaceChance == 0 {
		c.PlaceChance = DefaultPlaceChance
	}
	if c.SpawnAttempts == 0 {
		c.SpawnAttempts = DefaultSpawnAttempts
	}
	if c.Mode == "" {
		c.Mode = ModeManual
	}
	return c
}

// InteriorCells returns the number of cells inside the boundary walls
func (c WorldConfig) InteriorCells() int {
	return max(c.GridWidth-2, 0) * max(c.GridHeight-2, 0)
}

// inInterior reports whether r lies inside the walls
func (c WorldConfig) inInterior(r geom.Rect) bool {
	interior := geom.SpanRect(1, 1, c.GridWidth-2, c.GridHeight-2)
	return r.Min.X >= interior.Min.X && r.Min.Y >= interior.Min.Y &&
		r.Max.X <= interior.Max.X && r.Max.Y <= interior.Max.Y
}

// ValidateWorldConfig checks that a configuration can produce a valid world
func ValidateWorldConfig(config *WorldConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	// Validate grid size
	if config.GridWidth < MinGridSize || config.GridWidth > MaxGridSize {
		return fmt.Errorf("%w: grid_width must be between %d and %d, got %d",
			ErrInvalidConfig, MinGridSize, MaxGridSize, config.GridWidth)
	}
	if config.GridHeight < MinGridSize || config.GridHeight > MaxGridSize {
		return fmt.Errorf("%w: grid_height must be between %d and %d, got %d",
			ErrInvalidConfig, MinGridSize, MaxGridSize, config.GridHeight)
	}
	if config.InteriorCells() < 2 {
		return fmt.Errorf("%w: grid %dx%d leaves %d interior cells, need room for the robot and the charging point",
			ErrInvalidConfig, config.GridWidth, config.GridHeight, config.InteriorCells())
	}

	if _, err := ParseMode(string(config.Mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config.SpawnAttempts < 1 {
		return fmt.Errorf("%w: spawn_attempts must be positive, got %d", ErrInvalidConfig, config.SpawnAttempts)
	}

	if len(config.Obstacles) > 0 {
		if err := validateFixedObstacles(config); err != nil {
			return err
		}
	} else if err := validateRandomObstacles(config); err != nil {
		return err
	}

	for _, spawn := range []struct {
		name string
		cell *CellSpec
	}{{"robot_spawn", config.RobotSpawn}, {"charger_spawn", config.ChargerSpawn}} {
		if spawn.cell == nil {
			continue
		}
		if !config.inInterior(spawn.cell.Rect()) {
			return fmt.Errorf("%w: %s (%d,%d) is outside the interior",
				ErrInvalidConfig, spawn.name, spawn.cell.X, spawn.cell.Y)
		}
	}
	if config.RobotSpawn != nil && config.ChargerSpawn != nil && *config.RobotSpawn == *config.ChargerSpawn {
		return fmt.Errorf("%w: robot_spawn and charger_spawn must differ", ErrInvalidConfig)
	}

	return nil
}

func validateRandomObstacles(config *WorldConfig) error {
	if config.MinObstacles < 0 || config.MinObstacles > config.MaxObstacles {
		return fmt.Errorf("%w: obstacle count range [%d, %d] is invalid",
			ErrInvalidConfig, config.MinObstacles, config.MaxObstacles)
	}
	if config.MaxObstacles == 0 {
		return nil
	}

	if config.MinObstacleSize < 1 || config.MinObstacleSize > config.MaxObstacleSize {
		return fmt.Errorf("%w: obstacle size range [%d, %d] is invalid",
			ErrInvalidConfig, config.MinObstacleSize, config.MaxObstacleSize)
	}
	if config.ObstacleMargin < 0 {
		return fmt.Errorf("%w: obstacle_margin must not be negative, got %d", ErrInvalidConfig, config.ObstacleMargin)
	}
	if config.ScanMargin < 1 {
		return fmt.Errorf("%w: scan_margin must be at least 1, got %d", ErrInvalidConfig, config.ScanMargin)
	}
	if config.PlaceChance <= 0 || config.PlaceChance > 1 {
		return fmt.Errorf("%w: place_chance must be in (0, 1], got %g", ErrInvalidConfig, config.PlaceChance)
	}

	// The smallest obstacle plus its margin has to fit between the walls
	need := config.MinObstacleSize + 2*config.ObstacleMargin
	if config.GridWidth-2 < need || config.GridHeight-2 < need {
		return fmt.Errorf("%w: grid %dx%d is too small for obstacles of %d cells with a %d cell margin",
			ErrInvalidConfig, config.GridWidth, config.GridHeight, config.MinObstacleSize, config.ObstacleMargin)
	}
	if config.GridWidth-2*config.ScanMargin < 1 || config.GridHeight-2*config.ScanMargin < 1 {
		return fmt.Errorf("%w: scan_margin %d leaves no cells to scan on a %dx%d grid",
			ErrInvalidConfig, config.ScanMargin, config.GridWidth, config.GridHeight)
	}
	return nil
}

func validateFixedObstacles(config *WorldConfig) error {
	rects := make([]geom.Rect, 0, len(config.Obstacles))
	for i, o := range config.Obstacles {
		if o.Width < 1 || o.Height < 1 {
			return fmt.Errorf("%w: obstacle %d has non-positive size %dx%d", ErrInvalidConfig, i, o.Width, o.Height)
		}
		r := o.Rect()
		if !config.inInterior(r) {
			return fmt.Errorf("%w: obstacle %d at (%d,%d) size %dx%d leaves the interior",
				ErrInvalidConfig, i, o.X, o.Y, o.Width, o.Height)
		}
		for j, prev := range rects {
			if geom.Collides(r, prev) {
				return fmt.Errorf("%w: obstacle %d overlaps obstacle %d", ErrInvalidConfig, i, j)
			}
		}
		rects = append(rects, r)
	}
	return nil
}

// LoadWorldConfig loads and validates a world configuration from a JSON file
func LoadWorldConfig(filename string) (*WorldConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}

	config, err := ParseWorldConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config '%s': %w", filepath.Base(filename), err)
	}
	return config, nil
}

// ParseWorldConfig decodes JSON, applies defaults and validates the result
func ParseWorldConfig(data []byte) (*WorldConfig, error) {
	var config WorldConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config = config.WithDefaults()
	if err := ValidateWorldConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ConfigIDFromFilename strips directory and extension from a preset file name
func ConfigIDFromFilename(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ".json")
}
