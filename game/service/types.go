package service

import (
	"time"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/geom"
	"github.com/wricardo/robot-cleaner/game/navigation"
)

// SessionOptions selects how a new run is built
type SessionOptions struct {
	Preset string      `json:"preset,omitempty"`
	Mode   engine.Mode `json:"mode,omitempty"` // overrides the preset's mode when set
	Seed   *int64      `json:"seed,omitempty"` // random when nil
}

// SessionInfo provides information about a run
type SessionInfo struct {
	ID             string              `json:"id"`
	Preset         string              `json:"preset"`
	Mode           engine.Mode         `json:"mode"`
	Seed           int64               `json:"seed"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot    `json:"snapshot"`
	Config         *engine.WorldConfig `json:"config"`
}

// MoveResponse contains the result of a single manual move
type MoveResponse struct {
	Result   engine.MoveResult `json:"result"`
	Snapshot *engine.Snapshot  `json:"snapshot"`
	Message  string            `json:"message"`
}

// BulkMoveResponse contains the result of a sequence of manual moves
type BulkMoveResponse struct {
	RequestedMoves int                 `json:"requested_moves"`
	MovesExecuted  int                 `json:"moves_executed"`
	NewlyCleaned   int                 `json:"newly_cleaned"`
	Results        []engine.MoveResult `json:"results"`
	StoppedReason  string              `json:"stopped_reason,omitempty"`  // blocked|complete|invalid_direction
	StoppedOnMove  int                 `json:"stopped_on_move,omitempty"` // 1-based index of the move that caused stop
	Truncated      bool                `json:"truncated,omitempty"`
	Limit          int                 `json:"limit,omitempty"`
	Snapshot       *engine.Snapshot    `json:"snapshot"`
}

// StepResponse contains the result of advancing an exploration run
type StepResponse struct {
	RequestedSteps int                    `json:"requested_steps"`
	StepsExecuted  int                    `json:"steps_executed"`
	Moves          int                    `json:"moves"`
	Probes         int                    `json:"probes"`
	Backtracks     int                    `json:"backtracks"`
	Blocked        int                    `json:"blocked"`
	Finished       bool                   `json:"finished"`
	Status         engine.Status          `json:"status"`
	Error          string                 `json:"error,omitempty"`
	Last           *navigation.StepResult `json:"last,omitempty"`
	Snapshot       *engine.Snapshot       `json:"snapshot"`
}

// HistoryOptions configures path history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// PathEntry is one point of the robot's path
type PathEntry struct {
	Index int             `json:"index"` // 1-based move number
	Point geom.Point      `json:"point"`
	Cell  engine.CellSpec `json:"cell"`
}

// PathResponse contains paginated path history
type PathResponse struct {
	Entries     []PathEntry `json:"entries"`
	TotalMoves  int         `json:"total_moves"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	TotalPages  int         `json:"total_pages"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
}

// PresetInfo provides information about a world preset
type PresetInfo struct {
	Filename     string      `json:"filename"`
	PresetID     string      `json:"preset_id"` // The identifier to use for session creation
	Name         string      `json:"name"`      // Display name
	Description  string      `json:"description"`
	GridWidth    int         `json:"grid_width"`
	GridHeight   int         `json:"grid_height"`
	MinObstacles int         `json:"min_obstacles"`
	MaxObstacles int         `json:"max_obstacles"`
	FixedLayout  bool        `json:"fixed_layout"`
	Mode         engine.Mode `json:"mode"`
}
