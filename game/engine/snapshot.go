package engine

import "github.com/wricardo/robot-cleaner/game/geom"

// GridSize is the extent of the grid in cells
type GridSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Snapshot is a read-only copy of a world taken between moves
type Snapshot struct {
	ID            string       `json:"id"`
	ConfigName    string       `json:"config_name"`
	Mode          Mode         `json:"mode"`
	Status        Status       `json:"status"`
	Grid          GridSize     `json:"grid"`
	CellSize      float64      `json:"cell_size"`
	Obstacles     []Object     `json:"obstacles"`
	Cleaned       []Object     `json:"cleaned"`
	Robot         Object       `json:"robot"`
	ChargingPoint Object       `json:"charging_point"`
	Docked        bool         `json:"docked"`
	Path          []geom.Point `json:"path"`
	CleanedCount  int          `json:"cleaned_count"`
	Todo          int          `json:"todo"`
	MoveCount     int          `json:"move_count"`
	BlockedCount  int          `json:"blocked_count"`
	Coverage      float64      `json:"coverage"`
}

// Snapshot copies the current state. Later moves do not affect the result.
func (w *World) Snapshot() *Snapshot {
	return &Snapshot{
		ID:            w.id,
		ConfigName:    w.config.Name,
		Mode:          w.config.Mode,
		Status:        w.Status(),
		Grid:          GridSize{Width: w.config.GridWidth, Height: w.config.GridHeight},
		CellSize:      geom.CellSize,
		Obstacles:     w.Objects(),
		Cleaned:       w.Cleaned(),
		Robot:         w.robot,
		ChargingPoint: w.ChargingPoint(),
		Docked:        w.Docked(),
		Path:          w.Path(),
		CleanedCount:  len(w.cleaned),
		Todo:          w.todo,
		MoveCount:     w.moveCount,
		BlockedCount:  w.blockedCount,
		Coverage:      w.Coverage(),
	}
}
