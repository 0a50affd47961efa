package navigation

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/geom"
)

// frame is one cell on the depth-first trail
type frame struct {
	cell    geom.Rect
	via     engine.Direction // direction taken to enter cell; empty for the start
	nextDir int              // index into engine.Directions of the next neighbour to probe
}

// Explorer covers the free space with a depth-first walk. Each Step makes at
// most one move attempt: a probe into an unseen neighbour or a step back
// along the trail once every neighbour of the current cell has been tried.
type Explorer struct {
	world   *engine.World
	stack   []frame
	visited mapset.Set[geom.Rect]
	blocked mapset.Set[geom.Rect]

	expansions int
	backtracks int
	done       bool
	err        error
}

func NewExplorer() *Explorer {
	return &Explorer{}
}

func (e *Explorer) Mode() engine.Mode {
	return engine.ModeExploration
}

// start binds the explorer to w and seeds the trail with the robot's cell
func (e *Explorer) start(w *engine.World) {
	cell := w.Robot().Rect
	e.world = w
	e.stack = []frame{{cell: cell}}
	e.visited = mapset.New[geom.Rect]()
	e.visited.Put(cell)
	e.blocked = mapset.New[geom.Rect]()
	e.expansions = 0
	e.backtracks = 0
	e.done = false
	e.err = nil
}

// Reset forgets the current walk. The next Step starts over from wherever
// the robot stands.
func (e *Explorer) Reset() {
	*e = Explorer{}
}

// Step advances the walk by one move attempt
func (e *Explorer) Step(w *engine.World) StepResult {
	if e.world != w {
		e.start(w)
	}
	if e.done {
		return StepResult{Action: ActionFinished, Status: e.status()}
	}
	if w.IsComplete() {
		e.finish()
		return StepResult{Action: ActionFinished, Status: e.status()}
	}

	top := &e.stack[len(e.stack)-1]
	for top.nextDir < len(engine.Directions) {
		dir := engine.Directions[top.nextDir]
		top.nextDir++

		dx, dy, _ := dir.Delta()
		target := top.cell.Translate(float64(dx)*geom.CellSize, float64(dy)*geom.CellSize)
		if e.visited.Has(target) || e.blocked.Has(target) {
			continue
		}

		result := w.TryMove(dir)
		if result.Outcome == engine.Blocked {
			e.blocked.Put(target)
		} else {
			e.visited.Put(target)
			e.stack = append(e.stack, frame{cell: target, via: dir})
			e.expansions++
		}
		e.settle()
		return StepResult{Action: ActionMove, Move: &result, Status: e.status()}
	}

	// Every neighbour of the current cell has been tried
	popped := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if len(e.stack) == 0 {
		e.finish()
		return StepResult{Action: ActionFinished, Status: e.status()}
	}

	result := w.TryMove(popped.via.Opposite())
	e.backtracks++
	e.settle()
	return StepResult{Action: ActionBacktrack, Move: &result, Status: e.status()}
}

// settle stops the walk as soon as the world reports full coverage
func (e *Explorer) settle() {
	if e.world.IsComplete() {
		e.finish()
	}
}

func (e *Explorer) finish() {
	e.done = true
	if !e.world.IsComplete() {
		e.err = ErrExplorationExhausted
	}
}

func (e *Explorer) status() engine.Status {
	if e.err != nil {
		return engine.StatusExhausted
	}
	return e.world.Status()
}

// Done reports whether the walk has stopped
func (e *Explorer) Done() bool {
	return e.done
}

// Err returns ErrExplorationExhausted once the walk stopped short of full coverage
func (e *Explorer) Err() error {
	return e.err
}

// Expansions returns the number of cells pushed onto the trail
func (e *Explorer) Expansions() int {
	return e.expansions
}

// Backtracks returns the number of steps taken back along the trail
func (e *Explorer) Backtracks() int {
	return e.backtracks
}

// Depth returns the current length of the trail
func (e *Explorer) Depth() int {
	return len(e.stack)
}
