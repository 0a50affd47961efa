package navigation

import "github.com/wricardo/robot-cleaner/game/engine"

// Manual performs commands supplied from outside, one per tick
type Manual struct {
	pending *engine.Direction
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Mode() engine.Mode {
	return engine.ModeManual
}

// Input queues dir for the next tick, replacing any command not yet consumed
func (m *Manual) Input(dir engine.Direction) {
	m.pending = &dir
}

// Pending reports the queued command, if any
func (m *Manual) Pending() (engine.Direction, bool) {
	if m.pending == nil {
		return "", false
	}
	return *m.pending, true
}

// Step performs the queued command or reports idle
func (m *Manual) Step(w *engine.World) StepResult {
	if m.pending == nil {
		return StepResult{Action: ActionIdle, Status: w.Status()}
	}

	dir := *m.pending
	m.pending = nil
	result := w.TryMove(dir)
	return StepResult{Action: ActionMove, Move: &result, Status: w.Status()}
}

// Done is always false; a manual run ends when its owner stops it
func (m *Manual) Done() bool {
	return false
}

func (m *Manual) Err() error {
	return nil
}
