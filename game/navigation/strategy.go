package navigation

import (
	"errors"
	"fmt"

	"github.com/wricardo/robot-cleaner/game/engine"
)

var (
	// ErrExplorationExhausted is reported when the explorer ran out of
	// reachable cells before every free cell was cleaned
	ErrExplorationExhausted = errors.New("exploration exhausted before full coverage")
	ErrUnknownMode          = errors.New("unknown navigation mode")
)

// Action describes what a single Step did
type Action string

const (
	ActionMove      Action = "move"      // a command or probe was attempted
	ActionBacktrack Action = "backtrack" // the explorer stepped back along its trail
	ActionIdle      Action = "idle"      // nothing to do this tick
	ActionFinished  Action = "finished"  // the strategy has stopped
)

// StepResult is the outcome of one tick
type StepResult struct {
	Action Action             `json:"action"`
	Move   *engine.MoveResult `json:"move,omitempty"`
	Status engine.Status      `json:"status"`
}

// Moved reports whether the robot changed cells during the step
func (r StepResult) Moved() bool {
	return r.Move != nil && r.Move.Outcome.Accepted()
}

// Strategy produces at most one move attempt per Step
type Strategy interface {
	Mode() engine.Mode
	Step(w *engine.World) StepResult
	Done() bool
	Err() error
}

// New returns the strategy for mode
func New(mode engine.Mode) (Strategy, error) {
	switch mode {
	case engine.ModeManual, "":
		return NewManual(), nil
	case engine.ModeExploration:
		return NewExplorer(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Run steps s until it is done, goes idle or maxSteps ticks have passed.
// It returns the result of every tick taken and the strategy's terminal error.
func Run(s Strategy, w *engine.World, maxSteps int) ([]StepResult, error) {
	var results []StepResult
	for len(results) < maxSteps && !s.Done() {
		r := s.Step(w)
		if r.Action == ActionIdle {
			break
		}
		results = append(results, r)
	}
	return results, s.Err()
}

// Status returns the run status of w as driven by s. Exhausted explorers
// override the world's own Running status.
func Status(s Strategy, w *engine.World) engine.Status {
	if s != nil && errors.Is(s.Err(), ErrExplorationExhausted) {
		return engine.StatusExhausted
	}
	return w.Status()
}
