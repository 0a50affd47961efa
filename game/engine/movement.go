package engine

import "github.com/wricardo/robot-cleaner/game/geom"

// TryMove attempts to move the robot one cell in dir. A blocked move leaves
// the robot, the cleaned set, the path and the move count untouched. An
// accepted move relocates the robot, appends the new centre to the path and
// records the vacated cell if it has not been cleaned before. Unknown
// directions are reported as Blocked.
func (w *World) TryMove(dir Direction) MoveResult {
	from := w.robot.Rect
	result := MoveResult{Direction: dir, From: from, To: from, Outcome: Blocked}

	dx, dy, ok := dir.Delta()
	if !ok {
		return result
	}

	candidate := from.Translate(float64(dx)*geom.CellSize, float64(dy)*geom.CellSize)
	if w.Blocks(candidate) {
		w.blockedCount++
		return result
	}

	w.robot.Rect = candidate
	w.moveCount++
	w.path = append(w.path, candidate.Center())

	result.To = candidate
	result.Vacated = from
	result.Outcome = w.recordCleaned(from)
	return result
}

// CanMove reports whether a move in dir would be accepted
func (w *World) CanMove(dir Direction) bool {
	dx, dy, ok := dir.Delta()
	if !ok {
		return false
	}
	return !w.Blocks(w.robot.Rect.Translate(float64(dx)*geom.CellSize, float64(dy)*geom.CellSize))
}

// PossibleMoves returns every direction the robot can currently move in
func (w *World) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if w.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

func (w *World) recordCleaned(rect geom.Rect) Outcome {
	if w.cleanedIndex.Has(rect) {
		return NotVisited
	}
	w.cleanedIndex.Put(rect)
	w.cleaned = append(w.cleaned, Object{Rect: rect, Color: CoverageColor})
	return Visited
}
