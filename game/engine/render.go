package engine

import "github.com/wricardo/robot-cleaner/game/geom"

// Characters used by RenderGrid
const (
	GlyphWall     = '#'
	GlyphObstacle = 'O'
	GlyphFree     = '.'
	GlyphCleaned  = '*'
	GlyphRobot    = 'R'
	GlyphCharger  = 'C'
)

// RenderGrid draws a snapshot as one string per grid row. The robot is drawn
// over the charging point, which is drawn over cleaned cells.
func RenderGrid(s *Snapshot) []string {
	if s == nil {
		return nil
	}

	cleaned := make(map[geom.Rect]bool, len(s.Cleaned))
	for _, c := range s.Cleaned {
		cleaned[c.Rect] = true
	}

	rows := make([]string, 0, s.Grid.Height)
	for y := 0; y < s.Grid.Height; y++ {
		row := make([]byte, s.Grid.Width)
		for x := 0; x < s.Grid.Width; x++ {
			row[x] = cellGlyph(s, cleaned, x, y)
		}
		rows = append(rows, string(row))
	}
	return rows
}

func cellGlyph(s *Snapshot, cleaned map[geom.Rect]bool, x, y int) byte {
	cell := geom.CellRect(x, y)
	switch {
	case cell == s.Robot.Rect:
		return GlyphRobot
	case cell == s.ChargingPoint.Rect:
		return GlyphCharger
	case cleaned[cell]:
		return GlyphCleaned
	}

	if x == 0 || y == 0 || x == s.Grid.Width-1 || y == s.Grid.Height-1 {
		return GlyphWall
	}
	if containsAny(cell.Center(), s.Obstacles) {
		return GlyphObstacle
	}
	return GlyphFree
}
