package blockfall

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

const (
	cellWidth  = 2  // Terminal columns per field cell
	hudHeight  = 1  // Lines above the well
	panelWidth = 20 // Statistics panel width, including its border
	panelGap   = 2
)

// layout holds screen positions computed for one frame.
type layout struct {
	well  core.Rect
	panel core.Rect
	// showPanel is false when the terminal is too narrow for the stats panel.
	showPanel bool
}

// requiredSize returns the smallest screen that fits the HUD and the well.
func (g *Game) requiredSize() (int, int) {
	rows, cols := g.cfg.Field.Rows, g.cfg.Field.Cols
	if g.engine != nil {
		c := g.engine.Config()
		rows, cols = c.Rows, c.Cols
	}
	return cols*cellWidth + 2, rows + 2 + hudHeight
}

func (g *Game) computeLayout() layout {
	c := g.engine.Config()
	wellW := c.Cols*cellWidth + 2
	wellH := c.Rows + 2

	var l layout
	l.showPanel = g.screenW >= wellW+panelGap+panelWidth
	totalW := wellW
	if l.showPanel {
		totalW += panelGap + panelWidth
	}
	x := max(0, (g.screenW-totalW)/2)
	l.well = core.NewRect(x, hudHeight, wellW, wellH)
	l.panel = core.NewRect(l.well.Right()+panelGap, hudHeight, panelWidth, min(wellH, 14))
	return l
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.computeLayout()
	g.renderHUD(dst)
	g.renderWell(dst, l.well)
	if l.showPanel {
		g.renderStats(dst, l.panel)
	}

	// Draw overlays
	switch {
	case g.engine.Status() == StatusOver:
		g.renderOverlay(dst, l.well, "GAME OVER", fmt.Sprintf("Score: %d", g.engine.Score()), "R to restart")
	case g.paused:
		g.renderOverlay(dst, l.well, "PAUSED", "P to continue", "")
	case g.flashFrames > 0 && g.lastCleared > 0:
		msg := "1 LINE"
		if g.lastCleared > 1 {
			msg = fmt.Sprintf("%d LINES", g.lastCleared)
		}
		x := l.well.X + (l.well.W-len(msg))/2
		dst.DrawTextColored(x, l.well.Y, msg, core.ColorYellow)
	}
}

// renderTooSmall shows a "window too small" message, shortened to fit.
func (g *Game) renderTooSmall(dst *core.Screen) {
	reqW, reqH := g.requiredSize()
	w := dst.Width()
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, fitText(w, "Window too small", "Too small", "Small"))
	dst.DrawTextCentered(y, fitText(w,
		fmt.Sprintf("Need %dx%d, have %dx%d", reqW, reqH, g.screenW, g.screenH),
		fmt.Sprintf("Need %dx%d", reqW, reqH),
		fmt.Sprintf("%dx%d", reqW, reqH),
	))
	dst.DrawTextCentered(y+1, fitText(w, "Please resize terminal", "Resize"))
}

// fitText returns the first candidate no wider than width. When none fits,
// the last one is cut to width.
func fitText(width int, candidates ...string) string {
	for _, c := range candidates {
		if len([]rune(c)) <= width {
			return c
		}
	}
	last := []rune(candidates[len(candidates)-1])
	return string(last[:max(0, width)])
}

// renderHUD draws the top status line.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" %s — Score: %d  Lines: %d  Best: %d",
		g.Title(), g.engine.Score(), g.engine.Lines(), g.best)
	dst.DrawText(0, 0, hud)
}

// renderWell draws the border, locked cells and the falling piece.
func (g *Game) renderWell(dst *core.Screen, well core.Rect) {
	dst.DrawBox(well)

	field := g.engine.field
	for r := range field.Rows() {
		for c := range field.Cols() {
			x := well.X + 1 + c*cellWidth
			y := well.Y + 1 + r
			if color := field.At(r, c); color != Empty {
				drawBlock(dst, x, y, color)
			} else {
				dst.SetColored(x+1, y, '·', core.ColorGray)
			}
		}
	}

	piece, ok := g.engine.ActivePiece()
	if !ok {
		return
	}
	for _, cell := range piece.Cells() {
		if cell.Row < 0 || cell.Row >= field.Rows() {
			continue
		}
		drawBlock(dst, well.X+1+cell.Col*cellWidth, well.Y+1+cell.Row, piece.Color)
	}
}

func drawBlock(dst *core.Screen, x, y int, color core.Color) {
	for i := range cellWidth {
		dst.SetColored(x+i, y, '█', color)
	}
}

// renderStats draws the statistics panel beside the well.
func (g *Game) renderStats(dst *core.Screen, panel core.Rect) {
	dst.DrawBox(panel)
	x := panel.X + 2
	y := panel.Y + 1

	lines := []string{
		fmt.Sprintf("Score  %d", g.engine.Score()),
		fmt.Sprintf("Lines  %d", g.engine.Lines()),
		fmt.Sprintf("Pieces %d", g.engine.Pieces()),
		fmt.Sprintf("Best   %d", g.best),
		"",
	}
	for _, s := range g.engine.Config().Shapes {
		lines = append(lines, fmt.Sprintf("%-6s %d", s.Kind(), g.engine.SpawnCount(s.Kind())))
	}
	for i, line := range lines {
		if y+i >= panel.Bottom()-1 {
			break
		}
		dst.DrawText(x, y+i, line)
	}

	if g.cfgErr != nil && panel.Bottom() < dst.Height() {
		dst.DrawTextColored(panel.X, panel.Bottom(), "config invalid, defaults", core.ColorRed)
	}
}

// renderOverlay draws a bordered message box centered over the well.
func (g *Game) renderOverlay(dst *core.Screen, well core.Rect, title, line1, line2 string) {
	width := max(len(title), len([]rune(line1)), len(line2)) + 4
	width = min(width, well.W)
	height := 5
	if line2 != "" {
		height = 6
	}
	cx, cy := well.Center()
	box := core.NewRect(cx-width/2, cy-height/2, width, height)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	drawCentered(dst, box, box.Y+1, title, core.ColorYellow)
	drawCentered(dst, box, box.Y+3, line1, core.ColorDefault)
	if line2 != "" {
		drawCentered(dst, box, box.Y+4, line2, core.ColorGray)
	}
}

func drawCentered(dst *core.Screen, box core.Rect, y int, text string, color core.Color) {
	x := box.X + (box.W-len([]rune(text)))/2
	dst.DrawTextColored(x, y, text, color)
}
