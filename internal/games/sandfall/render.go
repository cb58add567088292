package sandfall

import (
	"fmt"

	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/sand"
)

const (
	hudHeight      = 2
	sidePanelWidth = 14
)

// sandColor maps an engine color index (0..5) to a screen color. The indices
// follow the piece palette: green, yellow, red, blue, magenta, cyan.
func sandColor(idx uint8) core.Color {
	if idx > 5 {
		return core.ColorWhite
	}
	return core.ColorGreen + core.Color(idx)
}

// Render draws the game. Grains are one character wide and half a character
// tall: each screen row covers two grain rows via half-block runes.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	gw, gh := g.state.Playfield.GrainDims()
	boardX := (dst.Width() - sidePanelWidth - gw) / 2
	if boardX < 1 {
		boardX = 1
	}
	boardY := hudHeight + 1
	rows := (gh + 1) / 2

	dst.DrawBox(boardX-1, boardY-1, gw+2, rows+2, core.ColorGray)

	for ry := 0; ry < rows; ry++ {
		for x := 0; x < gw; x++ {
			top, topOK := g.grainAt(x, 2*ry)
			bot, botOK := g.grainAt(x, 2*ry+1)
			px, py := boardX+x, boardY+ry
			switch {
			case topOK && botOK:
				r := '█'
				if top.shadow && bot.shadow {
					r = '▓'
				}
				dst.SetCell(px, py, r, top.color)
			case topOK:
				dst.SetCell(px, py, '▀', top.color)
			case botOK:
				dst.SetCell(px, py, '▄', bot.color)
			}
		}
	}

	g.renderPopups(dst, boardX, boardY)
	g.renderSidePanel(dst, boardX+gw+2, boardY)

	switch {
	case g.state.GameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.timeUp:
		g.renderOverlay(dst, "Time's up!", fmt.Sprintf("Final score: %d", g.state.Score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

type grainView struct {
	color  core.Color
	shadow bool
}

// grainAt reports what occupies one grain: flashing clear cells, settled
// sand, frozen grains, or the falling piece.
func (g *Game) grainAt(x, y int) (grainView, bool) {
	if g.state.LineClearInProgress && g.clearAnimTicks%8 < 4 {
		for _, c := range g.state.LineClearCells {
			if c.X == x && c.Y == y {
				return grainView{color: core.ColorBrightWhite}, true
			}
		}
	}
	if c, _ := g.state.Playfield.At(x, y); c.Sand {
		return grainView{color: sandColor(c.Color), shadow: c.Shadow}, true
	}
	for _, fg := range g.state.FrozenGrains {
		if fg.X == x && fg.Y == y {
			return grainView{color: sandColor(fg.Color), shadow: fg.Shadow}, true
		}
	}
	if p := g.state.Piece; p != nil {
		color := sandColor(p.Kind.ColorIndex(g.state.HighColor))
		for _, o := range p.CellGrainOrigins() {
			if x >= o.X && x < o.X+sand.GrainScale && y >= o.Y && y < o.Y+sand.GrainScale {
				return grainView{color: color}, true
			}
		}
	}
	return grainView{}, false
}

func (g *Game) renderHUD(dst *core.Screen) {
	var hud string
	switch g.mode {
	case ModeTimed:
		left := timeLimitSecs - g.elapsedSecs()
		if left < 0 {
			left = 0
		}
		hud = fmt.Sprintf(" %s | Score: %d  Time: %d:%02d", g.Title(), g.scoreOrZero(), left/60, left%60)
	case ModeClear40:
		hud = fmt.Sprintf(" %s | Lines: %d/%d", g.Title(), g.linesOrZero(), clearTarget)
		if g.targetAt >= 0 {
			hud += fmt.Sprintf("  Done in %d:%02d", g.targetAt/60, g.targetAt%60)
		}
	default:
		hud = fmt.Sprintf(" %s | Score: %d", g.Title(), g.scoreOrZero())
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func (g *Game) scoreOrZero() int {
	if g.state == nil {
		return 0
	}
	return g.state.Score
}

func (g *Game) linesOrZero() int {
	if g.state == nil {
		return 0
	}
	return g.state.LinesCleared
}

// renderSidePanel draws the upcoming pieces and the stat readout.
func (g *Game) renderSidePanel(dst *core.Screen, x, y int) {
	dst.DrawText(x, y, "Next")
	previews := g.state.Difficulty.PreviewCount()
	row := y + 1
	for i := 0; i < previews && i < len(g.state.NextPieces); i++ {
		kind := g.state.NextPieces[i]
		color := sandColor(kind.ColorIndex(g.state.HighColor))
		g.renderKindPreview(dst, x+1, row, kind, color)
		row += 3
	}

	row++
	dst.DrawText(x, row, fmt.Sprintf("Score %d", g.state.Score))
	dst.DrawText(x, row+1, fmt.Sprintf("Level %d", g.state.Level))
	dst.DrawText(x, row+2, fmt.Sprintf("Lines %d", g.state.LinesCleared))
	if g.state.ComboMultiplier > 1 {
		dst.DrawTextColored(x, row+3, fmt.Sprintf("Combo x%d", g.state.ComboMultiplier), core.ColorBrightYellow)
	}
	if g.autoplay {
		dst.DrawTextColored(x, row+5, "AUTO", core.ColorCyan)
	}
}

// renderKindPreview draws one upcoming kind scaled to two characters per
// block-cell.
func (g *Game) renderKindPreview(dst *core.Screen, x, y int, kind sand.Kind, color core.Color) {
	for _, c := range kind.Cells() {
		dst.SetCell(x+c.DX*2, y+c.DY, '█', color)
		dst.SetCell(x+c.DX*2+1, y+c.DY, '█', color)
	}
}

func (g *Game) renderPopups(dst *core.Screen, boardX, boardY int) {
	for _, p := range g.state.Popups {
		text := fmt.Sprintf("+%d", p.Amount)
		if p.Multiplier > 1 {
			text = fmt.Sprintf("+%d x%d", p.Amount, p.Multiplier)
		}
		dst.DrawTextColored(boardX+p.X, boardY+p.Y/2, text, sandColor(p.Color))
	}
}

// renderOverlay draws a centered boxed message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	maxLen := len(line1)
	if len(line2) > maxLen {
		maxLen = len(line2)
	}
	boxW := maxLen + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	for y := boxY + 1; y < boxY+boxH-1; y++ {
		for x := boxX + 1; x < boxX+boxW-1; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorWhite)
	dst.DrawTextCentered(boxY+1, line1)
	dst.DrawTextCentered(boxY+3, line2)
}
