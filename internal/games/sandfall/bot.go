package sandfall

import (
	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/sand"
)

// stepBot drives autoplay. Actions are throttled to the logic tick rate and
// the bot waits for frozen grains to fully settle between placements, so its
// play stays legible and it never outruns the physics.
func (g *Game) stepBot(rate float64) {
	if g.botSettling {
		if len(g.state.FrozenGrains) == 0 && g.state.CrumbleDelayTicks == 0 && !g.state.LineClearInProgress {
			g.botSettling = false
			g.botLastTick = g.tick
		}
		return
	}
	if g.state.GameOver || g.state.LineClearInProgress || g.state.Piece == nil {
		return
	}

	delay := uint64(2 * float64(g.tickRate) / rate)
	if delay < 1 {
		delay = 1
	}
	if g.tick-g.botLastTick < delay {
		return
	}

	if len(g.botMoves) == 0 {
		g.botMoves = findBestMove(g.state)
	}
	if len(g.botMoves) == 0 {
		return
	}

	a := g.botMoves[0]
	g.botMoves = g.botMoves[1:]
	g.applyAction(a)
	g.botLastTick = g.tick
	if a == core.ActionHardDrop {
		g.botSettling = true
	}
}

// findBestMove searches every rotation and column for the current piece and
// returns the action sequence (rotations, shifts, hard drop) reaching the
// best placement. Greedy one-piece lookahead: prefer deep landings that touch
// same-colored sand.
func findBestMove(s *sand.GameState) []core.Action {
	if s.Piece == nil {
		return nil
	}
	piece := *s.Piece
	gw, _ := s.Playfield.GrainDims()

	bestScore := -1 << 30
	bestRot := uint8(0)
	bestGX := piece.GX

	for rot := uint8(0); rot < 4; rot++ {
		for gx := 0; gx < gw; gx += sand.GrainScale {
			cand := piece
			cand.Rotation = (piece.Rotation + rot) % 4
			cand.GX = gx
			if !s.Playfield.CanPlace(cand) {
				continue
			}
			landed, ok := dropPosition(s.Playfield, cand)
			if !ok {
				continue
			}
			if score := evaluatePlacement(s, landed); score > bestScore {
				bestScore = score
				bestRot = rot
				bestGX = gx
			}
		}
	}

	var moves []core.Action
	for i := uint8(0); i < bestRot; i++ {
		moves = append(moves, core.ActionRotateCW)
	}
	for dx := bestGX - piece.GX; dx != 0; {
		if dx < 0 {
			moves = append(moves, core.ActionMoveLeft)
			dx += sand.GrainScale
		} else {
			moves = append(moves, core.ActionMoveRight)
			dx -= sand.GrainScale
		}
	}
	moves = append(moves, core.ActionHardDrop)
	return moves
}

// dropPosition returns the piece translated to its hard-drop landing row.
func dropPosition(f *sand.Playfield, p sand.Piece) (sand.Piece, bool) {
	if !f.CanPlace(p) {
		return p, false
	}
	for {
		next := p
		next.GY++
		if !f.CanPlace(next) {
			return p, true
		}
		p = next
	}
}

// evaluatePlacement scores a landed piece: deeper landings win, and touching
// settled sand of the same color is rewarded since merged regions are what
// eventually span and clear.
func evaluatePlacement(s *sand.GameState, p sand.Piece) int {
	color := p.Kind.ColorIndex(s.HighColor)
	score := 0
	for _, o := range p.CellGrainOrigins() {
		score += o.Y * 4

		// Same-colored sand directly below or beside the sub-block.
		for i := 0; i < sand.GrainScale; i++ {
			if c, ok := s.Playfield.At(o.X+i, o.Y+sand.GrainScale); ok && c.Sand && c.Color == color {
				score += 3
			}
			if c, ok := s.Playfield.At(o.X-1, o.Y+i); ok && c.Sand && c.Color == color {
				score += 2
			}
			if c, ok := s.Playfield.At(o.X+sand.GrainScale, o.Y+i); ok && c.Sand && c.Color == color {
				score += 2
			}
		}
	}
	return score
}
