package sand

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestGame(width, height int) *GameState {
	cfg := DefaultGameConfig()
	cfg.Width = width
	cfg.Height = height
	return NewGameState(cfg, t0)
}

// grainTotal counts settled sand plus not-yet-drained frozen grains.
func grainTotal(s *GameState) int {
	return s.Playfield.SandCount() + len(s.FrozenGrains)
}

func TestRejectedMoveLeavesPieceUnchanged(t *testing.T) {
	s := newTestGame(4, 4)
	// Walk the piece to the left wall.
	for i := 0; i < 10; i++ {
		s.MoveLeft(t0)
	}
	before := *s.Piece
	s.MoveLeft(t0)
	if *s.Piece != before {
		t.Errorf("rejected move changed the piece: %+v -> %+v", before, *s.Piece)
	}
}

func TestAcceptedMoveChangesOneCoordinate(t *testing.T) {
	s := newTestGame(6, 6)
	p := spawnPiece(6, KindO)
	s.Piece = &p
	before := *s.Piece

	s.MoveRight(t0)
	if s.Piece.GX != before.GX+GrainScale || s.Piece.GY != before.GY || s.Piece.Rotation != before.Rotation {
		t.Errorf("MoveRight: expected only GX+%d, got %+v -> %+v", GrainScale, before, *s.Piece)
	}

	before = *s.Piece
	s.TickGravity(t0)
	if s.Piece.GY != before.GY+1 || s.Piece.GX != before.GX {
		t.Errorf("TickGravity: expected only GY+1, got %+v -> %+v", before, *s.Piece)
	}
}

func TestRotationRevertsOnCollision(t *testing.T) {
	s := newTestGame(6, 6)
	// A horizontal I flush with the floor cannot go vertical: the rotated
	// layout would reach below the bottom row.
	p := Piece{Kind: KindI, GX: 0, GY: 30}
	s.Piece = &p

	s.RotateCW(t0)
	if s.Piece.Rotation != 0 {
		t.Errorf("colliding rotation should revert, rotation = %d", s.Piece.Rotation)
	}
	if !s.Playfield.CanPlace(*s.Piece) {
		t.Error("piece ended in an invalid position")
	}

	// Lifted clear of the floor the same rotation succeeds.
	s.Piece.GY = 12
	s.RotateCW(t0)
	if s.Piece.Rotation != 1 {
		t.Errorf("unobstructed rotation should apply, rotation = %d", s.Piece.Rotation)
	}
}

func TestSoftDropScoresPerRow(t *testing.T) {
	s := newTestGame(6, 6)
	start := s.Score
	s.SoftDrop(t0)
	s.SoftDrop(t0)
	if s.Score != start+2 {
		t.Errorf("two soft drops should score +2, got +%d", s.Score-start)
	}
}

func TestHardDropScoresPerBlockCell(t *testing.T) {
	s := newTestGame(4, 4)
	p := spawnPiece(4, KindO)
	s.Piece = &p
	s.HardDrop(t0)
	// O on an empty 4x4 board falls from grain row 0 to 12: two block-cells
	// of travel, +2 each.
	if s.Score != 4 {
		t.Errorf("hard drop score = %d, expected 4", s.Score)
	}
}

func TestLockProducesFullGrainComplement(t *testing.T) {
	// Scenario: square piece over an empty 4x4 board, hard drop.
	cfg := DefaultGameConfig()
	cfg.Width = 4
	cfg.Height = 4
	s := NewGameState(cfg, t0)
	// First piece from this seed may not be O; force one.
	p := spawnPiece(4, KindO)
	s.Piece = &p

	s.HardDrop(t0)

	if len(s.FrozenGrains) != 144 {
		t.Fatalf("lock should freeze 4*36 = 144 grains, got %d", len(s.FrozenGrains))
	}
	if s.CrumbleDelayTicks != crumbleDelayTicks {
		t.Errorf("crumble delay = %d, expected %d", s.CrumbleDelayTicks, crumbleDelayTicks)
	}
	if s.Piece == nil {
		t.Fatal("next piece should spawn after lock")
	}

	// Drain to completion.
	for i := 0; i < 100 && (s.CrumbleDelayTicks > 0 || len(s.FrozenGrains) > 0); i++ {
		s.TickSand()
	}
	if len(s.FrozenGrains) != 0 {
		t.Fatalf("frozen grains should drain fully, %d left", len(s.FrozenGrains))
	}
	if got := s.Playfield.SandCount(); got != 144 {
		t.Errorf("playfield should hold all 144 grains, got %d", got)
	}

	// All motion is downward: every grain stays inside the bottom two
	// block-rows the piece landed in.
	gw, gh := s.Playfield.GrainDims()
	for y := 0; y < gh-2*GrainScale; y++ {
		for x := 0; x < gw; x++ {
			if c, _ := s.Playfield.At(x, y); c.Sand {
				t.Fatalf("grain escaped upward to (%d,%d)", x, y)
			}
		}
	}
}

func TestFrozenGrainsDrainBottomUp(t *testing.T) {
	s := newTestGame(4, 4)
	p := spawnPiece(4, KindO)
	s.Piece = &p
	s.HardDrop(t0)

	// Burn the crumble delay.
	for s.CrumbleDelayTicks > 0 {
		s.TickSand()
	}
	// The first drained batch is popped from the end of the ascending-y
	// list: everything left behind must sit above it.
	tail := s.FrozenGrains[len(s.FrozenGrains)-drainPerTick:]
	cut := tail[0].Y
	for _, fg := range tail {
		if fg.Y < cut {
			cut = fg.Y
		}
	}
	s.TickSand()
	for _, fg := range s.FrozenGrains {
		if fg.Y > cut {
			t.Fatalf("grain at y=%d survived a drain that reached up to y=%d", fg.Y, cut)
		}
	}
}

func TestShadowGrainsOnTrailingEdges(t *testing.T) {
	s := newTestGame(4, 4)
	p := spawnPiece(4, KindO)
	s.Piece = &p
	s.HardDrop(t0)

	shadows := 0
	for _, fg := range s.FrozenGrains {
		if fg.Shadow {
			shadows++
		}
	}
	// Per 6x6 sub-block: bottom row (6) plus right column (6) minus the
	// shared corner = 11 shadow grains; 4 sub-blocks.
	if shadows != 4*11 {
		t.Errorf("shadow grains = %d, expected %d", shadows, 4*11)
	}
}

func TestGrainConservation(t *testing.T) {
	s := newTestGame(4, 4)
	p := spawnPiece(4, KindO)
	s.Piece = &p

	if grainTotal(s) != 0 {
		t.Fatal("fresh game should have no grains")
	}
	s.HardDrop(t0)
	if grainTotal(s) != 144 {
		t.Fatalf("lock should add exactly 144 grains, got %d", grainTotal(s))
	}
	for i := 0; i < 50; i++ {
		s.TickSand()
		if got := grainTotal(s); got != 144 {
			t.Fatalf("tick %d: grain total %d, expected invariant 144", i, got)
		}
	}
}

func TestSpawnZoneOverflowEndsGame(t *testing.T) {
	// Scenario: spawn zone pre-filled, lock path runs, game ends with no
	// new piece.
	s := newTestGame(4, 6)
	gw, _ := s.Playfield.GrainDims()
	for y := 0; y < SpawnZoneRows; y++ {
		for x := 0; x < gw; x += 2 {
			s.Playfield.Set(x, y, Cell{Sand: true, Color: 0})
		}
	}
	// Park a square on the floor and let CheckLock take the lock path.
	p := spawnPiece(4, KindO)
	p.GY = (s.Playfield.Height - 2) * GrainScale
	s.Piece = &p
	s.CheckLock(t0)

	if !s.GameOver {
		t.Fatal("sand in the spawn zone at lock should end the game")
	}
	if s.Piece != nil {
		t.Error("no new piece should spawn after a spawn-zone overflow")
	}
}

func TestProcessClearsScoresAndHolds(t *testing.T) {
	// Scenario: one full-width single-color row.
	s := newTestGame(4, 4)
	gw, _ := s.Playfield.GrainDims()
	fillRow(s.Playfield, 20, 0)

	before := s.Score
	s.ProcessClears()

	if !s.LineClearInProgress {
		t.Fatal("a spanning row should hold a pending clear")
	}
	// First clear bumps the multiplier to 2.
	if got := s.Score - before; got != gw*2 {
		t.Errorf("clear score = %d, expected %d (row width x multiplier 2)", got, gw*2)
	}
	if s.LinesCleared != 1 {
		t.Errorf("lines cleared = %d, expected 1", s.LinesCleared)
	}
	if len(s.Popups) != 1 {
		t.Errorf("expected one score popup, got %d", len(s.Popups))
	}

	// Cells are held, not cleared, until the caller finishes the animation.
	if got := s.Playfield.SandCount(); got != gw {
		t.Errorf("cells should still be sand while pending, count %d", got)
	}
	s.FinishLineClear()
	if s.LineClearInProgress {
		t.Error("finish should release the pending flag")
	}
	if got := s.Playfield.SandCount(); got != 0 {
		t.Errorf("finish should empty the held cells, %d left", got)
	}
	if s.Piece == nil {
		t.Error("finish should spawn the next piece")
	}
}

func TestComboSequencing(t *testing.T) {
	s := newTestGame(4, 4)

	fillRow(s.Playfield, 20, 0)
	s.ProcessClears()
	if s.ComboMultiplier != 2 {
		t.Fatalf("first clear: multiplier = %d, expected 2", s.ComboMultiplier)
	}
	s.FinishLineClear()

	// Second clear inside the 90-tick window: 1 -> 2 -> 3.
	fillRow(s.Playfield, 20, 2)
	s.ProcessClears()
	if s.ComboMultiplier != 3 {
		t.Errorf("second clear within window: multiplier = %d, expected 3", s.ComboMultiplier)
	}
	s.FinishLineClear()

	// No clears for more than 90 ticks: multiplier resets.
	for i := 0; i < comboWindowTicks+1; i++ {
		s.TickSand()
	}
	if s.ComboMultiplier != 1 {
		t.Errorf("multiplier should decay to 1, got %d", s.ComboMultiplier)
	}
}

func TestComboCap(t *testing.T) {
	s := newTestGame(4, 4)
	for i := 0; i < 15; i++ {
		fillRow(s.Playfield, 20, 0)
		s.ProcessClears()
		s.FinishLineClear()
	}
	if s.ComboMultiplier != comboCap {
		t.Errorf("multiplier = %d, expected cap %d", s.ComboMultiplier, comboCap)
	}
}

func TestLevelTracksLines(t *testing.T) {
	s := newTestGame(4, 4)
	for i := 0; i < 10; i++ {
		fillRow(s.Playfield, 20, 0)
		s.ProcessClears()
		s.FinishLineClear()
	}
	if s.LinesCleared != 10 {
		t.Fatalf("lines = %d, expected 10", s.LinesCleared)
	}
	if s.Level != 2 {
		t.Errorf("level = %d, expected 2 after 10 lines", s.Level)
	}
}

func TestSpawnDelayGatesInput(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.Width = 6
	cfg.Height = 6
	cfg.SpawnDelay = 200 * time.Millisecond
	s := NewGameState(cfg, t0)

	if !s.IsSpawnDelay(t0) {
		t.Fatal("piece should be gated right after spawn")
	}
	before := *s.Piece
	s.MoveLeft(t0.Add(50 * time.Millisecond))
	s.TickGravity(t0.Add(50 * time.Millisecond))
	if *s.Piece != before {
		t.Error("gated piece should ignore input and gravity")
	}

	later := t0.Add(250 * time.Millisecond)
	if s.IsSpawnDelay(later) {
		t.Fatal("gate should elapse")
	}
	s.MoveLeft(later)
	if s.Piece.GX != before.GX-GrainScale {
		t.Error("input should work once the gate elapses")
	}
}

func TestGameOverIsAbsorbing(t *testing.T) {
	s := newTestGame(4, 4)
	s.GameOver = true
	before := *s.Piece

	now := t0.Add(time.Second)
	s.MoveLeft(now)
	s.MoveRight(now)
	s.RotateCW(now)
	s.SoftDrop(now)
	s.HardDrop(now)
	s.TickGravity(now)

	if *s.Piece != before {
		t.Error("no mutator should act after game over")
	}
}

func TestOnMoveOrRotateCapsResets(t *testing.T) {
	s := newTestGame(4, 4)
	s.lockDelayStarted = t0
	for i := 0; i < 40; i++ {
		s.OnMoveOrRotate(t0.Add(time.Duration(i) * time.Millisecond))
	}
	if s.lockDelayResets != lockDelayResetLimit {
		t.Errorf("resets = %d, expected cap %d", s.lockDelayResets, lockDelayResetLimit)
	}
}

func TestPopupsAgeAndExpire(t *testing.T) {
	s := newTestGame(4, 4)
	s.Popups = append(s.Popups, ScorePopup{X: 5, Y: 10, Amount: 48, Multiplier: 2})

	s.TickPopups(160)
	if len(s.Popups) != 1 {
		t.Fatal("popup should survive 160ms")
	}
	if s.Popups[0].Y != 9 {
		t.Errorf("popup should float up after 150ms, y = %d", s.Popups[0].Y)
	}

	s.TickPopups(popupLifetimeMs)
	if len(s.Popups) != 0 {
		t.Error("popup should expire past its lifetime")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() *GameState {
		cfg := DefaultGameConfig()
		cfg.Width = 6
		cfg.Height = 8
		cfg.Seed = 99
		s := NewGameState(cfg, t0)
		now := t0
		for i := 0; i < 400; i++ {
			now = now.Add(33 * time.Millisecond)
			if i%3 == 0 {
				s.MoveLeft(now)
			}
			if i%7 == 0 {
				s.RotateCW(now)
			}
			if i%11 == 0 {
				s.HardDrop(now)
			}
			s.TickGravity(now)
			s.TickSand()
			s.CheckLock(now)
			if s.LineClearInProgress {
				s.FinishLineClear()
			}
		}
		return s
	}

	a, b := run(), run()
	if a.Score != b.Score || a.LinesCleared != b.LinesCleared || a.GameOver != b.GameOver {
		t.Errorf("equal seeds and inputs diverged: score %d/%d lines %d/%d over %v/%v",
			a.Score, b.Score, a.LinesCleared, b.LinesCleared, a.GameOver, b.GameOver)
	}
	if a.Playfield.SandCount() != b.Playfield.SandCount() {
		t.Errorf("sand diverged: %d vs %d", a.Playfield.SandCount(), b.Playfield.SandCount())
	}
	gw, gh := a.Playfield.GrainDims()
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			ca, _ := a.Playfield.At(x, y)
			cb, _ := b.Playfield.At(x, y)
			if ca != cb {
				t.Fatalf("grid diverged at (%d,%d): %+v vs %+v", x, y, ca, cb)
			}
		}
	}
}
