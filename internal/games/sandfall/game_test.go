package sandfall

import (
	"strings"
	"testing"

	"github.com/sandfall/sandfall/internal/core"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		Seed:     12345,
		ScreenW:  80,
		ScreenH:  40,
		TickRate: 60,
	}
}

func TestGameIDs(t *testing.T) {
	if id := New().ID(); id != "sandfall" {
		t.Errorf("Endless ID should be 'sandfall', got %s", id)
	}
	if id := NewTimed().ID(); id != "sandfall_timed" {
		t.Errorf("Timed ID should be 'sandfall_timed', got %s", id)
	}
	if id := NewClear40().ID(); id != "sandfall_clear40" {
		t.Errorf("Clear ID should be 'sandfall_clear40', got %s", id)
	}
}

func TestTitles(t *testing.T) {
	if title := New().Title(); title != "Sandfall" {
		t.Errorf("Endless title should be 'Sandfall', got %s", title)
	}
	if title := NewTimed().Title(); title != "Sandfall (Timed)" {
		t.Errorf("Timed title should be 'Sandfall (Timed)', got %s", title)
	}
}

func TestResetClampsBoardToScreen(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	if g.tooSmall {
		t.Fatal("80x40 should be big enough to play")
	}
	if g.state == nil || g.state.Piece == nil {
		t.Fatal("reset should leave a running game with a falling piece")
	}
	// 40 rows minus HUD and border leave 36, at two grain rows per screen
	// row that is 72 grain rows: 12 block-cells.
	if g.boardW != 10 || g.boardH != 12 {
		t.Errorf("effective board = %dx%d, expected 10x12", g.boardW, g.boardH)
	}
}

func TestWindowTooSmall(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 20, ScreenH: 8, TickRate: 60})

	if !g.tooSmall {
		t.Error("Game should detect window is too small")
	}

	// Stepping and rendering a too-small game must be safe.
	input := core.NewInputFrame()
	g.Step(input)
	screen := core.NewScreen(20, 8)
	g.Render(screen)
}

func TestDeterminism(t *testing.T) {
	run := func() *Game {
		g := New()
		g.Reset(testConfig())
		input := core.NewInputFrame()
		for i := 0; i < 600; i++ {
			input.Clear()
			if i%13 == 0 {
				input.Set(core.ActionMoveLeft)
			}
			if i%29 == 0 {
				input.Set(core.ActionRotateCW)
			}
			if i%61 == 0 {
				input.Set(core.ActionHardDrop)
			}
			g.Step(input)
		}
		return g
	}

	g1, g2 := run(), run()
	s1, s2 := g1.State(), g2.State()
	if s1.Score != s2.Score || s1.GameOver != s2.GameOver {
		t.Errorf("State mismatch: %+v vs %+v", s1, s2)
	}
	if g1.state.Playfield.SandCount() != g2.state.Playfield.SandCount() {
		t.Errorf("Sand mismatch: %d vs %d",
			g1.state.Playfield.SandCount(), g2.state.Playfield.SandCount())
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	input := core.NewInputFrame()
	input.Set(core.ActionPause)
	g.Step(input)

	if !g.paused {
		t.Fatal("Pause action should pause the game")
	}
	gy := g.state.Piece.GY
	input.Clear()
	for i := 0; i < 30; i++ {
		g.Step(input)
	}
	if g.state.Piece.GY != gy {
		t.Error("Gravity should not run while paused")
	}

	input.Set(core.ActionPause)
	g.Step(input)
	if g.paused {
		t.Error("Second pause action should resume")
	}
}

func TestHeldKeyAutoShift(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	startGX := g.state.Piece.GX

	// Hold left for three frames: the first fires immediately, the rest sit
	// inside the auto-shift delay.
	input := core.NewInputFrame()
	input.Set(core.ActionMoveLeft)
	for i := 0; i < 3; i++ {
		g.Step(input)
	}
	if got := startGX - g.state.Piece.GX; got != 6 {
		t.Errorf("three held frames should shift one block-cell, moved %d grains", got)
	}

	// Keep holding: once past the delay the shift repeats.
	for i := 0; i < 10; i++ {
		g.Step(input)
	}
	if startGX-g.state.Piece.GX <= 6 {
		t.Error("held key should keep shifting after the auto-shift delay")
	}
}

func TestHardDropScoresAndLocks(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	input := core.NewInputFrame()
	input.Set(core.ActionHardDrop)
	g.Step(input)

	if g.state.Score == 0 {
		t.Error("hard drop from the spawn row should score")
	}
	if len(g.state.FrozenGrains) == 0 {
		t.Error("hard drop should lock the piece into frozen grains")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g := New()
	g.Reset(testConfig())
	g.state.GameOver = true

	input := core.NewInputFrame()
	input.Set(core.ActionRestart)
	g.Step(input)

	if g.state.GameOver {
		t.Error("Restart should start a fresh game")
	}
	if g.state.Piece == nil {
		t.Error("Fresh game should have a falling piece")
	}
}

func TestTimedModeEndsAtLimit(t *testing.T) {
	SetTimeLimit(1)
	defer SetTimeLimit(180)

	g := NewTimed()
	g.Reset(testConfig())

	input := core.NewInputFrame()
	for i := 0; i < 61; i++ {
		g.Step(input)
	}
	if !g.timeUp {
		t.Error("timed game should end at the time limit")
	}
	if !g.State().GameOver {
		t.Error("State should report game over after time up")
	}

	// Input after time up is ignored.
	gy := g.state.Piece.GY
	input.Set(core.ActionSoftDrop)
	g.Step(input)
	if g.state.Piece.GY != gy {
		t.Error("no simulation should run after time up")
	}
}

func TestClearModeRecordsTargetTime(t *testing.T) {
	SetClearTarget(2)
	defer SetClearTarget(40)

	g := NewClear40()
	g.Reset(testConfig())
	g.state.LinesCleared = 2

	g.Step(core.NewInputFrame())

	if g.targetAt < 0 {
		t.Error("reaching the line target should record the time")
	}
	if g.State().GameOver {
		t.Error("clear mode keeps playing after the target")
	}
	if g.State().Score != 2 {
		t.Errorf("clear mode ranks by lines, got score %d", g.State().Score)
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	screen := core.NewScreen(80, 40)
	g.Render(screen)

	content := screen.String()
	if !strings.Contains(content, "Sandfall") {
		t.Error("HUD should contain the game title")
	}
	if !strings.Contains(content, "Next") {
		t.Error("side panel should show the preview queue")
	}
	if !strings.Contains(content, "┌") {
		t.Error("board border should be drawn")
	}
}

func TestRenderShowsFallingPiece(t *testing.T) {
	g := New()
	g.Reset(testConfig())

	screen := core.NewScreen(80, 40)
	g.Render(screen)

	blocks := 0
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			switch screen.Get(x, y) {
			case '█', '▀', '▄', '▓':
				blocks++
			}
		}
	}
	if blocks == 0 {
		t.Error("the falling piece should be visible on the board")
	}
}
