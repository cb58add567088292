// Package sandfall implements the falling-sand block puzzle: pieces fall on a
// coarse block grid, lock into sand grains on a fine grid, and same-colored
// sand clears when it spans the playfield edge to edge.
package sandfall

import (
	"time"

	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/registry"
	"github.com/sandfall/sandfall/internal/sand"
)

// Mode represents the game mode.
type Mode string

const (
	// ModeEndless plays until the sand overflows the spawn zone.
	ModeEndless Mode = "endless"
	// ModeTimed maximizes score inside a fixed time limit.
	ModeTimed Mode = "timed"
	// ModeClear40 races to a line target, then keeps going until fail.
	ModeClear40 Mode = "clear40"
)

// Held-key auto-shift: delay before a held movement key starts repeating, and
// the interval between repeats once it does.
const (
	repeatDelayMs    = 80
	repeatIntervalMs = 38
)

var (
	repeatDelay    = repeatDelayMs
	repeatInterval = repeatIntervalMs
)

// SetRepeatTiming overrides the held-key auto-shift timing in milliseconds.
// Non-positive values keep the defaults.
func SetRepeatTiming(delayMs, intervalMs int) {
	if delayMs > 0 {
		repeatDelay = delayMs
	}
	if intervalMs > 0 {
		repeatInterval = intervalMs
	}
}

// clearAnimFrames is how long the line-clear flash lasts at 60 FPS.
const clearAnimFrames = 30

// Minimum board size in block-cells below which the game refuses to play.
const (
	minBoardWidth  = 4
	minBoardHeight = 6
)

// Package-level variables for config/difficulty (like the other games).
var (
	difficultyPreset string
	boardWidth       = 10
	boardHeight      = 24
	timeLimitSecs    = 180
	clearTarget      = 40
	spawnDelayMs     int
	initialLevel     = 1
	highColor        bool
	relaxedSpeed     bool
	noAnimation      bool
	autoplayEnabled  bool
)

// SetDifficultyPreset selects the difficulty preset (easy, medium, hard).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetBoardSize sets the playfield dimensions in block-cells. The game still
// shrinks the board to fit the terminal.
func SetBoardSize(width, height int) {
	if width > 0 {
		boardWidth = width
	}
	if height > 0 {
		boardHeight = height
	}
}

// SetTimeLimit sets the timed-mode limit in seconds.
func SetTimeLimit(secs int) {
	if secs > 0 {
		timeLimitSecs = secs
	}
}

// SetClearTarget sets the clear-mode line goal.
func SetClearTarget(lines int) {
	if lines > 0 {
		clearTarget = lines
	}
}

// SetSpawnDelay keeps a freshly spawned piece inert for the given number of
// milliseconds. Zero disables the gate.
func SetSpawnDelay(ms int) {
	spawnDelayMs = ms
}

// SetInitialLevel sets the starting level, which raises the starting speed.
func SetInitialLevel(level int) {
	if level > 0 {
		initialLevel = level
	}
}

// SetHighColor switches from four sand colors to six.
func SetHighColor(on bool) {
	highColor = on
}

// SetRelaxed pins gravity to the base difficulty rate regardless of level.
func SetRelaxed(on bool) {
	relaxedSpeed = on
}

// SetNoAnimation clears spanning sand instantly instead of flashing it.
func SetNoAnimation(on bool) {
	noAnimation = on
}

// SetAutoplay hands the controls to the built-in bot.
func SetAutoplay(on bool) {
	autoplayEnabled = on
}

// repeatState tracks one held movement key for auto-shift.
type repeatState struct {
	start    uint64 // frame the hold began
	lastSeen uint64 // frame the action last arrived
	lastFire uint64 // frame the action last applied
}

// Game implements the sandfall puzzle behind the registry interface.
type Game struct {
	mode Mode

	state *sand.GameState
	seed  uint32

	// Effective board size after clamping to the terminal.
	boardW, boardH int

	screenW  int
	screenH  int
	tooSmall bool

	tickRate int
	frameDur time.Duration
	tick     uint64
	clock    time.Time // logical time, advanced one frame per Step
	logicAcc float64   // fractional logic ticks carried between frames

	paused   bool
	timeUp   bool
	targetAt int // clear mode: seconds to reach the target, -1 until then

	clearAnimTicks int

	held     map[core.Action]*repeatState
	dasTicks uint64
	arrTicks uint64

	// Autoplay state.
	autoplay    bool
	botMoves    []core.Action
	botSettling bool
	botLastTick uint64
}

// New creates a new endless mode game.
func New() *Game {
	return &Game{mode: ModeEndless}
}

// NewTimed creates a new timed mode game.
func NewTimed() *Game {
	return &Game{mode: ModeTimed}
}

// NewClear40 creates a new clear mode game.
func NewClear40() *Game {
	return &Game{mode: ModeClear40}
}

func init() {
	registry.Register("sandfall", func() registry.Game {
		return New()
	})
	registry.Register("sandfall_timed", func() registry.Game {
		return NewTimed()
	})
	registry.Register("sandfall_clear40", func() registry.Game {
		return NewClear40()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	switch g.mode {
	case ModeTimed:
		return "sandfall_timed"
	case ModeClear40:
		return "sandfall_clear40"
	default:
		return "sandfall"
	}
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeTimed:
		return "Sandfall (Timed)"
	case ModeClear40:
		return "Sandfall (Clear 40)"
	default:
		return "Sandfall"
	}
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.frameDur = time.Second / time.Duration(g.tickRate)
	g.tick = 0
	g.clock = time.Unix(0, 0).UTC()
	g.logicAcc = 0
	g.paused = false
	g.timeUp = false
	g.targetAt = -1
	g.clearAnimTicks = 0
	g.held = make(map[core.Action]*repeatState)
	g.dasTicks = msToFrames(repeatDelay, g.tickRate)
	g.arrTicks = msToFrames(repeatInterval, g.tickRate)
	g.autoplay = autoplayEnabled
	g.botMoves = nil
	g.botSettling = false
	g.botLastTick = 0

	if cfg.Seed != 0 {
		g.seed = uint32(cfg.Seed)
	} else if g.seed == 0 {
		g.seed = 0x12345678
	}

	g.fitBoard()
	if g.tooSmall {
		return
	}

	sc := sand.Config{
		Width:        g.boardW,
		Height:       g.boardH,
		SpawnDelay:   time.Duration(spawnDelayMs) * time.Millisecond,
		InitialLevel: initialLevel,
		HighColor:    highColor,
		Difficulty:   sand.ParseDifficulty(difficultyPreset),
		Seed:         g.seed,
	}
	g.state = sand.NewGameState(sc, g.clock)
}

func msToFrames(ms, tickRate int) uint64 {
	f := uint64(ms * tickRate / 1000)
	if f < 1 {
		f = 1
	}
	return f
}

// fitBoard clamps the configured board to the terminal. Grains render one
// character wide and half a character tall, so a block-cell needs 6 columns
// and 3 rows, plus the border, HUD, and side panel.
func (g *Game) fitBoard() {
	availW := g.screenW - 2 - sidePanelWidth
	availH := g.screenH - hudHeight - 2

	g.boardW = core.Clamp(boardWidth, 0, availW/sand.GrainScale)
	g.boardH = core.Clamp(boardHeight, 0, availH*2/sand.GrainScale)
	g.tooSmall = g.boardW < minBoardWidth || g.boardH < minBoardHeight
}

// Step advances the game by one frame.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++
	g.clock = g.clock.Add(g.frameDur)

	if input.Has(core.ActionRestart) && g.gameEnded() {
		g.seed = g.seed*1664525 + 1013904223
		g.Reset(core.RuntimeConfig{
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
			Seed:     int64(g.seed),
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameEnded() {
		g.paused = !g.paused
	}

	if g.tooSmall || g.paused || g.gameEnded() {
		return core.StepResult{State: g.State()}
	}

	g.state.TickPopups(1000 / g.tickRate)

	rate := g.gravityRate()

	if g.autoplay {
		g.stepBot(rate)
	} else {
		g.applyInput(input)
	}

	// Gravity and sand run at the logic rate, input at the frame rate.
	g.logicAcc += rate / float64(g.tickRate)
	for g.logicAcc >= 1 {
		g.logicAcc--
		g.state.TickGravity(g.clock)
		g.state.TickSand()
	}

	// Locking is checked every frame so a landed piece never hovers.
	g.state.CheckLock(g.clock)

	g.stepClearAnimation()
	g.stepModeRules()

	return core.StepResult{State: g.State()}
}

// gravityRate is the logic tick rate: the difficulty base, scaled up 10% per
// level unless relaxed mode pins it.
func (g *Game) gravityRate() float64 {
	rate := g.state.Difficulty.BaseTickRate()
	if !relaxedSpeed && g.state.Level > 1 {
		rate *= 1.0 + 0.1*float64(g.state.Level-1)
	}
	return rate
}

// applyInput maps this frame's actions onto the engine. Movement and soft
// drop auto-repeat while held; rotation and hard drop fire once per press.
func (g *Game) applyInput(input core.InputFrame) {
	for _, a := range []core.Action{core.ActionMoveLeft, core.ActionMoveRight, core.ActionSoftDrop} {
		if input.Has(a) && g.shouldFire(a) {
			g.applyAction(a)
		}
	}
	for _, a := range []core.Action{core.ActionRotateCW, core.ActionRotateCCW, core.ActionHardDrop} {
		if input.Has(a) {
			g.applyAction(a)
		}
	}

	// A lock ends any hold so the next piece does not inherit stale input.
	if g.state.LineClearInProgress || g.state.Piece == nil {
		for k := range g.held {
			delete(g.held, k)
		}
	}
}

// shouldFire implements delayed auto-shift for one repeatable action.
func (g *Game) shouldFire(a core.Action) bool {
	rs, ok := g.held[a]
	if !ok || g.tick-rs.lastSeen > 2 {
		// Fresh press: fire immediately and start the hold.
		g.held[a] = &repeatState{start: g.tick, lastSeen: g.tick, lastFire: g.tick}
		return true
	}
	rs.lastSeen = g.tick
	if g.tick-rs.start >= g.dasTicks && g.tick-rs.lastFire >= g.arrTicks {
		rs.lastFire = g.tick
		return true
	}
	return false
}

func (g *Game) applyAction(a core.Action) {
	switch a {
	case core.ActionMoveLeft:
		g.state.MoveLeft(g.clock)
		g.state.OnMoveOrRotate(g.clock)
	case core.ActionMoveRight:
		g.state.MoveRight(g.clock)
		g.state.OnMoveOrRotate(g.clock)
	case core.ActionRotateCW:
		g.state.RotateCW(g.clock)
		g.state.OnMoveOrRotate(g.clock)
	case core.ActionRotateCCW:
		g.state.RotateCCW(g.clock)
		g.state.OnMoveOrRotate(g.clock)
	case core.ActionSoftDrop:
		g.state.SoftDrop(g.clock)
	case core.ActionHardDrop:
		g.state.HardDrop(g.clock)
	}
}

// stepClearAnimation finishes a pending clear after the flash, or instantly
// when animation is disabled.
func (g *Game) stepClearAnimation() {
	if !g.state.LineClearInProgress {
		g.clearAnimTicks = 0
		return
	}
	if noAnimation {
		g.state.FinishLineClear()
		return
	}
	g.clearAnimTicks++
	if g.clearAnimTicks >= clearAnimFrames {
		g.clearAnimTicks = 0
		g.state.FinishLineClear()
	}
}

// stepModeRules applies the timed cutoff and the clear-mode target check.
func (g *Game) stepModeRules() {
	switch g.mode {
	case ModeTimed:
		if g.elapsedSecs() >= timeLimitSecs {
			g.timeUp = true
		}
	case ModeClear40:
		if g.targetAt < 0 && g.state.LinesCleared >= clearTarget {
			g.targetAt = g.elapsedSecs()
		}
	}
}

func (g *Game) elapsedSecs() int {
	return int(g.tick) / g.tickRate
}

func (g *Game) gameEnded() bool {
	return (g.state != nil && g.state.GameOver) || g.timeUp
}

// ResultDetails reports the run statistics the platform stores alongside the
// score. In clear mode the duration is the time the target was reached, so
// the scoreboard can rank clear times.
func (g *Game) ResultDetails() (lines, level, durationSecs int, difficulty string) {
	if g.state == nil {
		return 0, 0, 0, ""
	}
	dur := g.elapsedSecs()
	if g.mode == ModeClear40 && g.targetAt >= 0 {
		dur = g.targetAt
	}
	return g.state.LinesCleared, g.state.Level, dur, g.state.Difficulty.String()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := core.GameState{Paused: g.paused}
	if g.state != nil {
		// Clear mode ranks by lines, the others by score.
		if g.mode == ModeClear40 {
			s.Score = g.state.LinesCleared
		} else {
			s.Score = g.state.Score
		}
		s.GameOver = g.state.GameOver || g.timeUp
	}
	return s
}
