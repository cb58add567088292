package sand

import (
	"sort"
	"time"
)

// lockDelayResetLimit caps how many move/rotate resets a landed piece may
// accumulate before a delayed-lock policy should stop honoring them.
const lockDelayResetLimit = 15

// crumbleDelayTicks is how many sand ticks a locked piece stays frozen
// before its grains start draining into the playfield.
const crumbleDelayTicks = 5

// drainPerTick is how many frozen grains convert to sand per tick once the
// crumble delay expires: one full block-cell's worth.
const drainPerTick = GrainScale * GrainScale

// comboWindowTicks is how long the combo multiplier survives without a new
// clear (90 ticks, 1.5s at 60Hz).
const comboWindowTicks = 90

// comboCap is the maximum combo multiplier.
const comboCap = 10

// popupLifetimeMs is how long a score popup lives.
const popupLifetimeMs = 1500

// FrozenGrain is a grain produced by a piece lock that has not yet been
// written into the playfield.
type FrozenGrain struct {
	X, Y   int
	Color  uint8
	Shadow bool
}

// ScorePopup is an ephemeral "+N xM" overlay emitted on every clear.
type ScorePopup struct {
	X, Y       int
	Amount     int
	Multiplier int
	AgeMs      int
	Color      uint8
}

// GameState is the aggregate root of one game: playfield, current piece,
// upcoming queue, bag, score/combo state, and the lock/crumble/clear/spawn
// bookkeeping. It is exclusively owned by one caller; a finished game is
// abandoned and a fresh GameState constructed.
type GameState struct {
	Playfield  *Playfield
	Piece      *Piece // nil between lock and respawn
	NextPieces []Kind
	Bag        *Bag

	Score        int
	Level        int
	LinesCleared int
	Clears       int
	GameOver     bool
	HighColor    bool
	Difficulty   Difficulty

	// Cells held for the clear animation; emptied by FinishLineClear.
	LineClearCells      []GrainPos
	LineClearInProgress bool

	FrozenGrains      []FrozenGrain
	CrumbleDelayTicks int

	ComboMultiplier int
	ComboTimerTicks int

	Popups []ScorePopup

	// When the piece first landed; a delayed-lock policy at a higher layer
	// keys off this plus the capped reset count.
	lockDelayStarted time.Time
	lockDelayResets  int

	spawnReadyAt time.Time
	spawnDelay   time.Duration

	settleLeftFirst bool

	// Most recent instant seen by a time-gated mutator; spawn gating for
	// pieces created inside lock/clear processing is measured from here, so
	// the engine never reads a clock of its own.
	lastNow time.Time
}

// NewGameState constructs a fresh game. The first piece is spawned
// immediately; the spawn-delay gate, if configured, runs from now.
func NewGameState(cfg Config, now time.Time) *GameState {
	bag := NewBag(cfg.Seed)
	first := bag.Next()
	next := []Kind{bag.Next(), bag.Next(), bag.Next()}

	s := &GameState{
		Playfield:       NewPlayfield(cfg.Width, cfg.Height),
		NextPieces:      next,
		Bag:             bag,
		Level:           cfg.InitialLevel,
		HighColor:       cfg.HighColor,
		Difficulty:      cfg.Difficulty,
		ComboMultiplier: 1,
		settleLeftFirst: true,
		spawnDelay:      cfg.SpawnDelay,
		lastNow:         now,
	}
	p := spawnPiece(cfg.Width, first)
	s.Piece = &p
	if cfg.SpawnDelay > 0 {
		s.spawnReadyAt = now.Add(cfg.SpawnDelay)
	}
	return s
}

func spawnPiece(width int, kind Kind) Piece {
	gx := width/2 - 1
	if gx < 0 {
		gx = 0
	}
	return Piece{Kind: kind, GX: gx * GrainScale, GY: 0}
}

// IsSpawnDelay reports whether the current piece is still inert: no gravity
// applies and no input is accepted until the gate elapses.
func (s *GameState) IsSpawnDelay(now time.Time) bool {
	return !s.spawnReadyAt.IsZero() && now.Before(s.spawnReadyAt)
}

// TickGravity moves the piece down one grain row. On collision the move is
// reverted and the piece locks immediately; there is no grace period inside
// gravity itself.
func (s *GameState) TickGravity(now time.Time) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress || s.IsSpawnDelay(now) {
		return
	}
	if s.Piece == nil {
		return
	}
	s.Piece.GY++
	if !s.Playfield.CanPlace(*s.Piece) {
		s.Piece.GY--
		s.lockPiece()
	} else {
		s.lockDelayStarted = time.Time{}
		s.lockDelayResets = 0
	}
}

// CheckLock locks the piece the moment it can no longer descend. Call every
// frame; locking here is always instantaneous on landing.
func (s *GameState) CheckLock(now time.Time) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress {
		return
	}
	if s.Piece == nil {
		return
	}
	test := *s.Piece
	test.GY++
	if !s.Playfield.CanPlace(test) {
		s.lockPiece()
	} else {
		s.lockDelayStarted = time.Time{}
		s.lockDelayResets = 0
	}
}

// OnMoveOrRotate records a lock-delay reset for callers implementing a
// delayed-lock policy. Resets are capped so a piece cannot be kept alive
// indefinitely.
func (s *GameState) OnMoveOrRotate(now time.Time) {
	if !s.lockDelayStarted.IsZero() {
		s.lockDelayStarted = now
		if s.lockDelayResets < lockDelayResetLimit {
			s.lockDelayResets++
		}
	}
}

// MoveLeft shifts the piece one block-cell left, reverting on collision.
func (s *GameState) MoveLeft(now time.Time) {
	s.shift(now, -GrainScale)
}

// MoveRight shifts the piece one block-cell right, reverting on collision.
func (s *GameState) MoveRight(now time.Time) {
	s.shift(now, GrainScale)
}

func (s *GameState) shift(now time.Time, dx int) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress || s.IsSpawnDelay(now) || s.Piece == nil {
		return
	}
	s.Piece.GX += dx
	if !s.Playfield.CanPlace(*s.Piece) {
		s.Piece.GX -= dx
	}
}

// RotateCW rotates the piece clockwise, reverting on collision.
func (s *GameState) RotateCW(now time.Time) {
	s.rotate(now, 1)
}

// RotateCCW rotates the piece counter-clockwise, reverting on collision.
func (s *GameState) RotateCCW(now time.Time) {
	s.rotate(now, 3)
}

func (s *GameState) rotate(now time.Time, steps uint8) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress || s.IsSpawnDelay(now) || s.Piece == nil {
		return
	}
	old := s.Piece.Rotation
	s.Piece.Rotation = (s.Piece.Rotation + steps) % 4
	if !s.Playfield.CanPlace(*s.Piece) {
		s.Piece.Rotation = old
	}
}

// SoftDrop drops the piece one grain row for +1 score, locking on contact.
func (s *GameState) SoftDrop(now time.Time) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress || s.IsSpawnDelay(now) || s.Piece == nil {
		return
	}
	s.Piece.GY++
	if !s.Playfield.CanPlace(*s.Piece) {
		s.Piece.GY--
		s.lockPiece()
	} else {
		s.lockDelayStarted = time.Time{}
		s.lockDelayResets = 0
		s.Score++
	}
}

// HardDrop drops the piece to the floor and locks it, awarding +2 per full
// block-cell of travel.
func (s *GameState) HardDrop(now time.Time) {
	s.lastNow = now
	if s.GameOver || s.LineClearInProgress || s.IsSpawnDelay(now) || s.Piece == nil {
		return
	}
	_, gh := s.Playfield.GrainDims()
	start := s.Piece.GY
	gy := start
	for gy < gh {
		test := *s.Piece
		test.GY = gy
		if !s.Playfield.CanPlace(test) {
			gy--
			break
		}
		gy++
	}
	dist := gy - start
	if dist < 0 {
		dist = 0
	}
	s.Score += (dist / GrainScale) * 2
	s.Piece.GY = gy
	s.lockPiece()
}

// lockPiece converts the piece into frozen grains, starts the crumble
// countdown, runs clear detection, and either ends the game (sand in the
// spawn zone) or spawns the next piece.
func (s *GameState) lockPiece() {
	if s.Piece == nil {
		return
	}
	piece := *s.Piece
	s.Piece = nil
	color := piece.Kind.ColorIndex(s.HighColor)
	gw, gh := s.Playfield.GrainDims()

	for _, origin := range piece.CellGrainOrigins() {
		for dy := 0; dy < GrainScale; dy++ {
			for dx := 0; dx < GrainScale; dx++ {
				px := origin.X + dx
				py := origin.Y + dy
				if px < 0 || py < 0 || px >= gw || py >= gh {
					continue
				}
				// The bottom row and right column of each sub-block are
				// shadow grains, giving locked blocks a persistent edge.
				shadow := dy == GrainScale-1 || dx == GrainScale-1
				s.FrozenGrains = append(s.FrozenGrains, FrozenGrain{
					X:      px,
					Y:      py,
					Color:  color,
					Shadow: shadow,
				})
			}
		}
	}

	// Drain pops from the end, so ascending-y order dissolves the piece
	// bottom-up.
	sort.Slice(s.FrozenGrains, func(i, j int) bool {
		return s.FrozenGrains[i].Y < s.FrozenGrains[j].Y
	})
	s.CrumbleDelayTicks = crumbleDelayTicks

	s.ProcessClears()

	if s.Playfield.SpawnZoneBlocked() {
		s.GameOver = true
		return
	}
	if !s.LineClearInProgress {
		s.spawnNext()
	}
}

// TickSand advances the crumble drain, the combo decay, and one grain
// physics step. Call at the logic tick rate.
func (s *GameState) TickSand() {
	if s.LineClearInProgress {
		return
	}

	if s.CrumbleDelayTicks > 0 {
		s.CrumbleDelayTicks--
	} else {
		for i := 0; i < drainPerTick && len(s.FrozenGrains) > 0; i++ {
			fg := s.FrozenGrains[len(s.FrozenGrains)-1]
			s.FrozenGrains = s.FrozenGrains[:len(s.FrozenGrains)-1]
			s.Playfield.Set(fg.X, fg.Y, Cell{Sand: true, Color: fg.Color, Shadow: fg.Shadow})
		}
	}

	if s.ComboTimerTicks > 0 {
		s.ComboTimerTicks--
		if s.ComboTimerTicks == 0 {
			s.ComboMultiplier = 1
		}
	}

	moved := s.Playfield.TickPhysics(s.settleLeftFirst)
	s.settleLeftFirst = !s.settleLeftFirst

	// Grains still draining or in motion can complete a span at any tick.
	if (moved || (s.CrumbleDelayTicks == 0 && len(s.FrozenGrains) > 0)) && !s.LineClearInProgress {
		s.ProcessClears()
	}
}

// ProcessClears runs spanning-clear detection and, when components span,
// applies score/combo updates, holds the affected cells for the clear
// animation, and emits a popup. This is the only place detection runs.
func (s *GameState) ProcessClears() {
	if s.LineClearInProgress {
		return
	}

	spans, cells := s.Playfield.FindSpanningComponents()
	if spans == 0 {
		return
	}

	s.ComboMultiplier++
	if s.ComboMultiplier > comboCap {
		s.ComboMultiplier = comboCap
	}
	s.ComboTimerTicks = comboWindowTicks

	amount := len(cells) * s.ComboMultiplier
	s.Score += amount
	s.LinesCleared += spans
	s.Clears += spans
	s.Level = 1 + s.LinesCleared/10

	s.LineClearCells = cells
	s.LineClearInProgress = true

	gw, gh := s.Playfield.GrainDims()
	px, py := gw/2, gh/2
	if len(cells) > 0 {
		px, py = cells[0].X, cells[0].Y
	}
	s.Popups = append(s.Popups, ScorePopup{
		X:          px,
		Y:          py,
		Amount:     amount,
		Multiplier: s.ComboMultiplier,
		Color:      1, // yellow
	})
}

// FinishLineClear is invoked by the caller once the clear animation is done:
// the held cells empty out and the next piece spawns.
func (s *GameState) FinishLineClear() {
	for _, c := range s.LineClearCells {
		s.Playfield.Set(c.X, c.Y, emptyCell)
	}
	s.LineClearCells = nil
	s.LineClearInProgress = false
	s.spawnNext()
}

func (s *GameState) spawnNext() {
	next := s.NextPieces[0]
	s.NextPieces = append(s.NextPieces[1:], s.Bag.Next())

	p := spawnPiece(s.Playfield.Width, next)
	s.Piece = &p
	if s.spawnDelay > 0 {
		s.spawnReadyAt = s.lastNow.Add(s.spawnDelay)
	} else {
		s.spawnReadyAt = time.Time{}
	}
	if !s.Playfield.CanPlace(p) {
		s.GameOver = true
	}
}

// TickPopups ages popups by deltaMs, floating each up one grain row every
// 150 ms and dropping it after its lifetime.
func (s *GameState) TickPopups(deltaMs int) {
	kept := s.Popups[:0]
	for _, p := range s.Popups {
		oldSteps := p.AgeMs / 150
		p.AgeMs += deltaMs
		if p.AgeMs/150 > oldSteps && p.Y > 0 {
			p.Y--
		}
		if p.AgeMs < popupLifetimeMs {
			kept = append(kept, p)
		}
	}
	s.Popups = kept
}
