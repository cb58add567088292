package sand

import "time"

// Difficulty selects the base gravity cadence and how many upcoming pieces
// the player is shown. It never changes engine semantics.
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// BaseTickRate returns the logic ticks per second a caller should drive
// gravity at for this difficulty (before level scaling).
func (d Difficulty) BaseTickRate() float64 {
	switch d {
	case DifficultyMedium:
		return 50.0
	case DifficultyHard:
		return 90.0
	default:
		return 30.0
	}
}

// PreviewCount returns how many upcoming kinds the player is shown.
func (d Difficulty) PreviewCount() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 1
	default:
		return 3
	}
}

// String returns the lowercase preset name.
func (d Difficulty) String() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "easy"
	}
}

// ParseDifficulty maps a preset name to a Difficulty, defaulting to easy.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// Config carries the per-game construction parameters.
type Config struct {
	Width  int // playfield width in block-cells
	Height int // playfield height in block-cells

	// SpawnDelay keeps a freshly spawned piece inert (no gravity, no input)
	// for this long. Zero disables the gate.
	SpawnDelay time.Duration

	InitialLevel int

	// HighColor switches from the four-color palette to all six sand colors.
	HighColor bool

	Difficulty Difficulty

	// Seed drives the bag shuffle; equal seeds give equal piece sequences.
	Seed uint32
}

// DefaultGameConfig returns the standard 10x24 board on easy.
func DefaultGameConfig() Config {
	return Config{
		Width:        10,
		Height:       24,
		InitialLevel: 1,
		Difficulty:   DifficultyEasy,
		Seed:         0x12345678,
	}
}
