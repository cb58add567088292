// Package sand implements the falling-sand block puzzle engine: a playfield
// of sub-cell grains, piece geometry and collision, a stochastic settling
// step, spanning-clear detection, and the lock/crumble/clear/spawn state
// machine. The package is pure and single-threaded; every time-gated call
// takes the current instant from the caller, so the engine is a deterministic
// function of (state, input, time) and needs no real-time waits to test.
package sand

// GrainScale is the sub-grid factor: each block-cell is a GrainScale x
// GrainScale square of independently simulated grains.
const GrainScale = 6

// SpawnZoneRows is the number of top grain rows that must stay clear of
// settled sand. Sand here when a piece locks ends the game.
const SpawnZoneRows = 2 * GrainScale

// Kind identifies one of the seven tetromino shapes.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists all seven tetromino kinds.
var Kinds = [7]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// CellOffset is a block-cell offset relative to a piece's origin.
type CellOffset struct {
	DX, DY int
}

var kindCells = [7][4]CellOffset{
	KindI: {{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	KindO: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	KindT: {{0, 0}, {1, 0}, {2, 0}, {1, 1}},
	KindS: {{1, 0}, {2, 0}, {0, 1}, {1, 1}},
	KindZ: {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
	KindJ: {{0, 0}, {0, 1}, {1, 1}, {2, 1}},
	KindL: {{2, 0}, {0, 1}, {1, 1}, {2, 1}},
}

// Cells returns the four block-cell offsets for this kind, rotation 0.
func (k Kind) Cells() [4]CellOffset {
	return kindCells[k]
}

// ColorIndex returns the sand color index 0..5 for this kind. With highColor
// the full six-color palette is used; otherwise kinds share four colors,
// which makes spanning a single color across the board easier.
func (k Kind) ColorIndex(highColor bool) uint8 {
	if highColor {
		switch k {
		case KindS:
			return 0 // green
		case KindO:
			return 1 // yellow
		case KindZ, KindL:
			return 2 // red
		case KindJ:
			return 3 // blue
		case KindT:
			return 4 // magenta
		case KindI:
			return 5 // cyan
		}
	}
	switch k {
	case KindS:
		return 0
	case KindO, KindL:
		return 1
	case KindZ, KindT:
		return 2
	case KindJ, KindI:
		return 3
	}
	return 0
}

// String returns the conventional one-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return "?"
	}
}
