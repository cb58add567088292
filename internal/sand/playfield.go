package sand

// Cell is a single grain grid cell: empty, or sand with a color index and a
// shadow flag. Shadow marks grains on the trailing edge of a locked piece's
// sub-block and only affects rendering, never physics.
type Cell struct {
	Sand   bool
	Color  uint8
	Shadow bool
}

var emptyCell = Cell{}

// Playfield is the grain grid. Dimensions are given in block-cells; the
// backing grid is always exactly GrainScale times finer in both directions,
// stored as a flat row-major buffer to keep the physics loop free of
// per-row indirection. The tick counter only seeds per-tick randomness.
type Playfield struct {
	Width  int // block-cells
	Height int // block-cells
	cells  []Cell
	ticks  uint32
}

// NewPlayfield creates an empty playfield of the given block-cell size.
func NewPlayfield(width, height int) *Playfield {
	gw, gh := width*GrainScale, height*GrainScale
	return &Playfield{
		Width:  width,
		Height: height,
		cells:  make([]Cell, gw*gh),
	}
}

// GrainDims returns the grain grid dimensions.
func (f *Playfield) GrainDims() (int, int) {
	return f.Width * GrainScale, f.Height * GrainScale
}

// At returns the cell at (x, y). Out-of-range lookups report ok=false with
// an empty cell rather than trapping.
func (f *Playfield) At(x, y int) (Cell, bool) {
	gw, gh := f.GrainDims()
	if x < 0 || x >= gw || y < 0 || y >= gh {
		return emptyCell, false
	}
	return f.cells[y*gw+x], true
}

// Set writes the cell at (x, y); out-of-range writes are ignored.
func (f *Playfield) Set(x, y int, c Cell) {
	gw, gh := f.GrainDims()
	if x < 0 || x >= gw || y < 0 || y >= gh {
		return
	}
	f.cells[y*gw+x] = c
}

// isOpen reports whether (x, y) is in bounds and empty.
func (f *Playfield) isOpen(x, y int) bool {
	c, ok := f.At(x, y)
	return ok && !c.Sand
}

// CanPlace reports whether the piece fits at its current position. Every one
// of the piece's covered grains is checked individually, since settled sand
// can occupy part of a block-cell and there is no coarse shortcut. Grains above
// the top edge are permitted (pieces spawn overlapping the ceiling); grains
// past the sides or bottom, or on existing sand, reject the placement.
func (f *Playfield) CanPlace(p Piece) bool {
	gw, gh := f.GrainDims()
	for _, origin := range p.CellGrainOrigins() {
		for dy := 0; dy < GrainScale; dy++ {
			for dx := 0; dx < GrainScale; dx++ {
				gx := origin.X + dx
				gy := origin.Y + dy
				if gx < 0 || gx >= gw || gy >= gh {
					return false
				}
				if gy < 0 {
					continue
				}
				if f.cells[gy*gw+gx].Sand {
					return false
				}
			}
		}
	}
	return true
}

// TickPhysics advances every grain by at most one step, scanning rows bottom
// to top with a per-tick partially shuffled column order. Each grain hashes
// (x, y, tick) into an entropy value: 35% of the time it rests (keeps
// descent from reading as lock-step), 10% of the remainder it dithers
// diagonally even when straight down is open (breaks up 45-degree
// staircases), otherwise it falls straight down, or into an open diagonal.
// Ties between the two diagonals resolve by leftFirst, which the caller
// toggles every tick. Returns whether any grain moved.
func (f *Playfield) TickPhysics(leftFirst bool) bool {
	f.ticks++
	moved := false
	gw, gh := f.GrainDims()

	// Partial column shuffle, seeded from the tick counter, so scan order
	// bias does not build up clumps on one side.
	xOrder := make([]int, gw)
	for i := range xOrder {
		xOrder[i] = i
	}
	seed := f.ticks*31 + uint32(gw)
	for i := 0; i < gw/4; i++ {
		j := (int(seed) + i) % gw
		k := (int(seed)*17 + i) % gw
		xOrder[j], xOrder[k] = xOrder[k], xOrder[j]
	}

	// The last row cannot fall further.
	for y := gh - 2; y >= 0; y-- {
		for _, x := range xOrder {
			c := f.cells[y*gw+x]
			if !c.Sand {
				continue
			}

			entropy := (uint32(x)*7+uint32(y))*13 + f.ticks*17

			// Rest this tick.
			if entropy%100 < 35 {
				continue
			}

			// Sideways dither into an open diagonal.
			if (entropy/100)%100 < 10 {
				driftLeft := (entropy/1000)%2 == 0
				if driftLeft && x > 0 && f.isOpen(x-1, y+1) {
					f.move(x, y, x-1, y+1, c)
					moved = true
					continue
				}
				if !driftLeft && x+1 < gw && f.isOpen(x+1, y+1) {
					f.move(x, y, x+1, y+1, c)
					moved = true
					continue
				}
			}

			if f.isOpen(x, y+1) {
				f.move(x, y, x, y+1, c)
				moved = true
				continue
			}

			tryLeft := x > 0 && f.isOpen(x-1, y+1)
			tryRight := x+1 < gw && f.isOpen(x+1, y+1)
			goLeft := tryLeft
			if tryLeft && tryRight {
				goLeft = leftFirst
			}
			switch {
			case goLeft:
				f.move(x, y, x-1, y+1, c)
				moved = true
			case tryRight:
				f.move(x, y, x+1, y+1, c)
				moved = true
			}
		}
	}
	return moved
}

func (f *Playfield) move(x, y, nx, ny int, c Cell) {
	gw, _ := f.GrainDims()
	f.cells[y*gw+x] = emptyCell
	f.cells[ny*gw+nx] = c
}

var neighbours8 = [8]GrainPos{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// FindSpanningComponents looks, per color, for 8-connected same-color
// components that touch both the leftmost and rightmost grain columns. It
// returns the number of such components and the union of their member
// cells. The fill is iterative; boards carry tens of thousands of grains
// and a recursive fill would risk the stack.
func (f *Playfield) FindSpanningComponents() (int, []GrainPos) {
	gw, gh := f.GrainDims()
	spans := 0
	var toClear []GrainPos

	for color := uint8(0); color < 6; color++ {
		visited := make([]bool, gw*gh)
		for startY := 0; startY < gh; startY++ {
			c := f.cells[startY*gw]
			if !c.Sand || c.Color != color || visited[startY*gw] {
				continue
			}

			component := []GrainPos{}
			stack := []GrainPos{{0, startY}}
			visited[startY*gw] = true
			touchesRight := false

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				component = append(component, p)
				if p.X == gw-1 {
					touchesRight = true
				}

				for _, d := range neighbours8 {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || nx >= gw || ny < 0 || ny >= gh {
						continue
					}
					idx := ny*gw + nx
					n := f.cells[idx]
					if n.Sand && n.Color == color && !visited[idx] {
						visited[idx] = true
						stack = append(stack, GrainPos{nx, ny})
					}
				}
			}

			if touchesRight {
				spans++
				toClear = append(toClear, component...)
			}
		}
	}
	return spans, toClear
}

// SpawnZoneBlocked reports whether any settled sand sits in the top
// SpawnZoneRows grain rows. A lock with sand here ends the game.
func (f *Playfield) SpawnZoneBlocked() bool {
	gw, gh := f.GrainDims()
	limit := min(SpawnZoneRows, gh)
	for y := 0; y < limit; y++ {
		for x := 0; x < gw; x++ {
			if f.cells[y*gw+x].Sand {
				return true
			}
		}
	}
	return false
}

// SandCount returns the number of settled sand grains on the field.
func (f *Playfield) SandCount() int {
	n := 0
	for _, c := range f.cells {
		if c.Sand {
			n++
		}
	}
	return n
}
