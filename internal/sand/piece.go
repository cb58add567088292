package sand

// GrainPos is a coordinate on the grain grid.
type GrainPos struct {
	X, Y int
}

// Piece is the falling tetromino: its kind, grain-space origin, and one of
// four rotation states. It exists only between spawn and lock.
type Piece struct {
	Kind     Kind
	GX, GY   int
	Rotation uint8 // 0..3
}

// CellGrainOrigins returns the grain-space top-left corner of each of the
// piece's four GrainScale x GrainScale sub-blocks. The O piece never rotates
// and keeps a fixed 2x2 layout; every other kind rotates its cell offsets
// about a per-kind pivot before scaling to grain space.
func (p Piece) CellGrainOrigins() [4]GrainPos {
	if p.Kind == KindO {
		return [4]GrainPos{
			{p.GX, p.GY},
			{p.GX + GrainScale, p.GY},
			{p.GX, p.GY + GrainScale},
			{p.GX + GrainScale, p.GY + GrainScale},
		}
	}

	cells := p.Kind.Cells()
	r := p.Rotation % 4
	pivotX, pivotY := 1, 1
	if p.Kind == KindI {
		pivotX, pivotY = 1, 0
	}

	var out [4]GrainPos
	for i, c := range cells {
		dx, dy := rotateCell(c.DX, c.DY, r, pivotX, pivotY)
		out[i] = GrainPos{
			X: p.GX + dx*GrainScale,
			Y: p.GY + dy*GrainScale,
		}
	}
	return out
}

// rotateCell rotates a block-cell offset by r quarter turns clockwise about
// the pivot (cx, cy).
func rotateCell(dx, dy int, r uint8, cx, cy int) (int, int) {
	dx -= cx
	dy -= cy
	switch r {
	case 1:
		dx, dy = -dy, dx
	case 2:
		dx, dy = -dx, -dy
	case 3:
		dx, dy = dy, -dx
	}
	return dx + cx, dy + cy
}
