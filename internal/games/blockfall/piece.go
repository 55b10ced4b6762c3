package blockfall

import "github.com/vovakirdan/blockfall/internal/core"

// Piece is the active falling unit. (Row, Col) is the top-left corner of the
// shape's bounding box in field coordinates.
type Piece struct {
	Shape Shape
	Color core.Color
	Row   int
	Col   int
}

// Cells returns the absolute field positions the piece occupies.
func (p Piece) Cells() []Offset {
	cells := p.Shape.Cells()
	for i := range cells {
		cells[i].Row += p.Row
		cells[i].Col += p.Col
	}
	return cells
}

// Covers reports whether the piece occupies field cell (r, c).
func (p Piece) Covers(r, c int) bool {
	dr, dc := r-p.Row, c-p.Col
	if dr < 0 || dc < 0 || dr >= p.Shape.Rows() || dc >= p.Shape.Cols() {
		return false
	}
	return p.Shape.Filled(dr, dc)
}

// Direction is a move command direction.
type Direction int

const (
	Left Direction = iota
	Right
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// delta returns the (row, col) step for the direction.
func (d Direction) delta() (int, int) {
	switch d {
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	default:
		return 0, 0
	}
}
