// Package blockfall implements the falling-block puzzle: shape catalog and
// rotation, the locked-cell field, placement validation, and the engine that
// spawns, moves, locks and clears.
package blockfall

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShape is returned when a shape matrix is empty or ragged.
var ErrInvalidShape = errors.New("blockfall: invalid shape")

// ShapeKind identifies one of the canonical catalog shapes.
type ShapeKind int

const (
	KindT ShapeKind = iota
	KindO
	KindL
	KindJ
	KindS
	KindZ
	KindI
)

// String returns the conventional letter for the shape.
func (k ShapeKind) String() string {
	switch k {
	case KindT:
		return "T"
	case KindO:
		return "O"
	case KindL:
		return "L"
	case KindJ:
		return "J"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindI:
		return "I"
	default:
		return "?"
	}
}

// Offset is a (row, col) position relative to a shape's top-left corner.
type Offset struct {
	Row, Col int
}

// Shape is an immutable boolean matrix marking the occupied cells of a
// bounding box. Methods never modify the receiver; rotation returns a new Shape.
type Shape struct {
	kind  ShapeKind
	cells [][]bool
}

// NewShape builds a custom shape from a rectangular matrix.
// The matrix is copied so later changes by the caller have no effect.
func NewShape(kind ShapeKind, rows [][]bool) (Shape, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Shape{}, fmt.Errorf("%w: empty matrix", ErrInvalidShape)
	}
	width := len(rows[0])
	filled := false
	cells := make([][]bool, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return Shape{}, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidShape, r, len(row), width)
		}
		cells[r] = append([]bool(nil), row...)
		for _, v := range row {
			filled = filled || v
		}
	}
	if !filled {
		return Shape{}, fmt.Errorf("%w: no occupied cells", ErrInvalidShape)
	}
	return Shape{kind: kind, cells: cells}, nil
}

// mustShape parses a catalog literal where '#' is occupied.
func mustShape(kind ShapeKind, rows ...string) Shape {
	matrix := make([][]bool, len(rows))
	for r, row := range rows {
		matrix[r] = make([]bool, len(row))
		for c, ch := range row {
			matrix[r][c] = ch == '#'
		}
	}
	s, err := NewShape(kind, matrix)
	if err != nil {
		panic(err)
	}
	return s
}

var catalog = []Shape{
	mustShape(KindT, "###", ".#."),
	mustShape(KindO, "##", "##"),
	mustShape(KindL, "#..", "###"),
	mustShape(KindJ, "..#", "###"),
	mustShape(KindS, ".##", "##."),
	mustShape(KindZ, "##.", ".##"),
	mustShape(KindI, "####"),
}

// Catalog returns the seven canonical shapes in T, O, L, J, S, Z, I order.
// The returned slice is fresh; the shapes themselves are shared and immutable.
func Catalog() []Shape {
	return append([]Shape(nil), catalog...)
}

// Kind returns which catalog shape this is (custom shapes carry the kind
// they were built with).
func (s Shape) Kind() ShapeKind {
	return s.kind
}

// Rows returns the bounding box height.
func (s Shape) Rows() int {
	return len(s.cells)
}

// Cols returns the bounding box width.
func (s Shape) Cols() int {
	if len(s.cells) == 0 {
		return 0
	}
	return len(s.cells[0])
}

// Filled reports whether the cell at (r, c) of the bounding box is occupied.
func (s Shape) Filled(r, c int) bool {
	return s.cells[r][c]
}

// Cells returns the occupied offsets in row-major order.
func (s Shape) Cells() []Offset {
	var out []Offset
	for r, row := range s.cells {
		for c, v := range row {
			if v {
				out = append(out, Offset{Row: r, Col: c})
			}
		}
	}
	return out
}

// Equal reports whether two shapes have identical matrices.
func (s Shape) Equal(other Shape) bool {
	if s.Rows() != other.Rows() || s.Cols() != other.Cols() {
		return false
	}
	for r := range s.cells {
		for c := range s.cells[r] {
			if s.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix with '#' for occupied and '.' for empty cells.
func (s Shape) String() string {
	var sb strings.Builder
	for r, row := range s.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			if v {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// RotateClockwise returns the shape rotated a quarter turn by transposing the
// matrix and reversing its row order. Width and height swap. No bounds are
// checked; this is a purely geometric transform, and four applications give
// back the original shape.
func RotateClockwise(s Shape) Shape {
	rows, cols := s.Rows(), s.Cols()
	out := make([][]bool, cols)
	for i := range cols {
		out[i] = make([]bool, rows)
		for j := range rows {
			// transposed[i][j] = cells[j][i], then rows reversed
			out[i][j] = s.cells[j][cols-1-i]
		}
	}
	return Shape{kind: s.kind, cells: out}
}
