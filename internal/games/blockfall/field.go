package blockfall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/blockfall/internal/core"
)

// ErrInvalidConfig is returned when a field or engine is configured with
// values it cannot run on.
var ErrInvalidConfig = errors.New("blockfall: invalid configuration")

// Empty marks a field cell holding no locked block.
const Empty = core.ColorDefault

// Field is the fixed-size grid of locked cells. Row 0 is the top.
// Dimensions never change after creation.
type Field struct {
	rows  int
	cols  int
	cells [][]core.Color
}

// NewField creates an empty rows×cols field.
func NewField(rows, cols int) (*Field, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: field must be at least 1x1, got %dx%d", ErrInvalidConfig, rows, cols)
	}
	f := &Field{rows: rows, cols: cols}
	f.cells = make([][]core.Color, rows)
	for r := range f.cells {
		f.cells[r] = make([]core.Color, cols)
	}
	return f, nil
}

// Rows returns the field height.
func (f *Field) Rows() int {
	return f.rows
}

// Cols returns the field width.
func (f *Field) Cols() int {
	return f.cols
}

// At returns the color at (r, c), or Empty. Out-of-range coordinates panic;
// callers bounds-check first.
func (f *Field) At(r, c int) core.Color {
	return f.cells[r][c]
}

// IsOccupied reports whether (r, c) holds a locked block. Out-of-range
// coordinates panic; callers bounds-check first.
func (f *Field) IsOccupied(r, c int) bool {
	return f.cells[r][c] != Empty
}

// Place writes the piece color into every cell the piece covers.
// It does not validate: the caller must have checked the placement with
// IsValidPlacement, otherwise locked cells are overwritten.
func (f *Field) Place(p Piece) {
	for _, cell := range p.Cells() {
		f.cells[cell.Row][cell.Col] = p.Color
	}
}

// rowComplete reports whether every cell in row r is filled.
func (f *Field) rowComplete(r int) bool {
	for _, cell := range f.cells[r] {
		if cell == Empty {
			return false
		}
	}
	return true
}

// ClearCompletedRows removes every complete row, shifting the rows above it
// down and inserting fresh empty rows at the top. Rows are scanned bottom to
// top and a row index is examined again after a clear, since the row above
// has just moved into it. Returns the number of rows cleared.
func (f *Field) ClearCompletedRows() int {
	cleared := 0
	for r := f.rows - 1; r >= 0; {
		if !f.rowComplete(r) {
			r--
			continue
		}
		// Reuse the removed row's storage as the new top row.
		removed := f.cells[r]
		copy(f.cells[1:r+1], f.cells[:r])
		for c := range removed {
			removed[c] = Empty
		}
		f.cells[0] = removed
		cleared++
	}
	return cleared
}

// TopRowHasFilledCell reports whether any cell of row 0 is filled.
func (f *Field) TopRowHasFilledCell() bool {
	for _, cell := range f.cells[0] {
		if cell != Empty {
			return true
		}
	}
	return false
}

// FilledCount returns the number of filled cells.
func (f *Field) FilledCount() int {
	n := 0
	for _, row := range f.cells {
		for _, cell := range row {
			if cell != Empty {
				n++
			}
		}
	}
	return n
}

// Reset empties every cell.
func (f *Field) Reset() {
	for _, row := range f.cells {
		for c := range row {
			row[c] = Empty
		}
	}
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	clone := &Field{rows: f.rows, cols: f.cols, cells: f.Snapshot()}
	return clone
}

// Snapshot returns a deep copy of the cells, safe to hand to renderers.
func (f *Field) Snapshot() [][]core.Color {
	out := make([][]core.Color, f.rows)
	for r, row := range f.cells {
		out[r] = append([]core.Color(nil), row...)
	}
	return out
}

// String dumps the field with '#' for filled and '.' for empty cells.
func (f *Field) String() string {
	var sb strings.Builder
	for r, row := range f.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
	}
	return sb.String()
}

// FieldFromRows builds a field from ASCII rows where '.' is empty and any
// other character is a filled cell. All rows must have the same width.
func FieldFromRows(rows ...string) (*Field, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidConfig)
	}
	f, err := NewField(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != f.cols {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidConfig, r, len(row), f.cols)
		}
		for c := range len(row) {
			if row[c] != '.' {
				f.cells[r][c] = core.ColorWhite
			}
		}
	}
	return f, nil
}
