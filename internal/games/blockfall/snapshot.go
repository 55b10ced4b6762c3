package blockfall

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Snapshot captures the complete engine state for determinism testing and
// for handing to observers outside the executor.
type Snapshot struct {
	Tick   uint64 // Gravity ticks applied since the last restart
	Status Status
	Phase  Phase
	Score  int
	Lines  int
	Pieces int
	Field  [][]core.Color
	Piece  *Piece // nil when no piece is falling
}

// Snapshot returns a deep copy of the current engine state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   e.ticks,
		Status: e.Status(),
		Phase:  e.Phase(),
		Score:  e.score,
		Lines:  e.lines,
		Pieces: e.pieces,
		Field:  e.field.Snapshot(),
	}
	if e.hasPiece {
		p := e.piece
		snap.Piece = &p
	}
	return snap
}

// Rows returns the field height.
func (s Snapshot) Rows() int {
	return len(s.Field)
}

// Cols returns the field width.
func (s Snapshot) Cols() int {
	if len(s.Field) == 0 {
		return 0
	}
	return len(s.Field[0])
}

// LockedField rebuilds the locked cells as a Field, for planners working
// outside the executor.
func (s Snapshot) LockedField() (*Field, error) {
	f, err := NewField(s.Rows(), s.Cols())
	if err != nil {
		return nil, err
	}
	for r, row := range s.Field {
		if len(row) != f.cols {
			return nil, fmt.Errorf("%w: snapshot row %d has width %d, expected %d", ErrInvalidConfig, r, len(row), f.cols)
		}
		copy(f.cells[r], row)
	}
	return f, nil
}

// String dumps the field with '#' for locked cells, '@' for the active piece
// and '.' for empty cells.
func (s Snapshot) String() string {
	var sb strings.Builder
	for r, row := range s.Field {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, cell := range row {
			switch {
			case s.Piece != nil && s.Piece.Covers(r, c):
				sb.WriteByte('@')
			case cell != Empty:
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
