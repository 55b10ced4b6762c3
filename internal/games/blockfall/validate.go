package blockfall

// fits walks the occupied cells of shape placed at (row, col) and reports
// whether every one lands inside the field and on an empty cell.
// There is no check against row < 0: pieces only ever move down or sideways
// from row 0, so nothing can reach above the field.
func fits(f *Field, s Shape, row, col int) bool {
	for dr := range s.Rows() {
		for dc := range s.Cols() {
			if !s.Filled(dr, dc) {
				continue
			}
			r, c := row+dr, col+dc
			if r >= f.rows || c < 0 || c >= f.cols {
				return false
			}
			if f.IsOccupied(r, c) {
				return false
			}
		}
	}
	return true
}

// IsValidPlacement reports whether the piece, exactly where it is, lies within
// the field and overlaps no locked cell.
func IsValidPlacement(f *Field, p Piece) bool {
	return fits(f, p.Shape, p.Row, p.Col)
}

// CanShift reports whether the piece could move by (dRow, dCol).
func CanShift(f *Field, p Piece, dRow, dCol int) bool {
	return fits(f, p.Shape, p.Row+dRow, p.Col+dCol)
}

// CanRotateTo reports whether the piece could take shape s at its current offset.
func CanRotateTo(f *Field, p Piece, s Shape) bool {
	return fits(f, s, p.Row, p.Col)
}
