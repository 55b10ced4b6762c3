package blockfall

import (
	"testing"

	"github.com/vovakirdan/blockfall/internal/core"
)

// referenceFits is the placement rule written out cell by cell.
func referenceFits(f *Field, s Shape, row, col int) bool {
	for _, off := range s.Cells() {
		r, c := row+off.Row, col+off.Col
		if r >= f.Rows() || c < 0 || c >= f.Cols() {
			return false
		}
		if f.At(r, c) != Empty {
			return false
		}
	}
	return true
}

func TestPlacementExhaustiveSmallGrids(t *testing.T) {
	grids := [][]string{
		{"...", "...", "..."},
		{"...", ".#.", "..."},
		{"....", "....", "#..#", "##.#"},
		{"#...", "....", "...#"},
	}

	for _, rows := range grids {
		f := mustField(t, rows...)
		for _, base := range Catalog() {
			s := base
			for range 4 {
				for row := 0; row <= f.Rows(); row++ {
					for col := -s.Cols(); col <= f.Cols(); col++ {
						p := Piece{Shape: s, Color: core.ColorRed, Row: row, Col: col}
						want := referenceFits(f, s, row, col)
						if got := IsValidPlacement(f, p); got != want {
							t.Errorf("IsValidPlacement(%s at %d,%d on\n%s) = %v, expected %v",
								s.Kind(), row, col, f.String(), got, want)
						}
					}
				}
				s = RotateClockwise(s)
			}
		}
	}
}

func TestCanShift(t *testing.T) {
	f := mustField(t,
		"....",
		"....",
		"...#",
		"####",
	)
	o := catalogShape(t, KindO)

	tests := []struct {
		name       string
		row, col   int
		dRow, dCol int
		expected   bool
	}{
		{"down into open space", 0, 0, 1, 0, true},
		{"down onto floor row", 1, 0, 1, 0, false},
		{"left at wall", 0, 0, 0, -1, false},
		{"right at wall", 0, 2, 0, 1, false},
		{"right into locked cell", 1, 1, 0, 1, false},
		{"right in open row", 0, 1, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Piece{Shape: o, Color: core.ColorYellow, Row: tt.row, Col: tt.col}
			if got := CanShift(f, p, tt.dRow, tt.dCol); got != tt.expected {
				t.Errorf("CanShift() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCanRotateTo(t *testing.T) {
	f, _ := NewField(4, 4)
	i := catalogShape(t, KindI)
	vertical := RotateClockwise(i)

	// Horizontal I on row 0 can stand up; on row 1 it would leave the field.
	if !CanRotateTo(f, Piece{Shape: i, Row: 0, Col: 0}, vertical) {
		t.Error("Vertical I should fit from row 0 of a 4-row field")
	}
	if CanRotateTo(f, Piece{Shape: i, Row: 1, Col: 0}, vertical) {
		t.Error("Vertical I from row 1 should extend past the floor")
	}
}

func TestValidatorDoesNotMutate(t *testing.T) {
	f := mustField(t, "....", ".##.", "####")
	before := f.String()
	p := Piece{Shape: catalogShape(t, KindT), Color: core.ColorRed, Row: 0, Col: 1}

	IsValidPlacement(f, p)
	CanShift(f, p, 1, 0)
	CanRotateTo(f, p, RotateClockwise(p.Shape))

	if f.String() != before {
		t.Errorf("Validator changed the field:\n%s", f.String())
	}
}
