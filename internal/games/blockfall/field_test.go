package blockfall

import (
	"errors"
	"testing"

	"github.com/vovakirdan/blockfall/internal/core"
)

func mustField(t *testing.T, rows ...string) *Field {
	t.Helper()
	f, err := FieldFromRows(rows...)
	if err != nil {
		t.Fatalf("FieldFromRows() failed: %v", err)
	}
	return f
}

func TestNewFieldRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {20, 0}, {-1, 5}} {
		if _, err := NewField(dims[0], dims[1]); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewField(%d, %d) error = %v, expected ErrInvalidConfig", dims[0], dims[1], err)
		}
	}
}

func TestNewFieldIsEmpty(t *testing.T) {
	f, err := NewField(20, 10)
	if err != nil {
		t.Fatalf("NewField() failed: %v", err)
	}
	if f.Rows() != 20 || f.Cols() != 10 {
		t.Errorf("Expected 20x10, got %dx%d", f.Rows(), f.Cols())
	}
	if f.FilledCount() != 0 {
		t.Errorf("New field has %d filled cells", f.FilledCount())
	}
}

func TestClearCompletedRows(t *testing.T) {
	tests := []struct {
		name     string
		before   []string
		after    string
		expected int
	}{
		{
			name:     "no complete rows",
			before:   []string{"...", "#..", "##."},
			after:    "...\n#..\n##.",
			expected: 0,
		},
		{
			name:     "two adjacent rows",
			before:   []string{"...", "#..", "###", "###", ".#."},
			after:    "...\n...\n...\n#..\n.#.",
			expected: 2,
		},
		{
			name:     "rescan after shift",
			before:   []string{"###", "#..", "###"},
			after:    "...\n...\n#..",
			expected: 2,
		},
		{
			name:     "full field",
			before:   []string{"##", "##", "##"},
			after:    "..\n..\n..",
			expected: 3,
		},
		{
			name:     "separated rows",
			before:   []string{".#", "##", "#.", "##"},
			after:    "..\n..\n.#\n#.",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustField(t, tt.before...)
			if got := f.ClearCompletedRows(); got != tt.expected {
				t.Errorf("ClearCompletedRows() = %d, expected %d", got, tt.expected)
			}
			if got := f.String(); got != tt.after {
				t.Errorf("Field after clear:\n%s\nexpected:\n%s", got, tt.after)
			}
			if f.Rows() != len(tt.before) {
				t.Errorf("Row count changed to %d", f.Rows())
			}
		})
	}
}

func TestClearKeepsColors(t *testing.T) {
	f, _ := NewField(3, 2)
	f.Place(Piece{Shape: mustShape(KindI, "#"), Color: core.ColorCyan, Row: 1, Col: 0})
	f.Place(Piece{Shape: mustShape(KindI, "##"), Color: core.ColorRed, Row: 2, Col: 0})

	f.ClearCompletedRows()

	if f.At(2, 0) != core.ColorCyan {
		t.Errorf("Shifted cell color = %v, expected cyan", f.At(2, 0))
	}
	if f.At(0, 0) != Empty || f.At(1, 0) != Empty {
		t.Error("Rows above the shift should be empty")
	}
}

func TestClearedRowsAreIndependent(t *testing.T) {
	f := mustField(t, "..", "##", "##")
	f.ClearCompletedRows()

	// The two new empty rows must not share storage.
	f.Place(Piece{Shape: mustShape(KindI, "#"), Color: core.ColorRed, Row: 0, Col: 0})
	if f.IsOccupied(1, 0) {
		t.Error("Writing row 0 also changed row 1")
	}
}

func TestTopRowHasFilledCell(t *testing.T) {
	if mustField(t, "...", "###").TopRowHasFilledCell() {
		t.Error("Empty top row reported as filled")
	}
	if !mustField(t, "..#", "...").TopRowHasFilledCell() {
		t.Error("Filled top row not detected")
	}
}

func TestFieldCloneAndSnapshotAreDeep(t *testing.T) {
	f := mustField(t, "#.", "..")
	clone := f.Clone()
	snap := f.Snapshot()

	f.Place(Piece{Shape: mustShape(KindI, "#"), Color: core.ColorRed, Row: 1, Col: 1})
	if clone.IsOccupied(1, 1) {
		t.Error("Clone shares storage with the original")
	}
	if snap[1][1] != Empty {
		t.Error("Snapshot shares storage with the original")
	}

	snap[0][1] = core.ColorBlue
	if f.IsOccupied(0, 1) {
		t.Error("Modifying a snapshot changed the field")
	}
}

func TestFieldReset(t *testing.T) {
	f := mustField(t, "#.", "##")
	f.Reset()
	if f.FilledCount() != 0 {
		t.Errorf("Reset left %d filled cells", f.FilledCount())
	}
}

func TestFieldFromRowsRagged(t *testing.T) {
	if _, err := FieldFromRows("...", ".."); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for ragged rows, got %v", err)
	}
}
