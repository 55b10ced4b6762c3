package blockfall

import (
	"errors"
	"testing"
)

func TestCatalogShapes(t *testing.T) {
	expected := map[ShapeKind]string{
		KindT: "###\n.#.",
		KindO: "##\n##",
		KindL: "#..\n###",
		KindJ: "..#\n###",
		KindS: ".##\n##.",
		KindZ: "##.\n.##",
		KindI: "####",
	}

	shapes := Catalog()
	if len(shapes) != 7 {
		t.Fatalf("Expected 7 catalog shapes, got %d", len(shapes))
	}
	for _, s := range shapes {
		if got := s.String(); got != expected[s.Kind()] {
			t.Errorf("Shape %s = %q, expected %q", s.Kind(), got, expected[s.Kind()])
		}
		if n := len(s.Cells()); n != 4 {
			t.Errorf("Shape %s has %d cells, expected 4", s.Kind(), n)
		}
	}
}

func TestCatalogReturnsFreshSlice(t *testing.T) {
	a := Catalog()
	a[0] = a[6]
	b := Catalog()
	if b[0].Kind() != KindT {
		t.Error("Modifying a returned catalog should not affect later calls")
	}
}

func TestRotateClockwiseTransform(t *testing.T) {
	tests := []struct {
		kind     ShapeKind
		expected string
	}{
		{KindT, "#.\n##\n#."},
		{KindO, "##\n##"},
		{KindL, ".#\n.#\n##"},
		{KindS, "#.\n##\n.#"},
		{KindI, "#\n#\n#\n#"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := catalogShape(t, tt.kind)
			rotated := RotateClockwise(s)
			if got := rotated.String(); got != tt.expected {
				t.Errorf("RotateClockwise(%s) = %q, expected %q", tt.kind, got, tt.expected)
			}
			if rotated.Rows() != s.Cols() || rotated.Cols() != s.Rows() {
				t.Errorf("Rotation should swap dimensions: %dx%d -> %dx%d",
					s.Rows(), s.Cols(), rotated.Rows(), rotated.Cols())
			}
			if rotated.Kind() != s.Kind() {
				t.Errorf("Rotation changed kind from %s to %s", s.Kind(), rotated.Kind())
			}
		})
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, s := range Catalog() {
		r := s
		for range 4 {
			r = RotateClockwise(r)
		}
		if !r.Equal(s) {
			t.Errorf("Four rotations of %s gave %q, expected %q", s.Kind(), r.String(), s.String())
		}
	}
}

func TestRotateDoesNotModifyInput(t *testing.T) {
	s := catalogShape(t, KindL)
	before := s.String()
	RotateClockwise(s)
	if s.String() != before {
		t.Errorf("Input shape changed from %q to %q", before, s.String())
	}
}

func TestNewShapeValidation(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]bool
		valid bool
	}{
		{"empty", nil, false},
		{"empty row", [][]bool{{}}, false},
		{"ragged", [][]bool{{true, true}, {true}}, false},
		{"all empty", [][]bool{{false, false}}, false},
		{"single cell", [][]bool{{true}}, true},
		{"domino", [][]bool{{true}, {true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShape(KindT, tt.rows)
			if tt.valid && err != nil {
				t.Errorf("NewShape() unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidShape) {
				t.Errorf("NewShape() error = %v, expected ErrInvalidShape", err)
			}
		})
	}
}

func TestNewShapeCopiesInput(t *testing.T) {
	rows := [][]bool{{true, false}}
	s, err := NewShape(KindI, rows)
	if err != nil {
		t.Fatalf("NewShape() failed: %v", err)
	}
	rows[0][1] = true
	if s.Filled(0, 1) {
		t.Error("Shape should not alias the caller's matrix")
	}
}

func catalogShape(t *testing.T, kind ShapeKind) Shape {
	t.Helper()
	for _, s := range Catalog() {
		if s.Kind() == kind {
			return s
		}
	}
	t.Fatalf("No catalog shape of kind %s", kind)
	return Shape{}
}
