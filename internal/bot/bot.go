// Package bot implements a greedy autoplayer. For each new piece it tries
// every reachable rotation and column, drops the piece, and scores the
// resulting field.
package bot

import (
	"math"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
)

// Weights scale the field features that make up a placement score.
type Weights struct {
	Height    float64 // Sum of column heights
	Lines     float64 // Rows cleared by the placement
	Holes     float64 // Empty cells with a filled cell above them
	Bumpiness float64 // Sum of height differences between neighbors
}

// DefaultWeights are tuned for a 10-wide field.
var DefaultWeights = Weights{
	Height:    -0.51,
	Lines:     0.76,
	Holes:     -0.36,
	Bumpiness: -0.18,
}

// lossPenalty is added when a placement would leave the top row filled.
const lossPenalty = -1e6

// Placement is a target position for the active piece.
type Placement struct {
	Rotations int // Quarter turns to apply before shifting
	Col       int // Target column of the bounding box
	Row       int // Row the piece comes to rest on
	Shape     blockfall.Shape
	Lines     int // Rows the placement clears
	Score     float64
}

// Planner picks placements using a fixed set of weights.
type Planner struct {
	weights Weights
}

// New creates a planner.
func New(w Weights) *Planner {
	return &Planner{weights: w}
}

// Plan uses DefaultWeights.
func Plan(field *blockfall.Field, piece blockfall.Piece) (Placement, bool) {
	return New(DefaultWeights).Plan(field, piece)
}

// Plan returns the best placement reachable from the piece's current
// position by rotating in place, then shifting sideways, then dropping.
// It returns false when the piece cannot be placed at all.
func (p *Planner) Plan(field *blockfall.Field, piece blockfall.Piece) (Placement, bool) {
	if !blockfall.IsValidPlacement(field, piece) {
		return Placement{}, false
	}

	best := Placement{Score: math.Inf(-1)}
	found := false
	var seen []blockfall.Shape

	current := piece
	for rot := range 4 {
		if rot > 0 {
			next := blockfall.RotateClockwise(current.Shape)
			if !blockfall.CanRotateTo(field, current, next) {
				break
			}
			current.Shape = next
		}
		if containsShape(seen, current.Shape) {
			continue
		}
		seen = append(seen, current.Shape)

		for _, col := range reachableCols(field, current) {
			candidate := current
			candidate.Col = col
			for blockfall.CanShift(field, candidate, 1, 0) {
				candidate.Row++
			}
			score, lines := p.evaluate(field, candidate)
			if !found || score > best.Score {
				best = Placement{
					Rotations: rot,
					Col:       col,
					Row:       candidate.Row,
					Shape:     candidate.Shape,
					Lines:     lines,
					Score:     score,
				}
				found = true
			}
		}
	}
	return best, found
}

// reachableCols lists the columns the piece can slide to at its current row,
// starting with its own.
func reachableCols(field *blockfall.Field, piece blockfall.Piece) []int {
	cols := []int{piece.Col}
	for p := piece; blockfall.CanShift(field, p, 0, -1); p.Col-- {
		cols = append(cols, p.Col-1)
	}
	for p := piece; blockfall.CanShift(field, p, 0, 1); p.Col++ {
		cols = append(cols, p.Col+1)
	}
	return cols
}

func containsShape(shapes []blockfall.Shape, s blockfall.Shape) bool {
	for _, other := range shapes {
		if other.Equal(s) {
			return true
		}
	}
	return false
}

// evaluate locks the piece into a copy of the field and scores the result.
func (p *Planner) evaluate(field *blockfall.Field, piece blockfall.Piece) (float64, int) {
	sim := field.Clone()
	sim.Place(piece)
	lines := sim.ClearCompletedRows()

	f := Measure(sim)
	score := p.weights.Height*float64(f.AggregateHeight) +
		p.weights.Lines*float64(lines) +
		p.weights.Holes*float64(f.Holes) +
		p.weights.Bumpiness*float64(f.Bumpiness)
	if sim.TopRowHasFilledCell() {
		score += lossPenalty
	}
	return score, lines
}

// Features are the field measurements the planner scores.
type Features struct {
	Heights         []int
	AggregateHeight int
	Holes           int
	Bumpiness       int
}

// Measure computes column heights, holes and bumpiness for a field.
func Measure(field *blockfall.Field) Features {
	rows, cols := field.Rows(), field.Cols()
	f := Features{Heights: make([]int, cols)}

	for c := range cols {
		top := rows
		for r := range rows {
			if field.IsOccupied(r, c) {
				top = r
				break
			}
		}
		f.Heights[c] = rows - top
		f.AggregateHeight += f.Heights[c]
		for r := top + 1; r < rows; r++ {
			if !field.IsOccupied(r, c) {
				f.Holes++
			}
		}
	}
	for c := 0; c+1 < cols; c++ {
		d := f.Heights[c] - f.Heights[c+1]
		if d < 0 {
			d = -d
		}
		f.Bumpiness += d
	}
	return f
}
