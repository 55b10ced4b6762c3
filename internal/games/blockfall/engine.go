package blockfall

import (
	"fmt"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/blockfall/internal/core"
)

// DefaultLineBonus is the score added for each cleared row.
const DefaultLineBonus = 100

// DefaultPalette is the set of colors new pieces are drawn from.
var DefaultPalette = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorBlue,
	core.ColorYellow,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorOrange,
}

// Status is the externally visible game status.
type Status int

const (
	StatusRunning Status = iota
	StatusOver
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusOver {
		return "over"
	}
	return "running"
}

// Phase is the controller state.
type Phase int

const (
	PhaseNoActivePiece Phase = iota
	PhaseFalling
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNoActivePiece:
		return "no_active_piece"
	case PhaseFalling:
		return "falling"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// EngineConfig describes the field and rules an Engine runs with.
type EngineConfig struct {
	Rows      int
	Cols      int
	LineBonus int
	Shapes    []Shape
	Palette   []core.Color
}

// DefaultEngineConfig returns the classic 20x10 setup.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Rows:      20,
		Cols:      10,
		LineBonus: DefaultLineBonus,
		Shapes:    Catalog(),
		Palette:   append([]core.Color(nil), DefaultPalette...),
	}
}

// Validate checks that the engine can run on this configuration.
func (c EngineConfig) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: field must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	}
	if len(c.Shapes) == 0 {
		return fmt.Errorf("%w: shape catalog is empty", ErrInvalidConfig)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	}
	if c.LineBonus < 0 {
		return fmt.Errorf("%w: line bonus must not be negative, got %d", ErrInvalidConfig, c.LineBonus)
	}
	for i, s := range c.Shapes {
		if s.Rows() == 0 || s.Cols() == 0 {
			return fmt.Errorf("%w: shape %d is empty", ErrInvalidConfig, i)
		}
		// A spawned shape must fit inside the field at the centered column.
		if s.Cols() > c.Cols || s.Rows() > c.Rows {
			return fmt.Errorf("%w: shape %s (%dx%d) does not fit a %dx%d field",
				ErrInvalidConfig, s.Kind(), s.Rows(), s.Cols(), c.Rows, c.Cols)
		}
	}
	for i, color := range c.Palette {
		if color == Empty {
			return fmt.Errorf("%w: palette entry %d is the empty color", ErrInvalidConfig, i)
		}
	}
	return nil
}

// TickResult describes what a single gravity tick did.
type TickResult struct {
	Spawned  bool // A new piece entered the field
	Moved    bool // The piece fell one row
	Locked   bool // The piece was merged into the field
	Cleared  int  // Rows cleared by the lock
	GameOver bool // The lock ended the game
}

// Engine owns the field, the active piece and the score, and is the only
// thing that mutates them. It is not safe for concurrent use; the loop
// driver serializes access.
type Engine struct {
	cfg   EngineConfig
	rng   Rand
	field *Field

	piece    Piece
	hasPiece bool
	over     bool

	ticks  uint64
	score  int
	lines  int
	pieces int
	stats  *intmap.Map[ShapeKind, int]
}

// NewEngine creates an engine in the no-active-piece state.
func NewEngine(cfg EngineConfig, rng Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidConfig)
	}
	field, err := NewField(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, err
	}
	cfg.Shapes = append([]Shape(nil), cfg.Shapes...)
	cfg.Palette = append([]core.Color(nil), cfg.Palette...)
	return &Engine{
		cfg:   cfg,
		rng:   rng,
		field: field,
		stats: intmap.New[ShapeKind, int](len(cfg.Shapes)),
	}, nil
}

// spawn picks a shape and a color uniformly and places the new piece at the
// top, horizontally centered. The spawn position is not validated: a piece
// that appears over locked cells locks on its first gravity step.
func (e *Engine) spawn() {
	shape := e.cfg.Shapes[e.rng.Intn(len(e.cfg.Shapes))]
	color := e.cfg.Palette[e.rng.Intn(len(e.cfg.Palette))]
	e.piece = Piece{
		Shape: shape,
		Color: color,
		Row:   0,
		Col:   e.cfg.Cols/2 - shape.Cols()/2,
	}
	e.hasPiece = true
	e.pieces++
	n, _ := e.stats.Get(shape.Kind())
	e.stats.Put(shape.Kind(), n+1)
}

// Tick advances gravity by one step. With no active piece a new one is
// spawned first and then falls in the same tick. A piece that cannot fall is
// locked, completed rows are cleared and scored, and the game ends if the
// top row is left non-empty. After game over Tick does nothing.
func (e *Engine) Tick() TickResult {
	var res TickResult
	if e.over {
		return res
	}
	e.ticks++

	if !e.hasPiece {
		e.spawn()
		res.Spawned = true
	}

	if CanShift(e.field, e.piece, 1, 0) {
		e.piece.Row++
		res.Moved = true
		return res
	}

	e.lock(&res)
	return res
}

// lock merges the active piece, clears rows and checks for loss.
func (e *Engine) lock(res *TickResult) {
	e.field.Place(e.piece)
	e.hasPiece = false
	res.Locked = true

	cleared := e.field.ClearCompletedRows()
	e.lines += cleared
	e.score += cleared * e.cfg.LineBonus
	res.Cleared = cleared

	if e.field.TopRowHasFilledCell() {
		e.over = true
		res.GameOver = true
	}
}

// TryMove shifts the active piece one cell if the destination is legal.
// Returns false, leaving everything untouched, when the move is blocked,
// there is no active piece, or the game is over. A blocked Down never locks;
// only gravity does.
func (e *Engine) TryMove(dir Direction) bool {
	if e.over || !e.hasPiece {
		return false
	}
	dr, dc := dir.delta()
	if dr == 0 && dc == 0 {
		return false
	}
	if !CanShift(e.field, e.piece, dr, dc) {
		return false
	}
	e.piece.Row += dr
	e.piece.Col += dc
	return true
}

// TryRotate rotates the active piece in place if the rotated shape fits at
// the same offset. No alternative offsets are tried.
func (e *Engine) TryRotate() bool {
	if e.over || !e.hasPiece {
		return false
	}
	rotated := RotateClockwise(e.piece.Shape)
	if !CanRotateTo(e.field, e.piece, rotated) {
		return false
	}
	e.piece.Shape = rotated
	return true
}

// Restart empties the field, zeroes the score and statistics, and returns to
// the running state with no active piece.
func (e *Engine) Restart() {
	e.field.Reset()
	e.piece = Piece{}
	e.hasPiece = false
	e.over = false
	e.ticks = 0
	e.score = 0
	e.lines = 0
	e.pieces = 0
	e.stats.Clear()
}

// Field returns an independent copy of the locked cells.
func (e *Engine) Field() *Field {
	return e.field.Clone()
}

// ActivePiece returns the falling piece, if any.
func (e *Engine) ActivePiece() (Piece, bool) {
	return e.piece, e.hasPiece
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Lines returns the number of rows cleared since the last restart.
func (e *Engine) Lines() int {
	return e.lines
}

// Ticks returns the number of gravity ticks applied since the last restart.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// Pieces returns the number of pieces spawned since the last restart.
func (e *Engine) Pieces() int {
	return e.pieces
}

// Status returns whether the game is running or over.
func (e *Engine) Status() Status {
	if e.over {
		return StatusOver
	}
	return StatusRunning
}

// Phase returns the controller state.
func (e *Engine) Phase() Phase {
	switch {
	case e.over:
		return PhaseGameOver
	case e.hasPiece:
		return PhaseFalling
	default:
		return PhaseNoActivePiece
	}
}

// SpawnCount returns how many pieces of the given kind have spawned.
func (e *Engine) SpawnCount(kind ShapeKind) int {
	n, _ := e.stats.Get(kind)
	return n
}

// Stats returns spawn counts for every shape kind in the catalog.
func (e *Engine) Stats() map[ShapeKind]int {
	out := make(map[ShapeKind]int, len(e.cfg.Shapes))
	for _, s := range e.cfg.Shapes {
		out[s.Kind()], _ = e.stats.Get(s.Kind())
	}
	return out
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() EngineConfig {
	cfg := e.cfg
	cfg.Shapes = append([]Shape(nil), e.cfg.Shapes...)
	cfg.Palette = append([]core.Color(nil), e.cfg.Palette...)
	return cfg
}
