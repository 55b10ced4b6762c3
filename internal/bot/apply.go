package bot

import "github.com/vovakirdan/blockfall/internal/games/blockfall"

// Commander accepts piece commands. *loop.Driver satisfies it.
type Commander interface {
	Move(dir blockfall.Direction) (bool, error)
	Rotate() (bool, error)
}

// Apply steers a piece that starts at fromCol toward the placement: it
// rotates, shifts, then soft drops until the piece rests. Locking is left to
// gravity. It returns false when a command was rejected, which happens when
// gravity or a lock got in between; the caller should plan again.
func Apply(c Commander, pl Placement, fromCol int) (bool, error) {
	for range pl.Rotations {
		ok, err := c.Rotate()
		if err != nil || !ok {
			return false, err
		}
	}

	dir, steps := blockfall.Right, pl.Col-fromCol
	if steps < 0 {
		dir, steps = blockfall.Left, -steps
	}
	for range steps {
		ok, err := c.Move(dir)
		if err != nil || !ok {
			return false, err
		}
	}

	for {
		ok, err := c.Move(blockfall.Down)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}
}

// EngineCommander adapts an engine for direct, single-threaded use.
type EngineCommander struct {
	Engine *blockfall.Engine
}

// Move shifts the engine's active piece.
func (e EngineCommander) Move(dir blockfall.Direction) (bool, error) {
	return e.Engine.TryMove(dir), nil
}

// Rotate rotates the engine's active piece.
func (e EngineCommander) Rotate() (bool, error) {
	return e.Engine.TryRotate(), nil
}
