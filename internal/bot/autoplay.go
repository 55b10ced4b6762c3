package bot

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
)

// Driver is a running game the bot can watch and steer. *loop.Driver
// satisfies it.
type Driver interface {
	Commander
	Start() error
	Stop() error
	Updates() <-chan blockfall.Snapshot
}

// Autoplay plays until the game ends, maxPieces pieces have locked (zero
// means no limit), or ctx is canceled. It plans once per piece, from the
// first snapshot that shows it, and returns the last snapshot seen. When the
// limit is reached the snapshot reports maxPieces and no falling piece.
func (p *Planner) Autoplay(ctx context.Context, d Driver, maxPieces int, logger *log.Logger) (blockfall.Snapshot, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var last blockfall.Snapshot
	if err := d.Start(); err != nil {
		return last, err
	}

	planned := 0
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case snap := <-d.Updates():
			last = snap
		}

		if maxPieces > 0 && last.Pieces > maxPieces {
			// The piece that just spawned is never played.
			last.Pieces = maxPieces
			last.Piece = nil
			return last, d.Stop()
		}
		if last.Status == blockfall.StatusOver {
			return last, nil
		}
		if last.Piece == nil || last.Pieces == planned {
			continue
		}
		planned = last.Pieces

		field, err := last.LockedField()
		if err != nil {
			return last, err
		}
		pl, ok := p.Plan(field, *last.Piece)
		if !ok {
			logger.Debug("no placement", "piece", last.Pieces, "kind", last.Piece.Shape.Kind())
			continue
		}

		applied, err := Apply(d, pl, last.Piece.Col)
		if err != nil {
			return last, err
		}
		if !applied {
			// Gravity got there first; the next piece gets a fresh plan.
			logger.Debug("placement interrupted", "piece", last.Pieces)
			continue
		}
		logger.Debug("placed",
			"piece", last.Pieces,
			"kind", pl.Shape.Kind(),
			"col", pl.Col,
			"rotations", pl.Rotations,
			"lines", pl.Lines,
		)
	}
}
