// Package loop drives a blockfall engine in real time. A single executor
// goroutine owns the engine: gravity ticks and player commands are both
// funneled through it, so no two mutations ever overlap.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
)

var (
	// ErrStopped is returned by commands issued after Run has returned.
	ErrStopped = errors.New("loop: driver stopped")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("loop: driver already running")
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger for lock, clear, game over and clock events.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTicker replaces the time-based ticker factory.
func WithTicker(f TickerFunc) Option {
	return func(d *Driver) {
		if f != nil {
			d.newTicker = f
		}
	}
}

// Driver serializes gravity and commands for one engine.
type Driver struct {
	engine    *blockfall.Engine
	interval  time.Duration
	newTicker TickerFunc
	logger    *log.Logger

	cmds    chan func()
	updates chan blockfall.Snapshot
	done    chan struct{}
	started atomic.Bool

	// Owned by the executor goroutine.
	ticker Ticker
	tickC  <-chan time.Time
}

// New creates a driver for engine with the given gravity interval. The clock
// is stopped until Start is called.
func New(engine *blockfall.Engine, interval time.Duration, opts ...Option) (*Driver, error) {
	if engine == nil {
		return nil, errors.New("loop: engine is nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("loop: gravity interval must be positive, got %v", interval)
	}
	d := &Driver{
		engine:    engine,
		interval:  interval,
		newTicker: NewTimeTicker,
		logger:    log.New(io.Discard),
		cmds:      make(chan func()),
		updates:   make(chan blockfall.Snapshot, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes ticks and commands until ctx is canceled. It must be called
// exactly once; commands block until it is running.
func (d *Driver) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(d.done)
	defer d.stopClock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.tickC:
			d.tick()
		case cmd := <-d.cmds:
			cmd()
		}
	}
}

// Updates delivers the latest snapshot after every state change. Only the
// most recent snapshot is kept; a slow reader skips intermediate states.
func (d *Driver) Updates() <-chan blockfall.Snapshot {
	return d.updates
}

// Start starts the gravity clock. It is a no-op when the clock is running
// or the game is over.
func (d *Driver) Start() error {
	return d.do(func() {
		if d.ticker != nil || d.engine.Status() == blockfall.StatusOver {
			return
		}
		d.startClock()
	})
}

// Stop stops the gravity clock. No tick is applied after Stop returns.
func (d *Driver) Stop() error {
	return d.do(d.stopClock)
}

// Running reports whether the gravity clock is running.
func (d *Driver) Running() bool {
	var running bool
	if err := d.do(func() { running = d.ticker != nil }); err != nil {
		return false
	}
	return running
}

// Move shifts the active piece. The bool reports whether it moved.
func (d *Driver) Move(dir blockfall.Direction) (bool, error) {
	var moved bool
	err := d.do(func() {
		moved = d.engine.TryMove(dir)
		if moved {
			d.publish()
		}
	})
	return moved, err
}

// Rotate rotates the active piece. The bool reports whether it rotated.
func (d *Driver) Rotate() (bool, error) {
	var rotated bool
	err := d.do(func() {
		rotated = d.engine.TryRotate()
		if rotated {
			d.publish()
		}
	})
	return rotated, err
}

// Restart resets the engine and starts a fresh clock. A tick already pending
// on the previous clock is discarded with it.
func (d *Driver) Restart() error {
	return d.do(func() {
		d.stopClock()
		d.engine.Restart()
		d.logger.Info("game restarted")
		d.startClock()
		d.publish()
	})
}

// Snapshot returns the current engine state.
func (d *Driver) Snapshot() (blockfall.Snapshot, error) {
	var snap blockfall.Snapshot
	err := d.do(func() { snap = d.engine.Snapshot() })
	return snap, err
}

// do runs fn on the executor and waits for it to finish.
func (d *Driver) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case d.cmds <- func() {
		defer close(finished)
		fn()
	}:
	case <-d.done:
		return ErrStopped
	}
	<-finished
	return nil
}

func (d *Driver) tick() {
	res := d.engine.Tick()
	if res.Locked {
		d.logger.Debug("piece locked", "cleared", res.Cleared, "score", d.engine.Score())
	}
	if res.Cleared > 0 {
		d.logger.Info("rows cleared", "rows", res.Cleared, "lines", d.engine.Lines())
	}
	if res.GameOver {
		d.stopClock()
		d.logger.Info("game over", "score", d.engine.Score(), "lines", d.engine.Lines(), "pieces", d.engine.Pieces())
	}
	d.publish()
}

func (d *Driver) startClock() {
	d.ticker = d.newTicker(d.interval)
	d.tickC = d.ticker.C()
	d.logger.Debug("clock started", "interval", d.interval)
}

func (d *Driver) stopClock() {
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	d.ticker = nil
	d.tickC = nil
	d.logger.Debug("clock stopped")
}

// publish replaces any unread snapshot with the current one.
func (d *Driver) publish() {
	snap := d.engine.Snapshot()
	select {
	case <-d.updates:
	default:
	}
	select {
	case d.updates <- snap:
	default:
	}
}
