package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
)

type manualTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// fire delivers one tick, failing if the executor is not listening.
func (m *manualTicker) fire(t *testing.T) {
	t.Helper()
	select {
	case m.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("tick was not consumed")
	}
}

// tryFire delivers a tick only if the executor is listening right now.
func (m *manualTicker) tryFire() bool {
	select {
	case m.ch <- time.Now():
		return true
	case <-time.After(20 * time.Millisecond):
		return false
	}
}

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *tickerFactory) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *tickerFactory) last() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func squareEngine(t *testing.T, rows, cols int) *blockfall.Engine {
	t.Helper()
	o, err := blockfall.NewShape(blockfall.KindO, [][]bool{{true, true}, {true, true}})
	if err != nil {
		t.Fatalf("NewShape failed: %v", err)
	}
	e, err := blockfall.NewEngine(blockfall.EngineConfig{
		Rows:      rows,
		Cols:      cols,
		LineBonus: blockfall.DefaultLineBonus,
		Shapes:    []blockfall.Shape{o},
		Palette:   []core.Color{core.ColorRed},
	}, blockfall.NewSequenceRand(0))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

// startDriver runs a driver until the test ends.
func startDriver(t *testing.T, e *blockfall.Engine) (*Driver, *tickerFactory) {
	t.Helper()
	factory := &tickerFactory{}
	d, err := New(e, 100*time.Millisecond, WithTicker(factory.New))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return d, factory
}

func snapshot(t *testing.T, d *Driver) blockfall.Snapshot {
	t.Helper()
	snap, err := d.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	return snap
}

func mustStart(t *testing.T, d *Driver) {
	t.Helper()
	if err := d.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(nil, time.Second); err == nil {
		t.Error("New should reject a nil engine")
	}
	if _, err := New(squareEngine(t, 4, 4), 0); err == nil {
		t.Error("New should reject a zero interval")
	}
}

func TestNoTicksBeforeStart(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))

	if d.Running() {
		t.Error("driver should not run before Start")
	}
	if factory.count() != 0 {
		t.Errorf("%d clocks created before Start", factory.count())
	}

	snap := snapshot(t, d)
	if snap.Tick != 0 {
		t.Errorf("Tick = %d, expected 0", snap.Tick)
	}
	if snap.Phase != blockfall.PhaseNoActivePiece {
		t.Errorf("Phase = %v, expected no active piece", snap.Phase)
	}
}

func TestStartIsGuarded(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))

	mustStart(t, d)
	mustStart(t, d)
	if !d.Running() {
		t.Error("driver should be running")
	}
	if factory.count() != 1 {
		t.Errorf("%d clocks created, a second Start must not create another", factory.count())
	}
}

func TestTickAdvancesEngine(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))
	mustStart(t, d)

	factory.last().fire(t)
	factory.last().fire(t)

	snap := snapshot(t, d)
	if snap.Tick != 2 {
		t.Errorf("Tick = %d, expected 2", snap.Tick)
	}
	if snap.Piece == nil {
		t.Fatal("expected a falling piece")
	}
	if snap.Piece.Row != 2 {
		t.Errorf("piece row = %d, expected 2", snap.Piece.Row)
	}
}

func TestStopDetachesClock(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))
	mustStart(t, d)
	ticker := factory.last()
	ticker.fire(t)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !ticker.isStopped() {
		t.Error("Stop should stop the clock")
	}
	if d.Running() {
		t.Error("driver should not run after Stop")
	}
	if ticker.tryFire() {
		t.Error("no tick may be consumed after Stop returns")
	}

	if snap := snapshot(t, d); snap.Tick != 1 {
		t.Errorf("Tick = %d, expected 1", snap.Tick)
	}

	// Stopping twice is harmless.
	if err := d.Stop(); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestCommands(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))

	moved, err := d.Move(blockfall.Left)
	if err != nil || moved {
		t.Errorf("Move with no piece = %v, %v; expected false, nil", moved, err)
	}

	mustStart(t, d)
	factory.last().fire(t)

	moved, err = d.Move(blockfall.Left)
	if err != nil || !moved {
		t.Errorf("Move = %v, %v; expected true, nil", moved, err)
	}

	rotated, err := d.Rotate()
	if err != nil || !rotated {
		t.Errorf("Rotate = %v, %v; expected true, nil", rotated, err)
	}

	snap := snapshot(t, d)
	if snap.Piece == nil {
		t.Fatal("expected a falling piece")
	}
	if snap.Piece.Col != 3 {
		t.Errorf("piece col = %d, expected 3", snap.Piece.Col)
	}
}

func TestGameOverStopsClock(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 4, 4))
	mustStart(t, d)
	ticker := factory.last()

	for range 4 {
		ticker.fire(t)
	}

	if snap := snapshot(t, d); snap.Status != blockfall.StatusOver {
		t.Fatalf("Status = %s, expected over", snap.Status)
	}
	if d.Running() {
		t.Error("driver should not run after game over")
	}
	if !ticker.isStopped() {
		t.Error("game over should stop the clock")
	}

	// Start does not revive a finished game.
	mustStart(t, d)
	if d.Running() {
		t.Error("Start should not revive a finished game")
	}
	if factory.count() != 1 {
		t.Errorf("%d clocks created, expected 1", factory.count())
	}
}

func TestRestartUsesFreshClock(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 4, 4))
	mustStart(t, d)
	old := factory.last()
	for range 4 {
		old.fire(t)
	}

	if err := d.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if factory.count() != 2 {
		t.Errorf("%d clocks created, expected 2", factory.count())
	}
	if !d.Running() {
		t.Error("driver should run after Restart")
	}
	if !old.isStopped() {
		t.Error("the old clock should be stopped")
	}
	if old.tryFire() {
		t.Error("the old clock must be detached")
	}

	snap := snapshot(t, d)
	if snap.Status != blockfall.StatusRunning || snap.Phase != blockfall.PhaseNoActivePiece {
		t.Errorf("after Restart: status %s phase %v", snap.Status, snap.Phase)
	}
	if snap.Score != 0 || snap.Tick != 0 {
		t.Errorf("after Restart: score %d tick %d, expected zeros", snap.Score, snap.Tick)
	}

	factory.last().fire(t)
	if snap := snapshot(t, d); snap.Tick != 1 {
		t.Errorf("Tick = %d, expected 1", snap.Tick)
	}
}

func TestUpdatesKeepLatest(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))
	mustStart(t, d)

	for range 3 {
		factory.last().fire(t)
	}
	// Synchronize with the executor before reading.
	snapshot(t, d)

	select {
	case snap := <-d.Updates():
		if snap.Tick != 3 {
			t.Errorf("update Tick = %d, expected 3", snap.Tick)
		}
	default:
		t.Fatal("expected a pending update")
	}

	select {
	case snap := <-d.Updates():
		t.Fatalf("unexpected second update: tick %d", snap.Tick)
	default:
	}
}

func TestCommandsAfterRunExit(t *testing.T) {
	d, err := New(squareEngine(t, 20, 10), time.Second, WithTicker((&tickerFactory{}).New))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()
	mustStart(t, d)
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, expected context.Canceled", err)
	}

	if _, err := d.Move(blockfall.Right); !errors.Is(err, ErrStopped) {
		t.Errorf("Move err = %v, expected ErrStopped", err)
	}
	if _, err := d.Snapshot(); !errors.Is(err, ErrStopped) {
		t.Errorf("Snapshot err = %v, expected ErrStopped", err)
	}
	if err := d.Restart(); !errors.Is(err, ErrStopped) {
		t.Errorf("Restart err = %v, expected ErrStopped", err)
	}
	if d.Running() {
		t.Error("Running should be false after Run exits")
	}

	if err := d.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run err = %v, expected ErrAlreadyRunning", err)
	}
}

func TestConcurrentCommandsAreSerialized(t *testing.T) {
	d, factory := startDriver(t, squareEngine(t, 20, 10))
	mustStart(t, d)
	factory.last().fire(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				dir := blockfall.Left
				if i%2 == 0 {
					dir = blockfall.Right
				}
				if _, err := d.Move(dir); err != nil {
					t.Errorf("Move failed: %v", err)
				}
				if _, err := d.Rotate(); err != nil {
					t.Errorf("Rotate failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	snap := snapshot(t, d)
	if snap.Piece == nil {
		t.Fatal("expected a falling piece")
	}
	if snap.Piece.Col < 0 || snap.Piece.Col > 8 {
		t.Errorf("piece col = %d, outside the field", snap.Piece.Col)
	}
}
