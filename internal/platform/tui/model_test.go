package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// stubGame is a scripted game: tests set its state directly.
type stubGame struct {
	state   core.GameState
	resets  int
	resized [2]int
	best    int
	cfgErr  error
}

func (g *stubGame) ID() string            { return "tui_stub" }
func (g *stubGame) Title() string         { return "Stub" }
func (g *stubGame) State() core.GameState { return g.state }
func (g *stubGame) Resize(w, h int)       { g.resized = [2]int{w, h} }
func (g *stubGame) SetBest(score int)     { g.best = max(g.best, score) }
func (g *stubGame) ConfigError() error    { return g.cfgErr }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{}
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.state = core.GameState{}
	}
	if in.Has(core.ActionPause) && !g.state.GameOver {
		g.state.Paused = !g.state.Paused
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func init() {
	registry.Register("tui_stub", func() registry.Game { return &stubGame{} })
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestGameOverSavesResultOnce(t *testing.T) {
	store := openStore(t)
	g := &stubGame{}
	m := NewModel(g, store, testConfig()).WithPlayer("ana")

	g.state = core.GameState{Score: 300, Lines: 3, Pieces: 12, GameOver: true}
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	results, err := store.TopScores("tui_stub", 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 saved result, got %d", len(results))
	}
	r := results[0]
	if r.Player != "ana" || r.Score != 300 || r.Lines != 3 || r.Pieces != 12 {
		t.Errorf("unexpected result %+v", r)
	}
	if r.RunID != m.RunID() {
		t.Errorf("RunID = %s, expected %s", r.RunID, m.RunID())
	}
}

func TestEmptyRunNotSaved(t *testing.T) {
	store := openStore(t)
	g := &stubGame{}
	m := NewModel(g, store, testConfig())

	g.state = core.GameState{GameOver: true}
	update(t, m, TickMsg{})

	results, err := store.TopScores("tui_stub", 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRestartStartsNewRun(t *testing.T) {
	store := openStore(t)
	g := &stubGame{}
	m := NewModel(g, store, testConfig())

	g.state = core.GameState{Score: 100, Lines: 1, Pieces: 5, GameOver: true}
	m = update(t, m, TickMsg{})
	first := m.RunID()

	m = update(t, m, runeKey('r'))
	m = update(t, m, TickMsg{})
	if m.RunID() == first {
		t.Error("restart should assign a new run ID")
	}

	g.state = core.GameState{Score: 200, Lines: 2, Pieces: 9, GameOver: true}
	update(t, m, TickMsg{})

	results, err := store.TopScores("tui_stub", 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after restart, got %d", len(results))
	}
}

func TestResizeKeepsGame(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())

	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if g.resets != 0 {
		t.Errorf("Reset called %d times on resize", g.resets)
	}
	if g.resized != [2]int{100, 29} {
		t.Errorf("Resize got %v, expected [100 29] (one row for help)", g.resized)
	}
}

func TestBackOnlyWhenStopped(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())

	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("Back should be ignored while the game runs")
	}

	m = update(t, m, TickMsg{}) // consumes the ignored Back
	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg{})
	if !m.gameState.Paused {
		t.Fatal("expected paused state")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Back while paused should return to the menu")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&stubGame{}, nil, testConfig())
	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("quit should return a command")
	}
}

func TestInitSeedsBestFromStore(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveResult(storage.Result{GameID: "tui_stub", Score: 900, Pieces: 30}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	g := &stubGame{}
	NewModel(g, store, testConfig()).Init()
	if g.best != 900 {
		t.Errorf("best = %d, expected 900", g.best)
	}
}

func TestViewHasHelpLine(t *testing.T) {
	m := NewModel(&stubGame{}, nil, testConfig())
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "stub") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[23], "quit") {
		t.Errorf("help line = %q", lines[23])
	}
}

func TestSessionMenuGameMenu(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "bob")

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if s.game == nil {
		t.Fatal("Enter should start the selected game")
	}
	if s.game.player != "bob" {
		t.Errorf("player = %q, expected bob", s.game.player)
	}

	step(runeKey('p'))
	step(TickMsg{})
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if s.game != nil {
		t.Fatal("Esc while paused should return to the menu")
	}
	if !strings.Contains(s.View(), "Select a well") {
		t.Error("expected menu view after leaving the game")
	}
}

func TestSessionScoreboard(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "bob")

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.board == nil {
		t.Fatal("Tab should open the scoreboard")
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.board != nil {
		t.Error("Esc should close the scoreboard")
	}
	if s.quitting {
		t.Error("closing the scoreboard should not end the session")
	}
}

func TestViewShowsConfigError(t *testing.T) {
	g := &stubGame{cfgErr: errors.New("blockfall: using defaults: bad line_bonus")}
	m := NewModel(g, nil, testConfig())

	lines := strings.Split(m.View(), "\n")
	if status := lines[len(lines)-1]; !strings.Contains(status, "using defaults") {
		t.Errorf("status line = %q, expected the config error", status)
	}

	g.cfgErr = nil
	lines = strings.Split(m.View(), "\n")
	if status := lines[len(lines)-1]; !strings.Contains(status, "quit") {
		t.Errorf("status line = %q, expected key help", status)
	}
}
