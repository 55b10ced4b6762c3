package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Model is the Bubble Tea model for running one game, locally or inside an
// SSH session.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	palette    *Palette
	config     core.RuntimeConfig
	player     string
	runID      uuid.UUID
	started    time.Time
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	quitting   bool
	backToMenu bool
	standalone bool // quit the program on Back instead of returning to a menu
	scoreSaved bool // whether the result has been saved for the current run
	saveErr    error
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		palette:    defaultPalette,
		config:     cfg,
		player:     localPlayer(),
		runID:      uuid.New(),
		started:    time.Now(),
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
	}
}

// WithPlayer sets the name recorded with saved results.
func (m Model) WithPlayer(name string) Model {
	m.player = name
	return m
}

// WithPalette sets the styles used to draw the screen.
func (m Model) WithPalette(p *Palette) Model {
	if p != nil {
		m.palette = p
	}
	return m
}

// gameHeight leaves the bottom line for key help.
func gameHeight(h int) int {
	return max(0, h-1)
}

func localPlayer() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "player"
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	if bk, ok := m.game.(registry.BestKeeper); ok && m.store != nil {
		if best, err := m.store.HighScore(m.game.ID()); err == nil {
			bk.SetBest(best)
		}
	}
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// gameConfig is the runtime config as the game sees it, minus the help line.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only when nothing is in motion
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
		return m, nil
	}

	// Games without resize support start over at the new size
	if !m.gameState.GameOver {
		m.game.Reset(m.gameConfig())
		m.newRun()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	restarting := m.inputFrame.Has(core.ActionRestart)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if restarting && !m.gameState.GameOver {
		m.newRun()
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveResult()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// newRun starts bookkeeping for a fresh run of the same game.
func (m *Model) newRun() {
	m.runID = uuid.New()
	m.started = time.Now()
	m.scoreSaved = false
	m.saveErr = nil
}

// saveResult records the finished run. Empty runs are not worth a row.
func (m *Model) saveResult() {
	if m.store == nil || m.gameState.Pieces == 0 {
		return
	}
	_, m.saveErr = m.store.SaveResult(storage.Result{
		RunID:    m.runID,
		GameID:   m.game.ID(),
		Player:   m.player,
		Score:    m.gameState.Score,
		Lines:    m.gameState.Lines,
		Pieces:   m.gameState.Pieces,
		Duration: time.Since(m.started),
	})
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".blockfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	status := m.help.View(m.keyMapper.Keys())
	if cr, ok := m.game.(registry.ConfigReporter); ok {
		if err := cr.ConfigError(); err != nil {
			status = err.Error()
		}
	}
	if m.saveErr != nil {
		status = "score not saved: " + m.saveErr.Error()
	}

	return m.palette.Render(m.screen) + "\n" + m.palette.Dim(status)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// RunID identifies the current run in storage.
func (m Model) RunID() uuid.UUID {
	return m.runID
}

// Run starts the Bubble Tea program with the given game. It returns when the
// player quits or asks for the menu; back reports the latter.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (back bool, err error) {
	model := NewModel(game, store, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
