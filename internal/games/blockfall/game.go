package blockfall

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// EngineConfigFrom converts a loaded YAML configuration into engine settings
// using the standard shape catalog.
func EngineConfigFrom(bc config.BlockfallConfig) (EngineConfig, error) {
	palette, err := bc.Colors()
	if err != nil {
		return EngineConfig{}, err
	}
	cfg := EngineConfig{
		Rows:      bc.Field.Rows,
		Cols:      bc.Field.Cols,
		LineBonus: bc.Scoring.LineBonus,
		Shapes:    Catalog(),
		Palette:   palette,
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Game adapts the engine to the terminal platform. The platform calls Step at
// a fixed frame rate; gravity fires every framesPerDrop frames.
type Game struct {
	preset  config.Preset
	cfg     config.BlockfallConfig
	runtime core.RuntimeConfig
	engine  *Engine
	cfgErr  error // Set when the loaded config was rejected and defaults are in use

	frame         uint64
	framesPerDrop int
	dropCounter   int
	paused        bool
	best          int // Best score this session, survives Reset

	lastCleared int // Rows cleared by the most recent lock
	flashFrames int // Frames left to show the clear banner

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a classic 20x10 blockfall game.
func New() *Game {
	return &Game{preset: config.PresetClassic}
}

// NewMini creates a blockfall game on the smaller, faster mini field.
func NewMini() *Game {
	return &Game{preset: config.PresetMini}
}

func init() {
	registry.Register("blockfall", func() registry.Game {
		return New()
	})
	registry.Register("blockfall_mini", func() registry.Game {
		return NewMini()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.preset == config.PresetMini {
		return "blockfall_mini"
	}
	return "blockfall"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.preset == config.PresetMini {
		return "Blockfall (Mini)"
	}
	return "Blockfall"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.preset == config.PresetMini {
		return "14x8 well, faster gravity"
	}
	return "Classic 20x10 well"
}

// Reset loads configuration and starts a fresh engine.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfgErr = nil

	cfg, err := config.LoadAndValidate(configPath, g.preset)
	if err != nil {
		g.cfgErr = err
		cfg = config.DefaultBlockfallConfig()
		config.ApplyPreset(&cfg, g.preset)
	}
	engineCfg, err := EngineConfigFrom(cfg)
	if err != nil {
		g.cfgErr = err
		cfg = config.DefaultBlockfallConfig()
		config.ApplyPreset(&cfg, g.preset)
		engineCfg = DefaultEngineConfig()
		engineCfg.Rows, engineCfg.Cols = cfg.Field.Rows, cfg.Field.Cols
	}
	g.cfg = cfg

	engine, err := NewEngine(engineCfg, rand.New(rand.NewSource(runtime.Seed)))
	if err != nil {
		// Defaults always validate; keep the previous engine if any.
		g.cfgErr = err
		return
	}
	g.engine = engine

	g.frame = 0
	g.dropCounter = 0
	g.paused = false
	g.lastCleared = 0
	g.flashFrames = 0
	g.framesPerDrop = FramesPerDrop(cfg.GravityInterval(), runtime.TickRate)

	g.Resize(runtime.ScreenW, runtime.ScreenH)
}

// FramesPerDrop converts a gravity interval to a frame count at the given
// frame rate. A non-positive rate is treated as 60 fps.
func FramesPerDrop(interval time.Duration, tickRate int) int {
	if tickRate <= 0 {
		tickRate = 60
	}
	return max(1, int(interval*time.Duration(tickRate)/time.Second))
}

// Resize updates the layout for a new terminal size without touching the
// game in progress.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	reqW, reqH := g.requiredSize()
	g.tooSmall = w < reqW || h < reqH
}

// Step advances the game by one platform frame.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State()}
	}
	g.frame++
	if g.flashFrames > 0 {
		g.flashFrames--
	}

	if input.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && g.engine.Status() == StatusRunning {
		g.paused = !g.paused
	}

	if g.paused || g.tooSmall || g.engine.Status() == StatusOver {
		return core.StepResult{State: g.State()}
	}

	g.applyCommands(input)

	g.dropCounter++
	if g.dropCounter >= g.framesPerDrop {
		g.dropCounter = 0
		res := g.engine.Tick()
		if res.Cleared > 0 {
			g.lastCleared = res.Cleared
			g.flashFrames = g.runtimeRate()
		}
	}

	g.best = max(g.best, g.engine.Score())
	return core.StepResult{State: g.State()}
}

// applyCommands forwards this frame's commands to the engine. Rotation is
// applied before shifts so a rotate+move on the same frame behaves like the
// two keys pressed in quick succession.
func (g *Game) applyCommands(input core.InputFrame) {
	for range input.Count(core.ActionRotate) {
		g.engine.TryRotate()
	}
	for range input.Count(core.ActionLeft) {
		g.engine.TryMove(Left)
	}
	for range input.Count(core.ActionRight) {
		g.engine.TryMove(Right)
	}
	for range input.Count(core.ActionDown) {
		g.engine.TryMove(Down)
	}
}

// restart resets the engine and the gravity clock, keeping the session best.
func (g *Game) restart() {
	g.engine.Restart()
	g.dropCounter = 0
	g.paused = false
	g.lastCleared = 0
	g.flashFrames = 0
}

func (g *Game) runtimeRate() int {
	if g.runtime.TickRate <= 0 {
		return 60
	}
	return g.runtime.TickRate
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.engine.Score(),
		Lines:    g.engine.Lines(),
		Pieces:   g.engine.Pieces(),
		GameOver: g.engine.Status() == StatusOver,
		Paused:   g.paused,
	}
}

// Snapshot returns the engine snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	return g.engine.Snapshot()
}

// Best returns the best score seen since the game was created.
func (g *Game) Best() int {
	return g.best
}

// SetBest raises the displayed best score, e.g. from stored results.
func (g *Game) SetBest(score int) {
	g.best = max(g.best, score)
}

// ConfigError returns the error that caused defaults to be used, if any.
func (g *Game) ConfigError() error {
	if g.cfgErr == nil {
		return nil
	}
	return fmt.Errorf("blockfall: using defaults: %w", g.cfgErr)
}
