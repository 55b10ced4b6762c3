package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagConfig string
	flagPreset string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the given variant (default: blockfall).

Controls:
  Left/Right/A/D   - Move
  Down/S           - Soft drop
  Up/W/Space/X     - Rotate
  P                - Pause
  R                - Restart
  Esc              - Leave (while paused or after game over)
  Q/Ctrl+C         - Quit

Presets:
  classic  - 20x10 well
  mini     - 14x8 well, faster gravity

Examples:
  blockfall play
  blockfall play blockfall_mini
  blockfall play --preset mini
  blockfall play --config ./my-blockfall.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom blockfall config YAML")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Field preset: classic, mini")
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom blockfall config YAML")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom blockfall config YAML")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID, err := resolveVariant(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available variants.")
		os.Exit(1)
	}

	// A bad config should fail here, not silently fall back in-game
	if err := checkConfig(flagConfig, presetFor(gameID)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	blockfall.SetConfigPath(flagConfig)

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	_, runErr := tui.Run(game, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// resolveVariant picks the variant from the argument, or from --preset when
// no argument is given.
func resolveVariant(args []string) (string, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return variantFor(preset), nil
	}
	if flagPreset != "" && variantFor(preset) != args[0] {
		return "", fmt.Errorf("--preset %s conflicts with variant %q", preset, args[0])
	}
	return args[0], nil
}

// checkConfig loads and validates the configuration a variant would use.
func checkConfig(path string, preset config.Preset) error {
	cfg, err := config.LoadAndValidate(path, preset)
	if err != nil {
		return err
	}
	_, err = blockfall.EngineConfigFrom(cfg)
	return err
}

// checkVariantConfigs checks the configuration every registered variant
// would load. All variants read the same file, each with its own preset.
func checkVariantConfigs(path string) error {
	for _, g := range registry.List() {
		if err := checkConfig(path, presetFor(g.ID)); err != nil {
			return fmt.Errorf("%s: %w", g.ID, err)
		}
	}
	return nil
}

// runtimeConfig builds the platform config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
