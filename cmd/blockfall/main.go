// blockfall is a falling-block puzzle for the terminal.
//
// Usage:
//
//	blockfall list               - List available variants
//	blockfall play [variant]     - Play a variant
//	blockfall menu               - Pick a variant interactively
//	blockfall serve              - Start SSH server for remote play
//	blockfall scores <variant>   - Show high scores for a variant
//	blockfall autoplay           - Let the bot play a headless game
//
// Global flags:
//
//	--fps <rate>    - Set frame rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.blockfall/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/blockfall"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle in your terminal",
	Long: `Blockfall drops pieces into a well. Fill a row to clear it;
the game ends when a locked piece reaches the top row.

Available commands:
  list      - Show all variants
  play      - Play a variant directly
  menu      - Interactive variant picker
  serve     - Start SSH server for remote play
  scores    - View high scores
  autoplay  - Watch the bot play without a UI

Examples:
  blockfall play
  blockfall play blockfall_mini
  blockfall menu
  blockfall serve --ssh :2222
  blockfall autoplay --pieces 200 --seed 42`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// variantFor maps a preset to the registered variant ID.
func variantFor(p config.Preset) string {
	if p == config.PresetMini {
		return "blockfall_mini"
	}
	return "blockfall"
}

// presetFor maps a registered variant ID back to its preset.
func presetFor(gameID string) config.Preset {
	if gameID == "blockfall_mini" {
		return config.PresetMini
	}
	return config.PresetClassic
}
