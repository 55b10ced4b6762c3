package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/bot"
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/loop"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagAutoVariant  string
	flagAutoInterval time.Duration
	flagAutoPieces   int
	flagAutoVerbose  bool
	flagAutoSave     bool
	flagAutoConfig   string
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let the bot play a headless game",
	Long: `Run a game with no UI while the greedy bot plays it.

Gravity runs on a real clock; the bot plans each new piece and steers it
through the same commands a player would use. Progress is logged to stderr,
the final field is printed to stdout.

Examples:
  blockfall autoplay
  blockfall autoplay --seed 42 --pieces 500
  blockfall autoplay --variant blockfall_mini --interval 10ms --verbose`,
	Args: cobra.NoArgs,
	RunE: runAutoplay,
}

func init() {
	autoplayCmd.Flags().StringVar(&flagAutoVariant, "variant", "blockfall", "Variant to play")
	autoplayCmd.Flags().DurationVar(&flagAutoInterval, "interval", 50*time.Millisecond, "Gravity interval (0 = configured interval)")
	autoplayCmd.Flags().IntVar(&flagAutoPieces, "pieces", 0, "Stop after this many pieces (0 = play until game over)")
	autoplayCmd.Flags().BoolVar(&flagAutoVerbose, "verbose", false, "Log every placement")
	autoplayCmd.Flags().BoolVar(&flagAutoSave, "save", true, "Save the result to the scores database")
	autoplayCmd.Flags().StringVar(&flagAutoConfig, "config", "", "Path to custom blockfall config YAML")
}

func runAutoplay(cmd *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "autoplay",
	})
	if flagAutoVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	preset := presetFor(flagAutoVariant)
	if variantFor(preset) != flagAutoVariant {
		return fmt.Errorf("unknown variant %q", flagAutoVariant)
	}

	cfg, err := config.LoadAndValidate(flagAutoConfig, preset)
	if err != nil {
		return err
	}
	engineCfg, err := blockfall.EngineConfigFrom(cfg)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := blockfall.NewEngine(engineCfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	interval := flagAutoInterval
	if interval <= 0 {
		interval = cfg.GravityInterval()
	}

	driver, err := loop.New(engine, interval, loop.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancelRun := context.WithCancel(ctx)
	runDone := make(chan error, 1)
	go func() { runDone <- driver.Run(runCtx) }()

	logger.Info("starting", "variant", flagAutoVariant, "seed", seed, "interval", interval,
		"field", fmt.Sprintf("%dx%d", engineCfg.Rows, engineCfg.Cols))

	started := time.Now()
	last, playErr := bot.New(bot.DefaultWeights).Autoplay(ctx, driver, flagAutoPieces, logger)
	elapsed := time.Since(started)

	cancelRun()
	<-runDone

	if playErr != nil && !errors.Is(playErr, context.Canceled) {
		return playErr
	}

	fmt.Println(last.String())
	fmt.Printf("\nScore: %d  Lines: %d  Pieces: %d  Ticks: %d  Status: %s  Time: %s\n",
		last.Score, last.Lines, last.Pieces, last.Tick, last.Status, elapsed.Round(time.Millisecond))

	if flagAutoSave {
		saveAutoplay(logger, last, elapsed)
	}
	return nil
}

// saveAutoplay records the run as player "bot". Failures are logged only.
func saveAutoplay(logger *log.Logger, last blockfall.Snapshot, elapsed time.Duration) {
	if last.Pieces == 0 {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return
	}
	defer store.Close()

	res, err := store.SaveResult(storage.Result{
		RunID:    uuid.New(),
		GameID:   flagAutoVariant,
		Player:   "bot",
		Score:    last.Score,
		Lines:    last.Lines,
		Pieces:   last.Pieces,
		Duration: elapsed,
	})
	if err != nil {
		logger.Warn("could not save result", "error", err)
		return
	}
	logger.Info("result saved", "run", res.RunID)
}
