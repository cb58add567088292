package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandfall/sandfall/internal/config"
	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/games/sandfall"
	"github.com/sandfall/sandfall/internal/platform/tui"
	"github.com/sandfall/sandfall/internal/registry"
	"github.com/sandfall/sandfall/internal/storage"
)

var (
	flagConfig       string
	flagDifficulty   string
	flagWidth        int
	flagHeight       int
	flagTimeLimit    int
	flagClearLines   int
	flagSpawnDelay   int
	flagInitialLevel int
	flagRelaxed      bool
	flagHighColor    bool
	flagNoAnimation  bool
	flagPalette      string
	flagAutoplay     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode: endless (default), timed, or clear40.

Controls:
  Left/Right or h/l  - Move piece
  Up/k/i             - Rotate clockwise
  u                  - Rotate counter-clockwise
  Down/j             - Soft drop
  Enter/Space        - Hard drop
  P                  - Pause
  R                  - Restart (after game over)
  Q/Ctrl+C           - Quit

Examples:
  sandfall play
  sandfall play timed --time-limit 120
  sandfall play clear40 --difficulty hard
  sandfall play --autoplay
  sandfall play --config ./my-sandfall.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	registerGameFlags(playCmd)
}

// registerGameFlags adds the shared gameplay flags to a command.
func registerGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, medium, hard")
	cmd.Flags().IntVar(&flagWidth, "width", 0, "Playfield width in block-cells")
	cmd.Flags().IntVar(&flagHeight, "height", 0, "Playfield height in block-cells")
	cmd.Flags().IntVar(&flagTimeLimit, "time-limit", 0, "Timed mode length in seconds")
	cmd.Flags().IntVar(&flagClearLines, "clear-lines", 0, "Clear mode line target")
	cmd.Flags().IntVar(&flagSpawnDelay, "spawn-delay", 0, "Spawn delay in milliseconds")
	cmd.Flags().IntVar(&flagInitialLevel, "initial-level", 0, "Starting level")
	cmd.Flags().BoolVar(&flagRelaxed, "relaxed", false, "Disable gravity speed-up per level")
	cmd.Flags().BoolVar(&flagHighColor, "high-color", false, "Use six sand colors instead of four")
	cmd.Flags().BoolVar(&flagNoAnimation, "no-animation", false, "Clear spanning sand instantly")
	cmd.Flags().StringVar(&flagPalette, "palette", "", "Color palette: normal, high-contrast, colorblind")
	cmd.Flags().BoolVar(&flagAutoplay, "autoplay", false, "Let the built-in bot play")
}

// applyGameSettings loads the YAML config, layers the CLI flags on top, and
// pushes everything into the game and the renderer. Returns the merged config.
func applyGameSettings(cmd *cobra.Command) (config.SandfallConfig, error) {
	cfg, err := config.LoadSandfall(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("difficulty") {
		cfg.Rules.Difficulty = flagDifficulty
	}
	if flags.Changed("width") {
		cfg.Board.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Board.Height = flagHeight
	}
	if flags.Changed("time-limit") {
		cfg.Rules.TimeLimitSecs = flagTimeLimit
	}
	if flags.Changed("clear-lines") {
		cfg.Rules.ClearLines = flagClearLines
	}
	if flags.Changed("spawn-delay") {
		cfg.Rules.SpawnDelayMs = flagSpawnDelay
	}
	if flags.Changed("initial-level") {
		cfg.Rules.InitialLevel = flagInitialLevel
	}
	if flags.Changed("relaxed") {
		cfg.Rules.Relaxed = flagRelaxed
	}
	if flags.Changed("high-color") {
		cfg.Rules.HighColor = flagHighColor
	}
	if flags.Changed("no-animation") {
		cfg.Visual.NoAnimation = flagNoAnimation
	}
	if flags.Changed("palette") {
		cfg.Visual.Palette = flagPalette
	}

	if cfg.Visual.Palette != "" && !config.ValidPalette(cfg.Visual.Palette) {
		return cfg, fmt.Errorf("unknown palette %q (want normal, high-contrast, or colorblind)", cfg.Visual.Palette)
	}

	sandfall.SetBoardSize(cfg.Board.Width, cfg.Board.Height)
	sandfall.SetDifficultyPreset(cfg.Rules.Difficulty)
	sandfall.SetTimeLimit(cfg.Rules.TimeLimitSecs)
	sandfall.SetClearTarget(cfg.Rules.ClearLines)
	sandfall.SetSpawnDelay(cfg.Rules.SpawnDelayMs)
	sandfall.SetInitialLevel(cfg.Rules.InitialLevel)
	sandfall.SetRelaxed(cfg.Rules.Relaxed)
	sandfall.SetHighColor(cfg.Rules.HighColor)
	sandfall.SetNoAnimation(cfg.Visual.NoAnimation)
	sandfall.SetAutoplay(flagAutoplay)
	sandfall.SetRepeatTiming(cfg.Input.RepeatDelayMs, cfg.Input.RepeatIntervalMs)
	tui.SetPalette(cfg.Visual.Palette)

	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}

	gameID := resolveGameID(mode)
	if gameID == "" {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'sandfall list' to see available modes.")
		os.Exit(1)
	}

	if _, err := applyGameSettings(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Start from the defaults, then size to the real terminal
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open results storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
