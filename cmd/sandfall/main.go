// sandfall is a falling-sand block puzzle for the terminal: pieces lock into
// sand that flows, and same-colored sand clears when it spans the playfield.
//
// Usage:
//
//	sandfall play [mode]     - Play a mode directly (endless, timed, clear40)
//	sandfall menu            - Pick mode and difficulty interactively
//	sandfall list            - List available modes
//	sandfall serve           - Start SSH server for remote play
//	sandfall scores [mode]   - Show recorded results for a mode
//
// Global flags:
//
//	--fps <rate>    - Set frame rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.sandfall/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register its mode variants
	_ "github.com/sandfall/sandfall/internal/games/sandfall"
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
	Use:   "sandfall",
	Short: "Sandfall - a falling-sand block puzzle in your terminal",
	Long: `Sandfall is a terminal puzzle where falling blocks dissolve into sand.
Sand of one color clears when it connects the left wall to the right wall.

Available commands:
  play     - Play a mode directly
  menu     - Interactive mode picker
  list     - Show all available modes
  serve    - Start SSH server for remote play
  scores   - View recorded results

Examples:
  sandfall play
  sandfall play timed --difficulty hard
  sandfall menu
  sandfall serve --ssh :2222
  sandfall scores clear40`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (simulation frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.sandfall/scores.db", "Path to results database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// resolveGameID maps a mode name (or a raw registry ID) to the registry ID.
// Returns "" for unknown modes.
func resolveGameID(mode string) string {
	switch mode {
	case "", "endless", "sandfall":
		return "sandfall"
	case "timed", "sandfall_timed":
		return "sandfall_timed"
	case "clear", "clear40", "sandfall_clear40":
		return "sandfall_clear40"
	}
	return ""
}
