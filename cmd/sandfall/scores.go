package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandfall/sandfall/internal/registry"
	"github.com/sandfall/sandfall/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show recorded results for a mode",
	Long: `Display the top 10 results for the given mode (endless by default).

Examples:
  sandfall scores
  sandfall scores timed
  sandfall scores clear40
  sandfall scores --reset`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "reset", false, "Delete all recorded results for the mode")
}

func runScores(cmd *cobra.Command, args []string) {
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

	// Get mode title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearResults(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all results for %s.\n", title)
		return
	}

	results, err := store.TopResults(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'sandfall play %s' to set the first high score!\n", modeArg(gameID))
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-4s  %-7s  %-6s  %s\n",
		"Rank", "Score", "Lines", "Lvl", "Diff", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-4s  %-7s  %-6s  %s\n",
		"----", "-----", "-----", "---", "----", "----", "----")

	for i, r := range results {
		fmt.Printf("  %-4d  %-8d  %-6d  %-4d  %-7s  %-6s  %s\n",
			i+1, r.Score, r.Lines, r.Level, r.Difficulty,
			formatSecs(r.DurationSecs), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.StatsFor(gameID); err == nil && stats != nil {
		fmt.Printf("Games: %d  Best: %d  Avg: %.0f  Total lines: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.TotalLines)
	}

	// Clear mode is a race: the best time matters more than the best score.
	if gameID == "sandfall_clear40" {
		if best, err := store.BestClearTime(gameID, 40); err == nil && best > 0 {
			fmt.Printf("Fastest 40 lines: %s\n", formatSecs(best))
		}
	}
}

// formatSecs renders seconds as m:ss, or a dash for zero.
func formatSecs(secs int) string {
	if secs <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// modeArg maps a registry ID back to the short mode name used on the CLI.
func modeArg(gameID string) string {
	switch gameID {
	case "sandfall_timed":
		return "timed"
	case "sandfall_clear40":
		return "clear40"
	}
	return "endless"
}
