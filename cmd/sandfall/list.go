package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandfall/sandfall/internal/registry"
	"github.com/sandfall/sandfall/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows all registered mode variants and how often each has been played.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	// Played counts are optional flavor; a missing database is fine.
	var allStats map[string]*storage.Stats
	if store, err := storage.Open(flagDBPath); err == nil {
		allStats, _ = store.AllStats()
		store.Close()
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-22s  %s\n", maxIDLen, "ID", "Title", "Played")
	fmt.Printf("  %-*s  %-22s  %s\n", maxIDLen, "--", "-----", "------")

	for _, g := range games {
		played := 0
		if st, ok := allStats[g.ID]; ok {
			played = st.GamesCount
		}
		fmt.Printf("  %-*s  %-22s  %d\n", maxIDLen, g.ID, g.Title, played)
	}

	fmt.Println()
	fmt.Println("Run 'sandfall play <mode>' to play.")
}
