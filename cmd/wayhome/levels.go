package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long:  `Shows the built-in levels, or those found under --levels.`,
	Run:   runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	levels, err := levelLoader().LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %-7s  %-5s  %-8s  %s\n", maxIDLen, "ID", "Size", "Moves", "Essences", "Name")
	fmt.Printf("  %-*s  %-7s  %-5s  %-8s  %s\n", maxIDLen, "--", "----", "-----", "--------", "----")

	for _, l := range levels {
		size := fmt.Sprintf("%dx%d", l.Width, l.Height)
		fmt.Printf("  %-*s  %-7s  %-5d  %-8d  %s\n", maxIDLen, l.ID, size, l.Moves, len(l.Essences), l.Name)
	}

	fmt.Println()
	fmt.Println("Run 'wayhome play <id>' to play a level.")
}
