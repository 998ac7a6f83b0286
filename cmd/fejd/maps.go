package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fejd/internal/registry"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all built-in maps",
	Long: `Shows the maps registered in fejd. Any command that takes --map also
accepts the path of a map YAML file.`,
	Args: cobra.NoArgs,
	Run:  runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	list := registry.List()

	if len(list) == 0 {
		fmt.Println("No maps available.")
		return
	}

	fmt.Println("Available maps:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, m := range list {
		maxNameLen = max(maxNameLen, len(m.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-9s  %-7s  %s\n", maxNameLen, "Name", "Size", "Players", "Title")
	fmt.Printf("  %-*s  %-9s  %-7s  %s\n", maxNameLen, "----", "----", "-------", "-----")

	for _, m := range list {
		size := fmt.Sprintf("%dx%d", m.Width, m.Height)
		fmt.Printf("  %-*s  %-9s  %-7d  %s\n", maxNameLen, m.Name, size, m.MaxPlayers, m.Title)
	}

	fmt.Println()
	fmt.Println("Run 'fejd play --map <name>' to play on a map.")
}
