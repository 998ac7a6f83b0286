package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fejd/internal/storage"
)

var (
	flagLimit  int
	flagDelete string
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show recently finished matches",
	Long: `List the most recent matches stored in the match database, with
their top scorer and whether a replay is available.

Examples:
  fejd matches
  fejd matches --limit 50
  fejd matches --delete 6f1d2c3a-...`,
	Args: cobra.NoArgs,
	Run:  runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	matchesCmd.Flags().StringVar(&flagDelete, "delete", "", "Delete the match with this ID")
}

func runMatches(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening match database: %v", err)
	}
	defer store.Close()

	if flagDelete != "" {
		if err := store.DeleteMatch(flagDelete); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fail("no match %q", flagDelete)
			}
			fail("%v", err)
		}
		fmt.Printf("Deleted match %s\n", flagDelete)
		return
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		fail("retrieving matches: %v", err)
	}

	fmt.Println("Recent matches")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Finish a 'fejd play' match or use 'fejd run --save' to record one.")
		return
	}

	// Print header
	fmt.Printf("  %-36s  %-16s  %-6s  %-7s  %-7s  %s\n", "ID", "Date", "Map", "Players", "Ticks", "Top")
	fmt.Printf("  %-36s  %-16s  %-6s  %-7s  %-7s  %s\n", "--", "----", "---", "-------", "-----", "---")

	for _, rec := range matches {
		top := "-"
		if best, ok := topScorer(rec.Scores); ok {
			top = fmt.Sprintf("P%d (%d/%d)", best.Slot+1, best.Kills, best.Deaths)
		}
		fmt.Printf("  %-36s  %-16s  %-6s  %-7d  %-7d  %s\n",
			rec.MatchID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Map, rec.Players, rec.Ticks, top)
	}

	// Show totals
	if stats, err := store.Stats(); err == nil {
		fmt.Println()
		fmt.Printf("%d matches, %d ticks, %d kills in total\n", stats.Matches, stats.TotalTicks, stats.TotalKills)
	}
}

// topScorer returns the entry with the most kills, fewest deaths breaking ties.
func topScorer(scores []storage.ScoreEntry) (storage.ScoreEntry, bool) {
	if len(scores) == 0 {
		return storage.ScoreEntry{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Kills > best.Kills || (s.Kills == best.Kills && s.Deaths < best.Deaths) {
			best = s
		}
	}
	return best, true
}
