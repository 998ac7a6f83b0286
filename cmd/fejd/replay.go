package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fejd/internal/replay"
	"github.com/vovakirdan/fejd/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <match-id|file>",
	Short: "Re-simulate a recorded match",
	Long: `Load a replay from the match database (by match ID) or from a file
written with 'fejd run --replay-out', step a fresh world through its
command frames and compare the final hash with the recorded one.

Examples:
  fejd replay 6f1d2c3a-...
  fejd replay match.fejd`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	r, err := loadReplay(args[0])
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Replay %s: map %s, %d players, %d ticks\n", r.ID, r.Map.Name, r.Players, r.Ticks())

	hash, err := replay.Verify(r)
	switch {
	case errors.Is(err, replay.ErrDesync):
		fmt.Printf("  recorded hash  %016x\n", r.Hash)
		fmt.Printf("  simulated hash %016x\n", hash)
		fail("%v", err)
	case err != nil:
		fail("%v", err)
	}
	fmt.Printf("  hash %016x verified\n", hash)
}

// loadReplay reads a replay file if arg names one, otherwise looks the
// match up in the database.
func loadReplay(arg string) (replay.Replay, error) {
	if _, err := os.Stat(arg); err == nil {
		f, err := os.Open(arg)
		if err != nil {
			return replay.Replay{}, fmt.Errorf("opening replay: %w", err)
		}
		defer f.Close()
		return replay.Decode(f)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return replay.Replay{}, fmt.Errorf("opening match database: %w", err)
	}
	defer store.Close()

	r, err := store.Replay(strings.TrimSpace(arg))
	if errors.Is(err, storage.ErrNotFound) {
		return r, fmt.Errorf("no replay stored for match %q", arg)
	}
	return r, err
}
