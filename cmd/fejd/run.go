package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/replay"
	"github.com/vovakirdan/fejd/internal/session"
	"github.com/vovakirdan/fejd/internal/storage"
)

var (
	flagFast      bool
	flagTicks     uint64
	flagRunLag    int
	flagSave      bool
	flagReplayOut string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless bot match",
	Long: `Run a match between simulated peers without a terminal UI and print
the final scores and world hash. Two runs with the same seed and config
end in the same hash regardless of lag or speed.

Examples:
  fejd run --ticks 960
  fejd run --fast --ticks 5000 --seed 42
  fejd run --fast --ticks 2000 --save
  fejd run --fast --ticks 500 --replay-out match.fejd`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagFast, "fast", false, "Step as fast as possible instead of in real time")
	runCmd.Flags().Uint64Var(&flagTicks, "ticks", 0, "Stop after this many ticks (0 = until interrupted)")
	runCmd.Flags().IntVar(&flagRunLag, "max-lag", session.DefaultMaxLag, "Largest simulated peer lag, in polls")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Store the match and its replay")
	runCmd.Flags().StringVar(&flagReplayOut, "replay-out", "", "Write the replay to this file")
}

func runRun(_ *cobra.Command, _ []string) {
	cfg, m, seed, err := matchSetup()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger()

	s, err := session.New(session.Setup{
		Config:    cfg,
		Map:       m,
		Seed:      seed,
		Local:     engine.NoLocal,
		MaxLag:    flagRunLag,
		TickLimit: flagTicks,
		Logger:    logger,
	})
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := engine.NewRunner(s.Engine(), logger, flagFast).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fail("%v", err)
	}

	fmt.Printf("Match %s\n", res.ID)
	fmt.Printf("  map %s, %d players, seed %d\n", res.Map, res.Players, res.Seed)
	fmt.Printf("  %d ticks, hash %016x\n", res.Ticks, res.Hash)
	fmt.Println()
	printScores(res.Scores)

	if flagReplayOut != "" {
		if err := writeReplay(flagReplayOut, s.Replay()); err != nil {
			fail("%v", err)
		}
		fmt.Printf("\nReplay written to %s\n", flagReplayOut)
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail("opening match database: %v", err)
		}
		defer store.Close()
		if err := s.Save(store); err != nil {
			fail("%v", err)
		}
		fmt.Printf("\nSaved. Verify with 'fejd replay %s'.\n", res.ID)
	}
}

// writeReplay encodes r into a new file at path.
func writeReplay(path string, r replay.Replay) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating replay file: %w", err)
	}
	if err := replay.Encode(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printScores prints one line per slot.
func printScores(scores []engine.Score) {
	fmt.Printf("  %-6s  %-5s  %s\n", "Player", "Kills", "Deaths")
	fmt.Printf("  %-6s  %-5s  %s\n", "------", "-----", "------")
	for _, s := range scores {
		fmt.Printf("  P%-5d  %-5d  %d\n", s.Slot+1, s.Kills, s.Deaths)
	}
}
