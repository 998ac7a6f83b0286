package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/platform/tui"
	"github.com/vovakirdan/fejd/internal/session"
	"github.com/vovakirdan/fejd/internal/storage"
)

var (
	flagSlot   int
	flagMaxLag int
	flagNoSave bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Play a match in the terminal. Every other slot is flown by a
simulated peer whose packets arrive with a seeded lag.

Controls:
  Up/W       - Thrust
  Down/S     - Brake
  Left/A     - Turn left
  Right/D    - Turn right
  Space      - Fire
  X          - Self-destruct
  F3         - Show hulls
  +/-        - Change tick rate
  Q/Ctrl+C   - End the match

Examples:
  fejd play
  fejd play --map duel --players 2
  fejd play --preset hardcore --seed 7
  fejd play --map ./arena.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagSlot, "slot", 0, "Player slot to take")
	playCmd.Flags().IntVar(&flagMaxLag, "max-lag", session.DefaultMaxLag, "Largest simulated peer lag, in polls")
	playCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the match")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, m, seed, err := matchSetup()
	if err != nil {
		fail("%v", err)
	}
	if flagSlot < 0 || flagSlot >= cfg.Match.Players {
		fail("slot %d out of range [0, %d)", flagSlot, cfg.Match.Players)
	}

	logger := newLogger()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var store *storage.Store
	if !flagNoSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open match database", "error", err)
		} else {
			defer store.Close()
		}
	}

	// Logs would tear the alternate screen, so only errors go to stderr
	logger.SetLevel(max(logger.GetLevel(), log.ErrorLevel))

	res, err := tui.Run(tui.MatchOptions{
		Setup: session.Setup{
			Config: cfg,
			Map:    m,
			Seed:   seed,
			Local:  flagSlot,
			MaxLag: flagMaxLag,
			Logger: logger,
		},
		Store:   store,
		Runtime: core.RuntimeConfig{ScreenW: width, ScreenH: height, Seed: seed},
	})
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Match %s on %s: %d ticks, hash %016x\n", res.ID, res.Map, res.Ticks, res.Hash)
	printScores(res.Scores)
}
