// fejd is a deterministic lockstep space shooter for the terminal.
//
// Usage:
//
//	fejd play                - Play a match against bots
//	fejd run                 - Run a headless bot match
//	fejd replay <id|file>    - Re-simulate a recorded match
//	fejd matches             - List recently finished matches
//	fejd maps                - List built-in maps
//	fejd serve               - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>   - Match config YAML
//	--preset <name>   - Rule preset: casual, standard, hardcore
//	--tps <rate>      - Simulation ticks per second
//	--seed <value>    - Match seed (0 = random based on time)
//	--players <n>     - Number of player slots
//	--map <name>      - Map name or path to a map YAML
//	--delay <ticks>   - Command delay
//	--db <path>       - Match database (default: ~/.fejd/matches.db)
//	--log-level <lvl> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/maps"
	"github.com/vovakirdan/fejd/internal/world"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagTPS      int
	flagSeed     uint64
	flagPlayers  int
	flagMap      string
	flagDelay    int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fejd",
	Short: "fejd - lockstep space combat in your terminal",
	Long: `fejd is a deterministic space shooter. Every peer steps the same
fixed-point simulation from the same seed and command stream, so a match
can be replayed and verified bit for bit.

Available commands:
  play     - Play a match against simulated peers
  run      - Run a headless match between bots
  replay   - Re-simulate a recorded match and check its hash
  matches  - Show recently finished matches
  maps     - Show all built-in maps
  serve    - Start SSH server for remote play

Examples:
  fejd play
  fejd play --map ring --players 6
  fejd run --fast --ticks 2000 --seed 42
  fejd replay 2b1c...
  fejd serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to match config YAML")
	pf.StringVar(&flagPreset, "preset", "", "Rule preset: casual, standard, hardcore")
	pf.IntVar(&flagTPS, "tps", 0, "Simulation ticks per second (0 = from config)")
	pf.Uint64Var(&flagSeed, "seed", 0, "Match seed (0 = random based on time)")
	pf.IntVar(&flagPlayers, "players", 0, "Number of player slots (0 = from config)")
	pf.StringVar(&flagMap, "map", "", "Map name or path to a map YAML (empty = from config)")
	pf.IntVar(&flagDelay, "delay", -1, "Command delay in ticks (-1 = from config)")
	pf.StringVar(&flagDBPath, "db", "~/.fejd/matches.db", "Path to match database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates the process logger.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fejd",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// matchConfig loads the config file and layers the preset and the flags
// over it.
func matchConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg.Rules, preset)

	if flagTPS > 0 {
		cfg.Engine.TicksPerSecond = flagTPS
	}
	if flagPlayers > 0 {
		cfg.Match.Players = flagPlayers
	}
	if flagMap != "" {
		cfg.Match.Map = flagMap
	}
	if flagDelay >= 0 {
		cfg.Engine.CommandDelay = flagDelay
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// matchSetup resolves everything a new match needs.
func matchSetup() (config.Config, world.Map, uint64, error) {
	cfg, err := matchConfig()
	if err != nil {
		return cfg, world.Map{}, 0, err
	}
	m, err := maps.Resolve(cfg.Match.Map)
	if err != nil {
		return cfg, world.Map{}, 0, err
	}
	if cfg.Match.Players > len(m.Spawns) {
		return cfg, m, 0, fmt.Errorf("map %s has %d spawn points, %d players requested: %w",
			m.Name, len(m.Spawns), cfg.Match.Players, config.ErrTooManyPlayers)
	}

	seed := flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //#nosec G115 -- seed only
	}
	return cfg, m, seed, nil
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
