// Package replay records the command matrices of a match and re-simulates
// them to check that a match is reproducible.
package replay

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/world"
)

// Version is the current replay format version.
const Version = 1

var (
	// ErrDesync is returned when a re-simulated match ends in a different state.
	ErrDesync = errors.New("replay: desync")

	// ErrVersion is returned for replays written by an unknown format version.
	ErrVersion = errors.New("replay: unsupported version")
)

// Replay is everything needed to re-simulate a match.
type Replay struct {
	Version int                 `msgpack:"version"`
	ID      uuid.UUID           `msgpack:"id"`
	Seed    uint64              `msgpack:"seed"`
	Players int                 `msgpack:"players"`
	Map     world.Map           `msgpack:"map"`
	Rules   config.Rules        `msgpack:"rules"`
	Frames  [][][]world.Command `msgpack:"frames"` // One command matrix per tick
	Hash    uint64              `msgpack:"hash"`   // World hash after the last frame
}

// Ticks returns the number of recorded ticks.
func (r *Replay) Ticks() int {
	return len(r.Frames)
}

// Recorder is an engine.Handler that captures a match as it runs.
type Recorder struct {
	replay Replay
	done   bool
}

// NewRecorder creates a recorder for a match started with the given inputs.
func NewRecorder(rules config.Rules, m world.Map, players int, seed uint64) *Recorder {
	return &Recorder{replay: Replay{
		Version: Version,
		Seed:    seed,
		Players: players,
		Map:     m,
		Rules:   rules,
	}}
}

// HandleStep appends the tick's command matrix.
func (r *Recorder) HandleStep(s engine.Step) {
	frame := make([][]world.Command, len(s.Commands))
	for i, cmds := range s.Commands {
		frame[i] = slices.Clone(cmds)
	}
	r.replay.Frames = append(r.replay.Frames, frame)
}

// HandleNotice stores the final hash when the match ends.
func (r *Recorder) HandleNotice(n engine.Notice) {
	if exited, ok := n.(engine.Exited); ok {
		r.replay.ID = exited.Result.ID
		r.replay.Hash = exited.Result.Hash
		r.done = true
	}
}

// Done reports whether the match has ended.
func (r *Recorder) Done() bool {
	return r.done
}

// Replay returns the recording so far.
func (r *Recorder) Replay() Replay {
	return r.replay
}

// Encode writes a replay.
func Encode(w io.Writer, r Replay) error {
	if err := msgpack.NewEncoder(w).Encode(&r); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a replay written by Encode.
func Decode(rd io.Reader) (Replay, error) {
	var r Replay
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return Replay{}, fmt.Errorf("replay: decode: %w", err)
	}
	if r.Version != Version {
		return Replay{}, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return r, nil
}

// Verify re-simulates r and compares the final world hash with the
// recorded one. It returns the re-simulated hash.
func Verify(r Replay) (uint64, error) {
	w, err := world.New(r.Rules, r.Map, r.Players, r.Seed)
	if err != nil {
		return 0, fmt.Errorf("replay: %w", err)
	}
	for i, frame := range r.Frames {
		if len(frame) > r.Players {
			return 0, fmt.Errorf("replay: frame %d has %d slots for %d players", i, len(frame), r.Players)
		}
		for _, cmds := range frame {
			for _, c := range cmds {
				if !c.Valid() {
					return 0, fmt.Errorf("replay: frame %d: invalid command %d", i, uint8(c))
				}
			}
		}
		w.Step(frame)
	}

	hash := w.Hash()
	if hash != r.Hash {
		return hash, fmt.Errorf("%w: tick %d hash %016x, recorded %016x", ErrDesync, w.Tick(), hash, r.Hash)
	}
	return hash, nil
}
