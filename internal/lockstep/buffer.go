// Package lockstep gathers the per-tick commands of every player slot and
// releases a tick only once all slots have contributed to it.
//
// Local input is delayed by a fixed number of ticks so remote commands for
// the same tick have time to arrive. While a tick is incomplete the caller
// stalls; nothing already released is ever touched again.
package lockstep

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/fejd/internal/world"
)

var (
	// ErrDuplicate is returned when a slot submits twice for the same tick.
	ErrDuplicate = errors.New("lockstep: duplicate submission")

	// ErrLate is returned when a tick has already been released.
	ErrLate = errors.New("lockstep: tick already released")

	// ErrInvalidCommand is returned for unknown command values.
	ErrInvalidCommand = errors.New("lockstep: invalid command")
)

// Config sizes a Buffer.
type Config struct {
	Players int // Slots that must contribute to every tick
	Delay   int // Ticks between local capture and application
}

type bucket struct {
	cmds        [][]world.Command
	contributed []bool
	received    int
}

// Buffer maps target ticks to the commands received for them so far.
type Buffer struct {
	cfg     Config
	buckets map[uint64]*bucket
	floor   uint64 // Lowest tick not yet released
}

// New creates an empty buffer.
func New(cfg Config) *Buffer {
	if cfg.Players < 1 {
		panic(fmt.Sprintf("lockstep: need at least one player, got %d", cfg.Players))
	}
	if cfg.Delay < 0 {
		panic(fmt.Sprintf("lockstep: negative delay %d", cfg.Delay))
	}
	return &Buffer{
		cfg:     cfg,
		buckets: make(map[uint64]*bucket),
	}
}

// Config returns the buffer configuration.
func (b *Buffer) Config() Config {
	return b.cfg
}

// Submit records the commands of slot for tick. An empty list is a valid
// contribution. A slot outside the configured player count panics.
func (b *Buffer) Submit(tick uint64, slot int, cmds []world.Command) error {
	if slot < 0 || slot >= b.cfg.Players {
		panic(fmt.Sprintf("lockstep: slot %d out of range [0, %d)", slot, b.cfg.Players))
	}
	if tick < b.floor {
		return fmt.Errorf("tick %d, slot %d: %w", tick, slot, ErrLate)
	}
	for _, c := range cmds {
		if !c.Valid() {
			return fmt.Errorf("tick %d, slot %d: %w: %d", tick, slot, ErrInvalidCommand, uint8(c))
		}
	}

	bk := b.buckets[tick]
	if bk == nil {
		bk = &bucket{
			cmds:        make([][]world.Command, b.cfg.Players),
			contributed: make([]bool, b.cfg.Players),
		}
		b.buckets[tick] = bk
	}
	if bk.contributed[slot] {
		return fmt.Errorf("tick %d, slot %d: %w", tick, slot, ErrDuplicate)
	}

	bk.cmds[slot] = slices.Clone(cmds)
	bk.contributed[slot] = true
	bk.received++
	return nil
}

// SubmitLocal records commands captured at tick current. They are applied
// Delay ticks later; the target tick is returned.
func (b *Buffer) SubmitLocal(current uint64, slot int, cmds []world.Command) (uint64, error) {
	target := current + uint64(b.cfg.Delay) //#nosec G115 -- delay is never negative
	return target, b.Submit(target, slot, cmds)
}

// Ready reports whether every slot has contributed to tick.
func (b *Buffer) Ready(tick uint64) bool {
	bk := b.buckets[tick]
	return bk != nil && bk.received == b.cfg.Players
}

// Next releases the command matrix for tick. Ticks inside the initial delay
// window with nothing submitted release an all-Nop matrix. Otherwise an
// incomplete tick reports false and the caller must retry later.
func (b *Buffer) Next(tick uint64) ([][]world.Command, bool) {
	bk, ok := b.buckets[tick]
	switch {
	case ok && bk.received == b.cfg.Players:
		delete(b.buckets, tick)
	case !ok && tick < uint64(b.cfg.Delay): //#nosec G115 -- delay is never negative
		bk = &bucket{cmds: make([][]world.Command, b.cfg.Players)}
	default:
		return nil, false
	}

	if tick >= b.floor {
		b.floor = tick + 1
	}
	return bk.cmds, true
}

// Missing returns the slots that have not yet contributed to tick.
func (b *Buffer) Missing(tick uint64) []int {
	bk := b.buckets[tick]
	var out []int
	for slot := 0; slot < b.cfg.Players; slot++ {
		if bk == nil || !bk.contributed[slot] {
			out = append(out, slot)
		}
	}
	return out
}

// Pending returns the number of ticks holding at least one submission.
func (b *Buffer) Pending() int {
	return len(b.buckets)
}

// Reset drops every bucket, readying the buffer for a new match.
func (b *Buffer) Reset() {
	clear(b.buckets)
	b.floor = 0
}
