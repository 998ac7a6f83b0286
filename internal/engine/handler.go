package engine

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fejd/internal/world"
)

// Step describes one completed simulation tick.
type Step struct {
	Tick     uint64            // Tick number before the step
	Commands [][]world.Command // Matrix released by the lockstep buffer
	Events   []world.Event     // Events resolved during the step, in order
}

// Handler observes a match. Handlers run on the engine goroutine after the
// world has finished the step and must not block.
type Handler interface {
	HandleStep(s Step)
	HandleNotice(n Notice)
}

// LogHandler writes match events to a logger.
type LogHandler struct {
	logger *log.Logger
}

// NewLogHandler creates a handler that logs to logger.
func NewLogHandler(logger *log.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// HandleStep logs deaths, respawns and inexact collisions.
func (h *LogHandler) HandleStep(s Step) {
	for _, e := range s.Events {
		switch e := e.(type) {
		case world.Collision:
			if !e.Exact {
				h.logger.Error("sweep found no contact, resolved at live position",
					"tick", s.Tick, "projectile", e.Projectile, "ship", e.Ship)
			}
		case world.Death:
			if e.Class == world.ClassShip {
				h.logger.Info("ship destroyed", "tick", s.Tick, "ship", e.Index, "killer", e.Killer)
			}
		case world.Respawned:
			h.logger.Debug("ship respawned", "tick", s.Tick, "ship", e.Ship)
		}
	}
}

// HandleNotice logs engine notices.
func (h *LogHandler) HandleNotice(n Notice) {
	switch n := n.(type) {
	case TickRateChanged:
		h.logger.Info("tick rate changed", "tps", n.TicksPerSecond)
	case DebugChanged:
		h.logger.Info("debug changed", "on", n.On)
	case Stalled:
		h.logger.Debug("waiting for commands", "tick", n.Tick, "missing", n.Missing)
	case Exited:
		h.logger.Info("match ended",
			"id", n.Result.ID,
			"ticks", n.Result.Ticks,
			"hash", fmt.Sprintf("%016x", n.Result.Hash),
		)
	}
}

// Cue is a sound or visual effect triggered by the simulation.
type Cue uint8

const (
	CueFire Cue = iota
	CueHit
	CueExplosion
	CueRespawn
)

// String returns a human-readable name for the cue.
func (c Cue) String() string {
	switch c {
	case CueFire:
		return "fire"
	case CueHit:
		return "hit"
	case CueExplosion:
		return "explosion"
	case CueRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// CueHandler turns events into cues for an audio or effects sink.
type CueHandler struct {
	play func(Cue)
}

// NewCueHandler creates a handler that calls play for every cue.
func NewCueHandler(play func(Cue)) *CueHandler {
	return &CueHandler{play: play}
}

// HandleStep emits one cue per relevant event.
func (h *CueHandler) HandleStep(s Step) {
	for _, e := range s.Events {
		switch e := e.(type) {
		case world.Fired:
			h.play(CueFire)
		case world.Collision:
			h.play(CueHit)
		case world.Death:
			if e.Class == world.ClassShip {
				h.play(CueExplosion)
			}
		case world.Respawned:
			h.play(CueRespawn)
		}
	}
}

// HandleNotice ignores notices.
func (h *CueHandler) HandleNotice(Notice) {}
