package engine

import (
	"fmt"
	"time"
)

// Loop is the fixed-step accumulator. Wall time goes in through Add; the
// caller steps once per Due period and the remainder becomes the render
// interpolation factor. All arithmetic is in integer nanoseconds, so the
// number of steps depends only on elapsed time and the tick rate.
type Loop struct {
	period   time.Duration
	maxFrame time.Duration
	acc      time.Duration
}

// NewLoop creates a loop running at tps ticks per second. Frames longer than
// maxFrame are clamped; zero disables clamping.
func NewLoop(tps int, maxFrame time.Duration) *Loop {
	l := &Loop{maxFrame: maxFrame}
	l.SetTicksPerSecond(tps)
	return l
}

// SetTicksPerSecond changes the tick rate. Accumulated time is kept.
func (l *Loop) SetTicksPerSecond(tps int) {
	if tps <= 0 {
		panic(fmt.Sprintf("engine: ticks per second must be positive, got %d", tps))
	}
	l.period = time.Second / time.Duration(tps)
}

// Period returns the duration of one tick.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Add accumulates the wall time of one frame.
func (l *Loop) Add(elapsed time.Duration) {
	if elapsed < 0 {
		return
	}
	if l.maxFrame > 0 && elapsed > l.maxFrame {
		elapsed = l.maxFrame
	}
	l.acc += elapsed
}

// Due reports whether a full tick period is waiting.
func (l *Loop) Due() bool {
	return l.acc >= l.period
}

// Consume removes one tick period after a successful step.
func (l *Loop) Consume() {
	l.acc -= l.period
}

// Stall keeps at most one period so a long wait does not turn into a burst
// of catch-up steps.
func (l *Loop) Stall() {
	l.acc = min(l.acc, l.period)
}

// Alpha returns how far the accumulator is into the next tick, in [0, 1].
func (l *Loop) Alpha() float64 {
	if l.acc >= l.period {
		return 1
	}
	return float64(l.acc) / float64(l.period)
}

// Reset empties the accumulator.
func (l *Loop) Reset() {
	l.acc = 0
}
