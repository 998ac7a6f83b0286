package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultFrameRate is the frame rate of a real-time Runner.
const DefaultFrameRate = 60

// Runner drives an Engine without a user interface.
type Runner struct {
	engine    *Engine
	logger    *log.Logger
	fast      bool
	frameRate int
}

// NewRunner creates a runner. A fast runner feeds one tick period per frame
// without sleeping, so the match runs as quickly as the peers allow.
func NewRunner(e *Engine, logger *log.Logger, fast bool) *Runner {
	return &Runner{
		engine:    e,
		logger:    logger,
		fast:      fast,
		frameRate: DefaultFrameRate,
	}
}

// Run drives the engine until the match ends or ctx is cancelled. On
// cancellation the match is ended and ctx's error returned with the result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.logger.Info("match started", "id", r.engine.ID(), "fast", r.fast)

	var err error
	if r.fast {
		err = r.runFast(ctx)
	} else {
		err = r.runRealtime(ctx)
	}
	if err != nil {
		r.engine.Exit()
		r.engine.Frame(0)
	}
	return r.engine.Result(), err
}

func (r *Runner) runFast(ctx context.Context) error {
	for !r.engine.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f := r.engine.Frame(r.engine.Period()); f.Stalled && f.Steps == 0 {
			// Waiting on a transport; give it time to deliver.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond):
			}
		}
	}
	return nil
}

func (r *Runner) runRealtime(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.frameRate))
	defer ticker.Stop()

	last := time.Now()
	for !r.engine.Done() {
		select {
		case now := <-ticker.C:
			r.engine.Frame(now.Sub(last))
			last = now
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
