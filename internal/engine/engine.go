// Package engine drives a match in real time: it feeds wall-clock frames
// into a fixed-step loop, collects commands through the lockstep buffer and
// steps the world once per released tick.
//
// Frame, View and Result must be called from a single goroutine. Input and
// the request methods may be called from any goroutine.
package engine

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/lockstep"
	"github.com/vovakirdan/fejd/internal/multiplayer"
	"github.com/vovakirdan/fejd/internal/world"
)

// NoLocal marks an engine without a local player.
const NoLocal = -1

// Options configures a new Engine.
type Options struct {
	Config    config.Config
	Map       world.Map
	Seed      uint64
	Local     int // Slot fed through Input, or NoLocal
	Peers     []multiplayer.Peer
	Handlers  []Handler
	Logger    *log.Logger
	TickLimit uint64 // End the match after this many ticks; zero runs until Exit
}

// Score is the tally of one player slot.
type Score struct {
	Slot   int
	Kills  int
	Deaths int
}

// Result summarizes a match.
type Result struct {
	ID      uuid.UUID
	Seed    uint64
	Map     string
	Players int
	Ticks   uint64
	Hash    uint64
	Scores  []Score
}

// Frame reports what a call to Engine.Frame did.
type Frame struct {
	Steps   int
	Stalled bool
	Alpha   float64
}

// View is a read-only copy of the state a renderer needs.
type View struct {
	Tick        uint64
	Alpha       float64
	Debug       bool
	Local       int
	Map         world.Map
	Ships       []world.Ship
	Projectiles []world.Projectile
	Particles   []world.Particle
	Stars       []world.Star
	RespawnIn   []int // Ticks until each slot respawns, zero if alive
}

// Engine runs one match.
type Engine struct {
	id       uuid.UUID
	world    *world.World
	buffer   *lockstep.Buffer
	loop     *Loop
	peers    []multiplayer.Peer
	handlers []Handler
	logger   *log.Logger
	limit    uint64

	local     int
	localNext uint64 // Next tick whose local commands are not yet submitted
	inputMu   sync.Mutex
	input     []world.Command

	requests  requests
	debug     bool
	stalledOn uint64 // Tick+1 of the last reported stall
	done      bool
	result    Result
}

// New creates an engine. Every player slot must be either the local slot
// or covered by exactly one peer.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	players := opts.Config.Match.Players

	covered := make([]bool, players)
	if opts.Local != NoLocal {
		if opts.Local < 0 || opts.Local >= players {
			return nil, fmt.Errorf("engine: local slot %d out of range [0, %d)", opts.Local, players)
		}
		covered[opts.Local] = true
	}
	for _, p := range opts.Peers {
		slot := p.Slot()
		if slot < 0 || slot >= players {
			return nil, fmt.Errorf("engine: peer slot %d out of range [0, %d)", slot, players)
		}
		if covered[slot] {
			return nil, fmt.Errorf("engine: slot %d has more than one source", slot)
		}
		covered[slot] = true
	}
	if i := slices.Index(covered, false); i >= 0 {
		return nil, fmt.Errorf("engine: slot %d has no local player or peer", i)
	}

	w, err := world.New(opts.Config.Rules, opts.Map, players, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		id:       uuid.New(),
		world:    w,
		buffer:   lockstep.New(lockstep.Config{Players: players, Delay: opts.Config.Engine.CommandDelay}),
		loop:     NewLoop(opts.Config.Engine.TicksPerSecond, opts.Config.Engine.MaxFrameTime),
		peers:    opts.Peers,
		handlers: opts.Handlers,
		logger:   logger,
		limit:    opts.TickLimit,
		local:    opts.Local,
	}, nil
}

// ID returns the match identifier.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Tick returns the number of completed simulation steps.
func (e *Engine) Tick() uint64 {
	return e.world.Tick()
}

// Period returns the current tick period.
func (e *Engine) Period() time.Duration {
	return e.loop.Period()
}

// Done reports whether the match has ended.
func (e *Engine) Done() bool {
	return e.done
}

// Debug reports whether debug rendering is on.
func (e *Engine) Debug() bool {
	return e.debug
}

// Hash returns the hash of the current world state.
func (e *Engine) Hash() uint64 {
	return e.world.Hash()
}

// Input queues commands of the local player. They are submitted for the
// next tick that runs and applied after the command delay.
func (e *Engine) Input(cmds ...world.Command) {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.input = append(e.input, cmds...)
}

// SetInput replaces the local commands queued for the next tick. Front ends
// that sample held keys every frame use it instead of Input.
func (e *Engine) SetInput(cmds ...world.Command) {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.input = append(e.input[:0], cmds...)
}

// SetTicksPerSecond requests a new tick rate.
func (e *Engine) SetTicksPerSecond(tps int) {
	e.requests.put(Request{Kind: RequestTicksPerSecond, TicksPerSecond: tps})
}

// SetDebug requests debug rendering on or off.
func (e *Engine) SetDebug(on bool) {
	e.requests.put(Request{Kind: RequestDebug, Debug: on})
}

// Exit requests the end of the match.
func (e *Engine) Exit() {
	e.requests.put(Request{Kind: RequestExit})
}

// Frame advances the engine by elapsed wall time. It applies pending
// requests, then steps the world for every full tick period, stopping early
// if the next tick's commands are incomplete.
func (e *Engine) Frame(elapsed time.Duration) Frame {
	if e.done {
		return Frame{}
	}
	e.applyRequests()
	if e.done {
		return Frame{}
	}

	var f Frame
	e.loop.Add(elapsed)
	for e.loop.Due() {
		if !e.step() {
			e.loop.Stall()
			f.Stalled = true
			break
		}
		e.loop.Consume()
		f.Steps++
		if e.limit > 0 && e.world.Tick() >= e.limit {
			e.finish()
			return f
		}
	}
	f.Alpha = e.loop.Alpha()
	return f
}

func (e *Engine) applyRequests() {
	for _, req := range e.requests.drain() {
		switch req.Kind {
		case RequestTicksPerSecond:
			if req.TicksPerSecond <= 0 {
				e.logger.Warn("ignoring tick rate request", "tps", req.TicksPerSecond)
				continue
			}
			e.loop.SetTicksPerSecond(req.TicksPerSecond)
			e.notify(TickRateChanged{TicksPerSecond: req.TicksPerSecond})
		case RequestDebug:
			e.debug = req.Debug
			e.notify(DebugChanged{On: req.Debug})
		case RequestExit:
			e.finish()
		}
	}
}

// step runs one tick if its commands are complete.
func (e *Engine) step() bool {
	tick := e.world.Tick()
	e.submitLocal(tick)
	e.poll(tick)

	cmds, ok := e.buffer.Next(tick)
	if !ok {
		if e.stalledOn != tick+1 {
			e.stalledOn = tick + 1
			e.notify(Stalled{Tick: tick, Missing: e.buffer.Missing(tick)})
		}
		return false
	}

	events := e.world.Step(cmds)
	s := Step{Tick: tick, Commands: cmds, Events: events}
	for _, h := range e.handlers {
		h.HandleStep(s)
	}
	return true
}

// submitLocal sends the local input captured so far for tick+delay, once
// per tick.
func (e *Engine) submitLocal(tick uint64) {
	if e.local == NoLocal || tick < e.localNext {
		return
	}
	e.localNext = tick + 1

	e.inputMu.Lock()
	cmds := e.input
	e.input = nil
	e.inputMu.Unlock()

	if _, err := e.buffer.SubmitLocal(tick, e.local, cmds); err != nil {
		e.logger.Error("dropping local commands", "tick", tick, "error", err)
	}
}

// poll moves arrived peer packets into the buffer.
func (e *Engine) poll(tick uint64) {
	for _, p := range e.peers {
		for _, pkt := range p.Poll(tick) {
			if pkt.Slot != p.Slot() {
				e.logger.Warn("dropping packet for foreign slot", "peer", p.Slot(), "slot", pkt.Slot, "tick", pkt.Tick)
				continue
			}
			if err := e.buffer.Submit(pkt.Tick, pkt.Slot, pkt.Commands); err != nil {
				if errors.Is(err, lockstep.ErrDuplicate) {
					e.logger.Debug("dropping duplicate packet", "player", pkt.Slot, "tick", pkt.Tick)
					continue
				}
				e.logger.Warn("dropping packet", "player", pkt.Slot, "tick", pkt.Tick, "error", err)
			}
		}
	}
}

func (e *Engine) notify(n Notice) {
	for _, h := range e.handlers {
		h.HandleNotice(n)
	}
}

// finish records the result and tears the match down.
func (e *Engine) finish() {
	if e.done {
		return
	}
	e.result = e.snapshotResult()
	e.done = true
	e.world.Exit()
	e.buffer.Reset()
	e.loop.Reset()
	e.notify(Exited{Result: e.result})
}

func (e *Engine) snapshotResult() Result {
	r := Result{
		ID:      e.id,
		Seed:    e.world.Seed(),
		Map:     e.world.Map().Name,
		Players: e.world.Players(),
		Ticks:   e.world.Tick(),
		Hash:    e.world.Hash(),
	}
	for _, s := range e.world.Ships() {
		r.Scores = append(r.Scores, Score{Slot: s.Slot, Kills: s.Kills, Deaths: s.Deaths})
	}
	return r
}

// Result returns the match summary. Before the match ends it reflects the
// current state.
func (e *Engine) Result() Result {
	if e.done {
		return e.result
	}
	return e.snapshotResult()
}

// View returns a copy of the renderable state.
func (e *Engine) View() View {
	v := View{
		Tick:        e.world.Tick(),
		Alpha:       e.loop.Alpha(),
		Debug:       e.debug,
		Local:       e.local,
		Map:         e.world.Map(),
		Ships:       e.world.Ships(),
		Projectiles: e.world.Projectiles(),
		Particles:   e.world.Particles(),
		Stars:       e.world.Stars(),
	}
	v.RespawnIn = make([]int, len(v.Ships))
	for i := range v.Ships {
		v.RespawnIn[i], _ = e.world.RespawnIn(i)
	}
	return v
}
