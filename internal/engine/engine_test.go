package engine

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/multiplayer"
	"github.com/vovakirdan/fejd/internal/world"
)

func testConfig(players, delay int) config.Config {
	cfg := config.Default()
	cfg.Match.Players = players
	cfg.Engine.CommandDelay = delay
	cfg.Engine.TicksPerSecond = 16
	return cfg
}

func testMap() world.Map {
	return world.Map{
		Name:   "test",
		Width:  fixed.FromInt(600),
		Height: fixed.FromInt(600),
		Spawns: []world.Spawn{
			{Point: fixed.VI(100, 100), Direction: fixed.East},
			{Point: fixed.VI(500, 100), Direction: fixed.South},
			{Point: fixed.VI(500, 500), Direction: fixed.West},
			{Point: fixed.VI(100, 500), Direction: fixed.North},
		},
	}
}

type recorder struct {
	steps   []Step
	notices []Notice
}

func (r *recorder) HandleStep(s Step)     { r.steps = append(r.steps, s) }
func (r *recorder) HandleNotice(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) stalls() []Stalled {
	var out []Stalled
	for _, n := range r.notices {
		if s, ok := n.(Stalled); ok {
			out = append(out, s)
		}
	}
	return out
}

func runBots(t *testing.T, maxLag int, frame time.Duration) Result {
	t.Helper()
	cfg := testConfig(3, 3)
	var peers []multiplayer.Peer
	for slot := range 3 {
		peers = append(peers, multiplayer.NewSimulatedPeer(multiplayer.BotConfig{
			Slot: slot, Delay: 3, MaxLag: maxLag, Seed: 99,
		}))
	}

	e, err := New(Options{
		Config:    cfg,
		Map:       testMap(),
		Seed:      99,
		Local:     NoLocal,
		Peers:     peers,
		TickLimit: 150,
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; !e.Done(); i++ {
		if i > 100000 {
			t.Fatal("match did not finish")
		}
		e.Frame(frame)
	}
	return e.Result()
}

func TestEngineDeterministicUnderLagAndFrameRate(t *testing.T) {
	base := runBots(t, 0, 62500*time.Microsecond)
	if base.Ticks != 150 {
		t.Fatalf("Ticks = %d, expected 150", base.Ticks)
	}

	variants := []struct {
		name   string
		maxLag int
		frame  time.Duration
	}{
		{"lagged peers", 5, 62500 * time.Microsecond},
		{"slow frames", 0, 187500 * time.Microsecond},
		{"fast frames", 2, 5 * time.Millisecond},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			got := runBots(t, v.maxLag, v.frame)
			if got.Ticks != base.Ticks || got.Hash != base.Hash {
				t.Errorf("result (%d ticks, %016x) differs from baseline (%d ticks, %016x)",
					got.Ticks, got.Hash, base.Ticks, base.Hash)
			}
			if !slices.Equal(got.Scores, base.Scores) {
				t.Errorf("scores %v differ from baseline %v", got.Scores, base.Scores)
			}
		})
	}
}

func TestEngineGraceThenStall(t *testing.T) {
	rec := &recorder{}
	peer := multiplayer.NewChannelPeer(1, 8)
	e, err := New(Options{
		Config:   testConfig(2, 2),
		Map:      testMap(),
		Seed:     1,
		Local:    0,
		Peers:    []multiplayer.Peer{peer},
		Handlers: []Handler{rec},
	})
	if err != nil {
		t.Fatal(err)
	}
	period := e.Period()

	e.Input(world.Accelerate)
	for range 2 {
		if f := e.Frame(period); f.Steps != 1 || f.Stalled {
			t.Fatalf("grace frame = %+v, expected one step", f)
		}
	}

	for range 3 {
		if f := e.Frame(period); f.Steps != 0 || !f.Stalled {
			t.Fatalf("frame without remote commands = %+v, expected a stall", f)
		}
	}
	if e.Tick() != 2 {
		t.Fatalf("Tick() = %d while stalled, expected 2", e.Tick())
	}
	if st := rec.stalls(); len(st) != 1 || st[0].Tick != 2 || !slices.Equal(st[0].Missing, []int{1}) {
		t.Fatalf("stall notices = %+v, expected one for tick 2 missing slot 1", st)
	}

	if err := peer.Deliver(context.Background(), multiplayer.Packet{Tick: 2, Slot: 1}); err != nil {
		t.Fatal(err)
	}
	f := e.Frame(period)
	if f.Steps != 1 || !f.Stalled {
		t.Errorf("frame after delivery = %+v, expected one step then a stall on tick 3", f)
	}
	if e.Tick() != 3 {
		t.Errorf("Tick() = %d, expected 3", e.Tick())
	}

	last := rec.steps[len(rec.steps)-1]
	if last.Tick != 2 || !slices.Equal(last.Commands[0], []world.Command{world.Accelerate}) {
		t.Errorf("tick 2 commands = %v, expected local Accelerate after the delay", last.Commands)
	}
	if len(rec.steps[0].Commands[0]) != 0 {
		t.Errorf("tick 0 applied %v, expected the no-op grace matrix", rec.steps[0].Commands)
	}
	view := e.View()
	want := testConfig(2, 2).Ship.Acceleration.Sub(testConfig(2, 2).Ship.Drag)
	if got := view.Ships[0].Motion.Speed; got != want {
		t.Errorf("local ship speed = %s, expected %s", got, want)
	}
}

func TestEngineRequestsCoalesce(t *testing.T) {
	rec := &recorder{}
	e, err := New(Options{
		Config:   testConfig(1, 0),
		Map:      testMap(),
		Local:    0,
		Handlers: []Handler{rec},
	})
	if err != nil {
		t.Fatal(err)
	}

	e.Exit()
	e.SetDebug(true)
	e.SetTicksPerSecond(10)
	e.SetDebug(false)
	e.SetDebug(true)
	e.SetTicksPerSecond(32)
	e.Frame(time.Second)

	want := []Notice{TickRateChanged{TicksPerSecond: 32}, DebugChanged{On: true}}
	if len(rec.notices) != 3 {
		t.Fatalf("notices = %+v, expected 3", rec.notices)
	}
	for i, w := range want {
		if rec.notices[i] != w {
			t.Errorf("notice %d = %+v, expected %+v", i, rec.notices[i], w)
		}
	}
	if _, ok := rec.notices[2].(Exited); !ok {
		t.Errorf("last notice = %+v, expected Exited", rec.notices[2])
	}

	if !e.Done() || !e.Debug() || e.Period() != 31250*time.Microsecond {
		t.Errorf("Done=%v Debug=%v Period=%v after requests", e.Done(), e.Debug(), e.Period())
	}
	if len(rec.steps) != 0 {
		t.Errorf("exit before the first frame ran %d steps", len(rec.steps))
	}

	e.Exit()
	if f := e.Frame(time.Second); f.Steps != 0 || len(rec.notices) != 3 {
		t.Error("a finished engine must stay idle")
	}
}

func TestEngineSetInputReplaces(t *testing.T) {
	rec := &recorder{}
	e, err := New(Options{
		Config:   testConfig(1, 0),
		Map:      testMap(),
		Local:    0,
		Handlers: []Handler{rec},
	})
	if err != nil {
		t.Fatal(err)
	}

	e.SetInput(world.Accelerate, world.Fire)
	e.SetInput(world.RotateLeft)
	e.Frame(e.Period())
	e.Frame(e.Period())

	if len(rec.steps) != 2 {
		t.Fatalf("ran %d steps, expected 2", len(rec.steps))
	}
	if got := rec.steps[0].Commands[0]; !slices.Equal(got, []world.Command{world.RotateLeft}) {
		t.Errorf("tick 0 commands = %v, expected only the last SetInput", got)
	}
	if got := rec.steps[1].Commands[0]; len(got) != 0 {
		t.Errorf("tick 1 commands = %v, input must be consumed once", got)
	}
}

func TestEngineTickLimit(t *testing.T) {
	e, err := New(Options{
		Config:    testConfig(1, 0),
		Map:       testMap(),
		Seed:      5,
		Local:     0,
		TickLimit: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	for range 10 {
		e.Input(world.Accelerate)
		e.Frame(e.Period())
	}
	if !e.Done() {
		t.Fatal("engine should stop at the tick limit")
	}
	r := e.Result()
	if r.Ticks != 10 || r.Players != 1 || r.Map != "test" || r.Seed != 5 {
		t.Errorf("Result() = %+v", r)
	}
	if r.ID != e.ID() {
		t.Error("result must carry the match ID")
	}
}

func TestNewRejectsBadSlots(t *testing.T) {
	peer := func(slot int) multiplayer.Peer {
		return multiplayer.NewSimulatedPeer(multiplayer.BotConfig{Slot: slot})
	}

	tests := []struct {
		name  string
		local int
		peers []multiplayer.Peer
	}{
		{"uncovered slot", 0, nil},
		{"two sources", 0, []multiplayer.Peer{peer(0)}},
		{"local out of range", 2, []multiplayer.Peer{peer(0)}},
		{"peer out of range", 0, []multiplayer.Peer{peer(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{Config: testConfig(2, 1), Map: testMap(), Local: tt.local, Peers: tt.peers})
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerFast(t *testing.T) {
	e, err := New(Options{
		Config: testConfig(2, 3),
		Map:    testMap(),
		Local:  NoLocal,
		Peers: []multiplayer.Peer{
			multiplayer.NewSimulatedPeer(multiplayer.BotConfig{Slot: 0, Delay: 3, MaxLag: 3, Seed: 3}),
			multiplayer.NewSimulatedPeer(multiplayer.BotConfig{Slot: 1, Delay: 3, MaxLag: 3, Seed: 3}),
		},
		TickLimit: 64,
	})
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New(&bytes.Buffer{})
	res, err := NewRunner(e, logger, true).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 64 {
		t.Errorf("Ticks = %d, expected 64", res.Ticks)
	}
}

func TestRunnerCancelled(t *testing.T) {
	peer := multiplayer.NewChannelPeer(1, 1)
	e, err := New(Options{
		Config: testConfig(2, 1),
		Map:    testMap(),
		Local:  0,
		Peers:  []multiplayer.Peer{peer},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := NewRunner(e, log.New(&bytes.Buffer{}), true).Run(ctx)
	if err == nil {
		t.Fatal("expected a context error from a stalled match")
	}
	if !e.Done() {
		t.Error("cancellation must end the match")
	}
	if res.Ticks != 1 {
		t.Errorf("Ticks = %d, expected only the grace tick", res.Ticks)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	h := NewLogHandler(logger)

	h.HandleStep(Step{Tick: 7, Events: []world.Event{
		world.Fired{Ship: 0},
		world.Collision{Projectile: 0, Ship: 1, Exact: false},
		world.Death{Class: world.ClassShip, Index: 1, Killer: 0},
	}})
	h.HandleNotice(Exited{Result: Result{Ticks: 7, Hash: 0xabc}})

	out := buf.String()
	for _, want := range []string{"sweep found no contact", "ship destroyed", "match ended", "0000000000000abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestCueHandler(t *testing.T) {
	var cues []Cue
	h := NewCueHandler(func(c Cue) { cues = append(cues, c) })
	h.HandleStep(Step{Events: []world.Event{
		world.Fired{Ship: 0},
		world.Collision{},
		world.Death{Class: world.ClassProjectile},
		world.Death{Class: world.ClassShip},
		world.Respawned{Ship: 2},
	}})

	want := []Cue{CueFire, CueHit, CueExplosion, CueRespawn}
	if !slices.Equal(cues, want) {
		t.Errorf("cues = %v, expected %v", cues, want)
	}
}
