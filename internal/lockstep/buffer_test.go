package lockstep

import (
	"errors"
	"testing"

	"github.com/vovakirdan/fejd/internal/world"
)

func TestReadyRegardlessOfArrivalOrder(t *testing.T) {
	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, order := range orders {
		b := New(Config{Players: 4, Delay: 3})
		for i, slot := range order {
			if b.Ready(5) {
				t.Fatalf("order %v: ready after %d submissions", order, i)
			}
			if err := b.Submit(5, slot, []world.Command{world.Command(slot)}); err != nil {
				t.Fatalf("order %v: Submit(slot %d) error: %v", order, slot, err)
			}
		}
		if !b.Ready(5) {
			t.Fatalf("order %v: not ready after all slots", order)
		}

		cmds, ok := b.Next(5)
		if !ok {
			t.Fatalf("order %v: Next(5) stalled", order)
		}
		for slot := range 4 {
			if len(cmds[slot]) != 1 || cmds[slot][0] != world.Command(slot) {
				t.Errorf("order %v: slot %d commands = %v", order, slot, cmds[slot])
			}
		}
	}
}

func TestGraceWindow(t *testing.T) {
	b := New(Config{Players: 2, Delay: 3})

	for tick := range uint64(3) {
		cmds, ok := b.Next(tick)
		if !ok {
			t.Fatalf("Next(%d) stalled inside the delay window", tick)
		}
		if len(cmds) != 2 {
			t.Fatalf("Next(%d) matrix has %d slots, expected 2", tick, len(cmds))
		}
		for slot, list := range cmds {
			if len(list) != 0 {
				t.Errorf("Next(%d) slot %d = %v, expected no commands", tick, slot, list)
			}
		}
	}

	if _, ok := b.Next(3); ok {
		t.Error("Next(3) should stall once the delay window is over")
	}
}

func TestStallAndResume(t *testing.T) {
	b := New(Config{Players: 2, Delay: 0})

	if _, ok := b.Next(0); ok {
		t.Fatal("Next(0) with no submissions should stall")
	}
	if err := b.Submit(0, 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Next(0); ok {
		t.Fatal("Next(0) with one of two slots should stall")
	}
	if got := b.Missing(0); len(got) != 1 || got[0] != 0 {
		t.Errorf("Missing(0) = %v, expected [0]", got)
	}

	// Stalling must not consume anything.
	if err := b.Submit(0, 0, []world.Command{world.Fire}); err != nil {
		t.Fatal(err)
	}
	cmds, ok := b.Next(0)
	if !ok {
		t.Fatal("Next(0) should succeed once complete")
	}
	if len(cmds[0]) != 1 || cmds[0][0] != world.Fire || len(cmds[1]) != 0 {
		t.Errorf("Next(0) = %v", cmds)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d after release, expected 0", b.Pending())
	}
}

func TestGraceWindowStallsOnPartialBucket(t *testing.T) {
	b := New(Config{Players: 2, Delay: 3})
	if err := b.Submit(1, 0, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Next(1); ok {
		t.Error("an incomplete bucket must stall even inside the delay window")
	}
}

func TestSubmitErrors(t *testing.T) {
	b := New(Config{Players: 2, Delay: 1})

	if err := b.Submit(4, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Submit(4, 0, nil); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Submit error = %v, expected ErrDuplicate", err)
	}
	if err := b.Submit(4, 1, []world.Command{world.Command(99)}); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("invalid command error = %v, expected ErrInvalidCommand", err)
	}
	if b.Ready(4) {
		t.Error("a rejected submission must not count")
	}

	if _, ok := b.Next(0); !ok {
		t.Fatal("Next(0) should pass the grace window")
	}
	if err := b.Submit(0, 1, nil); !errors.Is(err, ErrLate) {
		t.Errorf("Submit to a released tick error = %v, expected ErrLate", err)
	}
}

func TestSubmitLocalTargetsDelayedTick(t *testing.T) {
	b := New(Config{Players: 1, Delay: 3})

	target, err := b.SubmitLocal(7, 0, []world.Command{world.Accelerate})
	if err != nil {
		t.Fatal(err)
	}
	if target != 10 {
		t.Errorf("SubmitLocal target = %d, expected 10", target)
	}
	if !b.Ready(10) {
		t.Error("single-player bucket should be ready after the local submission")
	}
}

func TestSubmitCopiesCommands(t *testing.T) {
	b := New(Config{Players: 1, Delay: 0})
	cmds := []world.Command{world.Fire}
	if err := b.Submit(0, 0, cmds); err != nil {
		t.Fatal(err)
	}
	cmds[0] = world.SelfDestruct

	got, _ := b.Next(0)
	if got[0][0] != world.Fire {
		t.Errorf("buffer kept a reference to the caller's slice: %v", got[0])
	}
}

func TestSlotOutOfRangePanics(t *testing.T) {
	b := New(Config{Players: 2, Delay: 0})
	defer func() {
		if recover() == nil {
			t.Error("expected panic for slot 2")
		}
	}()
	_ = b.Submit(0, 2, nil)
}

func TestReset(t *testing.T) {
	b := New(Config{Players: 1, Delay: 0})
	_ = b.Submit(0, 0, nil)
	b.Next(0)
	_ = b.Submit(1, 0, nil)

	b.Reset()
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d after Reset", b.Pending())
	}
	if err := b.Submit(0, 0, nil); err != nil {
		t.Errorf("Submit(0) after Reset error: %v", err)
	}
}
