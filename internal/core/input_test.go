package core

import (
	"testing"

	"github.com/vovakirdan/fejd/internal/world"
)

func TestActionCommand(t *testing.T) {
	tests := []struct {
		action Action
		cmd    world.Command
		ok     bool
	}{
		{ActionRotateLeft, world.RotateLeft, true},
		{ActionRotateRight, world.RotateRight, true},
		{ActionThrust, world.Accelerate, true},
		{ActionBrake, world.Decelerate, true},
		{ActionFire, world.Fire, true},
		{ActionSelfDestruct, world.SelfDestruct, true},
		{ActionDebug, world.Nop, false},
		{ActionQuit, world.Nop, false},
		{ActionNone, world.Nop, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			cmd, ok := tt.action.Command()
			if cmd != tt.cmd || ok != tt.ok {
				t.Errorf("Command() = %v, %v, expected %v, %v", cmd, ok, tt.cmd, tt.ok)
			}
		})
	}
}

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() {
		t.Fatal("zero frame should be empty")
	}

	f.Set(ActionFire)
	f.Set(ActionDebug)
	f.Set(ActionThrust)
	f.Set(ActionFire)
	f.Set(ActionNone)

	if !f.Has(ActionDebug) || f.Has(ActionQuit) {
		t.Error("Has() mismatch")
	}

	got := f.Commands()
	want := []world.Command{world.Fire, world.Accelerate}
	if len(got) != len(want) {
		t.Fatalf("Commands() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Commands()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}

	f.Clear()
	if !f.Empty() || f.Has(ActionFire) {
		t.Error("Clear() should reset the frame")
	}
}
