package physics

import (
	"testing"

	"github.com/vovakirdan/fejd/internal/fixed"
)

func TestBodyAxesCache(t *testing.T) {
	b := NewBody(rect(0, 0, 4, 2), fixed.East)
	if !b.Dirty() {
		t.Fatal("new body should be dirty")
	}

	first := b.Axes(false)
	if b.Dirty() {
		t.Fatal("body should be clean after computing axes")
	}
	if len(first) != 4 {
		t.Fatalf("rect axes = %d vertices, expected 4", len(first))
	}
	if &b.Axes(false)[0] != &first[0] {
		t.Error("clean body should return the cached slice")
	}

	b.Move(fixed.VI(1, 0))
	if !b.Dirty() {
		t.Fatal("Move should mark body dirty")
	}
	moved := b.Axes(false)
	if moved[0] != fixed.VI(1, 0) {
		t.Errorf("first vertex after move = %v, expected (1, 0)", moved[0])
	}
}

func TestBodyAxesSeesAssignedPose(t *testing.T) {
	b := NewBody(rect(0, 0, 4, 2), fixed.East)
	b.Axes(false)

	b.Live = Pose{Shape: rect(5, 5, 4, 2), Direction: fixed.East}
	if !b.Dirty() {
		t.Fatal("assigning Live should make the cache stale")
	}
	if got := b.Axes(false)[0]; got != fixed.VI(5, 5) {
		t.Errorf("first vertex after assignment = %v, expected (5, 5)", got)
	}

	b.Past = b.Live
	if got := b.Axes(true)[0]; got != fixed.VI(5, 5) {
		t.Errorf("swept vertex after assigning Past = %v, expected (5, 5)", got)
	}
	if b.Dirty() {
		t.Error("body should be clean after recomputing")
	}
}

func TestBodyAxesModeSwitch(t *testing.T) {
	b := NewBody(rect(0, 0, 2, 2), fixed.East)
	b.Commit()
	b.Move(fixed.VI(10, 0))

	live := append([]fixed.Vec2(nil), b.Axes(false)...)
	swept := b.Axes(true)

	// past back-left, live front-left, live front-right, past back-right
	expected := []fixed.Vec2{fixed.VI(0, 0), fixed.VI(12, 0), fixed.VI(12, 2), fixed.VI(0, 2)}
	for i := range expected {
		if swept[i] != expected[i] {
			t.Errorf("swept[%d] = %v, expected %v", i, swept[i], expected[i])
		}
	}
	if again := b.Axes(false); again[0] != live[0] {
		t.Errorf("switching back to live axes returned %v, expected %v", again[0], live[0])
	}
}

func TestBodyCommitAndPlace(t *testing.T) {
	b := NewBody(rect(0, 0, 2, 2), fixed.East)
	b.Move(fixed.VI(3, 0))
	b.Commit()
	if b.Past != b.Live {
		t.Fatal("Commit should copy live into past")
	}

	b.Move(fixed.VI(3, 0))
	b.Turn(fixed.North)
	b.Rewind()
	if b.Live != b.Past {
		t.Error("Rewind should restore the past pose")
	}

	spawn := Triangle{Center: fixed.VI(100, 100), Width: fixed.FromInt(26), Height: fixed.FromInt(31)}
	b.Place(spawn, fixed.South)
	if b.Past != b.Live || b.Live.Direction != fixed.South {
		t.Error("Place should reset both poses")
	}
}

func TestTriangleCorners(t *testing.T) {
	tri := Triangle{Center: fixed.VI(0, 0), Width: fixed.FromInt(26), Height: fixed.FromInt(31)}

	east := tri.Corners(nil, fixed.East)
	if east[0] != fixed.V(84650, 0) {
		t.Errorf("apex facing east = %v", east[0])
	}
	if east[1] != fixed.V(-42325, fixed.FromInt(13)) || east[2] != fixed.V(-42325, fixed.FromInt(-13)) {
		t.Errorf("base facing east = %v %v", east[1], east[2])
	}

	south := tri.Corners(nil, fixed.South)
	if south[0] != fixed.V(0, 84650) {
		t.Errorf("apex facing south = %v", south[0])
	}
	if nose := tri.Nose(fixed.South); nose != south[0] {
		t.Errorf("Nose() = %v, expected %v", nose, south[0])
	}
}
