package core

import "github.com/vovakirdan/fejd/internal/world"

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone         Action = iota
	ActionRotateLeft          // A, Left arrow
	ActionRotateRight         // D, Right arrow
	ActionThrust              // W, Up arrow
	ActionBrake               // S, Down arrow
	ActionFire                // Space
	ActionSelfDestruct        // X
	ActionDebug               // F3 - toggle hull outlines
	ActionFaster              // + - raise the tick rate
	ActionSlower              // - - lower the tick rate
	ActionQuit                // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionThrust:
		return "Thrust"
	case ActionBrake:
		return "Brake"
	case ActionFire:
		return "Fire"
	case ActionSelfDestruct:
		return "SelfDestruct"
	case ActionDebug:
		return "Debug"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Command returns the ship command an action maps to. Actions that steer
// the session rather than the ship report false.
func (a Action) Command() (world.Command, bool) {
	switch a {
	case ActionRotateLeft:
		return world.RotateLeft, true
	case ActionRotateRight:
		return world.RotateRight, true
	case ActionThrust:
		return world.Accelerate, true
	case ActionBrake:
		return world.Decelerate, true
	case ActionFire:
		return world.Fire, true
	case ActionSelfDestruct:
		return world.SelfDestruct, true
	default:
		return world.Nop, false
	}
}

// InputFrame collects the actions triggered between two simulation ticks.
// Actions keep the order they were first pressed in.
type InputFrame struct {
	order []Action
	seen  map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{seen: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame. Repeats are ignored.
func (f *InputFrame) Set(a Action) {
	if f.seen == nil {
		f.seen = make(map[Action]bool)
	}
	if a == ActionNone || f.seen[a] {
		return
	}
	f.seen[a] = true
	f.order = append(f.order, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.seen[a]
}

// Empty reports whether nothing was pressed.
func (f InputFrame) Empty() bool {
	return len(f.order) == 0
}

// Commands returns the ship commands of the frame in press order.
func (f InputFrame) Commands() []world.Command {
	var cmds []world.Command
	for _, a := range f.order {
		if c, ok := a.Command(); ok {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.seen)
	f.order = f.order[:0]
}
