package world

import (
	"fmt"
	"strings"
)

// Command is a single player intent applied to that player's ship during
// one tick. The zero value is Nop.
type Command uint8

const (
	Nop Command = iota
	RotateLeft
	RotateRight
	Accelerate
	Decelerate
	Fire
	SelfDestruct

	commandCount
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case Nop:
		return "Nop"
	case RotateLeft:
		return "RotateLeft"
	case RotateRight:
		return "RotateRight"
	case Accelerate:
		return "Accelerate"
	case Decelerate:
		return "Decelerate"
	case Fire:
		return "Fire"
	case SelfDestruct:
		return "SelfDestruct"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	return c < commandCount
}

// ParseCommand resolves a command name, ignoring case.
func ParseCommand(s string) (Command, error) {
	for c := Nop; c < commandCount; c++ {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return Nop, fmt.Errorf("unknown command %q", s)
}
