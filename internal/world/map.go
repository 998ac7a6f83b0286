package world

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/fejd/internal/fixed"
)

var errZeroDirection = errors.New("direction must not be zero")

// Spawn is a ship start point with its initial facing.
type Spawn struct {
	Point     fixed.Vec2 `yaml:"point"`
	Direction fixed.Vec2 `yaml:"direction"`
}

// Map is the arena a match is played in. Together with the seed it is the
// whole bootstrap input of a match.
type Map struct {
	Name   string      `yaml:"name"`
	Width  fixed.Flint `yaml:"width"`
	Height fixed.Flint `yaml:"height"`
	Spawns []Spawn     `yaml:"spawns"`
}

// Validate checks the map is usable.
func (m Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %q: size must be positive, got %sx%s", m.Name, m.Width, m.Height)
	}
	if len(m.Spawns) == 0 {
		return fmt.Errorf("map %q: no spawn points", m.Name)
	}
	for i, s := range m.Spawns {
		if s.Point.X < 0 || s.Point.Y < 0 || s.Point.X > m.Width || s.Point.Y > m.Height {
			return fmt.Errorf("map %q: spawn %d at %s is outside the map", m.Name, i, s.Point)
		}
		if s.Direction.IsZero() {
			return fmt.Errorf("map %q: spawn %d: %w", m.Name, i, errZeroDirection)
		}
	}
	return nil
}

// contains reports whether p lies inside the map, edges included.
func (m Map) contains(p fixed.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= m.Width && p.Y <= m.Height
}
