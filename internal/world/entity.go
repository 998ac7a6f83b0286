package world

import (
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/physics"
)

// Class identifies an entity collection.
type Class uint8

const (
	ClassShip Class = iota
	ClassProjectile
)

func (c Class) String() string {
	switch c {
	case ClassShip:
		return "ship"
	case ClassProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Motion holds signed speed along the body's direction and its limits.
type Motion struct {
	Speed         fixed.Flint
	MaxSpeed      fixed.Flint
	Acceleration  fixed.Flint
	RotationSpeed fixed.Flint
}

// Accelerate adds one step of acceleration, capped at MaxSpeed.
func (m *Motion) Accelerate() {
	m.Speed = fixed.MinOf(m.Speed+m.Acceleration, m.MaxSpeed)
}

// Decelerate removes one step of acceleration. Reverse is capped at half
// of MaxSpeed.
func (m *Motion) Decelerate() {
	m.Speed = fixed.MaxOf(m.Speed-m.Acceleration, -m.MaxSpeed.DivInt(2))
}

// Drag moves Speed toward zero by d without crossing it.
func (m *Motion) Drag(d fixed.Flint) {
	switch {
	case m.Speed > 0:
		m.Speed = fixed.MaxOf(m.Speed-d, 0)
	case m.Speed < 0:
		m.Speed = fixed.MinOf(m.Speed+d, 0)
	}
}

// Ship is a player craft. Its index in the world is its player slot and never
// changes during a match.
type Ship struct {
	Body     physics.Body
	Motion   Motion
	Slot     int
	Spawn    int // Map spawn point, fixed for the match
	Health   int
	Alive    bool
	Cooldown int // Ticks until the ship may fire again
	Kills    int
	Deaths   int
}

// Centroid returns the live centroid.
func (s *Ship) Centroid() fixed.Vec2 {
	return s.Body.Live.Shape.Centroid()
}

// Hull returns the live triangle.
func (s *Ship) Hull() physics.Triangle {
	return s.Body.Live.Shape.(physics.Triangle)
}

// Projectile is a fired round. Projectiles have no stable index.
type Projectile struct {
	Body   physics.Body
	Motion Motion
	Owner  int
	Damage int
	Dead   bool
}

// Particle is a cosmetic point emitted by a dying ship.
type Particle struct {
	Past, Live fixed.Vec2
	Velocity   fixed.Vec2
	Lifetime   int
	Slot       int // Ship that emitted it
}

// Star is a cosmetic background point that blinks.
type Star struct {
	Point   fixed.Vec2
	Size    int
	Phase   uint8
	Period  uint8 // Ticks per blink half-cycle, 0 for a steady star
	Bright  bool
	Visible bool
}

func (s *Star) advance() {
	s.Phase++
	if s.Period == 0 {
		s.Visible = true
		return
	}
	s.Visible = (s.Phase/s.Period)%2 == 0
}
