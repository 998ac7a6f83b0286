// Package config provides YAML match configuration loading and the named
// rule presets for fejd.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/fejd/internal/fixed"
)

// MaxPlayers is the largest player count any built-in map supports.
const MaxPlayers = 8

// ErrTooManyPlayers is returned when a match asks for more players than
// there are spawn points.
var ErrTooManyPlayers = errors.New("too many players")

// Config is the complete configuration of a match.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Match  MatchConfig  `yaml:"match"`
	Rules  `yaml:",inline"`
}

// EngineConfig controls the tick loop and the lockstep buffer.
type EngineConfig struct {
	TicksPerSecond int           `yaml:"ticks_per_second"`
	CommandDelay   int           `yaml:"command_delay"`  // Ticks between capture and application
	MaxFrameTime   time.Duration `yaml:"max_frame_time"` // Longest frame the accumulator accepts
}

// MatchConfig selects the map and the number of player slots.
type MatchConfig struct {
	Players int    `yaml:"players"`
	Map     string `yaml:"map"`
}

// Rules are the gameplay tunables that enter simulation state. Every peer
// must use identical Rules.
type Rules struct {
	Ship       ShipConfig       `yaml:"ship"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Particles  ParticleConfig   `yaml:"particles"`
	Stars      StarConfig       `yaml:"stars"`
}

// ShipConfig defines the player craft.
type ShipConfig struct {
	Width         fixed.Flint `yaml:"width"`
	Height        fixed.Flint `yaml:"height"`
	MaxSpeed      fixed.Flint `yaml:"max_speed"`
	Acceleration  fixed.Flint `yaml:"acceleration"`
	RotationSpeed fixed.Flint `yaml:"rotation_speed"` // Radians per tick
	Drag          fixed.Flint `yaml:"drag"`
	Health        int         `yaml:"health"`
	RespawnTicks  int         `yaml:"respawn_ticks"`
	FireCooldown  int         `yaml:"fire_cooldown"`
}

// ProjectileConfig defines fired projectiles.
type ProjectileConfig struct {
	Width  fixed.Flint `yaml:"width"`
	Height fixed.Flint `yaml:"height"`
	Speed  fixed.Flint `yaml:"speed"` // Added to the firing ship's speed
	Damage int         `yaml:"damage"`
}

// ParticleConfig defines the burst emitted when a ship dies.
type ParticleConfig struct {
	Count    int         `yaml:"count"`
	Speed    fixed.Flint `yaml:"speed"`
	Lifetime int         `yaml:"lifetime"`
}

// StarConfig defines the background star field.
type StarConfig struct {
	Count int `yaml:"count"`
}

// TickPeriod returns the duration of one simulation tick.
func (c EngineConfig) TickPeriod() time.Duration {
	if c.TicksPerSecond <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TicksPerSecond)
}

// Validate reports the first invalid value in c.
func (c Config) Validate() error {
	switch {
	case c.Engine.TicksPerSecond <= 0:
		return fmt.Errorf("engine.ticks_per_second must be positive, got %d", c.Engine.TicksPerSecond)
	case c.Engine.CommandDelay < 0:
		return fmt.Errorf("engine.command_delay must not be negative, got %d", c.Engine.CommandDelay)
	case c.Engine.MaxFrameTime <= 0:
		return fmt.Errorf("engine.max_frame_time must be positive, got %s", c.Engine.MaxFrameTime)
	case c.Match.Players < 1:
		return fmt.Errorf("match.players must be at least 1, got %d", c.Match.Players)
	case c.Match.Players > MaxPlayers:
		return fmt.Errorf("match.players %d exceeds %d: %w", c.Match.Players, MaxPlayers, ErrTooManyPlayers)
	case c.Match.Map == "":
		return errors.New("match.map must be set")
	}
	return c.Rules.Validate()
}

// Validate reports the first invalid gameplay value in r.
func (r Rules) Validate() error {
	switch {
	case r.Ship.Width <= 0 || r.Ship.Height <= 0:
		return fmt.Errorf("ship size must be positive, got %sx%s", r.Ship.Width, r.Ship.Height)
	case r.Ship.MaxSpeed <= 0:
		return fmt.Errorf("ship.max_speed must be positive, got %s", r.Ship.MaxSpeed)
	case r.Ship.Acceleration < 0 || r.Ship.Drag < 0 || r.Ship.RotationSpeed < 0:
		return errors.New("ship acceleration, drag and rotation_speed must not be negative")
	case r.Ship.Health < 1:
		return fmt.Errorf("ship.health must be at least 1, got %d", r.Ship.Health)
	case r.Ship.RespawnTicks < 1:
		return fmt.Errorf("ship.respawn_ticks must be at least 1, got %d", r.Ship.RespawnTicks)
	case r.Ship.FireCooldown < 0:
		return fmt.Errorf("ship.fire_cooldown must not be negative, got %d", r.Ship.FireCooldown)
	case r.Projectile.Width < fixed.One || r.Projectile.Height <= 0:
		// the sweep steps one unit at a time and must not skip past a target
		return fmt.Errorf("projectile size must be at least 1x1, got %sx%s", r.Projectile.Width, r.Projectile.Height)
	case r.Projectile.Speed <= r.Ship.MaxSpeed.DivInt(2):
		// a ship at full reverse must still fire forward
		return fmt.Errorf("projectile.speed must exceed half of ship.max_speed, got %s", r.Projectile.Speed)
	case r.Particles.Count < 0 || r.Particles.Lifetime < 0 || r.Stars.Count < 0:
		return errors.New("particle and star counts must not be negative")
	}
	return nil
}
