// Package world implements the deterministic match simulation: ships,
// projectiles and their lifecycle, advanced one fixed tick at a time from a
// matrix of player commands.
//
// The world is single-threaded. Step mutates it; everything else only reads.
// Given the same rules, map, seed and command matrices, two worlds produce
// bit-identical state on every platform.
package world

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/physics"
)

// RNG streams. Gameplay draws happen in a fixed, command-independent order so
// they stay in sync; cosmetic draws never affect gameplay.
const (
	gameplayStream uint64 = 0x67616d65706c6179
	cosmeticStream uint64 = 0x636f736d65746963
)

// World is the simulation state of one match.
type World struct {
	rules   config.Rules
	arena   Map
	seed    uint64
	players int
	tick    uint64

	rng *RNG
	fx  *RNG

	ships       []Ship
	projectiles []Projectile
	particles   []Particle
	stars       []Star

	respawns []respawn
	fire     []int // Slots that fired this tick
	queue    Queue
	events   []Event
	corners  []fixed.Vec2
}

type respawn struct {
	ship  int
	ticks int
}

// New starts a match. players ships are bound to shuffled spawn points.
func New(rules config.Rules, m Map, players int, seed uint64) (*World, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if players < 1 {
		return nil, fmt.Errorf("world: need at least one player, got %d", players)
	}
	if players > len(m.Spawns) {
		return nil, fmt.Errorf("world: %d players but map %q has %d spawns: %w",
			players, m.Name, len(m.Spawns), config.ErrTooManyPlayers)
	}

	m.Spawns = slices.Clone(m.Spawns)
	for i := range m.Spawns {
		m.Spawns[i].Direction = m.Spawns[i].Direction.Normalized()
	}

	w := &World{
		rules:   rules,
		arena:   m,
		seed:    seed,
		players: players,
	}
	w.start()
	return w, nil
}

func (w *World) start() {
	w.tick = 0
	w.rng = NewRNG(w.seed, gameplayStream)
	w.fx = NewRNG(w.seed, cosmeticStream)

	order := make([]int, len(w.arena.Spawns))
	for i := range order {
		order[i] = i
	}
	w.rng.Shuffle(order)

	ship := w.rules.Ship
	w.ships = make([]Ship, w.players)
	for i := range w.ships {
		w.ships[i] = Ship{
			Slot:  i,
			Spawn: order[i],
			Motion: Motion{
				MaxSpeed:      ship.MaxSpeed,
				Acceleration:  ship.Acceleration,
				RotationSpeed: ship.RotationSpeed,
			},
		}
		w.respawn(i)
	}

	w.stars = make([]Star, w.rules.Stars.Count)
	width, height := w.arena.Width.Int(), w.arena.Height.Int()
	for i := range w.stars {
		size := w.fx.Range(1, 3)
		w.stars[i] = Star{
			Point:  fixed.VI(w.fx.Range(1, max(2, width-size)), w.fx.Range(1, max(2, height-size))),
			Size:   size,
			Phase:  uint8(w.fx.Intn(256)), //#nosec G115 -- value below 256
			Period: uint8(w.fx.Intn(16)),  //#nosec G115 -- value below 16
			Bright: w.fx.Bool(),
		}
		w.stars[i].advance()
	}
}

// Reset restarts the match from its seed.
func (w *World) Reset() {
	w.Exit()
	w.start()
}

// Exit tears the match down, dropping every entity and pending event.
func (w *World) Exit() {
	w.tick = 0
	w.ships = nil
	w.projectiles = nil
	w.particles = nil
	w.stars = nil
	w.respawns = nil
	w.fire = nil
	w.events = nil
	w.queue.Clear()
}

// Step advances the simulation by exactly one tick. cmds[i] holds the
// commands of player slot i; missing slots issue no commands. A matrix wider
// than the player count is a programmer error and panics.
//
// The returned events are those resolved during the tick, in order.
func (w *World) Step(cmds [][]Command) []Event {
	if len(cmds) > len(w.ships) {
		panic(fmt.Sprintf("world: command matrix has %d slots for %d ships", len(cmds), len(w.ships)))
	}
	w.events = nil

	w.commit()
	w.updateRespawns()
	w.applyCommands(cmds)
	w.spawnProjectiles()
	w.updateMotion()
	w.updateBounds()
	w.detectCollisions()
	w.resolve()
	w.expireProjectiles()
	w.cull()

	w.tick++
	return w.events
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Seed returns the match seed.
func (w *World) Seed() uint64 {
	return w.seed
}

// Players returns the number of player slots.
func (w *World) Players() int {
	return w.players
}

// Map returns the arena.
func (w *World) Map() Map {
	m := w.arena
	m.Spawns = slices.Clone(m.Spawns)
	return m
}

// Rules returns the gameplay tunables.
func (w *World) Rules() config.Rules {
	return w.rules
}

// Ship returns a copy of the ship in slot i.
func (w *World) Ship(i int) Ship {
	s := w.ships[i]
	s.Body = s.Body.Clone()
	return s
}

// Ships returns a copy of all ships, indexed by player slot.
func (w *World) Ships() []Ship {
	out := make([]Ship, len(w.ships))
	for i := range w.ships {
		out[i] = w.Ship(i)
	}
	return out
}

// Projectiles returns a copy of the live projectiles.
func (w *World) Projectiles() []Projectile {
	out := slices.Clone(w.projectiles)
	for i := range out {
		out[i].Body = out[i].Body.Clone()
	}
	return out
}

// Particles returns a copy of the cosmetic particles.
func (w *World) Particles() []Particle {
	return slices.Clone(w.particles)
}

// Stars returns a copy of the star field.
func (w *World) Stars() []Star {
	return slices.Clone(w.stars)
}

// RespawnIn returns the ticks left before slot i respawns.
func (w *World) RespawnIn(i int) (int, bool) {
	for _, r := range w.respawns {
		if r.ship == i {
			return r.ticks, true
		}
	}
	return 0, false
}

// respawn places ship i at its spawn point with full health.
func (w *World) respawn(i int) {
	s := &w.ships[i]
	sp := w.arena.Spawns[s.Spawn]
	hull := physics.Triangle{Center: sp.Point, Width: w.rules.Ship.Width, Height: w.rules.Ship.Height}
	s.Body.Place(hull, sp.Direction)
	s.Motion.Speed = 0
	s.Health = w.rules.Ship.Health
	s.Alive = true
	s.Cooldown = 0
}
