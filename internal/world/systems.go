package world

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/physics"
)

// commit copies live state into past state. Nothing moves before it.
func (w *World) commit() {
	for i := range w.ships {
		s := &w.ships[i]
		s.Body.Commit()
		if s.Cooldown > 0 {
			s.Cooldown--
		}
	}
	for i := range w.projectiles {
		w.projectiles[i].Body.Commit()
	}
	for i := range w.particles {
		w.particles[i].Past = w.particles[i].Live
	}
}

// updateRespawns counts every pending respawn down once and revives the
// ships that reach zero.
func (w *World) updateRespawns() {
	kept := w.respawns[:0]
	for _, r := range w.respawns {
		r.ticks--
		if r.ticks > 0 {
			kept = append(kept, r)
			continue
		}
		w.respawn(r.ship)
		w.events = append(w.events, Respawned{Ship: r.ship})
	}
	w.respawns = kept
}

// applyCommands runs each slot's commands in slot order. Dead ships ignore
// their commands.
func (w *World) applyCommands(cmds [][]Command) {
	for slot, list := range cmds {
		if !w.ships[slot].Alive {
			continue
		}
		for _, c := range list {
			w.apply(slot, c)
		}
	}
}

func (w *World) apply(slot int, c Command) {
	s := &w.ships[slot]
	switch c {
	case Nop:
	case RotateLeft:
		rotate(s, -s.Motion.RotationSpeed)
	case RotateRight:
		rotate(s, s.Motion.RotationSpeed)
	case Accelerate:
		s.Motion.Accelerate()
	case Decelerate:
		s.Motion.Decelerate()
	case Fire:
		if s.Cooldown == 0 {
			w.fire = append(w.fire, slot)
			s.Cooldown = w.rules.Ship.FireCooldown
		}
	case SelfDestruct:
		w.queue.Push(Death{Class: ClassShip, Index: slot, Killer: -1})
	default:
		panic(fmt.Sprintf("world: unknown command %d", uint8(c)))
	}
}

// rotate turns the ship by delta radians. The direction is rebuilt from the
// angle each time, so it stays a unit vector.
func rotate(s *Ship, delta fixed.Flint) {
	rad := s.Body.Live.Direction.Radians() + delta
	s.Body.Turn(fixed.FromAngle(rad))
}

// spawnProjectiles launches a projectile from the nose of every ship that
// fired this tick.
func (w *World) spawnProjectiles() {
	pc := w.rules.Projectile
	for _, slot := range w.fire {
		s := &w.ships[slot]
		dir := s.Body.Live.Direction
		nose := s.Hull().Nose(dir)
		w.projectiles = append(w.projectiles, Projectile{
			Body: physics.NewBody(physics.NewRectAt(nose, pc.Width, pc.Height), dir),
			Motion: Motion{
				Speed:    pc.Speed.Add(s.Motion.Speed),
				MaxSpeed: fixed.Max,
			},
			Owner:  slot,
			Damage: pc.Damage,
		})
		w.events = append(w.events, Fired{Ship: slot})
	}
	w.fire = w.fire[:0]
}

func (w *World) updateMotion() {
	for i := range w.ships {
		s := &w.ships[i]
		if !s.Alive {
			continue
		}
		if s.Motion.Speed != 0 {
			s.Body.Move(s.Body.Live.Direction.Scale(s.Motion.Speed))
		}
		s.Motion.Drag(w.rules.Ship.Drag)
	}

	for i := range w.projectiles {
		p := &w.projectiles[i]
		p.Body.Move(p.Body.Live.Direction.Scale(p.Motion.Speed))
	}

	for i := range w.particles {
		pt := &w.particles[i]
		pt.Live = pt.Live.Add(pt.Velocity)
		pt.Lifetime--
	}

	for i := range w.stars {
		w.stars[i].advance()
	}
}

// updateBounds keeps ship centroids inside the map.
func (w *World) updateBounds() {
	width, height := w.arena.Width, w.arena.Height

	for i := range w.ships {
		s := &w.ships[i]
		if !s.Alive {
			continue
		}
		c := s.Centroid()
		if w.arena.contains(c) {
			continue
		}
		clamped := fixed.V(c.X.Clamp(0, width), c.Y.Clamp(0, height))
		s.Body.Move(clamped.Sub(c))
	}
}

// detectCollisions sweeps every live projectile against every other living
// ship and enqueues a Collision with the nearest one hit. Nothing is mutated
// here; resolution happens once detection is complete.
func (w *World) detectCollisions() {
	for pi := range w.projectiles {
		p := &w.projectiles[pi]
		if p.Dead {
			continue
		}
		dir, travel := p.Body.Live.Direction, p.Motion.Speed
		swept := p.Body.Axes(true)

		hit, best, exact := -1, fixed.Zero, true
		for si := range w.ships {
			s := &w.ships[si]
			if !s.Alive || si == p.Owner {
				continue
			}
			hull := s.Body.Axes(false)
			if !physics.Intersects(swept, hull) {
				continue
			}

			w.corners = p.Body.Past.Corners(w.corners[:0])
			d, ok := physics.SweepToContact(dir, w.corners, hull, travel)
			if !ok {
				d = travel
			}
			if hit < 0 || d < best {
				hit, best, exact = si, d, ok
			}
		}

		if hit >= 0 {
			w.queue.Push(Collision{
				Projectile: pi,
				Ship:       hit,
				Owner:      p.Owner,
				Distance:   best,
				Exact:      exact,
			})
		}
	}
}

// resolve drains the event queue in order. Handlers may enqueue further
// events, which are resolved in the same pass.
func (w *World) resolve() {
	for {
		e, ok := w.queue.Pop()
		if !ok {
			return
		}
		switch e := e.(type) {
		case Collision:
			w.resolveCollision(e)
		case Death:
			w.resolveDeath(e)
		}
	}
}

func (w *World) resolveCollision(c Collision) {
	p := &w.projectiles[c.Projectile]
	s := &w.ships[c.Ship]
	if p.Dead || !s.Alive {
		return
	}

	// move the projectile to the exact contact point
	p.Body.Rewind()
	p.Body.Move(p.Body.Live.Direction.Scale(c.Distance))
	w.events = append(w.events, c)
	w.queue.Push(Death{Class: ClassProjectile, Index: c.Projectile, Killer: -1})

	if s.Health <= 0 {
		return // death already queued
	}
	s.Health -= p.Damage
	if s.Health <= 0 {
		w.queue.Push(Death{Class: ClassShip, Index: c.Ship, Killer: p.Owner})
	}
}

func (w *World) resolveDeath(d Death) {
	switch d.Class {
	case ClassProjectile:
		p := &w.projectiles[d.Index]
		if p.Dead {
			return
		}
		p.Dead = true

	case ClassShip:
		s := &w.ships[d.Index]
		if !s.Alive {
			return
		}
		s.Alive = false
		s.Health = 0
		s.Motion.Speed = 0
		s.Deaths++
		if d.Killer >= 0 && d.Killer != d.Index {
			w.ships[d.Killer].Kills++
		}
		w.burst(d.Index, s.Centroid())
		w.respawns = append(w.respawns, respawn{ship: d.Index, ticks: w.rules.Ship.RespawnTicks})
	}
	w.events = append(w.events, d)
}

// burst emits the cosmetic particles of a dying ship.
func (w *World) burst(slot int, at fixed.Vec2) {
	pc := w.rules.Particles
	for range pc.Count {
		dir := fixed.FromAngle(fixed.Flint(w.fx.Intn(int(fixed.TwoPi))))
		speed := pc.Speed.MulInt(w.fx.Range(2, 6)).DivInt(4)
		w.particles = append(w.particles, Particle{
			Past:     at,
			Live:     at,
			Velocity: dir.Scale(speed),
			Lifetime: pc.Lifetime - w.fx.Intn(pc.Lifetime/3+1),
			Slot:     slot,
		})
	}
}

// expireProjectiles kills projectiles that left the map. It runs after
// collisions are resolved so a projectile that crossed a ship on its way out
// still hits it.
func (w *World) expireProjectiles() {
	width, height := w.arena.Width, w.arena.Height
	for i := range w.projectiles {
		p := &w.projectiles[i]
		r := p.Body.Live.Shape.(physics.Rect)
		if r.Point.X+r.Width < 0 || r.Point.X > width || r.Point.Y+r.Height < 0 || r.Point.Y > height {
			p.Dead = true
		}
	}
}

func (w *World) cull() {
	w.projectiles = slices.DeleteFunc(w.projectiles, func(p Projectile) bool { return p.Dead })
	w.particles = slices.DeleteFunc(w.particles, func(p Particle) bool { return p.Lifetime <= 0 })
}
