package world

import "github.com/vovakirdan/fejd/internal/fixed"

// ShipState is the gameplay-relevant state of one ship.
type ShipState struct {
	Slot      int
	Spawn     int
	Centroid  fixed.Vec2
	Direction fixed.Vec2
	Speed     fixed.Flint
	Health    int
	Alive     bool
	Cooldown  int
	Kills     int
	Deaths    int
}

// ProjectileState is the gameplay-relevant state of one projectile.
type ProjectileState struct {
	Owner     int
	Centroid  fixed.Vec2
	Direction fixed.Vec2
	Speed     fixed.Flint
}

// Snapshot captures the simulation state for determinism verification and
// replay checks. Cosmetic entities are only counted.
type Snapshot struct {
	Tick        uint64
	Ships       []ShipState
	Projectiles []ProjectileState
	Respawns    []int // Ticks left per pending respawn, in queue order
	Particles   int
	RNGDraws    uint64
}

// Snapshot returns the current simulation snapshot.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        w.tick,
		Ships:       make([]ShipState, len(w.ships)),
		Projectiles: make([]ProjectileState, len(w.projectiles)),
		Respawns:    make([]int, len(w.respawns)),
		Particles:   len(w.particles),
	}
	if w.rng != nil {
		snap.RNGDraws = w.rng.Draws()
	}

	for i := range w.ships {
		s := &w.ships[i]
		snap.Ships[i] = ShipState{
			Slot:      s.Slot,
			Spawn:     s.Spawn,
			Centroid:  s.Centroid(),
			Direction: s.Body.Live.Direction,
			Speed:     s.Motion.Speed,
			Health:    s.Health,
			Alive:     s.Alive,
			Cooldown:  s.Cooldown,
			Kills:     s.Kills,
			Deaths:    s.Deaths,
		}
	}
	for i := range w.projectiles {
		p := &w.projectiles[i]
		snap.Projectiles[i] = ProjectileState{
			Owner:     p.Owner,
			Centroid:  p.Body.Live.Shape.Centroid(),
			Direction: p.Body.Live.Direction,
			Speed:     p.Motion.Speed,
		}
	}
	for i, r := range w.respawns {
		snap.Respawns[i] = r.ticks
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(len(snap.Ships))       //#nosec G115 -- hash computation
	h = h*31 + uint64(len(snap.Projectiles)) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Particles)        //#nosec G115 -- hash computation
	h = h*31 + snap.RNGDraws

	for _, s := range snap.Ships {
		h = h*31 + uint64(s.Spawn) //#nosec G115 -- hash computation
		h = hashVec(h, s.Centroid)
		h = hashVec(h, s.Direction)
		h = h*31 + uint64(s.Speed)  //#nosec G115 -- hash computation
		h = h*31 + uint64(s.Health) //#nosec G115 -- hash computation
		if s.Alive {
			h = h*31 + 1
		}
		h = h*31 + uint64(s.Cooldown) //#nosec G115 -- hash computation
		h = h*31 + uint64(s.Kills)    //#nosec G115 -- hash computation
		h = h*31 + uint64(s.Deaths)   //#nosec G115 -- hash computation
	}

	for _, p := range snap.Projectiles {
		h = h*31 + uint64(p.Owner) //#nosec G115 -- hash computation
		h = hashVec(h, p.Centroid)
		h = hashVec(h, p.Direction)
		h = h*31 + uint64(p.Speed) //#nosec G115 -- hash computation
	}

	for _, v := range snap.Respawns {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	return h
}

func hashVec(h uint64, v fixed.Vec2) uint64 {
	h = h*31 + uint64(v.X) //#nosec G115 -- hash computation
	h = h*31 + uint64(v.Y) //#nosec G115 -- hash computation
	return h
}

// Hash returns the hash of the current snapshot.
func (w *World) Hash() uint64 {
	snap := w.Snapshot()
	return snap.Hash()
}
