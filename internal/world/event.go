package world

import "github.com/vovakirdan/fejd/internal/fixed"

// Event is a change resolved during a tick. Collision and Death pass through
// the resolution queue; Fired and Respawned are recorded as they happen.
type Event interface {
	event()
}

// Collision is a projectile reaching a ship.
type Collision struct {
	Projectile int
	Ship       int
	Owner      int
	Distance   fixed.Flint // Travel from the pre-tick position to contact
	Exact      bool        // False if the sweep found no contact and the live position was used
}

func (Collision) event() {}

// Death is an entity being destroyed.
type Death struct {
	Class  Class
	Index  int
	Killer int // Player slot credited with the kill, -1 if none
}

func (Death) event() {}

// Fired is a ship launching a projectile.
type Fired struct {
	Ship int
}

func (Fired) event() {}

// Respawned is a dead ship returning at its spawn point.
type Respawned struct {
	Ship int
}

func (Respawned) event() {}

// Queue is a FIFO of events awaiting resolution.
type Queue struct {
	items []Event
	head  int
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.items = append(q.items, e)
}

// Pop removes and returns the oldest event.
func (q *Queue) Pop() (Event, bool) {
	if q.head == len(q.items) {
		return nil, false
	}
	e := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return e, true
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Clear drops all pending events.
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
