package physics

import "github.com/vovakirdan/fejd/internal/fixed"

// Pose is a shape together with the unit direction it faces.
type Pose struct {
	Shape     Shape
	Direction fixed.Vec2
}

// Corners appends the pose's world-space vertices to dst.
func (p Pose) Corners(dst []fixed.Vec2) []fixed.Vec2 {
	return p.Shape.Corners(dst, p.Direction)
}

// Body pairs the pose at the end of the current tick (Live) with the pose at
// the end of the previous one (Past) and caches the derived SAT vertices.
//
// The cache remembers the poses it was built from. The mutating methods mark
// the body dirty up front, and a pose assigned directly to Live or Past is
// caught by comparison on the next Axes call.
type Body struct {
	Live Pose
	Past Pose

	dirty bool
	swept bool
	key   [2]Pose // Live and Past the cache was built from
	axes  []fixed.Vec2
}

// NewBody places a body with identical past and live poses.
func NewBody(shape Shape, dir fixed.Vec2) Body {
	p := Pose{Shape: shape, Direction: dir}
	return Body{Live: p, Past: p, dirty: true}
}

// Commit copies Live into Past. It runs once per tick before anything moves.
func (b *Body) Commit() {
	b.Past = b.Live
	b.dirty = true
}

// Move translates the live shape by d.
func (b *Body) Move(d fixed.Vec2) {
	b.Live.Shape = b.Live.Shape.Translated(d)
	b.dirty = true
}

// Turn sets the live direction.
func (b *Body) Turn(dir fixed.Vec2) {
	b.Live.Direction = dir
	b.dirty = true
}

// Place resets both poses, so the next interpolation does not blend from
// the previous location.
func (b *Body) Place(shape Shape, dir fixed.Vec2) {
	*b = NewBody(shape, dir)
}

// Rewind sets Live back to Past.
func (b *Body) Rewind() {
	b.Live = b.Past
	b.dirty = true
}

// Clone returns a copy that does not share the vertex cache.
func (b Body) Clone() Body {
	b.axes = nil
	b.dirty = true
	return b
}

// Dirty reports whether the cached vertices are stale.
func (b *Body) Dirty() bool {
	return b.dirty || b.key != [2]Pose{b.Live, b.Past}
}

// Axes returns the vertices SAT projects: the live outline, or with
// includePast a quad covering the path from the past pose to the live one.
// The swept quad is only meaningful for rectangles travelling along their
// facing direction; other shapes return their live outline either way.
//
// The returned slice is owned by the body and valid until the next mutation.
func (b *Body) Axes(includePast bool) []fixed.Vec2 {
	if !b.Dirty() && b.swept == includePast {
		return b.axes
	}

	b.axes = b.axes[:0]
	live, lok := b.Live.Shape.(Rect)
	past, pok := b.Past.Shape.(Rect)
	if includePast && lok && pok {
		var pc, lc [4]fixed.Vec2
		past.Corners(pc[:0], b.Past.Direction)
		live.Corners(lc[:0], b.Live.Direction)
		// past back-left, live front-left, live front-right, past back-right
		b.axes = append(b.axes, pc[0], lc[1], lc[2], pc[3])
	} else {
		b.axes = b.Live.Corners(b.axes)
	}

	b.swept = includePast
	b.key = [2]Pose{b.Live, b.Past}
	b.dirty = false
	return b.axes
}
