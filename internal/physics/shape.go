// Package physics holds the convex shapes, live/past bodies and the SAT
// collision test with swept resolution used by the simulation.
package physics

import "github.com/vovakirdan/fejd/internal/fixed"

// Shape is a convex outline that can be oriented by a unit direction.
// Shapes are values; translating one returns a new value.
type Shape interface {
	// Centroid is the pivot the shape is rotated about.
	Centroid() fixed.Vec2
	// Translated returns the shape moved by d.
	Translated(d fixed.Vec2) Shape
	// Corners appends the world-space vertices of the shape facing dir to
	// dst, in boundary order.
	Corners(dst []fixed.Vec2, dir fixed.Vec2) []fixed.Vec2
}

// Rect is a rectangle given by its unrotated top-left point and size.
// Width runs along the facing direction.
type Rect struct {
	Point  fixed.Vec2
	Width  fixed.Flint
	Height fixed.Flint
}

// NewRectAt builds a rectangle centred on c.
func NewRectAt(c fixed.Vec2, w, h fixed.Flint) Rect {
	return Rect{
		Point:  fixed.V(c.X-w.DivInt(2), c.Y-h.DivInt(2)),
		Width:  w,
		Height: h,
	}
}

// Centroid returns the rectangle's centre.
func (r Rect) Centroid() fixed.Vec2 {
	return fixed.V(r.Point.X+r.Width.DivInt(2), r.Point.Y+r.Height.DivInt(2))
}

// Translated returns r moved by d.
func (r Rect) Translated(d fixed.Vec2) Shape {
	r.Point = r.Point.Add(d)
	return r
}

// Corners returns back-left, front-left, front-right, back-right, where
// "front" is the edge facing dir.
func (r Rect) Corners(dst []fixed.Vec2, dir fixed.Vec2) []fixed.Vec2 {
	c := r.Centroid()
	back, front := r.Point.X, r.Point.X+r.Width
	left, right := r.Point.Y, r.Point.Y+r.Height
	return append(dst,
		fixed.V(back, left).RotatedBy(dir, c),
		fixed.V(front, left).RotatedBy(dir, c),
		fixed.V(front, right).RotatedBy(dir, c),
		fixed.V(back, right).RotatedBy(dir, c),
	)
}

// Triangle is an isosceles triangle built from a centroid template that
// faces +x: the apex sits 2/3 of the height ahead of the centroid and the
// base 1/3 behind it.
type Triangle struct {
	Center fixed.Vec2
	Width  fixed.Flint
	Height fixed.Flint
}

// Centroid returns the triangle's centroid.
func (t Triangle) Centroid() fixed.Vec2 {
	return t.Center
}

// Translated returns t moved by d.
func (t Triangle) Translated(d fixed.Vec2) Shape {
	t.Center = t.Center.Add(d)
	return t
}

// Corners returns apex, base-right, base-left for a triangle facing dir.
func (t Triangle) Corners(dst []fixed.Vec2, dir fixed.Vec2) []fixed.Vec2 {
	third := t.Height.DivInt(3)
	halfW := t.Width.DivInt(2)
	c := t.Center
	return append(dst,
		fixed.V(c.X+third.MulInt(2), c.Y).RotatedBy(dir, c),
		fixed.V(c.X-third, c.Y+halfW).RotatedBy(dir, c),
		fixed.V(c.X-third, c.Y-halfW).RotatedBy(dir, c),
	)
}

// Nose returns the apex of t facing dir.
func (t Triangle) Nose(dir fixed.Vec2) fixed.Vec2 {
	return t.Center.Add(dir.Scale(t.Height.DivInt(3).MulInt(2)))
}
