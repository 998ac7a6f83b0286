package fixed

import "fmt"

// Vec2 is a 2D vector of Flints.
type Vec2 struct {
	X, Y Flint
}

// Unit directions. Screen coordinates: y grows downward.
var (
	East  = Vec2{X: One}
	West  = Vec2{X: -One}
	North = Vec2{Y: -One}
	South = Vec2{Y: One}
)

// V builds a vector.
func V(x, y Flint) Vec2 {
	return Vec2{X: x, Y: y}
}

// VI builds a vector from integers.
func VI(x, y int) Vec2 {
	return Vec2{X: FromInt(x), Y: FromInt(y)}
}

// FromAngle returns the unit direction (cos, sin) for an angle in radians.
func FromAngle(angle Flint) Vec2 {
	s, c := SinCos(angle)
	return Vec2{X: c, Y: s}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s Flint) Vec2 {
	return Vec2{X: v.X.Mul(s), Y: v.Y.Mul(s)}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) Flint {
	return Flint(v.DotWide(o) >> FracBits)
}

// DotWide returns the dot product with 24 fractional bits and no overflow.
// SAT projection uses it so large coordinates never wrap.
func (v Vec2) DotWide(o Vec2) int64 {
	return int64(v.X)*int64(o.X) + int64(v.Y)*int64(o.Y)
}

// Perpendicular returns v rotated by 90 degrees: (-y, x).
func (v Vec2) Perpendicular() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Magnitude returns the Euclidean length.
func (v Vec2) Magnitude() Flint {
	x := uint64(int64(v.X) * int64(v.X)) //#nosec G115 -- square is non-negative
	y := uint64(int64(v.Y) * int64(v.Y)) //#nosec G115 -- square is non-negative
	r := isqrt(x + y)
	if r > uint64(Max) {
		return Max
	}
	return Flint(r) //#nosec G115 -- range checked above
}

// Normalized returns the unit vector in v's direction.
// The zero vector normalizes to the zero vector.
func (v Vec2) Normalized() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X.Div(m), Y: v.Y.Div(m)}
}

// Radians returns the angle of v.
func (v Vec2) Radians() Flint {
	return Atan2(v.Y, v.X)
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Rotated rotates v about pivot by angle radians.
func (v Vec2) Rotated(angle Flint, pivot Vec2) Vec2 {
	return v.RotatedBy(FromAngle(angle), pivot)
}

// RotatedBy rotates v about pivot by the angle whose unit direction is dir.
// dir is used as (cos, sin) directly.
func (v Vec2) RotatedBy(dir Vec2, pivot Vec2) Vec2 {
	d := v.Sub(pivot)
	return Vec2{
		X: Flint((int64(d.X)*int64(dir.X)-int64(d.Y)*int64(dir.Y))>>FracBits) + pivot.X,
		Y: Flint((int64(d.X)*int64(dir.Y)+int64(d.Y)*int64(dir.X))>>FracBits) + pivot.Y,
	}
}

// Lerp interpolates between v and o by t in [0,1]. Rendering only.
func (v Vec2) Lerp(o Vec2, t float64) (x, y float64) {
	ax, ay := v.X.Float64(), v.Y.Float64()
	return ax + (o.X.Float64()-ax)*t, ay + (o.Y.Float64()-ay)*t
}

// String formats the vector as (x, y).
func (v Vec2) String() string {
	return fmt.Sprintf("(%s, %s)", v.X, v.Y)
}
