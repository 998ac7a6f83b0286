package physics

import "github.com/vovakirdan/fejd/internal/fixed"

// Intersects reports whether two convex polygons overlap, using the
// separating axis theorem. Each polygon is a vertex list in boundary order.
// Touching outlines count as intersecting.
func Intersects(a, b []fixed.Vec2) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return !separatedBy(a, a, b) && !separatedBy(b, a, b)
}

// separatedBy tests the edge normals of src as separating axes for a and b.
func separatedBy(src, a, b []fixed.Vec2) bool {
	n := len(src)
	for i := range src {
		edge := src[i].Sub(src[(i+1)%n])
		axis := edge.Perpendicular()

		amin, amax := project(a, axis)
		bmin, bmax := project(b, axis)
		if amax < bmin || bmax < amin {
			return true
		}
	}
	return false
}

// project returns the extent of poly along axis. Values carry 24 fractional
// bits so they cannot overflow.
func project(poly []fixed.Vec2, axis fixed.Vec2) (lo, hi int64) {
	lo = axis.DotWide(poly[0])
	hi = lo
	for _, p := range poly[1:] {
		d := axis.DotWide(p)
		if d < lo {
			lo = d
		} else if d > hi {
			hi = d
		}
	}
	return lo, hi
}
