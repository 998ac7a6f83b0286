package physics

import "github.com/vovakirdan/fejd/internal/fixed"

// SweepToContact finds how far the polygon moving must travel along dir
// before it first touches target.
//
// moving holds the vertices at the pre-tick position. The march advances in
// steps of one world unit, never more, so a target thinner than the step is
// still found as long as moving is at least one unit long. Once a step
// reaches contact the last unit is bisected down to fixed.Epsilon: at the
// returned distance d the shapes touch, at d-Epsilon they do not.
//
// The caller must already have confirmed a hit this tick with the swept
// outline; travel bounds the march to the distance covered in the tick.
// ok is false if no contact lies within travel, which means that
// precondition was broken.
func SweepToContact(dir fixed.Vec2, moving, target []fixed.Vec2, travel fixed.Flint) (d fixed.Flint, ok bool) {
	buf := make([]fixed.Vec2, len(moving))
	touches := func(dist fixed.Flint) bool {
		off := dir.Scale(dist)
		for i, p := range moving {
			buf[i] = p.Add(off)
		}
		return Intersects(buf, target)
	}

	if touches(0) {
		return 0, true
	}
	if travel <= 0 {
		return 0, false
	}

	prev := fixed.Zero
	limit := travel.Ceil() + 1
	for i := 0; i < limit; i++ {
		next := fixed.MinOf(prev+fixed.One, travel)
		if touches(next) {
			return refine(prev, next, touches), true
		}
		if next == travel {
			break
		}
		prev = next
	}
	return 0, false
}

// refine narrows (lo, hi] where lo misses and hi touches to a single step.
func refine(lo, hi fixed.Flint, touches func(fixed.Flint) bool) fixed.Flint {
	for hi-lo > fixed.Epsilon {
		mid := lo + (hi-lo)/2
		if touches(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
