package fixed

// CORDIC runs at 28 fractional bits internally and rounds back to 12 on exit.
const (
	cordicBits  = 28
	cordicShift = cordicBits - FracBits
	cordicIters = 28

	cordicGain   int64 = 163008219  // prod(1/sqrt(1+2^-2i)) << 28
	cordicPi     int64 = 843314857  // pi << 28
	cordicHalfPi int64 = 421657428  // pi/2 << 28
	cordicTwoPi  int64 = 1686629713 // 2pi << 28
)

// atan(2^-i) << 28
var cordicAtan = [cordicIters]int64{
	210828714, 124459457, 65760959, 33381290, 16755422, 8385879, 4193963,
	2097109, 1048571, 524287, 262144, 131072, 65536, 32768, 16384, 8192,
	4096, 2048, 1024, 512, 256, 128, 64, 32, 16, 8, 4, 2,
}

// Angle constants in radians.
const (
	Pi     Flint = 12868
	HalfPi Flint = 6434
	TwoPi  Flint = 25736
)

// SinCos returns sin(angle) and cos(angle) for an angle in radians.
func SinCos(angle Flint) (sin, cos Flint) {
	z := int64(angle) << cordicShift

	// wrap into [-pi, pi]
	z %= cordicTwoPi
	if z > cordicPi {
		z -= cordicTwoPi
	} else if z < -cordicPi {
		z += cordicTwoPi
	}

	// fold into [-pi/2, pi/2], CORDIC's convergence range
	flip := false
	if z > cordicHalfPi {
		z -= cordicPi
		flip = true
	} else if z < -cordicHalfPi {
		z += cordicPi
		flip = true
	}

	x, y := cordicGain, int64(0)
	for i := 0; i < cordicIters; i++ {
		dx, dy := y>>i, x>>i
		if z >= 0 {
			x, y = x-dx, y+dy
			z -= cordicAtan[i]
		} else {
			x, y = x+dx, y-dy
			z += cordicAtan[i]
		}
	}

	if flip {
		x, y = -x, -y
	}
	return narrow(y), narrow(x)
}

// Sin returns sin(angle).
func Sin(angle Flint) Flint {
	s, _ := SinCos(angle)
	return s
}

// Cos returns cos(angle).
func Cos(angle Flint) Flint {
	_, c := SinCos(angle)
	return c
}

// Atan2 returns the angle of (x, y) in [-pi, pi]. Atan2(0, 0) is 0.
func Atan2(y, x Flint) Flint {
	if x == 0 && y == 0 {
		return 0
	}

	wx := int64(x) << cordicShift
	wy := int64(y) << cordicShift
	var z int64

	if wx < 0 {
		// rotate by pi so the vector lands in the right half-plane
		if wy >= 0 {
			z = cordicPi
		} else {
			z = -cordicPi
		}
		wx, wy = -wx, -wy
	}

	for i := 0; i < cordicIters; i++ {
		dx, dy := wy>>i, wx>>i
		if wy > 0 {
			wx, wy = wx+dx, wy-dy
			z += cordicAtan[i]
		} else {
			wx, wy = wx-dx, wy+dy
			z -= cordicAtan[i]
		}
	}

	a := narrow(z)
	if a > Pi {
		a = Pi
	} else if a < -Pi {
		a = -Pi
	}
	return a
}

// narrow rounds a 28-bit fraction value to a Flint, halves away from zero.
func narrow(v int64) Flint {
	const half = int64(1) << (cordicShift - 1)
	if v < 0 {
		return -Flint((-v + half) >> cordicShift)
	}
	return Flint((v + half) >> cordicShift)
}
