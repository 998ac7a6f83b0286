// Package fixed provides the deterministic numeric kernel used by the simulation.
// Flint is a signed 20.12 binary fixed-point number stored in an int32. Every
// operation is defined on the integer representation only, so the same operand
// bits produce the same result bits on every platform.
package fixed

import (
	"fmt"
	"math"
)

// FracBits is the number of fractional bits in a Flint.
const FracBits = 12

// Flint is a 20.12 signed fixed-point number.
type Flint int32

const (
	Zero    Flint = 0
	One     Flint = 1 << FracBits
	Half    Flint = One / 2
	Epsilon Flint = 1 // Smallest representable positive step
	Max     Flint = math.MaxInt32
	Min     Flint = math.MinInt32
)

// FromInt converts an integer to a Flint, saturating at Min and Max.
func FromInt(i int) Flint {
	switch {
	case i > int(Max>>FracBits):
		return Max
	case i < int(Min>>FracBits):
		return Min
	}
	return Flint(i << FracBits) //#nosec G115 -- range checked above
}

// FromRatio returns num/den rounded toward zero, saturating at Min and Max.
// Panics if den is zero.
func FromRatio(num, den int) Flint {
	if den == 0 {
		panic("fixed: division by zero")
	}
	return saturate((int64(num) << FracBits) / int64(den))
}

// saturate narrows a wide intermediate result to the Flint range. Results
// that do not fit clamp to Min or Max instead of wrapping.
func saturate(v int64) Flint {
	switch {
	case v > int64(Max):
		return Max
	case v < int64(Min):
		return Min
	}
	return Flint(v) //#nosec G115 -- range checked above
}

// FromRaw builds a Flint from its raw bit pattern.
func FromRaw(raw int32) Flint {
	return Flint(raw)
}

// Raw returns the underlying bit pattern.
func (f Flint) Raw() int32 {
	return int32(f)
}

// Add returns f + o, saturating at Min and Max.
func (f Flint) Add(o Flint) Flint {
	return saturate(int64(f) + int64(o))
}

// Sub returns f - o, saturating at Min and Max.
func (f Flint) Sub(o Flint) Flint {
	return saturate(int64(f) - int64(o))
}

// Mul returns f * o, rounded toward negative infinity and saturating at
// Min and Max.
func (f Flint) Mul(o Flint) Flint {
	return saturate((int64(f) * int64(o)) >> FracBits)
}

// Div returns f / o, rounded toward zero and saturating at Min and Max.
// Dividing by zero is a programmer error and panics.
func (f Flint) Div(o Flint) Flint {
	if o == 0 {
		panic("fixed: division by zero")
	}
	return saturate((int64(f) << FracBits) / int64(o))
}

// MulInt multiplies by an integer, saturating at Min and Max.
func (f Flint) MulInt(n int) Flint {
	n = max(min(n, math.MaxInt32), math.MinInt32)
	return saturate(int64(f) * int64(n))
}

// DivInt divides by an integer, rounding toward zero.
func (f Flint) DivInt(n int) Flint {
	if n == 0 {
		panic("fixed: division by zero")
	}
	return saturate(int64(f) / int64(n))
}

// Neg returns -f. The negation of Min saturates to Max.
func (f Flint) Neg() Flint {
	return saturate(-int64(f))
}

// Abs returns the absolute value, saturating at Max.
func (f Flint) Abs() Flint {
	if f < 0 {
		return f.Neg()
	}
	return f
}

// Sign returns -1, 0 or 1.
func (f Flint) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

// Int truncates toward negative infinity.
func (f Flint) Int() int {
	return int(f >> FracBits)
}

// Round returns the nearest integer, halves away from zero.
func (f Flint) Round() int {
	if f < 0 {
		return -int((-f + Half) >> FracBits)
	}
	return int((f + Half) >> FracBits)
}

// Ceil returns the smallest integer not less than f.
func (f Flint) Ceil() int {
	return int((int64(f) + int64(One) - 1) >> FracBits)
}

// Float64 converts to float64. Only rendering code may use the result.
func (f Flint) Float64() float64 {
	return float64(f) / float64(One)
}

// Clamp restricts f to [lo, hi].
func (f Flint) Clamp(lo, hi Flint) Flint {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// MinOf returns the smaller value.
func MinOf(a, b Flint) Flint {
	if a < b {
		return a
	}
	return b
}

// MaxOf returns the larger value.
func MaxOf(a, b Flint) Flint {
	if a > b {
		return a
	}
	return b
}

// Sqrt returns the square root of f.
// A negative argument is a programmer error and panics.
func (f Flint) Sqrt() Flint {
	if f < 0 {
		panic("fixed: square root of negative value")
	}
	return Flint(isqrt(uint64(f) << FracBits)) //#nosec G115 -- f is non-negative and the root fits
}

// String formats f as a decimal with up to four fractional digits.
func (f Flint) String() string {
	return formatDecimal(int64(f))
}

// isqrt computes floor(sqrt(v)) bit by bit.
func isqrt(v uint64) uint64 {
	var res uint64
	bit := uint64(1) << 62
	for bit > v {
		bit >>= 2
	}
	for bit != 0 {
		if v >= res+bit {
			v -= res + bit
			res = (res >> 1) + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}

func formatDecimal(raw int64) string {
	sign := ""
	if raw < 0 {
		sign = "-"
		raw = -raw
	}
	whole := raw >> FracBits
	frac := raw & (int64(One) - 1)
	// four digits, rounded half up
	digits := (frac*10000 + int64(Half)) >> FracBits
	if digits == 10000 {
		whole++
		digits = 0
	}
	if digits == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	s := fmt.Sprintf("%s%d.%04d", sign, whole, digits)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
