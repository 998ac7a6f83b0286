package fixed

import (
	"math"
	"testing"
)

func TestSinCosKnownAngles(t *testing.T) {
	tests := []struct {
		name     string
		angle    Flint
		sin, cos Flint
	}{
		{"zero", 0, 0, One},
		{"half pi", HalfPi, One, 0},
		{"pi", Pi, 0, -One},
		{"minus half pi", -HalfPi, -One, 0},
		{"minus pi", -Pi, 0, -One},
		{"quarter pi", 3217, 2896, 2896},
		{"two pi wraps", TwoPi, 0, One},
		{"rotation step", 737, 733, 4030},
		{"negative rotation step", -737, -733, 4030},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, c := SinCos(tc.angle)
			if s != tc.sin || c != tc.cos {
				t.Errorf("SinCos(%d) = (%d, %d), expected (%d, %d)", tc.angle, s, c, tc.sin, tc.cos)
			}
		})
	}
}

func TestAtan2KnownVectors(t *testing.T) {
	tests := []struct {
		y, x     Flint
		expected Flint
	}{
		{0, One, 0},
		{One, 0, HalfPi},
		{0, -One, Pi},
		{-One, 0, -HalfPi},
		{One, One, 3217},
		{-One, -One, -9651},
		{1, -One, 12867},
		{-1, -One, -12867},
		{0, 0, 0},
	}

	for _, tc := range tests {
		if got := Atan2(tc.y, tc.x); got != tc.expected {
			t.Errorf("Atan2(%d, %d) = %d, expected %d", tc.y, tc.x, got, tc.expected)
		}
	}
}

func TestSinCosMatchesFloat(t *testing.T) {
	for raw := -int32(TwoPi); raw <= int32(TwoPi); raw += 37 {
		a := Flint(raw)
		s, c := SinCos(a)
		ws := math.Sin(a.Float64()) * float64(One)
		wc := math.Cos(a.Float64()) * float64(One)
		if math.Abs(float64(s)-ws) > 1 || math.Abs(float64(c)-wc) > 1 {
			t.Fatalf("SinCos(%d) = (%d, %d), float (%.2f, %.2f)", raw, s, c, ws, wc)
		}
	}
}

func TestAtan2InvertsSinCos(t *testing.T) {
	for raw := -int32(Pi) + 1; raw < int32(Pi); raw += 53 {
		d := FromAngle(Flint(raw))
		got := d.Radians()
		if diff := got - Flint(raw); diff > 2 || diff < -2 {
			t.Fatalf("Atan2(FromAngle(%d)) = %d", raw, got)
		}
	}
}

func TestSinCosDeterministic(t *testing.T) {
	for raw := int32(-50000); raw < 50000; raw += 997 {
		s1, c1 := SinCos(Flint(raw))
		s2, c2 := SinCos(Flint(raw))
		if s1 != s2 || c1 != c2 {
			t.Fatalf("SinCos(%d) not deterministic", raw)
		}
	}
}
