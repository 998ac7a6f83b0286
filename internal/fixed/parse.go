package fixed

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned when a decimal literal cannot be parsed.
var ErrSyntax = errors.New("fixed: invalid decimal")

// Parse converts a decimal literal such as "-0.18" into a Flint, rounding to
// the nearest representable value. The conversion is exact integer arithmetic.
func Parse(s string) (Flint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrSyntax
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrSyntax
	}

	var whole int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		whole = whole*10 + int64(r-'0')
		if whole > int64(Max>>FracBits) {
			return 0, fmt.Errorf("fixed: %q out of range", s)
		}
	}

	// fraction digits beyond 18 cannot change a 12-bit result
	var num, den int64 = 0, 1
	for i, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		if i >= 18 {
			continue
		}
		num = num*10 + int64(r-'0')
		den *= 10
	}

	raw := whole<<FracBits + (num<<FracBits+den/2)/den
	if neg {
		raw = -raw
	}
	if raw > int64(Max) || raw < int64(Min) {
		return 0, fmt.Errorf("fixed: %q out of range", s)
	}
	return Flint(raw), nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(s string) Flint {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// UnmarshalYAML decodes a scalar decimal without passing through float64.
func (f *Flint) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("fixed: line %d: expected a number", node.Line)
	}
	v, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = v
	return nil
}

// MarshalYAML encodes f as a decimal string.
func (f Flint) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML decodes a vector written as [x, y].
func (v *Vec2) UnmarshalYAML(node *yaml.Node) error {
	var pair []Flint
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("fixed: line %d: vector needs 2 components, got %d", node.Line, len(pair))
	}
	v.X, v.Y = pair[0], pair[1]
	return nil
}
