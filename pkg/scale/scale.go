// Package scale provides the small linear-mapping helpers shared by the
// radius sizing and the projected layout.
package scale

import "gonum.org/v1/gonum/floats"

// Linear maps a numeric domain onto a numeric range with straight-line
// interpolation. It does not clamp; callers clamp where they need bounds.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear builds a linear scale from domain [d0,d1] to range [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a domain value to the range. A degenerate domain (d0 == d1)
// maps every input to the middle of the range so uniform attribute values
// get a uniform mid-size rather than a division by zero.
func (s Linear) Map(v float64) float64 {
	if s.D0 == s.D1 {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	return s.R0 + t*(s.R1-s.R0)
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Extent returns the [min, max] of vs, and false for an empty slice.
func Extent(vs []float64) (min, max float64, ok bool) {
	if len(vs) == 0 {
		return 0, 0, false
	}
	return floats.Min(vs), floats.Max(vs), true
}
