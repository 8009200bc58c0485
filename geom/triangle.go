// SPDX-License-Identifier: MIT

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Normal returns the unit normal of triangle (a,b,c) following the
// right-hand rule. A degenerate triangle yields the zero vector.
func Normal(a, b, c r3.Vector) r3.Vector {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Norm()
	if l == 0 {
		return r3.Vector{}
	}
	return n.Mul(1 / l)
}

// Centroid returns the barycenter of triangle (a,b,c).
func Centroid(a, b, c r3.Vector) r3.Vector {
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// Degenerate reports whether triangle (a,b,c) has zero area within eps,
// measured as twice the area against the squared longest edge.
func Degenerate(a, b, c r3.Vector, eps float64) bool {
	cross := b.Sub(a).Cross(c.Sub(a)).Norm()
	longest := math.Max(b.Sub(a).Norm2(), math.Max(c.Sub(b).Norm2(), a.Sub(c).Norm2()))
	if longest == 0 {
		return true
	}
	return cross <= eps*longest
}

// CornerCos returns the cosine of the turn angle of the path a→p→b:
// 1 for a straight continuation, 0 for a right angle, -1 for a U-turn.
// Zero-length legs yield 1.
func CornerCos(a, p, b r3.Vector) float64 {
	in := p.Sub(a)
	out := b.Sub(p)
	l := in.Norm() * out.Norm()
	if l == 0 {
		return 1
	}
	return in.Dot(out) / l
}

// Clamp limits x to [-1,1]; dot products of unit vectors drift slightly out.
func Clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
