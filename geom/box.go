// SPDX-License-Identifier: MIT

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Box is an axis-aligned bounding box. An empty box has Min > Max.
type Box struct {
	Min, Max r3.Vector
}

// EmptyBox returns a box that contains nothing; extending it with a point
// yields the degenerate box around that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// BoxOf returns the tightest box around pts.
func BoxOf(pts ...r3.Vector) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = b.Extend(p)
	}
	return b
}

// IsEmpty reports whether b contains no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns b grown to include p.
func (b Box) Extend(p r3.Vector) Box {
	return Box{
		Min: r3.Vector{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Expand returns b grown by eps on every side.
func (b Box) Expand(eps float64) Box {
	d := r3.Vector{X: eps, Y: eps, Z: eps}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// ExpandRel returns b grown on every side by f times its diagonal.
func (b Box) ExpandRel(f float64) Box {
	return b.Expand(f * b.Diagonal())
}

// Intersects reports whether b and o share at least one point.
// Touching faces count as intersecting.
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

// Contains reports whether p lies inside b or on its boundary.
func (b Box) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Diagonal returns the length of the box diagonal, 0 for an empty box.
func (b Box) Diagonal() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Sub(b.Min).Norm()
}

// Center returns the midpoint of b.
func (b Box) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Octant returns the i-th of the eight sub-boxes split at the center.
// Bit 0 selects the upper x half, bit 1 upper y, bit 2 upper z.
func (b Box) Octant(i int) Box {
	c := b.Center()
	o := Box{Min: b.Min, Max: c}
	if i&1 != 0 {
		o.Min.X, o.Max.X = c.X, b.Max.X
	}
	if i&2 != 0 {
		o.Min.Y, o.Max.Y = c.Y, b.Max.Y
	}
	if i&4 != 0 {
		o.Min.Z, o.Max.Z = c.Z, b.Max.Z
	}
	return o
}
