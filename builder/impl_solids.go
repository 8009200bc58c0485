// SPDX-License-Identifier: MIT
// Package: facetopo/builder
//
// impl_solids.go - closed polyhedra: Cube, PlatonicSolid, Prism.
//
// Contract:
//   • Faces are wound counter-clockwise seen from outside.
//   • Point order is fixed per fixture; triangle order follows the face lists.
//   • Quads split along their first diagonal (a,c).

package builder

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

const (
	methodCube     = "Cube"
	methodPlatonic = "PlatonicSolid"
	methodPrism    = "Prism"
)

// cubeQuads lists the six faces over corner index x + 2y + 4z.
var cubeQuads = [6][4]int{
	{0, 2, 3, 1}, // z = 0
	{4, 5, 7, 6}, // z = 1
	{0, 1, 5, 4}, // y = 0
	{2, 6, 7, 3}, // y = 1
	{0, 4, 6, 2}, // x = 0
	{1, 3, 7, 5}, // x = 1
}

func cubeMesh(size float64) ([]r3.Vector, [][3]int) {
	pts := make([]r3.Vector, 8)
	for i := range pts {
		pts[i] = r3.Vector{
			X: float64(i&1) * size,
			Y: float64(i>>1&1) * size,
			Z: float64(i>>2&1) * size,
		}
	}
	faces := make([][3]int, 0, 12)
	for _, q := range cubeQuads {
		faces = append(faces, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	return pts, faces
}

// Cube builds an axis-aligned cube with its minimum corner at origin.
// 8 points, 12 triangles, 18 distinct edges (12 creases, 6 face diagonals).
func Cube(origin r3.Vector, size float64) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		if !(size > 0) {
			return fmt.Errorf("%s: size %g: %w", methodCube, size, ErrNonPositiveSize)
		}
		pts, faces := cubeMesh(size)
		for i := range pts {
			pts[i] = pts[i].Add(origin)
		}
		s.shell(cfg, pts, faces)
		return nil
	}
}

// PlatonicName selects a solid for PlatonicSolid.
type PlatonicName int

// Supported solids.
const (
	Tetrahedron PlatonicName = iota
	Hexahedron
	Octahedron
)

func (p PlatonicName) String() string {
	switch p {
	case Tetrahedron:
		return "Tetrahedron"
	case Hexahedron:
		return "Hexahedron"
	case Octahedron:
		return "Octahedron"
	default:
		return "Unknown"
	}
}

var tetraPoints = []r3.Vector{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}

var tetraFaces = [][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}

var octaPoints = []r3.Vector{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
}

// one face per octant; winding flips with the octant's sign parity
var octaFaces = [][3]int{
	{0, 2, 4}, {1, 4, 2}, {0, 4, 3}, {1, 3, 4},
	{0, 5, 2}, {1, 2, 5}, {0, 3, 5}, {1, 5, 3},
}

// PlatonicSolid builds the named solid centred at the origin, scaled by size.
func PlatonicSolid(name PlatonicName, size float64) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		if !(size > 0) {
			return fmt.Errorf("%s: size %g: %w", methodPlatonic, size, ErrNonPositiveSize)
		}
		var (
			pts   []r3.Vector
			faces [][3]int
		)
		switch name {
		case Tetrahedron:
			pts, faces = tetraPoints, tetraFaces
		case Hexahedron:
			pts, faces = cubeMesh(2)
			for i := range pts {
				pts[i] = pts[i].Sub(r3.Vector{X: 1, Y: 1, Z: 1})
			}
		case Octahedron:
			pts, faces = octaPoints, octaFaces
		default:
			return fmt.Errorf("%s: %v: %w", methodPlatonic, name, ErrUnknownSolid)
		}
		scaled := make([]r3.Vector, len(pts))
		for i, p := range pts {
			scaled[i] = p.Mul(size)
		}
		s.shell(cfg, scaled, faces)
		return nil
	}
}

// Prism builds a closed regular n-gon prism standing on z = 0. Caps are
// fans around a centre point, so every side crease is a vertical edge with
// a dihedral turn of 360/n degrees.
func Prism(n int, radius, height float64) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		if n < 3 {
			return fmt.Errorf("%s: n=%d: %w", methodPrism, n, ErrTooFewSides)
		}
		if !(radius > 0) || !(height > 0) {
			return fmt.Errorf("%s: radius %g height %g: %w", methodPrism, radius, height, ErrNonPositiveSize)
		}
		// bottom ring 0..n-1, top ring n..2n-1, bottom centre 2n, top centre 2n+1
		pts := make([]r3.Vector, 2*n+2)
		for k := 0; k < n; k++ {
			a := 2 * math.Pi * float64(k) / float64(n)
			x, y := radius*math.Cos(a), radius*math.Sin(a)
			pts[k] = r3.Vector{X: x, Y: y}
			pts[n+k] = r3.Vector{X: x, Y: y, Z: height}
		}
		pts[2*n+1] = r3.Vector{Z: height}

		faces := make([][3]int, 0, 4*n)
		for k := 0; k < n; k++ {
			k1 := (k + 1) % n
			faces = append(faces,
				[3]int{k, k1, n + k1},
				[3]int{k, n + k1, n + k},
				[3]int{2*n + 1, n + k, n + k1},
				[3]int{2 * n, k1, k},
			)
		}
		s.shell(cfg, pts, faces)
		return nil
	}
}
