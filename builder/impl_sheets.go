// SPDX-License-Identifier: MIT
// Package: facetopo/builder
//
// impl_sheets.go - open fixtures: Grid, Plane, TJunction, Facet.

package builder

import (
	"fmt"

	"github.com/golang/geo/r3"
)

const methodGrid = "Grid"

// Grid builds a flat sheet in z = 0 with nx × ny square cells of side cell.
// Point (i, j) has index j*(nx+1) + i; cell (i, j) yields triangles
// (a, b, c) and (a, c, d) with a=(i,j), b=(i+1,j), c=(i+1,j+1), d=(i,j+1).
func Grid(nx, ny int, cell float64) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		if nx < 1 || ny < 1 {
			return fmt.Errorf("%s: %dx%d: %w", methodGrid, nx, ny, ErrTooFewSides)
		}
		if !(cell > 0) {
			return fmt.Errorf("%s: cell %g: %w", methodGrid, cell, ErrNonPositiveSize)
		}
		pts := make([]r3.Vector, 0, (nx+1)*(ny+1))
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				pts = append(pts, r3.Vector{X: float64(i) * cell, Y: float64(j) * cell})
			}
		}
		id := func(i, j int) int { return j*(nx+1) + i }
		faces := make([][3]int, 0, 2*nx*ny)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
				faces = append(faces, [3]int{a, b, c}, [3]int{a, c, d})
			}
		}
		s.shell(cfg, pts, faces)
		return nil
	}
}

// Plane builds a single square of two triangles sharing the diagonal (0,3).
func Plane(size float64) Constructor {
	return Grid(1, 1, size)
}

// TJunction builds three fins hinged on the edge (0,0,0)-(1,0,0), spaced
// 120 degrees apart. The hinge is non-manifold; all other edges are free.
func TJunction() Constructor {
	return func(s *Soup, cfg builderConfig) error {
		pts := []r3.Vector{
			{X: 0}, {X: 1},
			{X: 0.5, Y: 1},
			{X: 0.5, Y: -0.5, Z: 0.8660254037844386},
			{X: 0.5, Y: -0.5, Z: -0.8660254037844386},
		}
		s.shell(cfg, pts, [][3]int{{0, 1, 2}, {0, 1, 3}, {0, 1, 4}})
		return nil
	}
}

// Facet appends one triangle with its own three points.
func Facet(a, b, c r3.Vector) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		s.shell(cfg, []r3.Vector{a, b, c}, [][3]int{{0, 1, 2}})
		return nil
	}
}
