// SPDX-License-Identifier: MIT

package mesh

import (
	"errors"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/geom"
)

// Sentinel errors for store construction and commits.
var (
	ErrEmptyInput      = errors.New("mesh: empty input")
	ErrPointOutOfRange = errors.New("mesh: point index out of range")
	ErrNonFinite       = errors.New("mesh: non-finite coordinate")
	ErrBadTolerance    = errors.New("mesh: tolerance factor must be positive and finite")
	ErrLengthMismatch  = errors.New("mesh: length mismatch")
	ErrOptionViolation = errors.New("mesh: invalid option supplied")
)

// PointID indexes the point table.
type PointID int

// TriangleID indexes the triangle table.
type TriangleID int

// NoTriangle marks an absent neighbor or side.
const NoTriangle TriangleID = -1

// Material tags the region a triangle belongs to.
type Material int

// ChartID numbers smooth charts from 1; NoChart means unassigned.
type ChartID int

// NoChart is the chart id of a triangle before segmentation.
const NoChart ChartID = 0

// Point is a deduplicated position.
type Point struct {
	ID  PointID
	Pos r3.Vector
}

// Triangle is one facet of the soup.
type Triangle struct {
	ID       TriangleID
	P        [3]PointID
	Material Material
	// Box is the cached bounding box of the three corners.
	Box geom.Box
	// GeomNormal is the flat unit normal by right-hand winding; zero when degenerate.
	GeomNormal r3.Vector
	// Normal is the working normal used for angle computations.
	Normal r3.Vector
	Chart  ChartID
}

// Edge returns the j-th local edge (P[j], P[j+1 mod 3]).
func (t Triangle) Edge(j int) (PointID, PointID) {
	return t.P[j], t.P[(j+1)%3]
}

// Local returns the corner index of p in t, or -1.
func (t Triangle) Local(p PointID) int {
	for j, q := range t.P {
		if q == p {
			return j
		}
	}
	return -1
}

// HasPoint reports whether p is a corner of t.
func (t Triangle) HasPoint(p PointID) bool { return t.Local(p) >= 0 }

// RepeatsPoint reports whether two corners share a point id.
func (t Triangle) RepeatsPoint() bool {
	return t.P[0] == t.P[1] || t.P[1] == t.P[2] || t.P[0] == t.P[2]
}

// Runs reports whether t traverses the directed edge p→q in its winding.
func (t Triangle) Runs(p, q PointID) bool {
	for j := 0; j < 3; j++ {
		a, b := t.Edge(j)
		if a == p && b == q {
			return true
		}
	}
	return false
}

// RawTriangle is a triangle given by its corner coordinates.
type RawTriangle struct {
	V        [3]r3.Vector
	Material Material
}

// IndexedTriangle is a triangle given by indices into a point table.
type IndexedTriangle struct {
	P        [3]int
	Material Material
}
