// SPDX-License-Identifier: MIT

package repair

import (
	"context"
	"fmt"

	"github.com/katalvlaran/facetopo/geom"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/spatial"
)

// DefaultBoxExpansion is the relative growth of triangle boxes used for
// overlap candidate search.
const DefaultBoxExpansion = 0.001

// DetectOverlaps returns the intersecting triangle pairs of s, ascending by
// (A, B). Boxes are grown by rel times their own diagonal before the octree
// search. Pairs sharing an edge are skipped unless they are exact
// duplicates of one material; pairs sharing one point still get the exact
// test, which ignores contact at that point.
func DetectOverlaps(ctx context.Context, s *mesh.Store, rel float64) ([]Pair, error) {
	if s == nil {
		return nil, ErrStoreNil
	}
	if !(rel >= 0) {
		return nil, fmt.Errorf("DetectOverlaps: expansion %g: %w", rel, ErrOptionViolation)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.NT() == 0 {
		return nil, nil
	}

	tree, err := spatial.New(s.Bounds())
	if err != nil {
		return nil, err
	}
	boxes := make([]geom.Box, s.NT())
	for i := range boxes {
		b := s.Triangle(mesh.TriangleID(i)).Box
		boxes[i] = b.Expand(rel * b.Diagonal())
		tree.Insert(boxes[i], i)
	}

	var out []Pair
	eps := s.Tolerance()
	for i := range boxes {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		a := mesh.TriangleID(i)
		ta := s.Triangle(a)
		if ta.RepeatsPoint() {
			continue
		}
		for _, j := range tree.Query(boxes[i]) {
			b := mesh.TriangleID(j)
			if b <= a {
				continue
			}
			tb := s.Triangle(b)
			if tb.RepeatsPoint() {
				continue
			}
			if shared(ta, tb) >= 2 {
				if duplicate(ta, tb) {
					out = append(out, Pair{A: a, B: b})
				}
				continue
			}
			if geom.TrianglesIntersect(s.Corners(a), s.Corners(b), eps) {
				out = append(out, Pair{A: a, B: b})
			}
		}
	}
	return out, nil
}

// shared counts the points of a that are corners of b.
func shared(a, b mesh.Triangle) int {
	n := 0
	for _, p := range a.P {
		if b.HasPoint(p) {
			n++
		}
	}
	return n
}

// duplicate reports whether a and b cover the same three points in the
// same material.
func duplicate(a, b mesh.Triangle) bool {
	if a.Material != b.Material {
		return false
	}
	for _, p := range a.P {
		if !b.HasPoint(p) {
			return false
		}
	}
	return true
}
