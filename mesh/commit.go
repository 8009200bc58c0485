// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/geom"
)

// clone copies the tables; incidence is shared until rebuilt.
func (s *Store) clone() *Store {
	c := *s
	c.points = make([]Point, len(s.points))
	copy(c.points, s.points)
	c.trias = make([]Triangle, len(s.trias))
	copy(c.trias, s.trias)
	return &c
}

// WithNormals returns a store whose working normals are replaced by
// normals, indexed by triangle id.
func (s *Store) WithNormals(normals []r3.Vector) (*Store, error) {
	if len(normals) != len(s.trias) {
		return nil, fmt.Errorf("WithNormals: %d normals for %d triangles: %w", len(normals), len(s.trias), ErrLengthMismatch)
	}
	c := s.clone()
	for i := range c.trias {
		c.trias[i].Normal = normals[i]
	}
	return c, nil
}

// WithCharts returns a store with chart ids assigned per triangle.
func (s *Store) WithCharts(charts []ChartID) (*Store, error) {
	if len(charts) != len(s.trias) {
		return nil, fmt.Errorf("WithCharts: %d ids for %d triangles: %w", len(charts), len(s.trias), ErrLengthMismatch)
	}
	c := s.clone()
	for i := range c.trias {
		c.trias[i].Chart = charts[i]
	}
	return c, nil
}

// WithPoints returns a store with the given points relocated. Point ids
// are kept; incident triangles get fresh boxes and geometric normals, and
// their working normals are reset to the geometric ones.
func (s *Store) WithPoints(moved map[PointID]r3.Vector) (*Store, error) {
	c := s.clone()
	ids := make([]PointID, 0, len(moved))
	for p, pos := range moved {
		if !s.ValidPoint(p) {
			return nil, fmt.Errorf("WithPoints: point %d: %w", p, ErrPointOutOfRange)
		}
		if !finite(pos) {
			return nil, fmt.Errorf("WithPoints: point %d: %w", p, ErrNonFinite)
		}
		ids = append(ids, p)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	touched := make(map[TriangleID]bool)
	for _, p := range ids {
		c.points[p].Pos = moved[p]
		for _, t := range s.at[p] {
			touched[t] = true
		}
	}
	for t := range touched {
		c.refreshGeometry(t)
	}
	c.bounds = geom.EmptyBox()
	for _, p := range c.points {
		c.bounds = c.bounds.Extend(p.Pos)
	}
	c.index()

	return c, nil
}

// Without returns a store lacking the triangles in drop. Remaining
// triangles are renumbered in ascending order of their old ids; origin maps
// each new id to the old one. Points are kept as they are.
func (s *Store) Without(drop map[TriangleID]bool) (kept *Store, origin []TriangleID) {
	c := &Store{
		points: make([]Point, len(s.points)),
		trias:  make([]Triangle, 0, len(s.trias)),
		tol:    s.tol,
		bounds: s.bounds,
	}
	copy(c.points, s.points)
	origin = make([]TriangleID, 0, len(s.trias))
	for _, t := range s.trias {
		if drop[t.ID] {
			continue
		}
		origin = append(origin, t.ID)
		t.ID = TriangleID(len(c.trias))
		c.trias = append(c.trias, t)
	}
	c.index()

	return c, origin
}
