// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/geom"
	"github.com/katalvlaran/facetopo/spatial"
)

// DefaultToleranceFactor divides the bounding-box diagonal into the
// geometry tolerance.
const DefaultToleranceFactor = 1e8

// Option configures store construction.
type Option func(*Options)

// Options holds construction parameters.
type Options struct {
	// ToleranceFactor is bbox diagonal / geometry tolerance.
	ToleranceFactor float64

	err error
}

// DefaultOptions returns ToleranceFactor = 1e8.
func DefaultOptions() Options {
	return Options{ToleranceFactor: DefaultToleranceFactor}
}

// WithToleranceFactor sets the geometry tolerance factor (> 0, finite).
func WithToleranceFactor(f float64) Option {
	return func(o *Options) {
		if !(f > 0) || math.IsInf(f, 0) {
			o.err = fmt.Errorf("%w: %w (%g)", ErrOptionViolation, ErrBadTolerance, f)
			return
		}
		o.ToleranceFactor = f
	}
}

func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.err
}

// Store holds the committed point and triangle tables.
type Store struct {
	points     []Point
	trias      []Triangle
	tol        float64
	bounds     geom.Box
	at         [][]TriangleID
	degenerate int
}

// FromRaw builds a store from coordinate triangles, merging coincident
// corners within the geometry tolerance.
func FromRaw(tris []RawTriangle, opts ...Option) (*Store, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("FromRaw: %w", ErrEmptyInput)
	}

	bounds := geom.EmptyBox()
	for i, t := range tris {
		for k, p := range t.V {
			if !finite(p) {
				return nil, fmt.Errorf("FromRaw: triangle %d corner %d: %w", i, k, ErrNonFinite)
			}
			bounds = bounds.Extend(p)
		}
	}

	m, err := newMerger(bounds, o.ToleranceFactor, 3*len(tris))
	if err != nil {
		return nil, fmt.Errorf("FromRaw: %w", err)
	}
	corners := make([][3]PointID, len(tris))
	mats := make([]Material, len(tris))
	for i, t := range tris {
		for k, p := range t.V {
			corners[i][k] = m.add(p)
		}
		mats[i] = t.Material
	}

	return newStore(m.points, corners, mats, m.tol, bounds), nil
}

// FromIndexed builds a store from a point table and index triples. Points
// are merged in table order, so an input without near-duplicates keeps its
// indices.
func FromIndexed(points []r3.Vector, tris []IndexedTriangle, opts ...Option) (*Store, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("FromIndexed: %w", ErrEmptyInput)
	}
	bounds := geom.EmptyBox()
	for i, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("FromIndexed: point %d: %w", i, ErrNonFinite)
		}
		bounds = bounds.Extend(p)
	}
	for i, t := range tris {
		for k, idx := range t.P {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("FromIndexed: triangle %d corner %d index %d: %w", i, k, idx, ErrPointOutOfRange)
			}
		}
	}

	m, err := newMerger(bounds, o.ToleranceFactor, len(points))
	if err != nil {
		return nil, fmt.Errorf("FromIndexed: %w", err)
	}
	remap := make([]PointID, len(points))
	for i, p := range points {
		remap[i] = m.add(p)
	}
	corners := make([][3]PointID, len(tris))
	mats := make([]Material, len(tris))
	for i, t := range tris {
		for k, idx := range t.P {
			corners[i][k] = remap[idx]
		}
		mats[i] = t.Material
	}

	return newStore(m.points, corners, mats, m.tol, bounds), nil
}

func finite(p r3.Vector) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// merger assigns point ids, reusing the earliest point within tolerance.
type merger struct {
	tree   *spatial.Octree
	tol    float64
	points []Point
}

func newMerger(bounds geom.Box, factor float64, capacity int) (*merger, error) {
	tree, err := spatial.New(bounds)
	if err != nil {
		return nil, err
	}
	return &merger{
		tree:   tree,
		tol:    bounds.Diagonal() / factor,
		points: make([]Point, 0, capacity),
	}, nil
}

func (m *merger) add(p r3.Vector) PointID {
	if ids := m.tree.Query(geom.BoxOf(p).Expand(m.tol)); len(ids) > 0 {
		return PointID(ids[0])
	}
	id := PointID(len(m.points))
	m.points = append(m.points, Point{ID: id, Pos: p})
	m.tree.Insert(geom.BoxOf(p), int(id))

	return id
}

func newStore(points []Point, corners [][3]PointID, mats []Material, tol float64, bounds geom.Box) *Store {
	s := &Store{
		points: points,
		trias:  make([]Triangle, len(corners)),
		tol:    tol,
		bounds: bounds,
	}
	for i, c := range corners {
		s.trias[i] = Triangle{ID: TriangleID(i), P: c, Material: mats[i]}
		s.refreshGeometry(TriangleID(i))
	}
	s.index()

	return s
}

// refreshGeometry recomputes box and normals of t from the point table and
// resets the working normal to the geometric one.
func (s *Store) refreshGeometry(t TriangleID) {
	tr := &s.trias[t]
	a, b, c := s.points[tr.P[0]].Pos, s.points[tr.P[1]].Pos, s.points[tr.P[2]].Pos
	tr.Box = geom.BoxOf(a, b, c)
	tr.GeomNormal = r3.Vector{}
	if !geom.Degenerate(a, b, c, s.flatness()) {
		tr.GeomNormal = geom.Normal(a, b, c)
	}
	tr.Normal = tr.GeomNormal
}

// flatness is the relative area below which a triangle counts as flat:
// the geometry tolerance over the bounding box diagonal.
func (s *Store) flatness() float64 {
	if d := s.bounds.Diagonal(); d > 0 {
		return s.tol / d
	}
	return 0
}

// Degenerate reports whether t repeats a point or has no area within the
// geometry tolerance. Degenerate triangles carry a zero normal.
func (s *Store) Degenerate(t TriangleID) bool {
	tr := &s.trias[t]
	return tr.RepeatsPoint() || tr.GeomNormal == (r3.Vector{})
}

// index rebuilds per-point incidence and the degenerate count.
func (s *Store) index() {
	s.at = make([][]TriangleID, len(s.points))
	s.degenerate = 0
	for i, t := range s.trias {
		for k, p := range t.P {
			// a repeated corner lists the triangle once
			if k > 0 && (p == t.P[0] || (k == 2 && p == t.P[1])) {
				continue
			}
			s.at[p] = append(s.at[p], TriangleID(i))
		}
		if s.Degenerate(TriangleID(i)) {
			s.degenerate++
		}
	}
}

// NP returns the number of points.
func (s *Store) NP() int { return len(s.points) }

// NT returns the number of triangles.
func (s *Store) NT() int { return len(s.trias) }

// Tolerance returns the geometry tolerance used for merging.
func (s *Store) Tolerance() float64 { return s.tol }

// Bounds returns the bounding box of the input coordinates.
func (s *Store) Bounds() geom.Box { return s.bounds }

// DegenerateCount returns how many triangles repeat a point or have zero area.
func (s *Store) DegenerateCount() int { return s.degenerate }

// ValidPoint reports whether p indexes the point table.
func (s *Store) ValidPoint(p PointID) bool { return p >= 0 && int(p) < len(s.points) }

// ValidTriangle reports whether t indexes the triangle table.
func (s *Store) ValidTriangle(t TriangleID) bool { return t >= 0 && int(t) < len(s.trias) }

// Point returns point p. p must be valid.
func (s *Store) Point(p PointID) Point { return s.points[p] }

// Pos returns the position of point p. p must be valid.
func (s *Store) Pos(p PointID) r3.Vector { return s.points[p].Pos }

// Triangle returns triangle t. t must be valid.
func (s *Store) Triangle(t TriangleID) Triangle { return s.trias[t] }

// Corners returns the corner positions of t.
func (s *Store) Corners(t TriangleID) [3]r3.Vector {
	tr := s.trias[t]
	return [3]r3.Vector{s.points[tr.P[0]].Pos, s.points[tr.P[1]].Pos, s.points[tr.P[2]].Pos}
}

// TrianglesAt returns the triangles incident to p in ascending order.
// The slice is shared with the store and must not be modified.
func (s *Store) TrianglesAt(p PointID) []TriangleID { return s.at[p] }

// Triangles returns a copy of the triangle table.
func (s *Store) Triangles() []Triangle {
	out := make([]Triangle, len(s.trias))
	copy(out, s.trias)
	return out
}

// Points returns a copy of the point table.
func (s *Store) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Normals returns the working normals indexed by triangle id.
func (s *Store) Normals() []r3.Vector {
	out := make([]r3.Vector, len(s.trias))
	for i, t := range s.trias {
		out[i] = t.Normal
	}
	return out
}
