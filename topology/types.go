// SPDX-License-Identifier: MIT

package topology

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/facetopo/mesh"
)

// Sentinel errors.
var (
	ErrStoreNil        = errors.New("topology: store is nil")
	ErrPointOutOfRange = errors.New("topology: point index out of range")
	ErrAsymmetric      = errors.New("topology: neighbor relation not symmetric")
	ErrEdgeNotFound    = errors.New("topology: edge not found")
	ErrOptionViolation = errors.New("topology: invalid option supplied")
)

// EdgeID indexes the edge table.
type EdgeID int

// NoEdge marks a skipped local edge (a triangle repeating a point).
const NoEdge EdgeID = -1

// EdgeKey is an unordered point pair stored as (min, max).
type EdgeKey struct {
	A, B mesh.PointID
}

// MakeKey orders p and q into an EdgeKey.
func MakeKey(p, q mesh.PointID) EdgeKey {
	if q < p {
		p, q = q, p
	}
	return EdgeKey{A: p, B: q}
}

// Other returns the endpoint of k that is not p.
func (k EdgeKey) Other(p mesh.PointID) mesh.PointID {
	if k.A == p {
		return k.B
	}
	return k.A
}

// Has reports whether p is an endpoint of k.
func (k EdgeKey) Has(p mesh.PointID) bool { return k.A == p || k.B == p }

func (k EdgeKey) String() string { return fmt.Sprintf("(%d,%d)", k.A, k.B) }

// Segment is the per-material slot of an edge.
type Segment struct {
	Material mesh.Material
	// Trigs lists every incident triangle of Material, ascending.
	Trigs []mesh.TriangleID
}

// Left returns the first incident triangle.
func (s Segment) Left() mesh.TriangleID { return s.Trigs[0] }

// Right returns the second incident triangle or NoTriangle on a free boundary.
// With more than two triangles the first-found pair is used.
func (s Segment) Right() mesh.TriangleID {
	if len(s.Trigs) < 2 {
		return mesh.NoTriangle
	}
	return s.Trigs[1]
}

// Boundary reports a single incident triangle.
func (s Segment) Boundary() bool { return len(s.Trigs) == 1 }

// NonManifold reports more than two incident triangles.
func (s Segment) NonManifold() bool { return len(s.Trigs) > 2 }

// Edge is one topology edge.
type Edge struct {
	ID       EdgeID
	Key      EdgeKey
	Segments map[mesh.Material]*Segment
}

// Materials returns the materials with a slot on e, ascending.
func (e *Edge) Materials() []mesh.Material {
	ms := make([]mesh.Material, 0, len(e.Segments))
	for m := range e.Segments {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	return ms
}

// Triangles returns the distinct incident triangles across all slots, ascending.
func (e *Edge) Triangles() []mesh.TriangleID {
	var out []mesh.TriangleID
	for _, s := range e.Segments {
		out = append(out, s.Trigs...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	w := 0
	for i, t := range out {
		if i == 0 || t != out[w-1] {
			out[w] = t
			w++
		}
	}
	return out[:w]
}

// NonManifold reports whether more than two distinct triangles meet at e.
func (e *Edge) NonManifold() bool { return len(e.Triangles()) > 2 }

// Option configures Build.
type Option func(*Options)

// Options holds Build parameters.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context
}

// DefaultOptions returns a background context.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}
