// SPDX-License-Identifier: MIT

package topology

import (
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
)

// Topology is the adjacency derived from one committed store.
type Topology struct {
	store    *mesh.Store
	edges    []Edge
	index    map[EdgeKey]EdgeID
	triEdges [][3]EdgeID
	edgesAt  [][]EdgeID
}

// Build derives the edge table and neighbor relation of s.
func Build(s *mesh.Store, opts ...Option) (*Topology, error) {
	if s == nil {
		return nil, ErrStoreNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	nt := s.NT()
	tp := &Topology{
		store:    s,
		edges:    make([]Edge, 0, nt*3/2+1),
		index:    make(map[EdgeKey]EdgeID, nt*3/2+1),
		triEdges: make([][3]EdgeID, nt),
		edgesAt:  make([][]EdgeID, s.NP()),
	}

	for i := 0; i < nt; i++ {
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		t := mesh.TriangleID(i)
		tr := s.Triangle(t)
		for k, p := range tr.P {
			if !s.ValidPoint(p) {
				return nil, fmt.Errorf("Build: triangle %d corner %d point %d: %w", t, k, p, ErrPointOutOfRange)
			}
		}
		for j := 0; j < 3; j++ {
			p, q := tr.Edge(j)
			if p == q {
				tp.triEdges[t][j] = NoEdge
				continue
			}
			id := tp.intern(MakeKey(p, q))
			seg := tp.edges[id].Segments[tr.Material]
			if seg == nil {
				seg = &Segment{Material: tr.Material}
				tp.edges[id].Segments[tr.Material] = seg
			}
			// a triangle like (a,b,a) meets the same pair twice
			if n := len(seg.Trigs); n == 0 || seg.Trigs[n-1] != t {
				seg.Trigs = append(seg.Trigs, t)
			}
			tp.triEdges[t][j] = id
		}
	}

	if err := tp.CheckSymmetry(); err != nil {
		return nil, err
	}
	return tp, nil
}

// intern returns the id of k, creating the edge on first sight.
func (tp *Topology) intern(k EdgeKey) EdgeID {
	if id, ok := tp.index[k]; ok {
		return id
	}
	id := EdgeID(len(tp.edges))
	tp.edges = append(tp.edges, Edge{ID: id, Key: k, Segments: make(map[mesh.Material]*Segment, 1)})
	tp.index[k] = id
	tp.edgesAt[k.A] = append(tp.edgesAt[k.A], id)
	tp.edgesAt[k.B] = append(tp.edgesAt[k.B], id)
	return id
}

// Store returns the store this topology was derived from.
func (tp *Topology) Store() *mesh.Store { return tp.store }

// NE returns the number of topology edges.
func (tp *Topology) NE() int { return len(tp.edges) }

// Edge returns edge id. The edge is shared and must not be modified.
func (tp *Topology) Edge(id EdgeID) *Edge { return &tp.edges[id] }

// Lookup finds the edge between p and q.
func (tp *Topology) Lookup(p, q mesh.PointID) (EdgeID, bool) {
	id, ok := tp.index[MakeKey(p, q)]
	return id, ok
}

// EdgeOf returns the edge of t's j-th local edge, or NoEdge.
func (tp *Topology) EdgeOf(t mesh.TriangleID, j int) EdgeID { return tp.triEdges[t][j] }

// EdgesAt returns the edges incident to p, ascending. The slice is shared.
func (tp *Topology) EdgesAt(p mesh.PointID) []EdgeID { return tp.edgesAt[p] }

// Neighbors returns the triangles of t's material across its j-th local edge.
func (tp *Topology) Neighbors(t mesh.TriangleID, j int) []mesh.TriangleID {
	id := tp.triEdges[t][j]
	if id == NoEdge {
		return nil
	}
	seg := tp.edges[id].Segments[tp.store.Triangle(t).Material]
	out := make([]mesh.TriangleID, 0, len(seg.Trigs))
	for _, s := range seg.Trigs {
		if s != t {
			out = append(out, s)
		}
	}
	return out
}

// Neighbor returns the first-found neighbor across local edge j or NoTriangle.
func (tp *Topology) Neighbor(t mesh.TriangleID, j int) mesh.TriangleID {
	if nb := tp.Neighbors(t, j); len(nb) > 0 {
		return nb[0]
	}
	return mesh.NoTriangle
}

// NeighborCount returns how many local edges of t have at least one neighbor.
func (tp *Topology) NeighborCount(t mesh.TriangleID) int {
	n := 0
	for j := 0; j < 3; j++ {
		if tp.Neighbor(t, j) != mesh.NoTriangle {
			n++
		}
	}
	return n
}

// SharedEdge returns the edge t1 and t2 have in common.
func (tp *Topology) SharedEdge(t1, t2 mesh.TriangleID) (EdgeID, bool) {
	for j := 0; j < 3; j++ {
		id := tp.triEdges[t1][j]
		if id == NoEdge {
			continue
		}
		for _, s := range tp.edges[id].Segments {
			for _, t := range s.Trigs {
				if t == t2 {
					return id, true
				}
			}
		}
	}
	return NoEdge, false
}

// NonManifoldEdges returns edges with more than two distinct incident
// triangles, ascending.
func (tp *Topology) NonManifoldEdges() []EdgeID {
	var out []EdgeID
	for i := range tp.edges {
		if tp.edges[i].NonManifold() {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// BoundaryEdges returns edges with exactly one incident triangle, ascending.
func (tp *Topology) BoundaryEdges() []EdgeID {
	var out []EdgeID
	for i := range tp.edges {
		if len(tp.edges[i].Triangles()) == 1 {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// CheckSymmetry verifies that s neighbors t across (v_j, v_j+1) exactly when
// t neighbors s across the same pair.
func (tp *Topology) CheckSymmetry() error {
	for i := range tp.triEdges {
		t := mesh.TriangleID(i)
		for j := 0; j < 3; j++ {
			id := tp.triEdges[t][j]
			for _, s := range tp.Neighbors(t, j) {
				if !tp.neighborsAcross(s, id, t) {
					return fmt.Errorf("CheckSymmetry: %d -> %d across %v: %w", t, s, tp.edges[id].Key, ErrAsymmetric)
				}
			}
		}
	}
	return nil
}

func (tp *Topology) neighborsAcross(s mesh.TriangleID, id EdgeID, t mesh.TriangleID) bool {
	for j := 0; j < 3; j++ {
		if tp.triEdges[s][j] != id {
			continue
		}
		for _, n := range tp.Neighbors(s, j) {
			if n == t {
				return true
			}
		}
	}
	return false
}
