// SPDX-License-Identifier: MIT

package chart

import (
	"context"
	"sort"

	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// walker holds the mutable flood-fill state.
type walker struct {
	tp    *topology.Topology
	ctx   context.Context
	queue []mesh.TriangleID
	part  *Partition
	// cross lists the triangles reachable from t across its j-th local edge.
	cross func(t mesh.TriangleID, j int) []mesh.TriangleID
}

// Segment splits tp's triangles into charts bounded by the used feature
// edges of cls.
func Segment(tp *topology.Topology, cls *classify.Result, opts ...Option) (*Partition, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	if cls == nil {
		return nil, ErrClassificationNil
	}
	if cls.Topo != tp {
		return nil, ErrMismatch
	}
	s := tp.Store()
	w := newWalker(tp, opts)
	w.cross = func(t mesh.TriangleID, j int) []mesh.TriangleID {
		e := tp.EdgeOf(t, j)
		if e == topology.NoEdge || cls.UsedSlot(e, s.Triangle(t).Material) {
			return nil
		}
		return tp.Neighbors(t, j)
	}
	return w.part, w.run()
}

// Bodies splits tp's triangles into connected components of the raw
// adjacency, ignoring feature edges and materials.
func Bodies(tp *topology.Topology, opts ...Option) (*Partition, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	w := newWalker(tp, opts)
	w.cross = func(t mesh.TriangleID, j int) []mesh.TriangleID {
		e := tp.EdgeOf(t, j)
		if e == topology.NoEdge {
			return nil
		}
		return tp.Edge(e).Triangles()
	}
	return w.part, w.run()
}

func newWalker(tp *topology.Topology, opts []Option) *walker {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	nt := tp.Store().NT()
	return &walker{
		tp:    tp,
		ctx:   o.Ctx,
		queue: make([]mesh.TriangleID, 0, nt),
		part:  &Partition{of: make([]mesh.ChartID, nt)},
	}
}

// run seeds a fill at every unassigned triangle in ascending order.
func (w *walker) run() error {
	for i := range w.part.of {
		if w.part.of[i] != mesh.NoChart {
			continue
		}
		if err := w.flood(mesh.TriangleID(i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) flood(seed mesh.TriangleID) error {
	id := mesh.ChartID(len(w.part.members) + 1)
	var members []mesh.TriangleID
	w.part.of[seed] = id
	w.queue = append(w.queue[:0], seed)
	for len(w.queue) > 0 {
		// cancellation check (once per loop)
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		t := w.queue[0]
		w.queue = w.queue[1:]
		members = append(members, t)
		for j := 0; j < 3; j++ {
			for _, nb := range w.cross(t, j) {
				if w.part.of[nb] == mesh.NoChart {
					w.part.of[nb] = id
					w.queue = append(w.queue, nb)
				}
			}
		}
	}
	sort.Slice(members, func(a, b int) bool { return members[a] < members[b] })
	w.part.members = append(w.part.members, members)
	return nil
}
