// SPDX-License-Identifier: MIT

package repair

import (
	"sort"

	"github.com/katalvlaran/facetopo/chart"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// arc is a maximal run of fan triangles not separated by a used edge.
type arc struct {
	trigs []mesh.TriangleID
	// inner lists the edges between consecutive trigs.
	inner []topology.EdgeID
}

// middle returns the central inner edge, or NoEdge for a single triangle.
func (a arc) middle() topology.EdgeID {
	if len(a.inner) == 0 {
		return topology.NoEdge
	}
	return a.inner[len(a.inner)/2]
}

// arcs cuts f at the edges for which cut is true and returns the number of
// cuts. A closed fan is rotated to start right after its first cut.
func arcs(f Fan, cut func(topology.EdgeID) bool) ([]arc, int) {
	trigs, edges := f.Trigs, f.Edges
	crossings := 0
	first := -1
	for i, e := range edges {
		if cut(e) {
			crossings++
			if first < 0 {
				first = i
			}
		}
	}
	if f.Closed {
		if first < 0 {
			return []arc{{trigs: trigs, inner: edges[:len(edges)-1]}}, 0
		}
		n := len(trigs)
		rt := make([]mesh.TriangleID, n)
		re := make([]topology.EdgeID, n-1)
		for k := 0; k < n; k++ {
			rt[k] = trigs[(first+1+k)%n]
			if k < n-1 {
				re[k] = edges[(first+1+k)%n]
			}
		}
		trigs, edges = rt, re
	}

	var out []arc
	cur := arc{trigs: []mesh.TriangleID{trigs[0]}}
	for i, e := range edges {
		if cut(e) {
			out = append(out, cur)
			cur = arc{trigs: []mesh.TriangleID{trigs[i+1]}}
			continue
		}
		cur.inner = append(cur.inner, e)
		cur.trigs = append(cur.trigs, trigs[i+1])
	}
	return append(out, cur), crossings
}

// spiralPass holds the state of one ResolveSpirals call.
type spiralPass struct {
	tp       *topology.Topology
	cls      *classify.Result
	charts   *chart.Partition
	addEdges bool
	added    map[topology.EdgeKey]bool
	rep      *SpiralReport
}

// ResolveSpirals scans every point for cone and spiral configurations.
// With addEdges the middle inner edge of the offending arc is reported in
// Added for the caller to insert as a feature edge; an arc without an
// inner edge, or addEdges false, marks the point as an exception instead.
// Every touched point is listed in Endpoints.
func ResolveSpirals(tp *topology.Topology, cls *classify.Result, charts *chart.Partition, addEdges bool, opts ...Option) (*SpiralReport, error) {
	switch {
	case tp == nil:
		return nil, ErrTopologyNil
	case cls == nil:
		return nil, ErrClassificationNil
	case charts == nil:
		return nil, ErrPartitionNil
	case cls.Topo != tp || charts.Len() != tp.Store().NT():
		return nil, ErrMismatch
	}
	o := resolve(opts)

	sp := &spiralPass{
		tp:       tp,
		cls:      cls,
		charts:   charts,
		addEdges: addEdges,
		added:    make(map[topology.EdgeKey]bool),
		rep:      &SpiralReport{},
	}
	for i := 0; i < tp.Store().NP(); i++ {
		if err := cancelled(o.Ctx); err != nil {
			return nil, err
		}
		if err := sp.point(mesh.PointID(i)); err != nil {
			return nil, err
		}
	}
	sort.Slice(sp.rep.Endpoints, func(i, j int) bool { return sp.rep.Endpoints[i] < sp.rep.Endpoints[j] })
	return sp.rep, nil
}

func (sp *spiralPass) point(p mesh.PointID) error {
	fans, err := Fans(sp.tp, p)
	if err != nil {
		return err
	}
	s := sp.tp.Store()
	var cone, spiral, marked bool
	for _, f := range fans {
		m := s.Triangle(f.Trigs[0]).Material
		as, crossings := arcs(f, func(e topology.EdgeID) bool { return sp.cls.UsedSlot(e, m) })

		var offending *arc
		if f.Closed && crossings == 1 {
			cone = true
			offending = &as[0]
		} else if j := sp.repeatedChart(as); j >= 0 {
			spiral = true
			offending = &as[j]
		}
		if offending == nil {
			continue
		}
		e := offending.middle()
		if sp.addEdges && e != topology.NoEdge {
			key := sp.tp.Edge(e).Key
			if !sp.added[key] {
				sp.added[key] = true
				sp.rep.Added = append(sp.rep.Added, key)
			}
		} else {
			marked = true
		}
	}

	if cone {
		sp.rep.Cones = append(sp.rep.Cones, p)
	}
	if spiral {
		sp.rep.Spirals = append(sp.rep.Spirals, p)
	}
	if marked {
		sp.rep.Exceptions = append(sp.rep.Exceptions, p)
	}
	if cone || spiral {
		sp.rep.Endpoints = append(sp.rep.Endpoints, p)
	}
	return nil
}

// repeatedChart returns the index of the first arc whose chart already
// appeared in an earlier arc, or -1.
func (sp *spiralPass) repeatedChart(as []arc) int {
	seen := make(map[mesh.ChartID]bool, len(as))
	for i, a := range as {
		c := sp.charts.Of(a.trigs[0])
		if seen[c] {
			return i
		}
		seen[c] = true
	}
	return -1
}
