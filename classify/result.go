// SPDX-License-Identifier: MIT

package classify

import (
	"github.com/katalvlaran/facetopo/geom"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// Result is the committed outcome of Run.
type Result struct {
	Topo   *topology.Topology
	Table  *StatusTable
	Cos    CosTable
	Policy Policy
	// Forced lists the edges forced in pass 1, ascending.
	Forced []topology.EdgeID
	// ContinuationScans counts pass 3 scans, including the final quiet one.
	ContinuationScans int

	used      []bool
	degree    []int
	endpoints []bool
}

// result runs pass 4 and the corner-angle rule.
func (c *classifier) result() *Result {
	r := &Result{
		Topo:              c.tp,
		Table:             c.table,
		Cos:               c.cos,
		Policy:            PolicyCandidatesAsConfirmed,
		ContinuationScans: c.scans,
		used:              make([]bool, c.tp.NE()),
		degree:            make([]int, c.tp.Store().NP()),
		endpoints:         make([]bool, c.tp.Store().NP()),
	}
	for i, f := range c.forced {
		if f {
			r.Forced = append(r.Forced, topology.EdgeID(i))
		}
	}
	if c.table.Count(Confirmed) > 0 {
		r.Policy = PolicyConfirmedOnly
	}

	for i := range r.used {
		e := c.tp.Edge(topology.EdgeID(i))
		for m := range e.Segments {
			if r.UsedSlot(e.ID, m) {
				r.used[i] = true
				break
			}
		}
		if r.used[i] {
			r.degree[e.Key.A]++
			r.degree[e.Key.B]++
		}
	}

	if c.params.Corner {
		s := c.tp.Store()
		for p := range r.degree {
			if r.degree[p] != 2 {
				continue
			}
			var ends []mesh.PointID
			for _, id := range c.tp.EdgesAt(mesh.PointID(p)) {
				if r.used[id] {
					ends = append(ends, c.tp.Edge(id).Key.Other(mesh.PointID(p)))
				}
			}
			turn := geom.CornerCos(s.Pos(ends[0]), s.Pos(mesh.PointID(p)), s.Pos(ends[1]))
			if turn < c.params.CosCorner {
				r.endpoints[p] = true
			}
		}
	}
	return r
}

// Status returns the status of slot (e, m); Undefined for a missing slot.
func (r *Result) Status(e topology.EdgeID, m mesh.Material) Status {
	s, _ := r.Table.Get(e, m)
	return s
}

// UsedSlot reports whether slot (e, m) is selected under the policy.
func (r *Result) UsedSlot(e topology.EdgeID, m mesh.Material) bool {
	switch r.Status(e, m) {
	case Confirmed:
		return true
	case Candidate:
		return r.Policy == PolicyCandidatesAsConfirmed
	default:
		return false
	}
}

// Used reports whether any slot of e is selected.
func (r *Result) Used(e topology.EdgeID) bool { return r.used[e] }

// UsedEdges returns the selected edges, ascending.
func (r *Result) UsedEdges() []topology.EdgeID {
	var out []topology.EdgeID
	for i, u := range r.used {
		if u {
			out = append(out, topology.EdgeID(i))
		}
	}
	return out
}

// IsFeature reports whether any slot of e is Candidate or Confirmed.
func (r *Result) IsFeature(e topology.EdgeID) bool {
	for m := range r.Topo.Edge(e).Segments {
		if r.Status(e, m).IsFeature() {
			return true
		}
	}
	return false
}

// Degree returns the number of used edges at p.
func (r *Result) Degree(p mesh.PointID) int { return r.degree[p] }

// Endpoint reports whether the corner-angle rule forced p to end lines.
func (r *Result) Endpoint(p mesh.PointID) bool { return r.endpoints[p] }

// Endpoints returns the corner endpoints, ascending.
func (r *Result) Endpoints() []mesh.PointID {
	var out []mesh.PointID
	for p, e := range r.endpoints {
		if e {
			out = append(out, mesh.PointID(p))
		}
	}
	return out
}
