// SPDX-License-Identifier: MIT

package repair

import (
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// spokes returns the two local edges of t that meet at p: the one leaving
// p in winding order and the one arriving at p.
func spokes(tp *topology.Topology, t mesh.TriangleID, p mesh.PointID) (out, in int) {
	k := tp.Store().Triangle(t).Local(p)
	return k, (k + 2) % 3
}

// localOf returns the local index of edge e in t, or -1.
func localOf(tp *topology.Topology, t mesh.TriangleID, e topology.EdgeID) int {
	for j := 0; j < 3; j++ {
		if tp.EdgeOf(t, j) == e {
			return j
		}
	}
	return -1
}

// SortedFan walks around p starting at start. The walk first leaves start
// across its edge arriving at p; if it reaches a free or non-matching edge
// before returning to start, it also walks the other way and prepends.
func SortedFan(tp *topology.Topology, p mesh.PointID, start mesh.TriangleID) (Fan, error) {
	if tp == nil {
		return Fan{}, ErrTopologyNil
	}
	s := tp.Store()
	if !s.ValidTriangle(start) || !s.ValidPoint(p) || !s.Triangle(start).HasPoint(p) {
		return Fan{}, fmt.Errorf("SortedFan: triangle %d, point %d: %w", start, p, ErrNotIncident)
	}
	f := Fan{Point: p, Trigs: []mesh.TriangleID{start}}
	if s.Triangle(start).RepeatsPoint() {
		return f, nil
	}

	seen := map[mesh.TriangleID]bool{start: true}
	out, in := spokes(tp, start, p)
	fwdT, fwdE := walkFan(tp, p, start, tp.EdgeOf(start, in), seen)
	if len(fwdT) > 0 && fwdT[len(fwdT)-1] == start {
		f.Trigs = append(f.Trigs, fwdT[:len(fwdT)-1]...)
		f.Edges = fwdE
		f.Closed = true
		return f, nil
	}
	backT, backE := walkFan(tp, p, start, tp.EdgeOf(start, out), seen)
	if len(backT) > 0 && backT[len(backT)-1] == start {
		backT, backE = backT[:len(backT)-1], backE[:len(backE)-1]
	}

	trigs := make([]mesh.TriangleID, 0, len(backT)+1+len(fwdT))
	edges := make([]topology.EdgeID, 0, len(backE)+len(fwdE))
	for i := len(backT) - 1; i >= 0; i-- {
		trigs = append(trigs, backT[i])
	}
	for i := len(backE) - 1; i >= 0; i-- {
		edges = append(edges, backE[i])
	}
	trigs = append(trigs, start)
	trigs = append(trigs, fwdT...)
	edges = append(edges, fwdE...)
	f.Trigs, f.Edges = trigs, edges
	return f, nil
}

// walkFan crosses leave from t and keeps turning around p. It returns the
// triangles reached and the edges crossed; a walk that comes back to its
// origin ends with the origin.
func walkFan(tp *topology.Topology, p mesh.PointID, t mesh.TriangleID, leave topology.EdgeID, seen map[mesh.TriangleID]bool) ([]mesh.TriangleID, []topology.EdgeID) {
	origin := t
	var trigs []mesh.TriangleID
	var edges []topology.EdgeID
	for leave != topology.NoEdge {
		j := localOf(tp, t, leave)
		nb := tp.Neighbor(t, j)
		if nb == mesh.NoTriangle {
			break
		}
		if nb == origin {
			trigs = append(trigs, nb)
			edges = append(edges, leave)
			break
		}
		if seen[nb] || tp.Store().Triangle(nb).RepeatsPoint() {
			break
		}
		seen[nb] = true
		trigs = append(trigs, nb)
		edges = append(edges, leave)

		out, in := spokes(tp, nb, p)
		next := tp.EdgeOf(nb, in)
		if next == leave {
			next = tp.EdgeOf(nb, out)
		}
		t, leave = nb, next
	}
	return trigs, edges
}

// Fans splits the triangles around p into fans, each started at its lowest
// triangle id.
func Fans(tp *topology.Topology, p mesh.PointID) ([]Fan, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	s := tp.Store()
	if !s.ValidPoint(p) {
		return nil, fmt.Errorf("Fans: point %d: %w", p, ErrNotIncident)
	}
	covered := make(map[mesh.TriangleID]bool)
	var fans []Fan
	for _, t := range s.TrianglesAt(p) {
		if covered[t] || s.Triangle(t).RepeatsPoint() {
			continue
		}
		f, err := SortedFan(tp, p, t)
		if err != nil {
			return nil, err
		}
		for _, u := range f.Trigs {
			covered[u] = true
		}
		fans = append(fans, f)
	}
	return fans, nil
}
