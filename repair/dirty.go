// SPDX-License-Identifier: MIT

package repair

import (
	"context"
	"sort"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// minFan is the fewest incident triangles a clean point may have.
const minFan = 3

// Dirty lists the triangles of tp that are degenerate, lack a neighbor on
// some local edge, or touch a point with fewer than three triangles.
func Dirty(tp *topology.Topology) []mesh.TriangleID {
	s := tp.Store()
	var out []mesh.TriangleID
	for i := 0; i < s.NT(); i++ {
		t := mesh.TriangleID(i)
		if dirty(tp, s, t) {
			out = append(out, t)
		}
	}
	return out
}

func dirty(tp *topology.Topology, s *mesh.Store, t mesh.TriangleID) bool {
	if s.Degenerate(t) {
		return true
	}
	tri := s.Triangle(t)
	if tp.NeighborCount(t) < 3 {
		return true
	}
	for _, p := range tri.P {
		if len(s.TrianglesAt(p)) < minFan {
			return true
		}
	}
	return false
}

// RemoveDirty strips dirty triangles and rebuilds adjacency until a sweep
// finds none. Every productive sweep removes at least one triangle, so the
// loop ends; the result may be empty. s is not modified.
func RemoveDirty(ctx context.Context, s *mesh.Store) (*mesh.Store, DirtyReport, error) {
	if s == nil {
		return nil, DirtyReport{}, ErrStoreNil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rep := DirtyReport{Initial: s.NT()}
	origin := make([]mesh.TriangleID, s.NT())
	for i := range origin {
		origin[i] = mesh.TriangleID(i)
	}

	cur := s
	for cur.NT() > 0 {
		if err := cancelled(ctx); err != nil {
			return nil, DirtyReport{}, err
		}
		tp, err := topology.Build(cur, topology.WithContext(ctx))
		if err != nil {
			return nil, DirtyReport{}, err
		}
		bad := Dirty(tp)
		if len(bad) == 0 {
			break
		}
		drop := make(map[mesh.TriangleID]bool, len(bad))
		for _, t := range bad {
			drop[t] = true
			rep.Removed = append(rep.Removed, origin[t])
		}
		next, kept := cur.Without(drop)
		remap := make([]mesh.TriangleID, len(kept))
		for i, old := range kept {
			remap[i] = origin[old]
		}
		cur, origin = next, remap
		rep.Sweeps++
	}

	sort.Slice(rep.Removed, func(i, j int) bool { return rep.Removed[i] < rep.Removed[j] })
	rep.Final = cur.NT()
	rep.Origin = origin
	return cur, rep, nil
}
