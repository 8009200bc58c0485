// SPDX-License-Identifier: MIT

package repair

import (
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// vicinityWalker holds the mutable BFS state of Vicinity.
type vicinityWalker struct {
	tp    *topology.Topology
	size  int
	queue []mesh.TriangleID
	res   *VicinityResult
}

// Vicinity collects the triangles within size same-material neighbor steps
// of seed, breadth first.
func Vicinity(tp *topology.Topology, seed mesh.TriangleID, size int, opts ...Option) (*VicinityResult, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: size cannot be negative (%d)", ErrOptionViolation, size)
	}
	if !tp.Store().ValidTriangle(seed) {
		return nil, fmt.Errorf("Vicinity: seed %d: %w", seed, ErrNotIncident)
	}
	o := resolve(opts)

	w := &vicinityWalker{
		tp:   tp,
		size: size,
		res: &VicinityResult{
			Depth:  make(map[mesh.TriangleID]int),
			Parent: make(map[mesh.TriangleID]mesh.TriangleID),
		},
	}
	w.enqueue(seed, 0, mesh.NoTriangle)
	for len(w.queue) > 0 {
		if err := cancelled(o.Ctx); err != nil {
			return nil, err
		}
		t := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, t)

		d := w.res.Depth[t] + 1
		if d > w.size {
			continue
		}
		for j := 0; j < 3; j++ {
			for _, nb := range tp.Neighbors(t, j) {
				if _, ok := w.res.Depth[nb]; !ok {
					w.enqueue(nb, d, t)
				}
			}
		}
	}
	return w.res, nil
}

func (w *vicinityWalker) enqueue(t mesh.TriangleID, d int, parent mesh.TriangleID) {
	w.res.Depth[t] = d
	if parent != mesh.NoTriangle {
		w.res.Parent[t] = parent
	}
	w.queue = append(w.queue, t)
}
