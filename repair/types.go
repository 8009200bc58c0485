// SPDX-License-Identifier: MIT

package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// Sentinel errors.
var (
	ErrStoreNil          = errors.New("repair: store is nil")
	ErrTopologyNil       = errors.New("repair: topology is nil")
	ErrClassificationNil = errors.New("repair: classification is nil")
	ErrPartitionNil      = errors.New("repair: partition is nil")
	ErrMismatch          = errors.New("repair: inputs belong to different topologies")
	ErrNotIncident       = errors.New("repair: triangle does not touch the point")
	ErrOptionViolation   = errors.New("repair: invalid option supplied")
)

// DirtyReport summarizes RemoveDirty.
type DirtyReport struct {
	Initial int
	Final   int
	// Removed lists the dropped triangles by their id in the input store,
	// ascending.
	Removed []mesh.TriangleID
	// Sweeps counts the sweeps that removed at least one triangle.
	Sweeps int
	// Origin maps each surviving triangle to its id in the input store.
	Origin []mesh.TriangleID
}

// Pair is an unordered pair of intersecting triangles with A < B.
type Pair struct {
	A, B mesh.TriangleID
}

// String implements fmt.Stringer.
func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.A, p.B) }

// Fan is the ordered set of triangles around a point reachable by walking
// across shared same-material edges.
type Fan struct {
	Point mesh.PointID
	Trigs []mesh.TriangleID
	// Edges[i] joins Trigs[i] and Trigs[i+1]; a closed fan has one more
	// entry joining the last triangle back to the first.
	Edges  []topology.EdgeID
	Closed bool
}

// SpiralReport is the outcome of ResolveSpirals.
type SpiralReport struct {
	// Cones lists points whose closed fan is crossed by exactly one used edge.
	Cones []mesh.PointID
	// Spirals lists points where two arcs of one fan belong to the same chart.
	Spirals []mesh.PointID
	// Added lists the inserted feature edges in discovery order.
	Added []topology.EdgeKey
	// Exceptions lists points that were marked instead of receiving an edge.
	Exceptions []mesh.PointID
	// Endpoints lists every touched point, ascending.
	Endpoints []mesh.PointID
}

// VicinityResult holds the outcome of Vicinity:
//   - Order: triangles in visit sequence, seed first.
//   - Depth: neighbor steps from the seed.
//   - Parent: predecessor in the search tree.
type VicinityResult struct {
	Order  []mesh.TriangleID
	Depth  map[mesh.TriangleID]int
	Parent map[mesh.TriangleID]mesh.TriangleID
}

// PathTo reconstructs the triangle path from the seed to dest.
func (r *VicinityResult) PathTo(dest mesh.TriangleID) ([]mesh.TriangleID, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("repair: triangle %d not in vicinity", dest)
	}
	path := []mesh.TriangleID{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Option configures the passes that take options.
type Option func(*Options)

// Options holds shared pass parameters.
type Options struct {
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

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
