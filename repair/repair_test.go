// SPDX-License-Identifier: MIT

package repair_test

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/facetopo/builder"
	"github.com/katalvlaran/facetopo/chart"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/config"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/repair"
	"github.com/katalvlaran/facetopo/topology"
)

func soup(t *testing.T, cons ...builder.Constructor) *builder.Soup {
	t.Helper()
	sp, err := builder.Build(nil, cons...)
	require.NoError(t, err)
	return sp
}

func store(t *testing.T, cons ...builder.Constructor) *mesh.Store {
	t.Helper()
	s, err := soup(t, cons...).Store()
	require.NoError(t, err)
	return s
}

func topo(t *testing.T, s *mesh.Store) *topology.Topology {
	t.Helper()
	tp, err := topology.Build(s)
	require.NoError(t, err)
	return tp
}

func TestRemoveDirty_DegenerateOnCube(t *testing.T) {
	sp := soup(t, builder.Cube(r3.Vector{}, 1))
	tris := append(sp.Triangles, mesh.IndexedTriangle{P: [3]int{0, 0, 3}})
	s, err := mesh.FromIndexed(sp.Points, tris)
	require.NoError(t, err)
	require.Equal(t, 1, s.DegenerateCount())

	clean, rep, err := repair.RemoveDirty(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 13, rep.Initial)
	assert.Equal(t, 12, rep.Final)
	assert.Equal(t, []mesh.TriangleID{12}, rep.Removed)
	assert.Equal(t, 1, rep.Sweeps)
	assert.Len(t, rep.Origin, 12)
	assert.Equal(t, mesh.TriangleID(11), rep.Origin[11])
	assert.Equal(t, 0, clean.DegenerateCount())
	assert.Equal(t, 13, s.NT(), "input untouched")
}

func TestRemoveDirty_CleanAndOpen(t *testing.T) {
	s := store(t, builder.Cube(r3.Vector{}, 1), builder.Cube(r3.Vector{X: 3}, 1))
	clean, rep, err := repair.RemoveDirty(context.Background(), s)
	require.NoError(t, err)
	assert.Same(t, s, clean)
	assert.Empty(t, rep.Removed)
	assert.Equal(t, 0, rep.Sweeps)

	// An open sheet erodes completely.
	s = store(t, builder.Grid(3, 3, 1))
	clean, rep, err = repair.RemoveDirty(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 0, clean.NT())
	assert.Equal(t, 0, rep.Final)
	assert.Len(t, rep.Removed, 18)
	assert.LessOrEqual(t, rep.Final, rep.Initial)
	assert.GreaterOrEqual(t, rep.Sweeps, 1)
}

func TestRemoveDirty_Errors(t *testing.T) {
	_, _, err := repair.RemoveDirty(context.Background(), nil)
	assert.ErrorIs(t, err, repair.ErrStoreNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = repair.RemoveDirty(ctx, store(t, builder.Grid(1, 1, 1)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectOverlaps(t *testing.T) {
	ctx := context.Background()

	pairs, err := repair.DetectOverlaps(ctx, store(t, builder.Cube(r3.Vector{}, 1)), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = repair.DetectOverlaps(ctx, store(t,
		builder.Cube(r3.Vector{}, 1),
		builder.Cube(r3.Vector{X: 3}, 1),
	), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = repair.DetectOverlaps(ctx, store(t,
		builder.Cube(r3.Vector{}, 1),
		builder.Cube(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, 1),
	), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	require.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.Less(t, p.A, mesh.TriangleID(12), p.String())
		assert.GreaterOrEqual(t, p.B, mesh.TriangleID(12), p.String())
	}
}

func TestDetectOverlaps_SharedCorner(t *testing.T) {
	ctx := context.Background()
	o := r3.Vector{}

	// The second facet pierces the first through their common corner.
	pairs, err := repair.DetectOverlaps(ctx, store(t,
		builder.Facet(o, r3.Vector{X: 2}, r3.Vector{Y: 2}),
		builder.Facet(o, r3.Vector{X: 1, Y: 0.5, Z: -1}, r3.Vector{X: 1, Y: 0.5, Z: 1}),
	), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	assert.Equal(t, []repair.Pair{{A: 0, B: 1}}, pairs)

	// Touching only at the common corner is not an overlap.
	pairs, err = repair.DetectOverlaps(ctx, store(t,
		builder.Facet(o, r3.Vector{X: 2}, r3.Vector{Y: 2}),
		builder.Facet(o, r3.Vector{X: -1, Z: 1}, r3.Vector{Y: -1, Z: 1}),
	), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	// Coplanar neighbors around a shared point of a sheet.
	pairs, err = repair.DetectOverlaps(ctx, store(t, builder.Grid(2, 2, 1)), repair.DefaultBoxExpansion)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestDetectOverlaps_Duplicates(t *testing.T) {
	a, b, c := r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1}
	ctx := context.Background()

	pairs, err := repair.DetectOverlaps(ctx, store(t, builder.Facet(a, b, c), builder.Facet(a, b, c)), 0)
	require.NoError(t, err)
	assert.Equal(t, []repair.Pair{{A: 0, B: 1}}, pairs)

	pairs, err = repair.DetectOverlaps(ctx, store(t,
		builder.Tagged(1, builder.Facet(a, b, c)),
		builder.Tagged(2, builder.Facet(a, b, c)),
	), 0)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = repair.DetectOverlaps(ctx, nil, 0)
	assert.ErrorIs(t, err, repair.ErrStoreNil)
	_, err = repair.DetectOverlaps(ctx, store(t, builder.Facet(a, b, c)), -1)
	assert.ErrorIs(t, err, repair.ErrOptionViolation)
}

func TestSortedFan(t *testing.T) {
	tp := topo(t, store(t, builder.Grid(2, 2, 1)))

	// Point 4 is the centre of the 2x2 grid.
	f, err := repair.SortedFan(tp, 4, 0)
	require.NoError(t, err)
	assert.True(t, f.Closed)
	assert.Len(t, f.Trigs, 6)
	require.Len(t, f.Edges, 6)
	spokes := map[topology.EdgeKey]bool{}
	for _, e := range f.Edges {
		spokes[tp.Edge(e).Key] = true
	}
	for _, q := range []mesh.PointID{0, 1, 3, 5, 7, 8} {
		assert.True(t, spokes[topology.MakeKey(4, q)], "spoke 4-%d", q)
	}
	for i := range f.Trigs {
		next := f.Trigs[(i+1)%len(f.Trigs)]
		e, ok := tp.SharedEdge(f.Trigs[i], next)
		require.True(t, ok)
		assert.Equal(t, e, f.Edges[i])
	}

	// Point 1 sits on the border.
	f, err = repair.SortedFan(tp, 1, 0)
	require.NoError(t, err)
	assert.False(t, f.Closed)
	assert.Equal(t, []mesh.TriangleID{2, 3, 0}, f.Trigs)
	assert.Len(t, f.Edges, 2)

	fans, err := repair.Fans(tp, 4)
	require.NoError(t, err)
	assert.Len(t, fans, 1)

	_, err = repair.SortedFan(tp, 8, 0)
	assert.ErrorIs(t, err, repair.ErrNotIncident)
}

func spiralSetup(t *testing.T) (*topology.Topology, *classify.Result, *chart.Partition) {
	t.Helper()
	tp := topo(t, store(t, builder.Grid(2, 2, 1)))
	cls, err := classify.Run(tp, classify.NewParams(config.Default()),
		classify.WithForced(map[topology.EdgeKey]bool{topology.MakeKey(1, 4): true}))
	require.NoError(t, err)
	charts, err := chart.Segment(tp, cls)
	require.NoError(t, err)
	return tp, cls, charts
}

func TestResolveSpirals_AddEdges(t *testing.T) {
	tp, cls, charts := spiralSetup(t)
	rep, err := repair.ResolveSpirals(tp, cls, charts, true)
	require.NoError(t, err)

	// The dangling line ends at the centre: a cone continued straight on.
	assert.Equal(t, []mesh.PointID{4}, rep.Cones)
	assert.Equal(t, []topology.EdgeKey{topology.MakeKey(4, 7)}, rep.Added)
	// At the border the single chart wraps round the line.
	assert.Equal(t, []mesh.PointID{1}, rep.Spirals)
	assert.Equal(t, []mesh.PointID{1}, rep.Exceptions)
	assert.Equal(t, []mesh.PointID{1, 4}, rep.Endpoints)
}

func TestResolveSpirals_MarkOnly(t *testing.T) {
	tp, cls, charts := spiralSetup(t)
	rep, err := repair.ResolveSpirals(tp, cls, charts, false)
	require.NoError(t, err)
	assert.Empty(t, rep.Added)
	assert.Equal(t, []mesh.PointID{1, 4}, rep.Exceptions)
	assert.Equal(t, []mesh.PointID{1, 4}, rep.Endpoints)
}

func TestResolveSpirals_CubeIsClean(t *testing.T) {
	tp := topo(t, store(t, builder.Cube(r3.Vector{}, 1)))
	cls, err := classify.Run(tp, classify.NewParams(config.Default()))
	require.NoError(t, err)
	charts, err := chart.Segment(tp, cls)
	require.NoError(t, err)

	rep, err := repair.ResolveSpirals(tp, cls, charts, true)
	require.NoError(t, err)
	assert.Empty(t, rep.Cones)
	assert.Empty(t, rep.Spirals)
	assert.Empty(t, rep.Added)
	assert.Empty(t, rep.Endpoints)

	_, err = repair.ResolveSpirals(tp, cls, nil, true)
	assert.ErrorIs(t, err, repair.ErrPartitionNil)
	_, err = repair.ResolveSpirals(tp, nil, charts, true)
	assert.ErrorIs(t, err, repair.ErrClassificationNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repair.ResolveSpirals(tp, cls, charts, true, repair.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVicinity(t *testing.T) {
	tp := topo(t, store(t, builder.Cube(r3.Vector{}, 1)))

	res, err := repair.Vicinity(tp, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []mesh.TriangleID{0}, res.Order)

	res, err = repair.Vicinity(tp, 0, 1)
	require.NoError(t, err)
	assert.Len(t, res.Order, 4)
	for _, tr := range res.Order[1:] {
		assert.Equal(t, 1, res.Depth[tr])
	}

	res, err = repair.Vicinity(tp, 0, 12)
	require.NoError(t, err)
	assert.Len(t, res.Order, 12)
	last := res.Order[len(res.Order)-1]
	path, err := res.PathTo(last)
	require.NoError(t, err)
	assert.Len(t, path, res.Depth[last]+1)
	assert.Equal(t, mesh.TriangleID(0), path[0])

	_, err = repair.Vicinity(tp, 0, -1)
	assert.ErrorIs(t, err, repair.ErrOptionViolation)
	_, err = repair.Vicinity(tp, 99, 1)
	assert.ErrorIs(t, err, repair.ErrNotIncident)
}
