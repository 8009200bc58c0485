package topology_test

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/facetopo/builder"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

func build(t *testing.T, cons ...builder.Constructor) *topology.Topology {
	t.Helper()
	soup, err := builder.Build(nil, cons...)
	require.NoError(t, err)
	s, err := soup.Store()
	require.NoError(t, err)
	tp, err := topology.Build(s)
	require.NoError(t, err)
	return tp
}

func TestBuild_Errors(t *testing.T) {
	_, err := topology.Build(nil)
	assert.ErrorIs(t, err, topology.ErrStoreNil)

	soup, err := builder.Build(nil, builder.Cube(r3.Vector{}, 1))
	require.NoError(t, err)
	s, err := soup.Store()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = topology.Build(s, topology.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestCube_Manifold: 18 edges, every slot manifold, three neighbors each.
func TestCube_Manifold(t *testing.T) {
	tp := build(t, builder.Cube(r3.Vector{}, 1))
	assert.Equal(t, 18, tp.NE())
	assert.Empty(t, tp.NonManifoldEdges())
	assert.Empty(t, tp.BoundaryEdges())
	for i := 0; i < tp.NE(); i++ {
		e := tp.Edge(topology.EdgeID(i))
		require.Len(t, e.Segments, 1)
		assert.Len(t, e.Segments[0].Trigs, 2)
		assert.Less(t, e.Key.A, e.Key.B)
	}
	for i := 0; i < tp.Store().NT(); i++ {
		assert.Equal(t, 3, tp.NeighborCount(mesh.TriangleID(i)))
	}
	require.NoError(t, tp.CheckSymmetry())

	// face z=0 is triangles 0 and 1, sharing the diagonal (0,3)
	id, ok := tp.SharedEdge(0, 1)
	require.True(t, ok)
	assert.Equal(t, topology.MakeKey(3, 0), tp.Edge(id).Key)
	got, ok := tp.Lookup(3, 0)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, mesh.TriangleID(1), tp.Neighbor(0, 2))
	_, ok = tp.Lookup(0, 7)
	assert.False(t, ok)
}

// TestSymmetryProperty: for every triangle, local edge and neighbor the
// relation holds in reverse across the same point pair.
func TestSymmetryProperty(t *testing.T) {
	tp := build(t,
		builder.Prism(7, 1, 1),
		builder.TJunction(),
		builder.Grid(3, 2, 1),
	)
	s := tp.Store()
	for i := 0; i < s.NT(); i++ {
		ti := mesh.TriangleID(i)
		for j := 0; j < 3; j++ {
			p, q := s.Triangle(ti).Edge(j)
			for _, nb := range tp.Neighbors(ti, j) {
				found := false
				for k := 0; k < 3; k++ {
					a, b := s.Triangle(nb).Edge(k)
					if topology.MakeKey(a, b) == topology.MakeKey(p, q) {
						assert.Contains(t, tp.Neighbors(nb, k), ti)
						found = true
					}
				}
				assert.True(t, found)
			}
		}
	}
}

func TestTJunction_NonManifold(t *testing.T) {
	tp := build(t, builder.TJunction())
	nm := tp.NonManifoldEdges()
	require.Len(t, nm, 1)
	e := tp.Edge(nm[0])
	assert.Equal(t, topology.MakeKey(0, 1), e.Key)
	seg := e.Segments[0]
	assert.True(t, seg.NonManifold())
	assert.Equal(t, mesh.TriangleID(0), seg.Left())
	assert.Equal(t, mesh.TriangleID(1), seg.Right())
	assert.Equal(t, []mesh.TriangleID{1, 2}, tp.Neighbors(0, 0))
	assert.Len(t, tp.BoundaryEdges(), 6)
}

// TestMaterials keeps per-material slots apart: two sheets of different
// material sharing one edge are not neighbors but the edge sees both.
func TestMaterials(t *testing.T) {
	soup := &builder.Soup{
		Points: []r3.Vector{{}, {X: 1}, {Y: 1}, {Y: -1}},
		Triangles: []mesh.IndexedTriangle{
			{P: [3]int{0, 1, 2}, Material: 1},
			{P: [3]int{1, 0, 3}, Material: 2},
		},
	}
	s, err := soup.Store()
	require.NoError(t, err)
	tp, err := topology.Build(s)
	require.NoError(t, err)

	id, ok := tp.Lookup(0, 1)
	require.True(t, ok)
	e := tp.Edge(id)
	assert.Equal(t, []mesh.Material{1, 2}, e.Materials())
	assert.True(t, e.Segments[1].Boundary())
	assert.Equal(t, mesh.NoTriangle, e.Segments[2].Right())
	assert.Equal(t, []mesh.TriangleID{0, 1}, e.Triangles())
	assert.Equal(t, mesh.NoTriangle, tp.Neighbor(0, 0))
	assert.False(t, e.NonManifold())
}

// TestDegenerateTriangle skips the collapsed local edge.
func TestDegenerateTriangle(t *testing.T) {
	soup := &builder.Soup{
		Points:    []r3.Vector{{}, {X: 1}, {Y: 1}},
		Triangles: []mesh.IndexedTriangle{{P: [3]int{0, 1, 2}}, {P: [3]int{0, 0, 1}}},
	}
	s, err := soup.Store()
	require.NoError(t, err)
	tp, err := topology.Build(s)
	require.NoError(t, err)
	assert.Equal(t, topology.NoEdge, tp.EdgeOf(1, 0))
	assert.Equal(t, []mesh.TriangleID{0}, tp.Neighbors(1, 1))
	assert.Equal(t, []mesh.TriangleID{1}, tp.Neighbors(0, 0))
	assert.Equal(t, 3, tp.NE())
}
