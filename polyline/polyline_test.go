// SPDX-License-Identifier: MIT

package polyline_test

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
	"github.com/katalvlaran/facetopo/polyline"
	"github.com/katalvlaran/facetopo/topology"
)

type fixture struct {
	tp     *topology.Topology
	cls    *classify.Result
	charts *chart.Partition
}

func setup(t *testing.T, cfg []config.Option, forced map[topology.EdgeKey]bool, cons ...builder.Constructor) fixture {
	t.Helper()
	soup, err := builder.Build(nil, cons...)
	require.NoError(t, err)
	s, err := soup.Store()
	require.NoError(t, err)
	tp, err := topology.Build(s)
	require.NoError(t, err)
	c, err := config.New(cfg...)
	require.NoError(t, err)
	cls, err := classify.Run(tp, classify.NewParams(c), classify.WithForced(forced))
	require.NoError(t, err)
	charts, err := chart.Segment(tp, cls)
	require.NoError(t, err)
	return fixture{tp: tp, cls: cls, charts: charts}
}

func (f fixture) link(t *testing.T, opts ...polyline.Option) *polyline.Set {
	t.Helper()
	set, err := polyline.Link(f.tp, f.cls, f.charts, opts...)
	require.NoError(t, err)
	require.NoError(t, polyline.Validate(set.Lines))
	f.covers(t, set)
	return set
}

// covers asserts that every used edge sits on exactly one line and that
// every left side runs its segment in winding order.
func (f fixture) covers(t *testing.T, set *polyline.Set) {
	t.Helper()
	seen := make(map[topology.EdgeID]int)
	s := f.tp.Store()
	for i, l := range set.Lines {
		assert.Equal(t, i, l.ID)
		require.Len(t, l.Edges, len(l.Points)-1)
		require.Len(t, l.Sides, len(l.Edges))
		for k, e := range l.Edges {
			seen[e]++
			assert.Equal(t, topology.MakeKey(l.Points[k], l.Points[k+1]), f.tp.Edge(e).Key)
			for _, sd := range l.Sides[k] {
				if sd.Left != mesh.NoTriangle {
					assert.True(t, s.Triangle(sd.Left).Runs(l.Points[k], l.Points[k+1]))
				}
			}
		}
	}
	used := f.cls.UsedEdges()
	assert.Len(t, seen, len(used))
	for _, e := range used {
		assert.Equal(t, 1, seen[e], "edge %d", e)
	}
}

func splits(set *polyline.Set, kind string) int {
	n := 0
	for _, s := range set.Splits {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestLink_Cube(t *testing.T) {
	f := setup(t, nil, nil, builder.Cube(r3.Vector{}, 1))
	set := f.link(t)
	assert.Len(t, set.Lines, 12)
	assert.Empty(t, set.Splits)
	for _, l := range set.Lines {
		assert.Equal(t, 1, l.Segments())
		require.Len(t, l.Sides[0], 1)
		sd := l.Sides[0][0]
		assert.True(t, sd.Used)
		assert.NotEqual(t, sd.LeftChart, sd.RightChart)
		assert.Len(t, l.Charts, 2)
		assert.Equal(t, []mesh.Material{0}, l.Materials)
	}
}

func TestLink_StripCorners(t *testing.T) {
	f := setup(t, nil, nil, builder.Grid(3, 1, 1))
	set := f.link(t)
	require.Len(t, set.Lines, 4)
	assert.Empty(t, set.Splits)

	lengths := map[topology.EdgeKey]int{}
	for _, l := range set.Lines {
		lengths[l.Key()] = l.Segments()
		assert.Equal(t, []mesh.ChartID{1}, l.Charts)
		for _, ss := range l.Sides {
			require.Len(t, ss, 1)
			// Border segments have exactly one side.
			assert.True(t, (ss[0].Left == mesh.NoTriangle) != (ss[0].Right == mesh.NoTriangle))
		}
	}
	assert.Equal(t, map[topology.EdgeKey]int{
		topology.MakeKey(0, 3): 3,
		topology.MakeKey(4, 7): 3,
		topology.MakeKey(0, 4): 1,
		topology.MakeKey(3, 7): 1,
	}, lengths)
}

func TestLink_ExtraEndpoint(t *testing.T) {
	f := setup(t, nil, nil, builder.Grid(3, 1, 1))
	set := f.link(t, polyline.WithEndpoints(1))
	assert.Len(t, set.Lines, 5)
	keys := map[topology.EdgeKey]bool{}
	for _, l := range set.Lines {
		keys[l.Key()] = true
	}
	assert.True(t, keys[topology.MakeKey(0, 1)])
	assert.True(t, keys[topology.MakeKey(1, 3)])
}

func TestLink_RingSplit(t *testing.T) {
	// Without the corner rule the border of a square is one closed ring.
	f := setup(t, []config.Option{config.WithEdgeCornerAngle(180)}, nil, builder.Grid(3, 1, 1))
	set := f.link(t)
	assert.Equal(t, 1, splits(set, polyline.SplitRing))
	assert.Equal(t, 2, splits(set, polyline.SplitCollision))
	assert.Len(t, set.Lines, 4)
	for _, l := range set.Lines {
		assert.Equal(t, 2, l.Segments())
	}
}

func TestLink_Collision(t *testing.T) {
	// Forcing the middle edge of a 2x1 strip gives three lines between 1 and 4.
	f := setup(t,
		[]config.Option{config.WithEdgeCornerAngle(180)},
		map[topology.EdgeKey]bool{topology.MakeKey(1, 4): true},
		builder.Grid(2, 1, 1),
	)
	set := f.link(t)
	assert.Len(t, set.Lines, 5)
	assert.Equal(t, 0, splits(set, polyline.SplitRing))
	assert.Equal(t, 2, splits(set, polyline.SplitCollision))

	var middle *polyline.Line
	for i := range set.Lines {
		if set.Lines[i].Key() == topology.MakeKey(1, 4) {
			middle = &set.Lines[i]
		}
	}
	require.NotNil(t, middle)
	assert.Equal(t, 1, middle.Segments())
	assert.Equal(t, []mesh.ChartID{1, 2}, middle.Charts)
}

func TestLink_TJunction(t *testing.T) {
	f := setup(t, nil, nil, builder.TJunction())
	set := f.link(t)
	assert.NotEmpty(t, set.Lines)

	hinge := topology.MakeKey(0, 1)
	for _, l := range set.Lines {
		if l.Key() != hinge || l.Segments() != 1 {
			continue
		}
		// One material, three fins: first-found left/right.
		require.Len(t, l.Sides[0], 1)
		assert.NotEqual(t, mesh.NoTriangle, l.Sides[0][0].Left)
		assert.NotEqual(t, mesh.NoTriangle, l.Sides[0][0].Right)
	}
}

func TestLink_NoCharts(t *testing.T) {
	f := setup(t, nil, nil, builder.Cube(r3.Vector{}, 1))
	set, err := polyline.Link(f.tp, f.cls, nil)
	require.NoError(t, err)
	for _, l := range set.Lines {
		assert.Empty(t, l.Charts)
		assert.Equal(t, mesh.NoChart, l.Sides[0][0].LeftChart)
	}
}

func TestValidate(t *testing.T) {
	ok := polyline.Line{Points: []mesh.PointID{0, 1}, Edges: []topology.EdgeID{0}}
	assert.NoError(t, polyline.Validate([]polyline.Line{ok}))

	short := polyline.Line{Points: []mesh.PointID{0}}
	assert.ErrorIs(t, polyline.Validate([]polyline.Line{short}), polyline.ErrShortLine)

	ring := polyline.Line{Points: []mesh.PointID{0, 1, 2, 0}}
	assert.ErrorIs(t, polyline.Validate([]polyline.Line{ring}), polyline.ErrRing)

	back := polyline.Line{Points: []mesh.PointID{1, 2, 0}}
	assert.ErrorIs(t, polyline.Validate([]polyline.Line{ok, back}), polyline.ErrCollision)
}

func TestLink_Errors(t *testing.T) {
	f := setup(t, nil, nil, builder.Cube(r3.Vector{}, 1))
	g := setup(t, nil, nil, builder.Grid(1, 1, 1))

	_, err := polyline.Link(nil, f.cls, nil)
	assert.ErrorIs(t, err, polyline.ErrTopologyNil)
	_, err = polyline.Link(f.tp, nil, nil)
	assert.ErrorIs(t, err, polyline.ErrClassificationNil)
	_, err = polyline.Link(g.tp, f.cls, nil)
	assert.ErrorIs(t, err, polyline.ErrMismatch)
	_, err = polyline.Link(f.tp, f.cls, g.charts)
	assert.ErrorIs(t, err, polyline.ErrMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = polyline.Link(f.tp, f.cls, f.charts, polyline.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}
