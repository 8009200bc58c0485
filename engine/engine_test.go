// SPDX-License-Identifier: MIT

package engine_test

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/facetopo/builder"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/config"
	"github.com/katalvlaran/facetopo/engine"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

func newEngine(t *testing.T, opts []engine.Option, cons ...builder.Constructor) *engine.Engine {
	t.Helper()
	soup, err := builder.Build(nil, cons...)
	require.NoError(t, err)
	e, err := engine.NewFromIndexed(config.Default(), soup.Points, soup.Triangles, opts...)
	require.NoError(t, err)
	return e
}

// CubeSuite runs the full pipeline on the unit cube.
type CubeSuite struct {
	suite.Suite
	ctx context.Context
	e   *engine.Engine
}

func (s *CubeSuite) SetupTest() {
	s.ctx = context.Background()
	s.e = newEngine(s.T(), nil, builder.Cube(r3.Vector{}, 1))
	s.Require().NoError(s.e.Run(s.ctx))
}

func (s *CubeSuite) TestPipeline() {
	s.True(s.e.Done(engine.StageTopology | engine.StageClassified | engine.StageCharts |
		engine.StageLines | engine.StageOverlaps | engine.StageSpirals))

	charts, err := s.e.Charts()
	s.Require().NoError(err)
	s.Equal(6, charts.Count())
	s.NoError(charts.Validate())

	bodies, err := s.e.Bodies()
	s.Require().NoError(err)
	s.Equal(1, bodies.Count())

	lines, err := s.e.Lines()
	s.Require().NoError(err)
	s.Len(lines.Lines, 12)

	crease, err := s.e.IsFeature(0, 1)
	s.Require().NoError(err)
	s.True(crease)
	diagonal, err := s.e.IsFeature(0, 3)
	s.Require().NoError(err)
	s.False(diagonal)

	st, err := s.e.Status(0, 3, 0)
	s.Require().NoError(err)
	s.Equal(classify.Undefined, st)

	d := s.e.Diagnostics()
	s.Empty(d.NonManifold)
	s.Zero(d.BoundaryEdges)
	s.Empty(d.Overlaps)
	s.Empty(d.Cones)
	s.Empty(d.InsertedEdges)
	s.Empty(d.RoughTriangles)
	s.Equal(6, d.Charts)

	for i := 0; i < s.e.Store().NT(); i++ {
		s.NotEqual(mesh.NoChart, s.e.Store().Triangle(mesh.TriangleID(i)).Chart)
	}
}

func (s *CubeSuite) TestIdempotent() {
	first, err := s.e.Charts()
	s.Require().NoError(err)
	cls1, err := s.e.Classification()
	s.Require().NoError(err)

	s.Require().NoError(s.e.Run(s.ctx))
	second, err := s.e.Charts()
	s.Require().NoError(err)
	cls2, err := s.e.Classification()
	s.Require().NoError(err)

	s.Equal(first.IDs(), second.IDs())
	for i := 0; i < cls1.Topo.NE(); i++ {
		id := topology.EdgeID(i)
		s.Equal(cls1.Status(id, 0), cls2.Status(id, 0))
	}
}

func (s *CubeSuite) TestExcludeCrease() {
	s.Require().NoError(s.e.SetEdgeStatus(0, 1, 0, classify.Excluded))
	_, err := s.e.Charts()
	s.ErrorIs(err, engine.ErrNotReady)

	s.Require().NoError(s.e.Run(s.ctx))
	used, err := s.e.IsUsed(0, 1)
	s.Require().NoError(err)
	s.False(used)
	feature, err := s.e.IsFeature(0, 1)
	s.Require().NoError(err)
	s.False(feature)
	// The two faces meeting at the excluded crease now turn across a smooth edge.
	s.Len(s.e.Diagnostics().RoughTriangles, 2)
	charts, err := s.e.Charts()
	s.Require().NoError(err)
	s.Equal(5, charts.Count())
}

func (s *CubeSuite) TestConfirmAndReset() {
	n, err := s.e.ConfirmCandidates()
	s.Require().NoError(err)
	s.Equal(12, n)
	s.Require().NoError(s.e.Run(s.ctx))
	p, err := s.e.Policy()
	s.Require().NoError(err)
	s.Equal(classify.PolicyConfirmedOnly, p)
	lines, err := s.e.Lines()
	s.Require().NoError(err)
	s.Len(lines.Lines, 12)

	err = s.e.SetEdgeStatus(0, 1, 0, classify.Candidate)
	s.ErrorIs(err, classify.ErrTransition)

	s.Require().NoError(s.e.ResetStatuses())
	s.Require().NoError(s.e.Run(s.ctx))
	p, err = s.e.Policy()
	s.Require().NoError(err)
	s.Equal(classify.PolicyCandidatesAsConfirmed, p)
}

func (s *CubeSuite) TestOverrideErrors() {
	s.ErrorIs(s.e.SetEdgeStatus(0, 7, 0, classify.Excluded), topology.ErrEdgeNotFound)
	s.ErrorIs(s.e.SetEdgeStatus(0, 1, 9, classify.Excluded), classify.ErrNoSlot)
	_, err := s.e.Status(0, 7, 0)
	s.ErrorIs(err, topology.ErrEdgeNotFound)
}

func (s *CubeSuite) TestSmoothing() {
	s.Require().NoError(s.e.SmoothNormals(s.ctx))
	for _, tr := range s.e.Store().Triangles() {
		s.InDelta(1, tr.Normal.Dot(tr.GeomNormal), 1e-9)
	}
	before, err := s.e.Topology()
	s.Require().NoError(err)

	s.Require().NoError(s.e.Classify(s.ctx))
	after, err := s.e.Topology()
	s.Require().NoError(err)
	s.NotSame(before, after)
	s.False(s.e.Done(engine.StageCharts))

	s.Require().NoError(s.e.Segment(s.ctx))
	charts, err := s.e.Charts()
	s.Require().NoError(err)
	s.Equal(6, charts.Count())

	moved, err := s.e.SmoothPoints(s.ctx)
	s.Require().NoError(err)
	s.Zero(moved)
	s.True(s.e.Done(engine.StageCharts))
}

func (s *CubeSuite) TestCancelledPassKeepsState() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ErrorIs(s.e.Run(ctx), context.Canceled)

	s.True(s.e.Done(engine.StageLines))
	charts, err := s.e.Charts()
	s.Require().NoError(err)
	s.Equal(6, charts.Count())
}

func (s *CubeSuite) TestVicinity() {
	res, err := s.e.Vicinity(0, 1)
	s.Require().NoError(err)
	s.Len(res.Order, 4)
}

func TestCubeSuite(t *testing.T) {
	suite.Run(t, new(CubeSuite))
}

func TestTwoCubes(t *testing.T) {
	e := newEngine(t, nil, builder.Cube(r3.Vector{}, 1), builder.Cube(r3.Vector{X: 3}, 1))
	require.NoError(t, e.Run(context.Background()))
	d := e.Diagnostics()
	assert.Equal(t, 2, d.Bodies)
	assert.Equal(t, 12, d.Charts)
	assert.Equal(t, 24, d.Lines)
}

func TestPlane(t *testing.T) {
	e := newEngine(t, nil, builder.Plane(1))
	require.NoError(t, e.Run(context.Background()))
	st, err := e.Status(0, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, classify.Undefined, st)
	assert.Equal(t, 1, e.Diagnostics().Charts)
	assert.Equal(t, 4, e.Diagnostics().BoundaryEdges)
}

func TestTJunction(t *testing.T) {
	e := newEngine(t, nil, builder.TJunction())
	require.NoError(t, e.Run(context.Background()))
	st, err := e.Status(0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, classify.Candidate, st)
	assert.Equal(t, []topology.EdgeKey{topology.MakeKey(0, 1)}, e.Diagnostics().NonManifold)
}

func TestSpiralPass(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil, builder.Grid(2, 2, 1))
	require.NoError(t, e.BuildTopology(ctx))
	// A confirmed line from the border to the centre of the sheet.
	require.NoError(t, e.SetEdgeStatus(1, 4, 0, classify.Candidate))
	require.NoError(t, e.SetEdgeStatus(1, 4, 0, classify.Confirmed))
	require.NoError(t, e.Run(ctx))

	d := e.Diagnostics()
	assert.Equal(t, []mesh.PointID{4}, d.Cones)
	assert.Equal(t, []mesh.PointID{1}, d.SpiralPoints)
	assert.Equal(t, []topology.EdgeKey{topology.MakeKey(4, 7)}, d.InsertedEdges)

	st, err := e.Status(4, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, classify.Confirmed, st)

	// A border candidate is a feature but not linked once anything is confirmed.
	feature, err := e.IsFeature(0, 1)
	require.NoError(t, err)
	assert.True(t, feature)
	used, err := e.IsUsed(0, 1)
	require.NoError(t, err)
	assert.False(t, used)
	used, err = e.IsUsed(1, 4)
	require.NoError(t, err)
	assert.True(t, used)
	p, err := e.Policy()
	require.NoError(t, err)
	assert.Equal(t, classify.PolicyConfirmedOnly, p)

	lines, err := e.Lines()
	require.NoError(t, err)
	require.Len(t, lines.Lines, 2)
	keys := []topology.EdgeKey{lines.Lines[0].Key(), lines.Lines[1].Key()}
	assert.ElementsMatch(t, []topology.EdgeKey{topology.MakeKey(1, 4), topology.MakeKey(4, 7)}, keys)
}

func TestRemoveDirty(t *testing.T) {
	ctx := context.Background()
	soup, err := builder.Build(nil, builder.Cube(r3.Vector{}, 1))
	require.NoError(t, err)
	tris := append(soup.Triangles, mesh.IndexedTriangle{P: [3]int{0, 0, 3}})
	e, err := engine.NewFromIndexed(config.Default(), soup.Points, tris)
	require.NoError(t, err)
	require.NoError(t, e.Run(ctx))
	require.NoError(t, e.SetEdgeStatus(0, 1, 0, classify.Excluded))

	rep, err := e.RemoveDirty(ctx)
	require.NoError(t, err)
	assert.Equal(t, []mesh.TriangleID{12}, rep.Removed)
	assert.Equal(t, engine.StageTopology, e.Stages())
	_, err = e.Charts()
	assert.ErrorIs(t, err, engine.ErrNotReady)

	require.NoError(t, e.Run(ctx))
	d := e.Diagnostics()
	assert.Equal(t, 1, d.DirtyRemoved)
	assert.Zero(t, d.Degenerate)
	assert.Empty(t, d.NonManifold)
	// The exclusion survived the rebuild.
	used, err := e.IsFeature(0, 1)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Equal(t, 5, d.Charts)
}

func TestNotReady(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil, builder.Cube(r3.Vector{}, 1))
	assert.Equal(t, engine.Stage(0), e.Stages())
	assert.Equal(t, "none", e.Stages().String())

	_, err := e.Topology()
	assert.ErrorIs(t, err, engine.ErrNotReady)
	assert.ErrorIs(t, e.Classify(ctx), engine.ErrNotReady)
	assert.ErrorIs(t, e.Segment(ctx), engine.ErrNotReady)
	assert.ErrorIs(t, e.Link(ctx), engine.ErrNotReady)
	assert.ErrorIs(t, e.SmoothNormals(ctx), engine.ErrNotReady)
	_, err = e.ResolveSpirals(ctx)
	assert.ErrorIs(t, err, engine.ErrNotReady)
	_, err = e.Vicinity(0, 1)
	assert.ErrorIs(t, err, engine.ErrNotReady)
	_, err = e.Status(0, 1, 0)
	assert.ErrorIs(t, err, engine.ErrNotReady)

	require.NoError(t, e.BuildTopology(ctx))
	assert.Equal(t, "topology", e.Stages().String())
	_, err = e.Lines()
	assert.ErrorIs(t, err, engine.ErrNotReady)
}

func TestConstructors(t *testing.T) {
	_, err := engine.NewFromRaw(config.Default(), nil)
	assert.ErrorIs(t, err, mesh.ErrEmptyInput)

	bad := config.Default()
	bad.SmoothingWeight = 2
	soup, err := builder.Build(nil, builder.Cube(r3.Vector{}, 1))
	require.NoError(t, err)
	_, err = engine.NewFromRaw(bad, soup.Raw())
	assert.ErrorIs(t, err, config.ErrOptionViolation)

	_, err = engine.NewFromRaw(config.Default(), soup.Raw(), engine.WithLogger(nil))
	assert.ErrorIs(t, err, engine.ErrOptionViolation)

	var buf bytes.Buffer
	e, err := engine.NewFromRaw(config.Default(), soup.Raw(), engine.WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Equal(t, 8, e.Store().NP())
	require.NoError(t, e.Run(context.Background()))
	assert.Contains(t, buf.String(), "facetopo: classify:")
	assert.Contains(t, buf.String(), "facetopo: segment: 6 charts, 1 bodies")
}
