// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"sort"

	"github.com/katalvlaran/facetopo/chart"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/polyline"
	"github.com/katalvlaran/facetopo/repair"
	"github.com/katalvlaran/facetopo/smooth"
	"github.com/katalvlaran/facetopo/topology"
)

func ctxOr(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Run executes the standard pipeline. The spiral pass, when enabled and
// productive, is followed by a second classify/segment/link round.
func (e *Engine) Run(ctx context.Context) error {
	if !e.Done(StageTopology) {
		if err := e.BuildTopology(ctx); err != nil {
			return err
		}
	}
	if err := e.analyse(ctx); err != nil {
		return err
	}
	if e.cfg.OverlapCheckEnabled {
		if err := e.CheckOverlaps(ctx); err != nil {
			return err
		}
	}
	if !e.cfg.ConeCheckEnabled {
		return nil
	}
	changed, err := e.ResolveSpirals(ctx)
	if err != nil || !changed {
		return err
	}
	return e.analyse(ctx)
}

func (e *Engine) analyse(ctx context.Context) error {
	if err := e.Classify(ctx); err != nil {
		return err
	}
	if err := e.Segment(ctx); err != nil {
		return err
	}
	return e.Link(ctx)
}

// rebuild builds adjacency for s and carries the override table over.
func (e *Engine) rebuild(ctx context.Context, s *mesh.Store) (*topology.Topology, *classify.StatusTable, error) {
	tp, err := topology.Build(s, topology.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}
	prior := e.prior
	if prior != nil && e.topo != nil {
		prior = prior.Rebase(e.topo, tp)
	}
	return tp, prior, nil
}

func (e *Engine) commitTopology(tp *topology.Topology, prior *classify.StatusTable) {
	e.topo, e.prior, e.stale = tp, prior, false
	e.invalidate(StageTopology)
	e.done |= StageTopology
	e.diag.NonManifold = keys(tp, tp.NonManifoldEdges())
	e.diag.BoundaryEdges = len(tp.BoundaryEdges())
	e.diag.Degenerate = e.store.DegenerateCount()
	e.log.Printf("facetopo: topology: %d edges, %d non-manifold, %d boundary",
		tp.NE(), len(e.diag.NonManifold), e.diag.BoundaryEdges)
}

// BuildTopology builds the adjacency of the committed store.
func (e *Engine) BuildTopology(ctx context.Context) error {
	tp, prior, err := e.rebuild(ctxOr(ctx), e.store)
	if err != nil {
		return err
	}
	e.commitTopology(tp, prior)
	return nil
}

// Classify runs the feature-edge classifier with the current overrides and
// inserted edges. Adjacency is rebuilt first when smoothing changed the
// working normals since it was built.
func (e *Engine) Classify(ctx context.Context) error {
	if err := e.require(StageTopology, "Classify"); err != nil {
		return err
	}
	ctx = ctxOr(ctx)
	tp, prior := e.topo, e.prior
	if e.stale {
		var err error
		if tp, prior, err = e.rebuild(ctx, e.store); err != nil {
			return err
		}
	}
	cls, err := classify.Run(tp, e.params,
		classify.WithContext(ctx),
		classify.WithPrior(prior),
		classify.WithForced(e.forced),
	)
	if err != nil {
		return err
	}
	folded, err := smooth.FoldedEdges(tp, cls)
	if err != nil {
		return err
	}
	rough, err := smooth.Rough(tp, cls, e.params.CosMin)
	if err != nil {
		return err
	}

	if tp != e.topo {
		e.commitTopology(tp, prior)
	}
	e.cls = cls
	e.invalidate(StageClassified)
	e.done |= StageClassified
	e.diag.FoldedEdges = keys(tp, folded)
	e.diag.RoughTriangles = rough
	e.log.Printf("facetopo: classify: %d used edges, %d candidate, %d confirmed, policy %s",
		len(cls.UsedEdges()), cls.Table.Count(classify.Candidate), cls.Table.Count(classify.Confirmed), cls.Policy)
	return nil
}

// Segment computes charts and bodies and stores chart ids on the triangles.
func (e *Engine) Segment(ctx context.Context) error {
	if err := e.require(StageClassified, "Segment"); err != nil {
		return err
	}
	ctx = ctxOr(ctx)
	charts, err := chart.Segment(e.topo, e.cls, chart.WithContext(ctx))
	if err != nil {
		return err
	}
	bodies, err := chart.Bodies(e.topo, chart.WithContext(ctx))
	if err != nil {
		return err
	}
	s, err := e.store.WithCharts(charts.IDs())
	if err != nil {
		return err
	}

	e.store, e.charts, e.bodies = s, charts, bodies
	e.invalidate(StageCharts)
	e.done |= StageCharts
	e.diag.Charts, e.diag.Bodies = charts.Count(), bodies.Count()
	e.log.Printf("facetopo: segment: %d charts, %d bodies", charts.Count(), bodies.Count())
	return nil
}

// Link walks the used edges into feature lines.
func (e *Engine) Link(ctx context.Context) error {
	if err := e.require(StageCharts, "Link"); err != nil {
		return err
	}
	pts := make([]mesh.PointID, 0, len(e.endpoints))
	for p := range e.endpoints {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i] < pts[j] })

	set, err := polyline.Link(e.topo, e.cls, e.charts,
		polyline.WithContext(ctxOr(ctx)),
		polyline.WithEndpoints(pts...),
	)
	if err != nil {
		return err
	}

	e.lines = set
	e.done |= StageLines
	e.diag.Lines = len(set.Lines)
	e.log.Printf("facetopo: link: %d lines, %d synthetic splits", len(set.Lines), len(set.Splits))
	return nil
}

// CheckOverlaps records intersecting triangle pairs. It never changes the
// topology.
func (e *Engine) CheckOverlaps(ctx context.Context) error {
	pairs, err := repair.DetectOverlaps(ctxOr(ctx), e.store, e.cfg.OverlapBoxExpansion)
	if err != nil {
		return err
	}
	e.diag.Overlaps = pairs
	e.done |= StageOverlaps
	e.log.Printf("facetopo: overlaps: %d pairs", len(pairs))
	return nil
}

// ResolveSpirals runs the cone and spiral check and feeds its inserted
// edges and endpoints into the next classification and linking. It reports
// whether anything changed; a change clears the stages it affects.
//
// Under the confirmed-only policy an inserted edge is confirmed in the
// override table, otherwise it is forced like a non-manifold edge.
func (e *Engine) ResolveSpirals(ctx context.Context) (bool, error) {
	if err := e.require(StageCharts, "ResolveSpirals"); err != nil {
		return false, err
	}
	rep, err := repair.ResolveSpirals(e.topo, e.cls, e.charts, e.cfg.AddEdges, repair.WithContext(ctxOr(ctx)))
	if err != nil {
		return false, err
	}

	endpoints := make(map[mesh.PointID]bool, len(e.endpoints)+len(rep.Endpoints))
	for p := range e.endpoints {
		endpoints[p] = true
	}
	newEnds := 0
	for _, p := range rep.Endpoints {
		if !endpoints[p] {
			endpoints[p] = true
			newEnds++
		}
	}
	forced := make(map[topology.EdgeKey]bool, len(e.forced)+len(rep.Added))
	for k := range e.forced {
		forced[k] = true
	}
	prior := e.prior
	if len(rep.Added) > 0 && e.cls.Policy == classify.PolicyConfirmedOnly {
		prior = e.cls.Table.Clone()
		for _, k := range rep.Added {
			id, _ := e.topo.Lookup(k.A, k.B)
			if err := confirm(prior, e.topo.Edge(id)); err != nil {
				return false, err
			}
		}
	} else {
		for _, k := range rep.Added {
			forced[k] = true
		}
	}

	e.endpoints, e.forced, e.prior = endpoints, forced, prior
	e.done |= StageSpirals
	e.diag.Cones = rep.Cones
	e.diag.SpiralPoints = rep.Exceptions
	e.diag.InsertedEdges = append(e.diag.InsertedEdges, rep.Added...)
	switch {
	case len(rep.Added) > 0:
		e.invalidate(StageClassified)
	case newEnds > 0:
		e.done &^= StageLines
	}
	e.log.Printf("facetopo: spirals: %d cones, %d spirals, %d edges added, %d points marked",
		len(rep.Cones), len(rep.Spirals), len(rep.Added), len(rep.Exceptions))
	return len(rep.Added) > 0 || newEnds > 0, nil
}

// confirm moves every non-terminal slot of edge to Confirmed.
func confirm(t *classify.StatusTable, edge *topology.Edge) error {
	for _, m := range edge.Materials() {
		st, _ := t.Get(edge.ID, m)
		if st.Terminal() {
			continue
		}
		if st == classify.Undefined {
			if err := t.Set(edge.ID, m, classify.Candidate); err != nil {
				return err
			}
		}
		if err := t.Set(edge.ID, m, classify.Confirmed); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDirty strips dirty triangles, rebuilds adjacency and clears every
// later stage. Overrides and inserted edges are carried over by point pair.
func (e *Engine) RemoveDirty(ctx context.Context) (repair.DirtyReport, error) {
	ctx = ctxOr(ctx)
	s, rep, err := repair.RemoveDirty(ctx, e.store)
	if err != nil {
		return repair.DirtyReport{}, err
	}
	tp, prior, err := e.rebuild(ctx, s)
	if err != nil {
		return repair.DirtyReport{}, err
	}

	e.store = s
	e.commitTopology(tp, prior)
	e.done = StageTopology
	e.diag.DirtyRemoved += len(rep.Removed)
	e.diag.Overlaps = nil
	e.log.Printf("facetopo: remove dirty: %d of %d triangles removed in %d sweeps", len(rep.Removed), rep.Initial, rep.Sweeps)
	return rep, nil
}

// SmoothNormals runs one normal smoothing sweep and commits the working
// normals. The classification stays committed; the next Classify sees the
// new normals.
func (e *Engine) SmoothNormals(ctx context.Context) error {
	if err := e.require(StageClassified, "SmoothNormals"); err != nil {
		return err
	}
	normals, err := smooth.Normals(e.topo, e.cls, e.cfg.SmoothingWeight,
		smooth.WithContext(ctxOr(ctx)),
		smooth.WithNormals(e.store.Normals()),
	)
	if err != nil {
		return err
	}
	s, err := e.store.WithNormals(normals)
	if err != nil {
		return err
	}
	e.store, e.stale = s, true
	e.log.Printf("facetopo: smooth normals: weight %g", e.cfg.SmoothingWeight)
	return nil
}

// SmoothPoints relocates feature-free points with badly deviating normals
// and returns how many moved. Moving points changes geometry, so adjacency
// is rebuilt and every later stage cleared.
func (e *Engine) SmoothPoints(ctx context.Context) (int, error) {
	if err := e.require(StageClassified, "SmoothPoints"); err != nil {
		return 0, err
	}
	ctx = ctxOr(ctx)
	moved, err := smooth.Points(e.topo, e.cls,
		smooth.WithContext(ctx),
		smooth.WithNormals(e.store.Normals()),
	)
	if err != nil || len(moved) == 0 {
		return 0, err
	}
	s, err := e.store.WithPoints(moved)
	if err != nil {
		return 0, err
	}
	tp, prior, err := e.rebuild(ctx, s)
	if err != nil {
		return 0, err
	}

	e.store = s
	e.commitTopology(tp, prior)
	e.done = StageTopology
	e.diag.MovedPoints += len(moved)
	e.diag.Overlaps = nil
	e.log.Printf("facetopo: smooth points: %d moved", len(moved))
	return len(moved), nil
}
