// SPDX-License-Identifier: MIT

package polyline

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/facetopo/chart"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// linker holds the walk state of one Link call.
type linker struct {
	tp       *topology.Topology
	cls      *classify.Result
	charts   *chart.Partition
	ctx      context.Context
	extra    map[mesh.PointID]bool
	consumed []bool
	set      *Set
}

// Link walks the used edges of cls into lines. charts may be nil, in which
// case every side carries mesh.NoChart.
func Link(tp *topology.Topology, cls *classify.Result, charts *chart.Partition, opts ...Option) (*Set, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	if cls == nil {
		return nil, ErrClassificationNil
	}
	if cls.Topo != tp {
		return nil, fmt.Errorf("Link: classification: %w", ErrMismatch)
	}
	if charts != nil && charts.Len() != tp.Store().NT() {
		return nil, fmt.Errorf("Link: partition covers %d of %d triangles: %w", charts.Len(), tp.Store().NT(), ErrMismatch)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	k := &linker{
		tp:       tp,
		cls:      cls,
		charts:   charts,
		ctx:      o.Ctx,
		extra:    o.Endpoints,
		consumed: make([]bool, tp.NE()),
		set:      &Set{},
	}
	used := cls.UsedEdges()

	// Lines with a real endpoint first.
	for _, e := range used {
		if k.consumed[e] {
			continue
		}
		key := tp.Edge(e).Key
		switch {
		case k.endpoint(key.A):
			if err := k.walk(key.A, e); err != nil {
				return nil, err
			}
		case k.endpoint(key.B):
			if err := k.walk(key.B, e); err != nil {
				return nil, err
			}
		}
	}
	// Whatever is left forms closed rings.
	for _, e := range used {
		if k.consumed[e] {
			continue
		}
		if err := k.walk(tp.Edge(e).Key.A, e); err != nil {
			return nil, err
		}
	}

	if err := k.splitCollisions(); err != nil {
		return nil, err
	}
	for i := range k.set.Lines {
		k.set.Lines[i].ID = i
	}
	return k.set, nil
}

func (k *linker) endpoint(p mesh.PointID) bool {
	return k.cls.Degree(p) != 2 || k.cls.Endpoint(p) || k.extra[p]
}

// walk follows used edges from p along e until an endpoint or a consumed
// edge is reached.
func (k *linker) walk(p mesh.PointID, e topology.EdgeID) error {
	select {
	case <-k.ctx.Done():
		return k.ctx.Err()
	default:
	}

	line := Line{Points: []mesh.PointID{p}}
	for e != topology.NoEdge {
		k.consumed[e] = true
		q := k.tp.Edge(e).Key.Other(p)
		line.Points = append(line.Points, q)
		line.Edges = append(line.Edges, e)
		line.Sides = append(line.Sides, k.sides(e, p, q))
		if k.endpoint(q) {
			break
		}
		p, e = q, k.next(q, e)
	}

	if line.Start() == line.End() {
		a, b := k.cut(line)
		k.set.Splits = append(k.set.Splits, Split{Point: b.Start(), Kind: SplitRing})
		k.set.Lines = append(k.set.Lines, a, b)
		return nil
	}
	k.finish(&line)
	k.set.Lines = append(k.set.Lines, line)
	return nil
}

// next returns the unconsumed used edge at q other than e, or NoEdge.
func (k *linker) next(q mesh.PointID, e topology.EdgeID) topology.EdgeID {
	for _, f := range k.tp.EdgesAt(q) {
		if f != e && !k.consumed[f] && k.cls.Used(f) {
			return f
		}
	}
	return topology.NoEdge
}

// sides resolves the material slots of e for the direction p→q.
func (k *linker) sides(e topology.EdgeID, p, q mesh.PointID) []Side {
	edge := k.tp.Edge(e)
	s := k.tp.Store()
	var out []Side
	for _, m := range edge.Materials() {
		seg := edge.Segments[m]
		left, right := seg.Left(), seg.Right()
		for _, t := range seg.Trigs {
			if s.Triangle(t).Runs(p, q) {
				left = t
				break
			}
		}
		if right == left {
			right = seg.Left()
		}
		if len(seg.Trigs) < 2 {
			right = mesh.NoTriangle
		}
		// A lone triangle running q→p sits on the right.
		if right == mesh.NoTriangle && !s.Triangle(left).Runs(p, q) {
			left, right = mesh.NoTriangle, left
		}
		out = append(out, Side{
			Material:   m,
			Left:       left,
			Right:      right,
			LeftChart:  k.chartOf(left),
			RightChart: k.chartOf(right),
			Used:       k.cls.UsedSlot(e, m),
		})
	}
	return out
}

func (k *linker) chartOf(t mesh.TriangleID) mesh.ChartID {
	if t == mesh.NoTriangle || k.charts == nil {
		return mesh.NoChart
	}
	return k.charts.Of(t)
}

// cut splits line at its middle point.
func (k *linker) cut(line Line) (Line, Line) {
	mid := len(line.Edges) / 2
	a := Line{
		Points: append([]mesh.PointID(nil), line.Points[:mid+1]...),
		Edges:  append([]topology.EdgeID(nil), line.Edges[:mid]...),
		Sides:  append([][]Side(nil), line.Sides[:mid]...),
	}
	b := Line{
		Points: append([]mesh.PointID(nil), line.Points[mid:]...),
		Edges:  append([]topology.EdgeID(nil), line.Edges[mid:]...),
		Sides:  append([][]Side(nil), line.Sides[mid:]...),
	}
	k.finish(&a)
	k.finish(&b)
	return a, b
}

// finish derives the material and chart sets from the sides.
func (k *linker) finish(l *Line) {
	mats := make(map[mesh.Material]bool)
	charts := make(map[mesh.ChartID]bool)
	for _, ss := range l.Sides {
		for _, sd := range ss {
			if sd.Used {
				mats[sd.Material] = true
			}
			for _, c := range []mesh.ChartID{sd.LeftChart, sd.RightChart} {
				if c != mesh.NoChart {
					charts[c] = true
				}
			}
		}
	}
	l.Materials = l.Materials[:0]
	for m := range mats {
		l.Materials = append(l.Materials, m)
	}
	sort.Slice(l.Materials, func(i, j int) bool { return l.Materials[i] < l.Materials[j] })
	l.Charts = l.Charts[:0]
	for c := range charts {
		l.Charts = append(l.Charts, c)
	}
	sort.Slice(l.Charts, func(i, j int) bool { return l.Charts[i] < l.Charts[j] })
}

// splitCollisions cuts every multi-segment line that shares its endpoint
// pair with another line, until no pair is shared.
func (k *linker) splitCollisions() error {
	for {
		select {
		case <-k.ctx.Done():
			return k.ctx.Err()
		default:
		}

		seen := make(map[topology.EdgeKey]int, len(k.set.Lines))
		for _, l := range k.set.Lines {
			seen[l.Key()]++
		}
		var out []Line
		split := false
		for _, l := range k.set.Lines {
			if seen[l.Key()] < 2 || l.Segments() < 2 {
				out = append(out, l)
				continue
			}
			a, b := k.cut(l)
			k.set.Splits = append(k.set.Splits, Split{Point: b.Start(), Kind: SplitCollision})
			out = append(out, a, b)
			split = true
		}
		k.set.Lines = out
		if !split {
			return nil
		}
	}
}

// Validate checks that lines are open, at least one segment long, and
// pairwise distinct by endpoint pair.
func Validate(lines []Line) error {
	seen := make(map[topology.EdgeKey]int, len(lines))
	for i := range lines {
		l := &lines[i]
		if len(l.Points) < 2 {
			return fmt.Errorf("Validate: line %d: %w", i, ErrShortLine)
		}
		if l.Start() == l.End() {
			return fmt.Errorf("Validate: line %d at point %d: %w", i, l.Start(), ErrRing)
		}
		if j, ok := seen[l.Key()]; ok {
			return fmt.Errorf("Validate: lines %d and %d on %v: %w", j, i, l.Key(), ErrCollision)
		}
		seen[l.Key()] = i
	}
	return nil
}
