// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/repair"
	"github.com/katalvlaran/facetopo/topology"
)

// Diagnostics collects the recoverable anomalies found by the passes.
// Lists are replaced by the pass that computes them.
type Diagnostics struct {
	// NonManifold lists edges with more than two distinct triangles.
	NonManifold []topology.EdgeKey `yaml:"non_manifold"`
	// BoundaryEdges counts edges with exactly one triangle.
	BoundaryEdges int `yaml:"boundary_edges"`
	// Degenerate counts triangles with a repeated point or zero area.
	Degenerate int `yaml:"degenerate"`
	// DirtyRemoved counts triangles dropped by RemoveDirty so far.
	DirtyRemoved int `yaml:"dirty_removed"`
	// Overlaps lists intersecting triangle pairs.
	Overlaps []repair.Pair `yaml:"overlaps"`
	// Cones lists cone points found by the spiral pass.
	Cones []mesh.PointID `yaml:"cones"`
	// SpiralPoints lists points marked instead of receiving an edge.
	SpiralPoints []mesh.PointID `yaml:"spiral_points"`
	// InsertedEdges lists feature edges added by the spiral pass.
	InsertedEdges []topology.EdgeKey `yaml:"inserted_edges"`
	// FoldedEdges lists smooth edges whose flat normals oppose.
	FoldedEdges []topology.EdgeKey `yaml:"folded_edges"`
	// RoughTriangles lists triangles whose working normal turns sharper
	// than the yellow angle across an unused edge.
	RoughTriangles []mesh.TriangleID `yaml:"rough_triangles"`
	// MovedPoints counts points relocated by SmoothPoints so far.
	MovedPoints int `yaml:"moved_points"`
	// Charts and Bodies count the partitions of the last segmentation.
	Charts int `yaml:"charts"`
	Bodies int `yaml:"bodies"`
	// Lines counts the feature lines of the last linking pass.
	Lines int `yaml:"lines"`
}

func (d Diagnostics) clone() Diagnostics {
	c := d
	c.NonManifold = append([]topology.EdgeKey(nil), d.NonManifold...)
	c.Overlaps = append([]repair.Pair(nil), d.Overlaps...)
	c.Cones = append([]mesh.PointID(nil), d.Cones...)
	c.SpiralPoints = append([]mesh.PointID(nil), d.SpiralPoints...)
	c.InsertedEdges = append([]topology.EdgeKey(nil), d.InsertedEdges...)
	c.FoldedEdges = append([]topology.EdgeKey(nil), d.FoldedEdges...)
	c.RoughTriangles = append([]mesh.TriangleID(nil), d.RoughTriangles...)
	return c
}

func keys(tp *topology.Topology, ids []topology.EdgeID) []topology.EdgeKey {
	out := make([]topology.EdgeKey, len(ids))
	for i, id := range ids {
		out[i] = tp.Edge(id).Key
	}
	return out
}
