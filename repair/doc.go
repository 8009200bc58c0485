// SPDX-License-Identifier: MIT

// Package repair holds the topology cleanup and diagnostic passes that sit
// around classification.
//
// What
//
//   - RemoveDirty strips triangles that cannot be part of a closed,
//     well-connected surface and rebuilds adjacency until none is left.
//   - DetectOverlaps reports pairs of triangles that intersect beyond a
//     shared vertex, using an octree over expanded triangle boxes for
//     candidate search and an exact triangle-triangle test. Pairs sharing
//     an edge only count when they duplicate each other.
//   - SortedFan and Fans order the triangles around a point by walking
//     across shared same-material edges.
//   - ResolveSpirals finds cone points (a closed fan crossed by exactly one
//     feature line) and spiral points (a chart reaching a point through two
//     separate arcs), optionally inserting feature edges to split them.
//   - Vicinity collects the triangles within a number of neighbor steps.
//
// Determinism
//
//	Every pass scans triangles and points in ascending id and returns sorted
//	or discovery-ordered lists, so repeated runs agree.
//
// Errors
//
//   - ErrStoreNil, ErrTopologyNil, ErrClassificationNil, ErrPartitionNil.
//   - ErrNotIncident when a fan start does not touch the point.
//   - ErrOptionViolation for negative sizes or expansion factors.
//   - ctx.Err() on cancellation; no pass mutates its inputs.
package repair
