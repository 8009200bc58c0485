// SPDX-License-Identifier: MIT

// Package topology derives triangle adjacency and the topology edge table
// from a mesh.Store.
//
// What
//
//   - One Edge per geometrically distinct unordered point pair. Each edge
//     keeps a Segment per material: every incident triangle of that material,
//     ascending. One triangle is a free boundary, two are manifold, more are
//     non-manifold.
//   - Neighbors(t, j): triangles of t's material sharing t's j-th local edge.
//     Neighbor(t, j) returns the first of them (lowest id) or NoTriangle.
//   - Build verifies neighbor symmetry before returning.
//
// Determinism
//
//	Edges are numbered in the order their first triangle is scanned
//	(ascending triangle id, local edges 0..2). All per-edge and per-point
//	lists are ascending.
//
// Complexity (T = triangles)
//
//   - Time:   O(T) expected (hash map on EdgeKey)
//   - Memory: O(T)
//
// Errors
//
//   - ErrStoreNil         nil store.
//   - ErrPointOutOfRange  a triangle references a missing point.
//   - ErrAsymmetric       neighbor relation is not symmetric.
//   - ctx.Err()           cancellation, polled once per triangle.
package topology
