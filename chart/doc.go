// SPDX-License-Identifier: MIT

// Package chart partitions triangles into smooth charts and bodies.
//
// What
//
//   - Segment: starting from the lowest unassigned triangle, a breadth-first
//     flood fill crosses into a same-material neighbor only when the shared
//     edge is not a used feature slot for that material. Each fill is one
//     chart; ids run 1..n in seed order.
//   - Bodies: the same fill over raw adjacency, crossing every shared edge
//     in every material. Each fill is one topologically connected body.
//
// Why
//
//	Charts are the faces of the reconstructed boundary representation:
//	every used feature edge separates two charts, or one chart from itself
//	when a feature line dangles inside a face.
//
// Determinism
//
//	Seeds are taken in ascending triangle id and neighbors are enqueued in
//	local-edge order, ascending id, so chart numbering is reproducible.
//	Members lists are sorted.
//
// Complexity (T = triangles)
//
//   - Time:   O(T)
//   - Memory: O(T)
//
// Errors
//
//   - ErrTopologyNil, ErrClassificationNil, ErrMismatch.
//   - ErrPartition from Partition.Validate.
//   - ctx.Err() polled once per dequeued triangle.
package chart
