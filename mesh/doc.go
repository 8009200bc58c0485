// SPDX-License-Identifier: MIT

// Package mesh is the point/triangle store of facetopo: the deduplicated
// point table and the triangle table every other pass reads.
//
// What
//
//   - FromRaw ingests triangles given as three coordinates each; FromIndexed
//     ingests a point table plus index triples. Both merge points closer
//     than the geometry tolerance into the earliest committed point.
//   - geometry tolerance = bounding-box diagonal / tolerance factor
//     (default factor 1e8).
//   - Each Triangle caches its bounding box, its geometric (flat) unit
//     normal, a working normal (initially the geometric one, later replaced
//     by smoothing) and its chart id.
//   - Stores are values once built. Commits (WithNormals, WithCharts,
//     WithPoints, Without) return a new Store and leave the receiver intact.
//
// Indices
//
//	PointID and TriangleID are 0-based positions in their tables. Points are
//	never renumbered; removing triangles renumbers the remaining triangles in
//	ascending order of their old ids.
//
// Errors
//
//   - ErrEmptyInput       no triangles supplied.
//   - ErrPointOutOfRange  an index triple references a missing point.
//   - ErrNonFinite        a coordinate is NaN or infinite.
//   - ErrBadTolerance     tolerance factor is not a positive finite number.
//   - ErrLengthMismatch   a per-triangle or per-point slice has the wrong length.
//
// Degenerate triangles (repeated point after merging, or an area below the
// tolerance relative to the longest edge) are kept with a zero normal and
// counted; removing them is a repair decision.
package mesh
