// SPDX-License-Identifier: MIT

// Package geom is the small geometry kernel shared by every facetopo pass.
//
// What
//
//   - Box: axis-aligned bounding box over r3.Vector with extension,
//     expansion and overlap tests.
//   - Triangle helpers: unit normal by right-hand winding, area, centroid,
//     degeneracy test.
//   - TrianglesIntersect: exact-within-eps triangle/triangle overlap test used
//     by the overlap diagnostic.
//   - CornerCos: cosine of the turn angle of a polyline at a vertex.
//
// Determinism
//
//	All functions are pure; the same inputs always give the same answer.
//
// Errors
//
//	None. Degenerate inputs produce zero vectors or false, never panics.
package geom
