// SPDX-License-Identifier: MIT

// Package polyline links used feature edges into maximal lines.
//
// A line runs between two endpoints: points whose used-edge degree is not
// 2, corner endpoints from the classifier, or extra endpoints supplied with
// WithEndpoints. Every segment records, per material, the triangle that runs
// the segment in its winding order (Left), the opposite one (Right) and
// their charts.
//
// Two invariants hold for every Set returned by Link:
//
//   - no line is a ring: a closed walk is cut in two at its middle point;
//   - no two lines share an unordered (start, end) pair: colliding lines
//     with more than one segment are cut at their middle point, repeatedly.
//
// Validate checks both on any slice of lines.
//
// Start edges are taken in ascending edge id, so output is reproducible.
// Rings are only started once every line with a real endpoint is consumed.
//
// Complexity: O(E + L·S) for E used edges, L collision rounds, S segments.
package polyline
