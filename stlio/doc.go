// SPDX-License-Identifier: MIT

// Package stlio reads and writes STL facet soups.
//
// What:
//
//   - Read detects binary or ASCII STL and returns one mesh.RawTriangle per
//     facet. Stored facet normals are ignored; orientation comes from the
//     corner order.
//   - WriteBinary emits a binary STL of raw triangles.
//
// Detection: input whose length equals 84 + 50·n for the count n in its
// header is binary, even when the header begins with "solid". Otherwise
// input starting with "solid" is parsed as ASCII.
//
// Materials: every facet gets the material set by WithMaterial (0 by
// default). WithSolidMaterials numbers the solids of an ASCII file from that
// base instead; WithAttributeMaterials adds the binary attribute word.
//
// Errors:
//
//   - ErrFormat   - neither binary nor ASCII STL.
//   - ErrSyntax   - malformed ASCII facet.
//   - ErrTruncated - binary data shorter than its facet count.
package stlio
