// SPDX-License-Identifier: MIT

// Package builder provides deterministic facet-soup fixtures for tests,
// examples and benchmarks.
//
// A Soup is an indexed triangle list. Build resolves BuilderOptions into an
// immutable config and applies Constructors in order; each constructor
// appends its own points and triangles, so composing two cubes yields two
// disconnected shells. Points are never shared across constructors; the
// store merges coincident positions on ingest.
//
// Every closed fixture is wound counter-clockwise seen from outside, so
// geometric normals point outward.
//
// Fixtures:
//
//   - Cube(origin, size)          12 triangles, 6 faces split along a diagonal
//   - PlatonicSolid(name, size)   Tetrahedron, Cube or Octahedron around the origin
//   - Grid(nx, ny, cell)          flat z=0 sheet of 2*nx*ny triangles
//   - Plane(size)                 Grid(1, 1, size)
//   - Prism(n, radius, height)    closed n-gon prism with fan caps
//   - TJunction()                 three fins sharing one edge
//   - Facet(a, b, c)              a single free triangle
//   - Tagged(m, c)                runs c with material m
package builder
