// Package facetopo reconstructs the topology of a triangle soup: which
// facets touch, which edges are sharp, how the sharp edges chain into
// feature lines and how the surface splits into smooth charts and bodies.
//
// What is facetopo?
//
//	A deterministic, dependency-light toolkit for cleaning up STL-like
//	meshes before meshing or CAD healing:
//		• Point merging within a bounding-box relative tolerance
//		• Edge table with per-material sides and non-manifold detection
//		• Dihedral feature classification (threshold, continuation, overrides)
//		• Feature polylines with corner, ring and collision splits
//		• Charts and bodies by flood fill
//		• Dirty-triangle removal, overlap check, cone and spiral repair
//		• Normal smoothing and point relocation
//
// Packages, bottom up:
//
//	geom/     - boxes, triangle normals, triangle/triangle intersection
//	spatial/  - octree over points and boxes
//	mesh/     - deduplicated point and triangle tables (copy-on-write)
//	topology/ - edges, segments per material, neighbor queries
//	classify/ - status table and the three classification passes
//	chart/    - chart and body partitions
//	polyline/ - feature line linking
//	repair/   - dirty removal, overlaps, triangle fans, spirals, vicinity
//	smooth/   - normal smoothing, folded edges, point relocation
//	engine/   - the staged pipeline with overrides and diagnostics
//	config/   - YAML-loadable parameters
//	stlio/    - binary and ASCII STL
//	builder/  - deterministic fixtures (cubes, sheets, prisms, solids)
//
// A unit cube, for instance:
//
//	      6───────7
//	     /│      /│
//	    4───────5 │     6 charts, 1 body,
//	    │ 2─────│─3     12 feature lines (one per crease),
//	    │/      │/      face diagonals stay undefined.
//	    0───────1
//
// See examples/stlreport for a command that prints the whole analysis.
package facetopo
