// SPDX-License-Identifier: MIT

// Package smooth relaxes working normals and point positions across
// non-feature edges.
//
// Normals solves, for each triangle t in ascending order, the 3×3 system
//
//	A n = b
//	A = Σ_j w_geom r_j r_jᵀ + Σ_{j smooth} w_nb (|r_j|² I − r_j r_jᵀ)
//	b = Σ_j w_geom r_j r_jᵀ n_geom + Σ_{j smooth} w_nb (|r_j|² I − r_j r_jᵀ) n_j
//
// where r_j is the j-th edge vector of t, n_geom its flat normal and n_j the
// current working normal of the neighbor across edge j. An edge is smooth
// when it has a neighbor and is not a used feature slot, so smoothing never
// blends across a feature line. w_nb is the smoothing weight and
// w_geom = 1 − w_nb. The solution is normalized; a singular or
// ill-conditioned system keeps the flat normal.
//
// One call is one sweep. Later triangles see the updated normals of earlier
// ones; callers iterate for more smoothing.
//
// Points moves feature-free points whose incident normals deviate from the
// flat normals by more than MaxDeviation toward incident centroids when
// that halves the deviation.
//
// FoldedEdges and Rough are read-only diagnostics.
package smooth
