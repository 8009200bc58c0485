// SPDX-License-Identifier: MIT

// Package classify decides, per topology edge and material, whether an
// edge is a feature edge.
//
// Status machine
//
//	Undefined → Candidate → Confirmed
//	Undefined, Candidate → Excluded        (explicit override)
//	Candidate → Undefined                  (re-classification only)
//
// Confirmed and Excluded are terminal: no pass of Run changes them.
//
// Passes (Run)
//
//  1. Non-manifold override: an edge with more than two distinct incident
//     triangles, or listed via WithForced, has every open slot forced to
//     Candidate.
//  2. Threshold: open slots become Candidate when cos ≤ cos(yellow_angle)
//     or forced, Undefined otherwise.
//  3. Continuation (only if continuation_angle < yellow_angle): repeated
//     ascending scans promote an Undefined slot with cos ≤
//     cos(continuation_angle) when one of its endpoints has exactly one
//     Candidate/Confirmed edge in that material, until a scan changes
//     nothing.
//  4. Policy: with any Confirmed slot only Confirmed slots are used,
//     otherwise Candidates count as Confirmed. Result.Policy reports which.
//
// The corner-angle rule then marks a point with exactly two used edges as
// a forced line endpoint when the line turns sharper than
// edge_corner_angle there.
//
// Angles
//
//	A slot's cosine is the dot product of the working normals of its first
//	two triangles. A free-boundary slot gets -1.
//
// Determinism
//
//	Edges are scanned in ascending id, materials in ascending order. Pass 3
//	updates counts in place, so promotions made early in a scan are seen by
//	later edges of the same scan.
//
// Errors
//
//   - ErrTopologyNil, ErrOptionViolation, ErrTableMismatch, ErrTransition,
//     ErrNoSlot, and ctx.Err() (polled once per edge in every pass).
package classify
