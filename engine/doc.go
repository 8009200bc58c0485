// SPDX-License-Identifier: MIT

// Package engine drives the reconstruction passes over one facet soup and
// holds their committed results.
//
// What
//
//	An Engine owns a mesh.Store and, stage by stage, the adjacency, the
//	edge classification, the chart and body partitions, the feature lines
//	and the diagnostics derived from it. Run executes the standard
//	pipeline:
//
//	    topology → classify → charts + bodies → lines
//	    → overlap check (optional) → spiral pass (optional)
//	    → classify → charts + bodies → lines (when the spiral pass changed anything)
//
//	Repair and smoothing passes are caller-invoked.
//
// Commit model
//
//	Each pass computes into fresh values and assigns them only after it
//	succeeded. A failed or cancelled pass leaves the engine exactly as the
//	last completed pass left it. A pass that changes an input of later
//	stages clears those stages; querying a cleared or never-run stage
//	returns ErrNotReady.
//
// Overrides
//
//	SetEdgeStatus, ConfirmCandidates and ResetStatuses edit the status table
//	fed back into the next classification. Confirmed and Excluded slots
//	survive re-classification; edges inserted by the spiral pass are kept
//	as forced edges.
//
// Concurrency
//
//	An Engine is not safe for concurrent use. Read-only queries between
//	passes are fine; callers serialize everything else.
//
// Logging
//
//	One line per committed pass goes to the logger given with WithLogger;
//	the default discards.
package engine
