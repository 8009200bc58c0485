// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/mesh"
)

// overrides returns a private table to edit: the committed classification
// when there is one, else the pending override table, else a fresh one.
func (e *Engine) overrides() *classify.StatusTable {
	switch {
	case e.Done(StageClassified):
		return e.cls.Table.Clone()
	case e.prior != nil:
		return e.prior.Clone()
	default:
		return classify.NewStatusTable(e.topo)
	}
}

// SetEdgeStatus overrides slot (p, q, m). The change must be a legal status
// transition; it takes effect at the next Classify, which it makes
// necessary.
func (e *Engine) SetEdgeStatus(p, q mesh.PointID, m mesh.Material, st classify.Status) error {
	if err := e.require(StageTopology, "SetEdgeStatus"); err != nil {
		return err
	}
	id, err := e.lookup("SetEdgeStatus", p, q)
	if err != nil {
		return err
	}
	t := e.overrides()
	if err := t.Set(id, m, st); err != nil {
		return fmt.Errorf("SetEdgeStatus: (%d,%d) material %d: %w", p, q, m, err)
	}
	e.prior = t
	e.invalidate(StageClassified)
	e.log.Printf("facetopo: override (%d,%d) material %d -> %s", p, q, m, st)
	return nil
}

// ConfirmCandidates promotes every Candidate slot of the committed
// classification to Confirmed and returns how many changed. The next
// classification then links confirmed slots only.
func (e *Engine) ConfirmCandidates() (int, error) {
	if err := e.require(StageClassified, "ConfirmCandidates"); err != nil {
		return 0, err
	}
	t := e.overrides()
	n, err := t.Promote(classify.Candidate, classify.Confirmed)
	if err != nil {
		return 0, err
	}
	e.prior = t
	e.invalidate(StageClassified)
	e.log.Printf("facetopo: confirmed %d candidates", n)
	return n, nil
}

// ResetStatuses drops every override, inserted edge and forced endpoint.
func (e *Engine) ResetStatuses() error {
	if err := e.require(StageTopology, "ResetStatuses"); err != nil {
		return err
	}
	e.prior, e.forced, e.endpoints = nil, nil, nil
	e.invalidate(StageClassified)
	e.log.Printf("facetopo: overrides reset")
	return nil
}
