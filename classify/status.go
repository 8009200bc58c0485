// SPDX-License-Identifier: MIT

package classify

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// Sentinel errors.
var (
	ErrTopologyNil     = errors.New("classify: topology is nil")
	ErrOptionViolation = errors.New("classify: invalid option supplied")
	ErrTableMismatch   = errors.New("classify: status table does not match topology")
	ErrTransition      = errors.New("classify: illegal status transition")
	ErrNoSlot          = errors.New("classify: edge has no slot for material")
)

// Status is the classification state of one edge slot.
type Status uint8

// Edge statuses.
const (
	Undefined Status = iota
	Candidate
	Confirmed
	Excluded
)

func (s Status) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Candidate:
		return "candidate"
	case Confirmed:
		return "confirmed"
	case Excluded:
		return "excluded"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// IsFeature reports Candidate or Confirmed.
func (s Status) IsFeature() bool { return s == Candidate || s == Confirmed }

// Terminal reports Confirmed or Excluded.
func (s Status) Terminal() bool { return s == Confirmed || s == Excluded }

// Transition reports whether from → to is allowed. reclassify admits the
// Candidate → Undefined demotion of a classification pass.
func Transition(from, to Status, reclassify bool) bool {
	if from == to {
		return true
	}
	switch from {
	case Undefined:
		return to == Candidate || to == Excluded
	case Candidate:
		return to == Confirmed || to == Excluded || (reclassify && to == Undefined)
	default:
		return false
	}
}

// StatusTable stores one Status per (edge, material) slot of a topology.
type StatusTable struct {
	slots []map[mesh.Material]Status
}

// NewStatusTable returns a table with every slot of tp Undefined.
func NewStatusTable(tp *topology.Topology) *StatusTable {
	t := &StatusTable{slots: make([]map[mesh.Material]Status, tp.NE())}
	for i := range t.slots {
		e := tp.Edge(topology.EdgeID(i))
		t.slots[i] = make(map[mesh.Material]Status, len(e.Segments))
		for m := range e.Segments {
			t.slots[i][m] = Undefined
		}
	}
	return t
}

// Len returns the number of edges covered.
func (t *StatusTable) Len() int { return len(t.slots) }

// Get returns the status of slot (e, m).
func (t *StatusTable) Get(e topology.EdgeID, m mesh.Material) (Status, bool) {
	if e < 0 || int(e) >= len(t.slots) {
		return Undefined, false
	}
	s, ok := t.slots[e][m]
	return s, ok
}

// Set applies an explicit override, enforcing the status machine.
func (t *StatusTable) Set(e topology.EdgeID, m mesh.Material, s Status) error {
	cur, ok := t.Get(e, m)
	if !ok {
		return fmt.Errorf("Set: edge %d material %d: %w", e, m, ErrNoSlot)
	}
	if !Transition(cur, s, false) {
		return fmt.Errorf("Set: edge %d material %d %v -> %v: %w", e, m, cur, s, ErrTransition)
	}
	t.slots[e][m] = s
	return nil
}

// Reset returns slot (e, m) to Undefined regardless of its state.
func (t *StatusTable) Reset(e topology.EdgeID, m mesh.Material) error {
	if _, ok := t.Get(e, m); !ok {
		return fmt.Errorf("Reset: edge %d material %d: %w", e, m, ErrNoSlot)
	}
	t.slots[e][m] = Undefined
	return nil
}

// Promote moves every slot in state from to state to and returns how many
// changed. The move must be a legal transition.
func (t *StatusTable) Promote(from, to Status) (int, error) {
	if !Transition(from, to, false) {
		return 0, fmt.Errorf("Promote: %v -> %v: %w", from, to, ErrTransition)
	}
	n := 0
	for _, slot := range t.slots {
		for m, s := range slot {
			if s == from && from != to {
				slot[m] = to
				n++
			}
		}
	}
	return n, nil
}

// Count returns how many slots are in state s.
func (t *StatusTable) Count(s Status) int {
	n := 0
	for _, slot := range t.slots {
		for _, v := range slot {
			if v == s {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy.
func (t *StatusTable) Clone() *StatusTable {
	c := &StatusTable{slots: make([]map[mesh.Material]Status, len(t.slots))}
	for i, slot := range t.slots {
		c.slots[i] = make(map[mesh.Material]Status, len(slot))
		for m, s := range slot {
			c.slots[i][m] = s
		}
	}
	return c
}

// Rebase carries statuses from a table over from into a fresh table over
// to, matching slots by point pair and material. Slots that no longer
// exist are dropped; new slots start Undefined.
func (t *StatusTable) Rebase(from, to *topology.Topology) *StatusTable {
	out := NewStatusTable(to)
	for i, slot := range t.slots {
		k := from.Edge(topology.EdgeID(i)).Key
		id, ok := to.Lookup(k.A, k.B)
		if !ok {
			continue
		}
		for m, s := range slot {
			if _, has := out.slots[id][m]; has {
				out.slots[id][m] = s
			}
		}
	}
	return out
}

func (t *StatusTable) set(e topology.EdgeID, m mesh.Material, s Status) {
	t.slots[e][m] = s
}
