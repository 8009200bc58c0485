// SPDX-License-Identifier: MIT

package classify

import (
	"fmt"

	"github.com/katalvlaran/facetopo/geom"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// CosTable holds one cosine per (edge, material) slot.
type CosTable []map[mesh.Material]float64

// Angles computes slot cosines from the working normals of tp's store.
func Angles(tp *topology.Topology) CosTable {
	s := tp.Store()
	out := make(CosTable, tp.NE())
	for i := range out {
		e := tp.Edge(topology.EdgeID(i))
		out[i] = make(map[mesh.Material]float64, len(e.Segments))
		for m, seg := range e.Segments {
			if seg.Right() == mesh.NoTriangle {
				out[i][m] = -1
				continue
			}
			n1 := s.Triangle(seg.Left()).Normal
			n2 := s.Triangle(seg.Right()).Normal
			out[i][m] = geom.Clamp(n1.Dot(n2))
		}
	}
	return out
}

// Policy tells which statuses make an edge used.
type Policy uint8

// Selection policies of pass 4.
const (
	// PolicyCandidatesAsConfirmed applies when no slot is Confirmed.
	PolicyCandidatesAsConfirmed Policy = iota
	// PolicyConfirmedOnly applies once any slot is Confirmed.
	PolicyConfirmedOnly
)

func (p Policy) String() string {
	if p == PolicyConfirmedOnly {
		return "confirmed-only"
	}
	return "candidates-as-confirmed"
}

// classifier holds the mutable state of one Run.
type classifier struct {
	tp     *topology.Topology
	params Params
	opts   Options
	table  *StatusTable
	cos    CosTable
	forced []bool
	// counts[p][m] is the number of feature slots of material m at point p.
	counts []map[mesh.Material]int
	scans  int
}

// Run classifies every slot of tp and derives used edges, point degrees
// and corner endpoints.
func Run(tp *topology.Topology, params Params, opts ...Option) (*Result, error) {
	if tp == nil {
		return nil, ErrTopologyNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &classifier{tp: tp, params: params, opts: o, cos: o.Cos}
	if c.cos == nil {
		c.cos = Angles(tp)
	} else if len(c.cos) != tp.NE() {
		return nil, fmt.Errorf("%w: %d cosines for %d edges", ErrOptionViolation, len(c.cos), tp.NE())
	}
	if o.Prior != nil {
		if o.Prior.Len() != tp.NE() {
			return nil, fmt.Errorf("Run: prior covers %d edges, topology has %d: %w", o.Prior.Len(), tp.NE(), ErrTableMismatch)
		}
		c.table = o.Prior.Clone()
	} else {
		c.table = NewStatusTable(tp)
	}

	steps := []func() error{c.forceNonManifold, c.threshold}
	if params.Continuation {
		steps = append(steps, c.continuation)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return c.result(), nil
}

func (c *classifier) cancelled() error {
	select {
	case <-c.opts.Ctx.Done():
		return c.opts.Ctx.Err()
	default:
		return nil
	}
}

// forceNonManifold is pass 1.
func (c *classifier) forceNonManifold() error {
	c.forced = make([]bool, c.tp.NE())
	for i := range c.forced {
		if err := c.cancelled(); err != nil {
			return err
		}
		e := c.tp.Edge(topology.EdgeID(i))
		if !e.NonManifold() && !c.opts.Forced[e.Key] {
			continue
		}
		c.forced[i] = true
		for _, m := range e.Materials() {
			if s, _ := c.table.Get(e.ID, m); !s.Terminal() {
				c.table.set(e.ID, m, Candidate)
			}
		}
	}
	return nil
}

// threshold is pass 2.
func (c *classifier) threshold() error {
	for i := 0; i < c.tp.NE(); i++ {
		if err := c.cancelled(); err != nil {
			return err
		}
		e := c.tp.Edge(topology.EdgeID(i))
		for _, m := range e.Materials() {
			if s, _ := c.table.Get(e.ID, m); s.Terminal() {
				continue
			}
			if c.forced[i] || c.cos[i][m] <= c.params.CosMin {
				c.table.set(e.ID, m, Candidate)
			} else {
				c.table.set(e.ID, m, Undefined)
			}
		}
	}
	return nil
}

// continuation is pass 3.
func (c *classifier) continuation() error {
	c.countFeatures()
	for changed := true; changed; {
		changed = false
		c.scans++
		for i := 0; i < c.tp.NE(); i++ {
			if err := c.cancelled(); err != nil {
				return err
			}
			e := c.tp.Edge(topology.EdgeID(i))
			for _, m := range e.Materials() {
				if s, _ := c.table.Get(e.ID, m); s != Undefined || c.cos[i][m] > c.params.CosCont {
					continue
				}
				if c.counts[e.Key.A][m] != 1 && c.counts[e.Key.B][m] != 1 {
					continue
				}
				c.table.set(e.ID, m, Candidate)
				c.counts[e.Key.A][m]++
				c.counts[e.Key.B][m]++
				changed = true
			}
		}
	}
	return nil
}

func (c *classifier) countFeatures() {
	c.counts = make([]map[mesh.Material]int, c.tp.Store().NP())
	for p := range c.counts {
		c.counts[p] = make(map[mesh.Material]int)
	}
	for i := 0; i < c.tp.NE(); i++ {
		e := c.tp.Edge(topology.EdgeID(i))
		for m := range e.Segments {
			if s, _ := c.table.Get(e.ID, m); s.IsFeature() {
				c.counts[e.Key.A][m]++
				c.counts[e.Key.B][m]++
			}
		}
	}
}
