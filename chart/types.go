// SPDX-License-Identifier: MIT

package chart

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/facetopo/mesh"
)

// Sentinel errors.
var (
	ErrTopologyNil       = errors.New("chart: topology is nil")
	ErrClassificationNil = errors.New("chart: classification is nil")
	ErrMismatch          = errors.New("chart: classification belongs to another topology")
	ErrPartition         = errors.New("chart: not a partition")
)

// Option configures Segment and Bodies.
type Option func(*Options)

// Options holds flood-fill parameters.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context
}

// DefaultOptions returns a background context.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// Partition assigns every triangle to exactly one part, numbered from 1.
type Partition struct {
	of      []mesh.ChartID
	members [][]mesh.TriangleID
}

// Count returns the number of parts.
func (p *Partition) Count() int { return len(p.members) }

// Len returns the number of triangles covered.
func (p *Partition) Len() int { return len(p.of) }

// Of returns the part of t.
func (p *Partition) Of(t mesh.TriangleID) mesh.ChartID { return p.of[t] }

// Members returns the triangles of part c, ascending, or nil for an unknown id.
func (p *Partition) Members(c mesh.ChartID) []mesh.TriangleID {
	if c < 1 || int(c) > len(p.members) {
		return nil
	}
	return p.members[c-1]
}

// IDs returns a copy of the per-triangle part ids.
func (p *Partition) IDs() []mesh.ChartID {
	out := make([]mesh.ChartID, len(p.of))
	copy(out, p.of)
	return out
}

// Sizes returns the member count of every part in id order.
func (p *Partition) Sizes() []int {
	out := make([]int, len(p.members))
	for i, m := range p.members {
		out[i] = len(m)
	}
	return out
}

// Validate checks that every triangle sits in exactly one part and that
// member lists agree with the per-triangle ids.
func (p *Partition) Validate() error {
	seen := make([]bool, len(p.of))
	total := 0
	for i, ms := range p.members {
		c := mesh.ChartID(i + 1)
		for _, t := range ms {
			if seen[t] {
				return fmt.Errorf("Validate: triangle %d listed twice: %w", t, ErrPartition)
			}
			seen[t] = true
			if p.of[t] != c {
				return fmt.Errorf("Validate: triangle %d in part %d but tagged %d: %w", t, c, p.of[t], ErrPartition)
			}
		}
		total += len(ms)
	}
	if total != len(p.of) {
		return fmt.Errorf("Validate: %d of %d triangles assigned: %w", total, len(p.of), ErrPartition)
	}
	return nil
}
