// SPDX-License-Identifier: MIT

package classify

import (
	"context"
	"math"

	"github.com/katalvlaran/facetopo/config"
	"github.com/katalvlaran/facetopo/topology"
)

// Params holds the thresholds as cosines, computed once per Config.
type Params struct {
	CosMin       float64
	CosCont      float64
	CosCorner    float64
	Continuation bool
	Corner       bool
}

// NewParams converts the angles of c into cosines.
func NewParams(c config.Config) Params {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	return Params{
		CosMin:       math.Cos(rad(c.YellowAngle)),
		CosCont:      math.Cos(rad(c.ContinuationAngle)),
		CosCorner:    math.Cos(rad(c.EdgeCornerAngle)),
		Continuation: c.ContinuationEnabled(),
		Corner:       c.CornerRuleEnabled(),
	}
}

// Option configures Run.
type Option func(*Options)

// Options holds Run inputs beyond the topology.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context
	// Prior is the table to start from; nil means all Undefined. Run never
	// modifies it.
	Prior *StatusTable
	// Forced lists edges treated like non-manifold edges in pass 1.
	Forced map[topology.EdgeKey]bool
	// Cos overrides the slot cosines computed by Angles.
	Cos CosTable
}

// DefaultOptions returns a background context and no prior state.
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

// WithPrior starts classification from t (user overrides, earlier runs).
func WithPrior(t *StatusTable) Option {
	return func(o *Options) { o.Prior = t }
}

// WithForced forces the given edges to Candidate in pass 1.
func WithForced(keys map[topology.EdgeKey]bool) Option {
	return func(o *Options) { o.Forced = keys }
}

// WithCos supplies precomputed slot cosines.
func WithCos(c CosTable) Option {
	return func(o *Options) { o.Cos = c }
}
