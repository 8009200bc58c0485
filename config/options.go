// SPDX-License-Identifier: MIT

package config

import "fmt"

// Option adjusts a Config under construction. Invalid values are recorded
// and surfaced by New as ErrOptionViolation.
type Option func(*builder)

type builder struct {
	c   Config
	err error
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrOptionViolation}, args...)...)
	}
}

// New returns Default() with opts applied, validated.
func New(opts ...Option) (Config, error) {
	b := &builder{c: Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.err != nil {
		return Config{}, b.err
	}
	if err := b.c.Validate(); err != nil {
		return Config{}, err
	}
	return b.c, nil
}

// From starts from base instead of the defaults.
func From(base Config) Option {
	return func(b *builder) { b.c = base }
}

// WithYellowAngle sets the candidate threshold in degrees.
func WithYellowAngle(deg float64) Option {
	return func(b *builder) {
		if deg <= 0 {
			b.fail("yellow angle must be positive (%g)", deg)
			return
		}
		b.c.YellowAngle = deg
	}
}

// WithContinuationAngle sets the continuation threshold in degrees.
func WithContinuationAngle(deg float64) Option {
	return func(b *builder) { b.c.ContinuationAngle = deg }
}

// WithEdgeCornerAngle sets the corner-angle endpoint threshold in degrees.
func WithEdgeCornerAngle(deg float64) Option {
	return func(b *builder) { b.c.EdgeCornerAngle = deg }
}

// WithGeometryToleranceFactor sets bbox diagonal / merge tolerance.
func WithGeometryToleranceFactor(f float64) Option {
	return func(b *builder) { b.c.GeometryToleranceFactor = f }
}

// WithSmoothingWeight sets the neighbor weight of normal smoothing.
func WithSmoothingWeight(w float64) Option {
	return func(b *builder) { b.c.SmoothingWeight = w }
}

// WithAddEdges selects edge insertion (true) or spiral marking (false).
func WithAddEdges(on bool) Option {
	return func(b *builder) { b.c.AddEdges = on }
}

// WithOverlapCheck toggles the overlap diagnostic.
func WithOverlapCheck(on bool) Option {
	return func(b *builder) { b.c.OverlapCheckEnabled = on }
}

// WithConeCheck toggles the spiral/cone pass.
func WithConeCheck(on bool) Option {
	return func(b *builder) { b.c.ConeCheckEnabled = on }
}

// WithOverlapBoxExpansion sets the relative box growth for overlap search.
func WithOverlapBoxExpansion(f float64) Option {
	return func(b *builder) { b.c.OverlapBoxExpansion = f }
}
