// SPDX-License-Identifier: MIT
// Package: facetopo/builder
//
// config.go - builder configuration and deterministic defaults.
//
// Defaults: material 0, no offset, scale 1. Options apply in order, last wins.

package builder

import (
	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/mesh"
)

// builderConfig is passed by value to constructors.
type builderConfig struct {
	material mesh.Material
	offset   r3.Vector
	scale    float64
}

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{scale: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// place maps a fixture-local coordinate into the soup.
func (c builderConfig) place(p r3.Vector) r3.Vector {
	return p.Mul(c.scale).Add(c.offset)
}

// BuilderOption customizes builderConfig.
type BuilderOption func(*builderConfig)

// WithMaterial tags every triangle with m.
func WithMaterial(m mesh.Material) BuilderOption {
	return func(c *builderConfig) { c.material = m }
}

// WithOffset translates every point by d.
func WithOffset(d r3.Vector) BuilderOption {
	return func(c *builderConfig) { c.offset = d }
}

// WithScale multiplies every coordinate by f before the offset.
// Panics on f <= 0; option constructors fail fast on meaningless input.
func WithScale(f float64) BuilderOption {
	if !(f > 0) {
		panic("builder: WithScale(f <= 0)")
	}
	return func(c *builderConfig) { c.scale = f }
}
