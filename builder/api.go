// SPDX-License-Identifier: MIT
// Package: facetopo/builder
//
// api.go - Soup, Constructor and the Build orchestrator.

package builder

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/mesh"
)

// Soup is an indexed facet soup.
type Soup struct {
	Points    []r3.Vector
	Triangles []mesh.IndexedTriangle
}

// Raw expands the soup into coordinate triangles.
func (s *Soup) Raw() []mesh.RawTriangle {
	out := make([]mesh.RawTriangle, len(s.Triangles))
	for i, t := range s.Triangles {
		out[i] = mesh.RawTriangle{
			V:        [3]r3.Vector{s.Points[t.P[0]], s.Points[t.P[1]], s.Points[t.P[2]]},
			Material: t.Material,
		}
	}
	return out
}

// Store ingests the soup into a mesh.Store.
func (s *Soup) Store(opts ...mesh.Option) (*mesh.Store, error) {
	return mesh.FromIndexed(s.Points, s.Triangles, opts...)
}

func (s *Soup) point(cfg builderConfig, p r3.Vector) int {
	s.Points = append(s.Points, cfg.place(p))
	return len(s.Points) - 1
}

func (s *Soup) triangle(cfg builderConfig, a, b, c int) {
	s.Triangles = append(s.Triangles, mesh.IndexedTriangle{P: [3]int{a, b, c}, Material: cfg.material})
}

// shell appends local points and faces indexed into them.
func (s *Soup) shell(cfg builderConfig, pts []r3.Vector, faces [][3]int) {
	base := len(s.Points)
	for _, p := range pts {
		s.point(cfg, p)
	}
	for _, f := range faces {
		s.triangle(cfg, base+f[0], base+f[1], base+f[2])
	}
}

// Constructor appends one fixture to the soup.
type Constructor func(s *Soup, cfg builderConfig) error

// Build resolves opts and applies every constructor in order.
func Build(opts []BuilderOption, cons ...Constructor) (*Soup, error) {
	cfg := newBuilderConfig(opts...)
	s := &Soup{}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(s, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}
	return s, nil
}

// Tagged runs c with material m regardless of WithMaterial.
func Tagged(m mesh.Material, c Constructor) Constructor {
	return func(s *Soup, cfg builderConfig) error {
		cfg.material = m
		return c(s, cfg)
	}
}
