// SPDX-License-Identifier: MIT

package polyline

import (
	"context"
	"errors"

	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// Sentinel errors.
var (
	ErrTopologyNil       = errors.New("polyline: topology is nil")
	ErrClassificationNil = errors.New("polyline: classification is nil")
	ErrMismatch          = errors.New("polyline: inputs belong to different topologies")
	ErrShortLine         = errors.New("polyline: line has fewer than two points")
	ErrRing              = errors.New("polyline: line is a closed ring")
	ErrCollision         = errors.New("polyline: lines share an endpoint pair")
)

// Side describes one material slot along a segment.
type Side struct {
	Material   mesh.Material
	Left       mesh.TriangleID
	Right      mesh.TriangleID
	LeftChart  mesh.ChartID
	RightChart mesh.ChartID
	// Used is true when the slot is selected under the classification policy.
	Used bool
}

// Line is an ordered chain of used feature edges.
type Line struct {
	ID     int
	Points []mesh.PointID
	// Edges[i] joins Points[i] and Points[i+1].
	Edges []topology.EdgeID
	// Sides[i] lists the material slots of Edges[i], ascending material.
	Sides [][]Side
	// Materials is the set of materials with a used slot on the line.
	Materials []mesh.Material
	// Charts is the set of charts touching the line, ascending.
	Charts []mesh.ChartID
}

// Start returns the first point.
func (l *Line) Start() mesh.PointID { return l.Points[0] }

// End returns the last point.
func (l *Line) End() mesh.PointID { return l.Points[len(l.Points)-1] }

// Key returns the unordered endpoint pair.
func (l *Line) Key() topology.EdgeKey { return topology.MakeKey(l.Start(), l.End()) }

// Segments returns the number of edges.
func (l *Line) Segments() int { return len(l.Edges) }

// Split kinds recorded in Set.
const (
	SplitRing      = "ring"
	SplitCollision = "collision"
)

// Split records a synthetic endpoint introduced by Link.
type Split struct {
	Point mesh.PointID
	Kind  string
}

// Set is the output of Link.
type Set struct {
	Lines  []Line
	Splits []Split
}

// Option configures Link.
type Option func(*Options)

// Options holds linking parameters.
type Options struct {
	Ctx context.Context
	// Endpoints are extra forced line endpoints.
	Endpoints map[mesh.PointID]bool
}

// DefaultOptions returns a background context and no extra endpoints.
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

// WithEndpoints adds forced line endpoints.
func WithEndpoints(pts ...mesh.PointID) Option {
	return func(o *Options) {
		if o.Endpoints == nil {
			o.Endpoints = make(map[mesh.PointID]bool, len(pts))
		}
		for _, p := range pts {
			o.Endpoints[p] = true
		}
	}
}
