// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/chart"
	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/config"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/polyline"
	"github.com/katalvlaran/facetopo/repair"
	"github.com/katalvlaran/facetopo/topology"
)

// Sentinel errors.
var (
	// ErrNotReady is returned when a stage is queried before its pass ran.
	ErrNotReady = errors.New("engine: stage has not run")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("engine: invalid option supplied")
)

// Stage is a bit set of completed passes.
type Stage uint16

// Stages, in pipeline order.
const (
	StageTopology Stage = 1 << iota
	StageClassified
	StageCharts
	StageLines
	StageOverlaps
	StageSpirals
)

var stageNames = []string{"topology", "classified", "charts", "lines", "overlaps", "spirals"}

// String lists the stages in s joined by '|'.
func (s Stage) String() string {
	var parts []string
	for i, name := range stageNames {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// downstream maps a stage to every stage computed from it.
var downstream = map[Stage]Stage{
	StageTopology:   StageTopology | StageClassified | StageCharts | StageLines,
	StageClassified: StageClassified | StageCharts | StageLines,
	StageCharts:     StageCharts | StageLines,
}

// Option configures an Engine.
type Option func(*Options)

// Options holds engine wiring.
type Options struct {
	// Logger receives one line per committed pass.
	Logger *log.Logger

	err error
}

// DefaultOptions returns a discarding logger.
func DefaultOptions() Options {
	return Options{Logger: log.New(io.Discard, "", 0)}
}

// WithLogger routes pass logs to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l == nil {
			o.err = fmt.Errorf("%w: nil logger", ErrOptionViolation)
			return
		}
		o.Logger = l
	}
}

// Engine holds one soup and the committed results of every pass.
type Engine struct {
	cfg    config.Config
	params classify.Params
	log    *log.Logger

	store  *mesh.Store
	topo   *topology.Topology
	cls    *classify.Result
	charts *chart.Partition
	bodies *chart.Partition
	lines  *polyline.Set

	// prior carries overrides into the next classification.
	prior *classify.StatusTable
	// forced holds edges inserted by the spiral pass.
	forced map[topology.EdgeKey]bool
	// endpoints holds forced line endpoints from the spiral pass.
	endpoints map[mesh.PointID]bool

	diag Diagnostics
	done Stage
	// stale is set when the store's working normals changed after the
	// adjacency was built.
	stale bool
}

// NewFromRaw deduplicates the corners of tris and returns an engine with no
// pass run yet.
func NewFromRaw(cfg config.Config, tris []mesh.RawTriangle, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := mesh.FromRaw(tris, mesh.WithToleranceFactor(cfg.GeometryToleranceFactor))
	if err != nil {
		return nil, err
	}
	return newEngine(cfg, s, opts)
}

// NewFromIndexed merges the shared point table and returns an engine with no
// pass run yet.
func NewFromIndexed(cfg config.Config, points []r3.Vector, tris []mesh.IndexedTriangle, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := mesh.FromIndexed(points, tris, mesh.WithToleranceFactor(cfg.GeometryToleranceFactor))
	if err != nil {
		return nil, err
	}
	return newEngine(cfg, s, opts)
}

func newEngine(cfg config.Config, s *mesh.Store, opts []Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	e := &Engine{
		cfg:    cfg,
		params: classify.NewParams(cfg),
		log:    o.Logger,
		store:  s,
	}
	e.diag.Degenerate = s.DegenerateCount()
	e.log.Printf("facetopo: loaded %d points, %d triangles, tolerance %g", s.NP(), s.NT(), s.Tolerance())
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config { return e.cfg }

// Store returns the committed point and triangle tables.
func (e *Engine) Store() *mesh.Store { return e.store }

// Done reports whether every stage in s has run and not been cleared since.
func (e *Engine) Done(s Stage) bool { return e.done&s == s }

// Stages returns the completed stages.
func (e *Engine) Stages() Stage { return e.done }

func (e *Engine) require(s Stage, op string) error {
	if e.done&s != s {
		return fmt.Errorf("%s: needs %v: %w", op, s&^e.done, ErrNotReady)
	}
	return nil
}

// invalidate clears s and every stage computed from it.
func (e *Engine) invalidate(s Stage) {
	if d, ok := downstream[s]; ok {
		s = d
	}
	e.done &^= s
}

// Topology returns the committed adjacency.
func (e *Engine) Topology() (*topology.Topology, error) {
	if err := e.require(StageTopology, "Topology"); err != nil {
		return nil, err
	}
	return e.topo, nil
}

// Classification returns the committed edge classification.
func (e *Engine) Classification() (*classify.Result, error) {
	if err := e.require(StageClassified, "Classification"); err != nil {
		return nil, err
	}
	return e.cls, nil
}

// Charts returns the committed chart partition.
func (e *Engine) Charts() (*chart.Partition, error) {
	if err := e.require(StageCharts, "Charts"); err != nil {
		return nil, err
	}
	return e.charts, nil
}

// Bodies returns the connected components of the raw adjacency.
func (e *Engine) Bodies() (*chart.Partition, error) {
	if err := e.require(StageCharts, "Bodies"); err != nil {
		return nil, err
	}
	return e.bodies, nil
}

// Lines returns the committed feature lines.
func (e *Engine) Lines() (*polyline.Set, error) {
	if err := e.require(StageLines, "Lines"); err != nil {
		return nil, err
	}
	return e.lines, nil
}

// Status returns the classified status of slot (p, q, m).
func (e *Engine) Status(p, q mesh.PointID, m mesh.Material) (classify.Status, error) {
	if err := e.require(StageClassified, "Status"); err != nil {
		return classify.Undefined, err
	}
	id, err := e.lookup("Status", p, q)
	if err != nil {
		return classify.Undefined, err
	}
	st, ok := e.cls.Table.Get(id, m)
	if !ok {
		return classify.Undefined, fmt.Errorf("Status: (%d,%d) material %d: %w", p, q, m, classify.ErrNoSlot)
	}
	return st, nil
}

// IsFeature reports whether any slot of edge (p, q) is Candidate or
// Confirmed, regardless of the linking policy.
func (e *Engine) IsFeature(p, q mesh.PointID) (bool, error) {
	if err := e.require(StageClassified, "IsFeature"); err != nil {
		return false, err
	}
	id, err := e.lookup("IsFeature", p, q)
	if err != nil {
		return false, err
	}
	return e.cls.IsFeature(id), nil
}

// IsUsed reports whether edge (p, q) is used for linking under the
// committed policy.
func (e *Engine) IsUsed(p, q mesh.PointID) (bool, error) {
	if err := e.require(StageClassified, "IsUsed"); err != nil {
		return false, err
	}
	id, err := e.lookup("IsUsed", p, q)
	if err != nil {
		return false, err
	}
	return e.cls.Used(id), nil
}

// Policy returns the linking policy of the committed classification.
func (e *Engine) Policy() (classify.Policy, error) {
	if err := e.require(StageClassified, "Policy"); err != nil {
		return 0, err
	}
	return e.cls.Policy, nil
}

// Vicinity returns the triangles within size neighbor steps of seed.
func (e *Engine) Vicinity(seed mesh.TriangleID, size int) (*repair.VicinityResult, error) {
	if err := e.require(StageTopology, "Vicinity"); err != nil {
		return nil, err
	}
	return repair.Vicinity(e.topo, seed, size)
}

// Diagnostics returns a copy of the collected diagnostics.
func (e *Engine) Diagnostics() Diagnostics { return e.diag.clone() }

func (e *Engine) lookup(op string, p, q mesh.PointID) (topology.EdgeID, error) {
	id, ok := e.topo.Lookup(p, q)
	if !ok {
		return topology.NoEdge, fmt.Errorf("%s: (%d,%d): %w", op, p, q, topology.ErrEdgeNotFound)
	}
	return id, nil
}
