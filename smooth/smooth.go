// SPDX-License-Identifier: MIT

package smooth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/facetopo/classify"
	"github.com/katalvlaran/facetopo/geom"
	"github.com/katalvlaran/facetopo/mesh"
	"github.com/katalvlaran/facetopo/topology"
)

// Sentinel errors.
var (
	ErrTopologyNil       = errors.New("smooth: topology is nil")
	ErrClassificationNil = errors.New("smooth: classification is nil")
	ErrMismatch          = errors.New("smooth: inputs do not match")
	ErrWeight            = errors.New("smooth: weight outside [0,1]")
)

// MaxDeviation is the normal deviation (radians, about 63°) above which
// Points tries to relocate a point.
const MaxDeviation = 1.1

// relocateStep is the fraction of the way toward a centroid tried per move.
const relocateStep = 0.1

// Option configures the smoothing passes.
type Option func(*Options)

// Options holds smoothing parameters.
type Options struct {
	Ctx context.Context
	// Normals, when set, replaces the working normals of the store as the
	// starting state.
	Normals []r3.Vector
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

// WithNormals seeds the passes with working normals indexed by triangle id.
func WithNormals(n []r3.Vector) Option {
	return func(o *Options) {
		o.Normals = n
	}
}

func check(tp *topology.Topology, cls *classify.Result) error {
	if tp == nil {
		return ErrTopologyNil
	}
	if cls == nil {
		return ErrClassificationNil
	}
	if cls.Topo != tp {
		return ErrMismatch
	}
	return nil
}

// seed returns a private copy of the starting normals.
func seed(s *mesh.Store, o Options) ([]r3.Vector, error) {
	if o.Normals == nil {
		return s.Normals(), nil
	}
	if len(o.Normals) != s.NT() {
		return nil, fmt.Errorf("%w: %d normals for %d triangles", ErrMismatch, len(o.Normals), s.NT())
	}
	out := make([]r3.Vector, len(o.Normals))
	copy(out, o.Normals)
	return out, nil
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Normals runs one smoothing sweep and returns the new working normals,
// indexed by triangle id. The store is not modified.
func Normals(tp *topology.Topology, cls *classify.Result, weight float64, opts ...Option) ([]r3.Vector, error) {
	if err := check(tp, cls); err != nil {
		return nil, err
	}
	if !(weight >= 0 && weight <= 1) {
		return nil, fmt.Errorf("Normals: %g: %w", weight, ErrWeight)
	}
	o := resolve(opts)

	s := tp.Store()
	out, err := seed(s, o)
	if err != nil {
		return nil, err
	}
	wnb, wgeom := weight, 1-weight

	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	var x mat.VecDense
	for i := 0; i < s.NT(); i++ {
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		t := mesh.TriangleID(i)
		tri := s.Triangle(t)
		ng := tri.GeomNormal
		if ng == (r3.Vector{}) {
			continue
		}
		a.Zero()
		b.Zero()
		for j := 0; j < 3; j++ {
			p, q := tri.Edge(j)
			r := s.Pos(q).Sub(s.Pos(p))
			addTerm(a, b, outer(r, wgeom), ng)

			e := tp.EdgeOf(t, j)
			nb := tp.Neighbor(t, j)
			if e == topology.NoEdge || nb == mesh.NoTriangle || cls.UsedSlot(e, tri.Material) {
				continue
			}
			addTerm(a, b, projector(r, wnb), out[nb].Normalize())
		}
		if err := x.SolveVec(a, b); err != nil {
			out[t] = ng
			continue
		}
		n := r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
		if l := n.Norm(); l > 0 && !math.IsNaN(l) {
			out[t] = n.Mul(1 / l)
		} else {
			out[t] = ng
		}
	}
	return out, nil
}

// outer returns w·r rᵀ.
func outer(r r3.Vector, w float64) *mat.Dense {
	v := []float64{r.X, r.Y, r.Z}
	m := mat.NewDense(3, 3, nil)
	for k := 0; k < 3; k++ {
		for l := 0; l < 3; l++ {
			m.Set(k, l, w*v[k]*v[l])
		}
	}
	return m
}

// projector returns w·(|r|² I − r rᵀ).
func projector(r r3.Vector, w float64) *mat.Dense {
	m := outer(r, -w)
	l2 := r.Norm2()
	for k := 0; k < 3; k++ {
		m.Set(k, k, m.At(k, k)+w*l2)
	}
	return m
}

// addTerm adds m to a and m·n to b.
func addTerm(a *mat.Dense, b *mat.VecDense, m *mat.Dense, n r3.Vector) {
	a.Add(a, m)
	var mn mat.VecDense
	mn.MulVec(m, mat.NewVecDense(3, []float64{n.X, n.Y, n.Z}))
	b.AddVec(b, &mn)
}

// Points relocates feature-free points with a large normal deviation and
// returns the moved positions. Earlier moves are visible to later points.
func Points(tp *topology.Topology, cls *classify.Result, opts ...Option) (map[mesh.PointID]r3.Vector, error) {
	if err := check(tp, cls); err != nil {
		return nil, err
	}
	o := resolve(opts)

	s := tp.Store()
	normals, err := seed(s, o)
	if err != nil {
		return nil, err
	}
	moved := make(map[mesh.PointID]r3.Vector)
	pos := func(p mesh.PointID) r3.Vector {
		if v, ok := moved[p]; ok {
			return v
		}
		return s.Pos(p)
	}
	deviation := func(p mesh.PointID) float64 {
		worst := 0.0
		for _, t := range s.TrianglesAt(p) {
			tri := s.Triangle(t)
			ng := geom.Normal(pos(tri.P[0]), pos(tri.P[1]), pos(tri.P[2]))
			if d := float64(normals[t].Angle(ng)); d > worst {
				worst = d
			}
		}
		return worst
	}

	for i := 0; i < s.NP(); i++ {
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		p := mesh.PointID(i)
		if cls.Degree(p) > 0 {
			continue
		}
		dev := deviation(p)
		if dev < MaxDeviation {
			continue
		}
		goal := dev / 2
		home := pos(p)
		best := home
		for _, t := range s.TrianglesAt(p) {
			moved[p] = best
			tri := s.Triangle(t)
			c := geom.Centroid(pos(tri.P[0]), pos(tri.P[1]), pos(tri.P[2]))
			try := best.Add(c.Sub(best).Mul(relocateStep))
			moved[p] = try
			if deviation(p) < goal {
				best = try
			}
		}
		if best == home {
			delete(moved, p)
		} else {
			moved[p] = best
		}
	}
	return moved, nil
}

// FoldedEdges lists the edges with a smooth slot whose two flat normals
// point against each other, ascending.
func FoldedEdges(tp *topology.Topology, cls *classify.Result) ([]topology.EdgeID, error) {
	if err := check(tp, cls); err != nil {
		return nil, err
	}
	s := tp.Store()
	var out []topology.EdgeID
	for i := 0; i < tp.NE(); i++ {
		e := tp.Edge(topology.EdgeID(i))
		for _, m := range e.Materials() {
			seg := e.Segments[m]
			if len(seg.Trigs) < 2 || cls.UsedSlot(e.ID, m) {
				continue
			}
			if s.Triangle(seg.Left()).GeomNormal.Dot(s.Triangle(seg.Right()).GeomNormal) < 0 {
				out = append(out, e.ID)
				break
			}
		}
	}
	return out, nil
}

// Rough lists the triangles whose working normal turns by more than
// acos(cosMin) against a neighbor across a smooth edge, ascending.
func Rough(tp *topology.Topology, cls *classify.Result, cosMin float64) ([]mesh.TriangleID, error) {
	if err := check(tp, cls); err != nil {
		return nil, err
	}
	s := tp.Store()
	rough := make(map[mesh.TriangleID]bool)
	for i := 0; i < s.NT(); i++ {
		t := mesh.TriangleID(i)
		tri := s.Triangle(t)
		for j := 0; j < 3; j++ {
			e := tp.EdgeOf(t, j)
			if e == topology.NoEdge || cls.UsedSlot(e, tri.Material) {
				continue
			}
			for _, nb := range tp.Neighbors(t, j) {
				if tri.Normal.Dot(s.Triangle(nb).Normal) < cosMin {
					rough[t] = true
				}
			}
		}
	}
	out := make([]mesh.TriangleID, 0, len(rough))
	for t := range rough {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
