// SPDX-License-Identifier: MIT

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// TrianglesIntersect reports whether triangles t1 and t2 overlap by more
// than eps. Triangles that merely touch (a shared vertex, a shared edge, a
// vertex resting on the other face) do not intersect.
//
// The test rejects early when one triangle does not cross the other's
// plane, then compares the two intervals the
// triangles cut out of the line where both planes meet. Coplanar pairs are
// resolved in 2D by edge crossings and strict containment.
func TrianglesIntersect(t1, t2 [3]r3.Vector, eps float64) bool {
	n1 := t1[1].Sub(t1[0]).Cross(t1[2].Sub(t1[0]))
	n2 := t2[1].Sub(t2[0]).Cross(t2[2].Sub(t2[0]))
	if n1.Norm2() == 0 || n2.Norm2() == 0 {
		return false
	}
	n1 = n1.Normalize()
	n2 = n2.Normalize()

	d2 := planeDistances(t2, n1, t1[0], eps)
	if d2[0] == 0 && d2[1] == 0 && d2[2] == 0 {
		return coplanarIntersect(t1, t2, n1, eps)
	}
	if !straddles(d2) {
		return false
	}
	d1 := planeDistances(t1, n2, t2[0], eps)
	if !straddles(d1) {
		return false
	}

	axis := n1.Cross(n2).LargestComponent()
	p1 := project(t1, axis)
	p2 := project(t2, axis)
	lo1, hi1, ok1 := interval(p1, d1)
	lo2, hi2, ok2 := interval(p2, d2)
	if !ok1 || !ok2 {
		return false
	}

	return math.Min(hi1, hi2)-math.Max(lo1, lo2) > eps
}

// planeDistances returns signed distances of t's vertices to the plane
// through o with unit normal n, snapping |d| <= eps to zero.
func planeDistances(t [3]r3.Vector, n, o r3.Vector, eps float64) [3]float64 {
	var d [3]float64
	for i, v := range t {
		d[i] = n.Dot(v.Sub(o))
		if math.Abs(d[i]) <= eps {
			d[i] = 0
		}
	}
	return d
}

// straddles reports whether the vertices lie strictly on both sides of a
// plane. A triangle that only reaches the plane with a vertex or an edge
// touches the other triangle at most along its own boundary.
func straddles(d [3]float64) bool {
	var pos, neg bool
	for _, x := range d {
		pos = pos || x > 0
		neg = neg || x < 0
	}
	return pos && neg
}

func project(t [3]r3.Vector, axis r3.Axis) [3]float64 {
	var p [3]float64
	for i, v := range t {
		switch axis {
		case r3.XAxis:
			p[i] = v.X
		case r3.YAxis:
			p[i] = v.Y
		default:
			p[i] = v.Z
		}
	}
	return p
}

// interval returns the parameter range a triangle covers on the plane
// intersection line, given projections p and plane distances d.
// ok is false when the triangle lies in the other plane.
func interval(p, d [3]float64) (lo, hi float64, ok bool) {
	switch {
	case d[0]*d[1] > 0:
		lo, hi = cut(p[2], p[0], p[1], d[2], d[0], d[1])
	case d[0]*d[2] > 0:
		lo, hi = cut(p[1], p[0], p[2], d[1], d[0], d[2])
	case d[1]*d[2] > 0 || d[0] != 0:
		lo, hi = cut(p[0], p[1], p[2], d[0], d[1], d[2])
	case d[1] != 0:
		lo, hi = cut(p[1], p[0], p[2], d[1], d[0], d[2])
	case d[2] != 0:
		lo, hi = cut(p[2], p[0], p[1], d[2], d[0], d[1])
	default:
		return 0, 0, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// cut intersects the two edges leaving the lone vertex a with the plane.
func cut(a, b, c, da, db, dc float64) (float64, float64) {
	return a + (b-a)*da/(da-db), a + (c-a)*da/(da-dc)
}

type vec2 struct{ x, y float64 }

func (v vec2) sub(o vec2) vec2 { return vec2{v.x - o.x, v.y - o.y} }

func (v vec2) len() float64 { return math.Hypot(v.x, v.y) }

// orient is twice the signed area of (a,b,c).
func orient(a, b, c vec2) float64 {
	ab, ac := b.sub(a), c.sub(a)
	return ab.x*ac.y - ab.y*ac.x
}

// flatten drops the dominant coordinate of n. The 2D tests below are
// sign-symmetric, so the resulting orientation does not matter.
func flatten(t [3]r3.Vector, n r3.Vector) [3]vec2 {
	var out [3]vec2
	axis := n.Abs().LargestComponent()
	for i, v := range t {
		switch axis {
		case r3.XAxis:
			out[i] = vec2{v.Y, v.Z}
		case r3.YAxis:
			out[i] = vec2{v.Z, v.X}
		default:
			out[i] = vec2{v.X, v.Y}
		}
	}
	return out
}

func coplanarIntersect(t1, t2 [3]r3.Vector, n r3.Vector, eps float64) bool {
	a := flatten(t1, n)
	b := flatten(t2, n)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsCross(a[i], a[(i+1)%3], b[j], b[(j+1)%3], eps) {
				return true
			}
		}
	}
	for i := 0; i < 3; i++ {
		if strictlyInside(a[i], b, eps) || strictlyInside(b[i], a, eps) {
			return true
		}
	}
	ca := vec2{(a[0].x + a[1].x + a[2].x) / 3, (a[0].y + a[1].y + a[2].y) / 3}
	cb := vec2{(b[0].x + b[1].x + b[2].x) / 3, (b[0].y + b[1].y + b[2].y) / 3}
	return strictlyInside(ca, b, eps) || strictlyInside(cb, a, eps)
}

// segmentsCross reports a proper crossing of pq and rs; shared endpoints
// and collinear overlaps do not count.
func segmentsCross(p, q, r, s vec2, eps float64) bool {
	lpq, lrs := q.sub(p).len(), s.sub(r).len()
	o1, o2 := orient(p, q, r), orient(p, q, s)
	o3, o4 := orient(r, s, p), orient(r, s, q)
	return ((o1 > eps*lpq && o2 < -eps*lpq) || (o1 < -eps*lpq && o2 > eps*lpq)) &&
		((o3 > eps*lrs && o4 < -eps*lrs) || (o3 < -eps*lrs && o4 > eps*lrs))
}

func strictlyInside(p vec2, t [3]vec2, eps float64) bool {
	var pos, neg int
	for i := 0; i < 3; i++ {
		a, b := t[i], t[(i+1)%3]
		o := orient(a, b, p)
		l := b.sub(a).len()
		switch {
		case o > eps*l:
			pos++
		case o < -eps*l:
			neg++
		}
	}
	return pos == 3 || neg == 3
}
