// SPDX-License-Identifier: MIT

// Package spatial provides the bounding-volume index used for point merging
// and overlap candidate search.
//
// The Octree stores (box, id) pairs. Leaves split into eight octants once
// they hold more than MaxItems entries, until MaxDepth is reached. An entry
// is stored in every child it overlaps, so queries deduplicate ids.
// Entries whose box lies outside the root bounds are kept in an overflow
// list that every query scans.
//
// Determinism: Query returns ids in ascending order.
//
// Complexity: Insert is O(depth) amortized for small boxes; Query is
// O(depth + k log k) for k candidates.
package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/facetopo/geom"
)

// Sentinel errors.
var (
	// ErrEmptyBounds is returned when the root bounds contain no point.
	ErrEmptyBounds = errors.New("spatial: empty bounds")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("spatial: invalid option supplied")
)

const (
	defaultMaxItems = 10
	defaultMaxDepth = 8
)

// Option configures an Octree.
type Option func(*Options)

// Options holds the octree tuning knobs.
type Options struct {
	// MaxItems is the leaf capacity before a split.
	MaxItems int
	// MaxDepth bounds the subdivision depth; leaves at MaxDepth never split.
	MaxDepth int

	err error
}

// DefaultOptions returns MaxItems=10, MaxDepth=8.
func DefaultOptions() Options {
	return Options{MaxItems: defaultMaxItems, MaxDepth: defaultMaxDepth}
}

// WithMaxItems sets the leaf capacity (must be >= 1).
func WithMaxItems(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: MaxItems must be >= 1 (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxItems = n
	}
}

// WithMaxDepth sets the maximum depth (must be >= 0).
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

type entry struct {
	box geom.Box
	id  int
}

type node struct {
	bounds   geom.Box
	depth    int
	items    []entry
	children *[8]node
}

// Octree is a loose box octree. The zero value is not usable; call New.
type Octree struct {
	opts     Options
	root     node
	overflow []entry
	n        int
}

// New builds an empty octree over bounds. The bounds are grown by 10% of
// their diagonal so entries on the hull do not land in the overflow list.
func New(bounds geom.Box, opts ...Option) (*Octree, error) {
	if bounds.IsEmpty() {
		return nil, ErrEmptyBounds
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	grown := bounds.ExpandRel(0.1)
	if grown.Diagonal() == 0 {
		grown = grown.Expand(1)
	}

	return &Octree{opts: o, root: node{bounds: grown}}, nil
}

// Len returns the number of inserted entries.
func (t *Octree) Len() int { return t.n }

// Insert stores id under box.
func (t *Octree) Insert(box geom.Box, id int) {
	t.n++
	e := entry{box: box, id: id}
	if !t.root.bounds.Intersects(box) {
		t.overflow = append(t.overflow, e)
		return
	}
	t.insert(&t.root, e)
}

func (t *Octree) insert(n *node, e entry) {
	if n.children == nil {
		n.items = append(n.items, e)
		if len(n.items) > t.opts.MaxItems && n.depth < t.opts.MaxDepth {
			t.split(n)
		}
		return
	}
	for i := range n.children {
		c := &n.children[i]
		if c.bounds.Intersects(e.box) {
			t.insert(c, e)
		}
	}
}

func (t *Octree) split(n *node) {
	var kids [8]node
	for i := range kids {
		kids[i] = node{bounds: n.bounds.Octant(i), depth: n.depth + 1}
	}
	n.children = &kids
	items := n.items
	n.items = nil
	for _, e := range items {
		t.insert(n, e)
	}
}

// Query returns the ids of all entries whose box intersects box, ascending
// and without duplicates.
func (t *Octree) Query(box geom.Box) []int {
	seen := make(map[int]struct{})
	t.query(&t.root, box, seen)
	for _, e := range t.overflow {
		if e.box.Intersects(box) {
			seen[e.id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

func (t *Octree) query(n *node, box geom.Box, seen map[int]struct{}) {
	if !n.bounds.Intersects(box) {
		return
	}
	for _, e := range n.items {
		if e.box.Intersects(box) {
			seen[e.id] = struct{}{}
		}
	}
	if n.children == nil {
		return
	}
	for i := range n.children {
		t.query(&n.children[i], box, seen)
	}
}
