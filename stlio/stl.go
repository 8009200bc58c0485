// SPDX-License-Identifier: MIT

package stlio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/mesh"
)

var (
	// ErrFormat indicates data that is neither binary nor ASCII STL.
	ErrFormat = errors.New("stlio: unrecognised STL data")
	// ErrSyntax indicates a malformed ASCII STL file.
	ErrSyntax = errors.New("stlio: syntax error")
	// ErrTruncated indicates binary data shorter than its facet count.
	ErrTruncated = errors.New("stlio: truncated binary data")
)

const (
	headerSize = 80
	facetSize  = 4*3*4 + 2
)

// Option configures Read.
type Option func(*Options)

// Options holds the reader settings.
type Options struct {
	Material mesh.Material
	// Solids numbers ASCII solids from Material.
	Solids bool
	// Attributes adds the binary attribute word to Material.
	Attributes bool
}

// DefaultOptions tags every facet with material 0.
func DefaultOptions() Options { return Options{} }

// WithMaterial sets the material of every facet, or the base material of
// WithSolidMaterials and WithAttributeMaterials.
func WithMaterial(m mesh.Material) Option {
	return func(o *Options) { o.Material = m }
}

// WithSolidMaterials gives the k-th solid of an ASCII file material base+k.
func WithSolidMaterials() Option {
	return func(o *Options) { o.Solids = true }
}

// WithAttributeMaterials gives a binary facet material base+attribute.
func WithAttributeMaterials() Option {
	return func(o *Options) { o.Attributes = true }
}

// Read parses binary or ASCII STL from r.
func Read(r io.Reader, opts ...Option) ([]mesh.RawTriangle, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Read: %w", err)
	}

	if isBinary(data) {
		return readBinary(data, o)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return readASCII(data, o)
	}
	if len(data) >= headerSize+4 {
		// looks binary but the size disagrees with the count
		return readBinary(data, o)
	}
	return nil, fmt.Errorf("Read: %d bytes: %w", len(data), ErrFormat)
}

func isBinary(data []byte) bool {
	if len(data) < headerSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[headerSize:])
	return uint64(len(data)) == headerSize+4+uint64(n)*facetSize
}

func readBinary(data []byte, o Options) ([]mesh.RawTriangle, error) {
	n := int(binary.LittleEndian.Uint32(data[headerSize:]))
	body := data[headerSize+4:]
	if len(body) < n*facetSize {
		return nil, fmt.Errorf("readBinary: %d facets need %d bytes, have %d: %w", n, n*facetSize, len(body), ErrTruncated)
	}

	out := make([]mesh.RawTriangle, n)
	for i := range out {
		buf := body[i*facetSize : (i+1)*facetSize]
		for v := 0; v < 3; v++ {
			const start = 3 * 4 // skip the stored normal
			out[i].V[v] = r3.Vector{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[start+12*v:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[start+12*v+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[start+12*v+8:]))),
			}
		}
		out[i].Material = o.Material
		if o.Attributes {
			out[i].Material += mesh.Material(binary.LittleEndian.Uint16(buf[facetSize-2:]))
		}
	}
	return out, nil
}

// asciiParser walks the whitespace separated words of an ASCII file.
type asciiParser struct {
	sc   *bufio.Scanner
	word int
	tok  string
}

func (p *asciiParser) next() bool {
	if !p.sc.Scan() {
		return false
	}
	p.word++
	p.tok = p.sc.Text()
	return true
}

func (p *asciiParser) fail(want string) error {
	if p.tok == "" {
		return fmt.Errorf("readASCII: word %d: want %q, got end of input: %w", p.word, want, ErrSyntax)
	}
	return fmt.Errorf("readASCII: word %d: want %q, got %q: %w", p.word, want, p.tok, ErrSyntax)
}

func (p *asciiParser) expect(words ...string) error {
	for _, w := range words {
		p.tok = ""
		if !p.next() || p.tok != w {
			return p.fail(w)
		}
	}
	return nil
}

func (p *asciiParser) float() (float64, error) {
	p.tok = ""
	if !p.next() {
		return 0, p.fail("number")
	}
	f, err := strconv.ParseFloat(p.tok, 64)
	if err != nil {
		return 0, p.fail("number")
	}
	return f, nil
}

func (p *asciiParser) vector() (r3.Vector, error) {
	var c [3]float64
	for i := range c {
		f, err := p.float()
		if err != nil {
			return r3.Vector{}, err
		}
		c[i] = f
	}
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}, nil
}

// facet parses one facet after its "facet" keyword.
func (p *asciiParser) facet(m mesh.Material) (mesh.RawTriangle, error) {
	t := mesh.RawTriangle{Material: m}
	if err := p.expect("normal"); err != nil {
		return t, err
	}
	if _, err := p.vector(); err != nil {
		return t, err
	}
	if err := p.expect("outer", "loop"); err != nil {
		return t, err
	}
	for v := range t.V {
		if err := p.expect("vertex"); err != nil {
			return t, err
		}
		pos, err := p.vector()
		if err != nil {
			return t, err
		}
		t.V[v] = pos
	}
	return t, p.expect("endloop", "endfacet")
}

func readASCII(data []byte, o Options) ([]mesh.RawTriangle, error) {
	p := &asciiParser{sc: bufio.NewScanner(bytes.NewReader(data))}
	p.sc.Split(bufio.ScanWords)

	var out []mesh.RawTriangle
	solid := -1
	inSolid := false
	for p.next() {
		switch {
		case p.tok == "solid" && !inSolid:
			solid++
			inSolid = true
		case p.tok == "endsolid" && inSolid:
			inSolid = false
		case p.tok == "facet" && inSolid:
			m := o.Material
			if o.Solids {
				m += mesh.Material(solid)
			}
			t, err := p.facet(m)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		case !inSolid:
			// trailing name of an endsolid line
			if solid < 0 {
				return nil, p.fail("solid")
			}
		}
		// other words inside a solid before its first facet are its name
	}
	if err := p.sc.Err(); err != nil {
		return nil, fmt.Errorf("readASCII: %w", err)
	}
	if inSolid {
		p.tok = ""
		return nil, p.fail("endsolid")
	}
	return out, nil
}

// WriteBinary writes tris as binary STL with the given header text. The
// stored normal is the right-hand normal of the corners; the attribute word
// is zero.
func WriteBinary(w io.Writer, header string, tris []mesh.RawTriangle) error {
	buf := make([]byte, headerSize+4, headerSize+4+len(tris)*facetSize)
	copy(buf[:headerSize], header)
	binary.LittleEndian.PutUint32(buf[headerSize:], uint32(len(tris)))

	var f [facetSize]byte
	put := func(off int, v r3.Vector) {
		binary.LittleEndian.PutUint32(f[off:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(f[off+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(f[off+8:], math.Float32bits(float32(v.Z)))
	}
	for _, t := range tris {
		n := t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0]))
		if n.Norm() > 0 {
			n = n.Normalize()
		}
		put(0, n)
		for v, pos := range t.V {
			put(12+12*v, pos)
		}
		buf = append(buf, f[:]...)
	}
	_, err := w.Write(buf)
	return err
}
