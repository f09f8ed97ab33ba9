// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"sync"
)

// A Code is a rectangular module grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Width  int    // number of modules across
	Height int    // number of modules down
	Stride int    // number of bytes per row
}

func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Dark is Black, for reading a Code as a Sampler.
func (c *Code) Dark(x, y int) bool { return c.Black(x, y) }

// A Plan describes how to construct an rMQR symbol
// with a specific version and level.
type Plan struct {
	Version Version // symbol version
	Level   Level   // error correction level

	DataBits int // number of data bits
	Width    int // number of modules across
	Height   int // number of modules down
	Stride   int // number of bytes per row

	Map     *Map   // reserved modules, shared
	Pattern []byte // function patterns and format information
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version][level].
// If it doesn't exist, it is created.
func makePlan(version Version, level Level) (*Plan, error) {
	if !version.valid() {
		return nil, ErrVersion
	}
	if !level.valid() {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() { p.p = vplan(version, level) })
	return p.p, nil
}

// Serialise writes bits from s to the data modules of bitmap in
// placement order, applying the data mask.  Past the end of s
// remainder bits are written as 0.
func (p *Plan) Serialise(s BitStream, bitmap []byte) {
	p.Map.Walk(func(x, y int) bool {
		if (s.Next() != 0) != Mask(x, y) {
			bitmap[y*p.Stride+x>>3] ^= 0x80 >> (x & 7)
		}
		return true
	})
}

// An Encoder encodes rMQR symbols of a specific version and level.
type Encoder struct {
	p *Plan
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	return &Encoder{p, NewBits(version, level)}, nil
}

// Write encodes the segments and appends them to the data.
func (e *Encoder) Write(text ...Segment) error {
	for _, t := range text {
		if err := t.Encode(e.b, e.p.Version); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards the data written to e.
func (e *Encoder) Reset() { e.b.Reset() }

// Code returns the symbol encoding the data written to e.
// The data is consumed.
func (e *Encoder) Code() (*Code, error) {
	p := e.p
	if n := e.b.Bits(); n > p.DataBits {
		return nil, fmt.Errorf("%w: cannot encode %d bits into %d-bit %s-%s code",
			ErrTooLong, n, p.DataBits, p.Version, p.Level)
	}
	e.b.AddCheckBytes(p.Version, p.Level)
	c := &Code{
		Bitmap: append([]byte(nil), p.Pattern...),
		Width:  p.Width,
		Height: p.Height,
		Stride: p.Stride,
	}
	p.Serialise(e.b.Permute(p.Version, p.Level), c.Bitmap)
	e.b.Reset()
	return c, nil
}

// Encode encodes the segments into a symbol.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	e.Reset()
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes the segments into a symbol of the given version
// and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}

// pattern draws function patterns into a bitmap.
type pattern struct {
	b      []byte
	stride int
}

func (p pattern) set(x, y int, black bool) {
	off, bit := y*p.stride+x>>3, byte(0x80)>>(x&7)
	if black {
		p.b[off] |= bit
	} else {
		p.b[off] &^= bit
	}
}

// box draws concentric square rings of size 2r+1 centred on cx, cy,
// black where dark reports true for the ring's distance from the
// centre.
func (p pattern) box(cx, cy, r int, dark func(d int) bool) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			p.set(cx+x, cy+y, dark(max(abs(x), abs(y))))
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// vplan creates the Plan for version v and level l.
func vplan(v Version, l Level) *Plan {
	vt := &vtab[v]
	w, h := vt.width, vt.height
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Width:    w,
		Height:   h,
		Stride:   (w + 7) >> 3,
		Map:      v.Map(),
	}
	p.Pattern = make([]byte, p.Stride*h)
	pat := pattern{p.Pattern, p.Stride}

	// timing patterns
	for x := range w {
		pat.set(x, 0, x&1 == 0)
		pat.set(x, h-1, x&1 == 0)
	}
	for y := range h {
		pat.set(0, y, y&1 == 0)
		pat.set(w-1, y, y&1 == 0)
		for _, x := range vt.align {
			pat.set(x, y, y&1 == 0)
		}
	}

	// finder pattern and separator
	pat.box(3, 3, 3, func(d int) bool { return d != 2 })
	for n := range min(8, h) {
		pat.set(7, n, false)
	}
	if h >= 9 {
		for n := range 8 {
			pat.set(n, 7, false)
		}
	}

	// finder sub-pattern
	pat.box(w-3, h-3, 2, func(d int) bool { return d != 1 })

	// corner patterns
	pat.set(w-2, 0, true)
	pat.set(w-1, 1, true)
	pat.set(w-2, 1, false)
	pat.set(1, h-1, true)
	if h >= 11 {
		pat.set(0, h-2, true)
		pat.set(1, h-2, false)
	}

	// alignment patterns
	for _, x := range vt.align {
		pat.box(x, 1, 1, func(d int) bool { return d != 0 })
		pat.box(x, h-2, 1, func(d int) bool { return d != 0 })
	}

	// format information
	left, right := FormatBits(v, l)
	for i := range formatBits {
		x, y := formatLeft(i)
		pat.set(x, y, left>>i&1 != 0)
		x, y = p.Map.formatRight(i)
		pat.set(x, y, right>>i&1 != 0)
	}
	return p
}
