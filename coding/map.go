// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Map marks the modules of a symbol reserved for finder, timing
// and alignment patterns and format information.  The remaining
// modules hold data and check codewords and remainder bits.
type Map struct {
	Width  int // number of modules across
	Height int // number of modules down

	res []bool // row major, true is reserved
}

// NewMap returns the Map of a symbol width modules across and height
// modules down with alignment patterns centred on the columns in
// align.  Coordinates outside the symbol are ignored.
func NewMap(width, height int, align []int) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		res:    make([]bool, width*height),
	}
	m.finder()
	m.subFinder()
	m.alignment(align)
	m.timing(align)
	m.format()
	return m
}

func (m *Map) in(x, y int) bool {
	return 0 <= x && x < m.Width && 0 <= y && y < m.Height
}

func (m *Map) set(x, y int) {
	if m.in(x, y) {
		m.res[y*m.Width+x] = true
	}
}

func (m *Map) rect(x, y, w, h int) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			m.set(i, j)
		}
	}
}

// finder reserves the finder pattern and its separator.
func (m *Map) finder() {
	m.rect(0, 0, 7, 7)
	for n := range 8 {
		if n < m.Height {
			m.set(7, n)
		}
		if m.Height >= 9 {
			m.set(n, 7)
		}
	}
}

// subFinder reserves the finder sub-pattern and the corner patterns.
func (m *Map) subFinder() {
	w, h := m.Width, m.Height
	m.rect(w-5, h-5, 5, 5)
	m.rect(0, h-1, 3, 1)
	if h >= 11 {
		m.rect(0, h-2, 2, 1)
	}
	m.rect(w-2, 0, 2, 2)
}

func (m *Map) alignment(align []int) {
	for _, x := range align {
		m.rect(x-1, 0, 3, 3)
		m.rect(x-1, m.Height-3, 3, 3)
	}
}

func (m *Map) timing(align []int) {
	w, h := m.Width, m.Height
	m.rect(0, 0, w, 1)
	m.rect(0, h-1, w, 1)
	m.rect(0, 0, 1, h)
	m.rect(w-1, 0, 1, h)
	for _, x := range align {
		m.rect(x, 0, 1, h)
	}
}

// format reserves the two copies of the format information.
func (m *Map) format() {
	for i := range formatBits {
		x, y := formatLeft(i)
		m.set(x, y)
		x, y = m.formatRight(i)
		m.set(x, y)
	}
}

// Reserved reports whether the module at x, y is not a data module.
func (m *Map) Reserved(x, y int) bool {
	return !m.in(x, y) || m.res[y*m.Width+x]
}

// DataModules returns the number of unreserved modules.
func (m *Map) DataModules() int {
	n := 0
	for _, r := range m.res {
		if !r {
			n++
		}
	}
	return n
}

// Walk calls f for the unreserved modules in placement order until f
// returns false.  The walk starts at column Width-2, row Height-6,
// moving up, and visits two columns at a time, right one first,
// reversing direction at rows 1 and Height-2.
func (m *Map) Walk(f func(x, y int) bool) {
	w, h := m.Width, m.Height
	if h < 3 {
		return
	}
	x, y, dy := w-2, h-6, -1
	if y < 1 {
		y = 1
	}
	for x >= 0 {
		for _, xx := range [2]int{x, x - 1} {
			if !m.Reserved(xx, y) && !f(xx, y) {
				return
			}
		}
		switch {
		case dy < 0 && y == 1:
			x -= 2
			dy = 1
		case dy > 0 && y == h-2:
			x -= 2
			dy = -1
		default:
			y += dy
		}
	}
}

// A MaskFunc reports whether the data module at x, y is inverted.
type MaskFunc func(x, y int) bool

// Mask is the rMQR data mask.
func Mask(x, y int) bool { return (y/2+x/3)%2 == 0 }

// A Sampler reports the colour of the module at x, y.
type Sampler interface {
	Dark(x, y int) bool
}

// Extract reads up to nbit bits from the unreserved modules of s in
// placement order, each dark module a 1 bit, inverted where mask
// reports true.  If mask is nil, no mask is applied.
func (m *Map) Extract(s Sampler, mask MaskFunc, nbit int) *Bits {
	b := &Bits{b: make([]byte, 0, (nbit+7)>>3)}
	if nbit <= 0 {
		return b
	}
	m.Walk(func(x, y int) bool {
		bit := s.Dark(x, y)
		if mask != nil && mask(x, y) {
			bit = !bit
		}
		var v uint32
		if bit {
			v = 1
		}
		b.Write(v, 1)
		return b.nbit < nbit
	})
	return b
}

var maps [MaxVersion + 1]struct {
	once sync.Once
	m    *Map
}

// Map returns the Map of version v, which must be valid.
// The Map is shared and must not be modified.
func (v Version) Map() *Map {
	p := &maps[v]
	p.once.Do(func() {
		vt := &vtab[v]
		p.m = NewMap(vt.width, vt.height, vt.align)
	})
	return p.m
}

// ReadCodewords reads the unmasked codewords of a symbol of version
// v from s.  Remainder bits are read and discarded.
func (v Version) ReadCodewords(s Sampler) ([]byte, error) {
	if !v.valid() {
		return nil, ErrVersion
	}
	n := v.Codewords()
	b := v.Map().Extract(s, Mask, n*8+v.Remainder())
	if b.nbit < n*8 {
		return nil, ErrTruncated
	}
	return b.b[:n], nil
}
