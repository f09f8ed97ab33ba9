// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "rsc.io/qr/gf256"

// Bits accumulates a bit string, most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a symbol of the
// given version and level.
func NewBits(v Version, l Level) *Bits {
	vt := &vtab[v]
	n := vt.bytes
	if 1 < vt.level[l].nblock {
		n <<= 1
	}
	return &Bits{b: make([]byte, 0, n)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

func (b *Bits) Bits() int {
	return b.nbit
}

func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("rmqr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	for cap(b.b) < n {
		b.b = append(b.b[:cap(b.b)], 0)[:len(b.b)]
	}
}

func (b *Bits) Grow(n int) { b.growTo(len(b.b) + n) }

// Add adds n bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("rmqr: fractional byte")
	}
	b.Grow(n)
	start := len(b.b)
	b.b = b.b[:start+n]
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write appends the low nbit bits of v, nbit <= 32.
func (b *Bits) Write(v uint32, nbit int) {
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// padTo adds up to t terminator bits and pads b to n bits with
// alternating 0xec and 0x11 bytes.
func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	if len(b.b) < n>>3 {
		buf := b.b[len(b.b) : n>>3]
		b.b = b.b[:n>>3]
		for len(buf) >= 2 {
			buf[0], buf[1] = 0xec, 0x11
			buf = buf[2:]
		}
		if len(buf) > 0 {
			buf[0] = 0xec
		}
	}
	b.nbit = len(b.b) * 8
}

// Terminator is the length of the terminator in bits.
const Terminator = 3

// PadTo adds the terminator and pads b to n bits.
func (b *Bits) PadTo(n int) {
	b.growTo((n + 7) >> 3)
	b.padTo(Terminator, n)
}

// AddCheckBytes pads b to the data capacity of version v at level l
// and appends the check bytes for each block.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nd := v.dataBytes(l)
	if b.nbit > nd*8 {
		panic("rmqr: too much data")
	}
	vt := &vtab[v]
	b.growTo(vt.bytes)
	b.padTo(Terminator, nd*8)

	dat := b.Bytes()
	lev := vt.level[l]
	db := nd / lev.nblock
	normal := (db+1)*lev.nblock - nd
	rs := gf256.NewRSEncoder(Field, lev.check)
	for i := 0; i < lev.nblock; i++ {
		if i == normal {
			db++
		}
		rs.ECC(dat[:db], b.Add(lev.check))
		dat = dat[db:]
	}

	if len(b.Bytes()) != vt.bytes {
		panic("rmqr: internal error")
	}
}

// interleave copies src to dst, interleaving nblock blocks.
// Blocks in the end of src may be one byte longer than in the start.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j := range db {
			dst[j*nblock+i] = src[j]
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}

// deinterleave reverses interleave.
func deinterleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := src[db*nblock:]
	src = src[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j := range db {
			dst[j] = src[j*nblock+i]
		}
		dst = dst[db:]
		if i >= normal {
			dst[0] = extra[i-normal]
			dst = dst[1:]
		}
	}
}

// Permute interleaves the data and check blocks of b,
// which must contain both, and returns a BitStream of the result.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.Bytes()
	dst := src
	if nblock := vtab[v].level[l].nblock; nblock != 1 {
		if cap(src) < len(src)*2 {
			dst = make([]byte, len(src))
		} else {
			dst = src[len(src) : len(src)*2]
		}
		nd := v.dataBytes(l)
		interleave(dst[:nd], src[:nd], nblock)
		interleave(dst[nd:], src[nd:], nblock)
	}
	return NewBitStream(dst)
}

// Deinterleave returns the data codewords of cw, the codewords read
// from a symbol of version v at level l, in block order.  Data
// codewords are taken round-robin from the blocks, shorter blocks
// first.  The check codewords that follow are skipped.
func Deinterleave(cw []byte, v Version, l Level) ([]byte, error) {
	if !v.valid() {
		return nil, ErrVersion
	}
	if !l.valid() {
		return nil, ErrLevel
	}
	if len(cw) < v.Codewords() {
		return nil, ErrTruncated
	}
	nd := v.dataBytes(l)
	data := make([]byte, nd)
	deinterleave(data, cw[:nd], vtab[v].level[l].nblock)
	return data, nil
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return len(s.b)*8 - s.pos }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Read returns the next n bits from s, n <= 32, most significant
// first.  If fewer than n bits remain, Read consumes nothing and
// returns false.
func (s *BitStream) Read(n int) (uint32, bool) {
	if s.Len() < n {
		return 0, false
	}
	var v uint32
	for ; n > 0; n-- {
		v = v<<1 | uint32(s.Next())
	}
	return v, true
}
