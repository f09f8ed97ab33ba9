// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Format information is 6 data bits, the error correction level and
// the version indicator, followed by a 12 bit BCH remainder.  The two
// copies are masked with different patterns.
const (
	formatBits  = 18
	formatPoly  = 0x1f25
	formatMaskL = 0x1fab2 // finder pattern side
	formatMaskR = 0x20a7b // finder sub-pattern side
)

// formatLeft returns the position of bit i of the format information
// next to the finder pattern.
func formatLeft(i int) (x, y int) {
	return 8 + i/5, 1 + i%5
}

// formatRight returns the position of bit i of the format information
// next to the finder sub-pattern.
func (m *Map) formatRight(i int) (x, y int) {
	if i < 15 {
		return m.Width - 8 + i/5, m.Height - 6 + i%5
	}
	return m.Width - 5 + i - 15, m.Height - 6
}

func bch(d uint32) uint32 {
	rem := d << 12
	for i := 5; i >= 0; i-- {
		if rem&(1<<(12+i)) != 0 {
			rem ^= formatPoly << i
		}
	}
	return d<<12 | rem
}

// FormatBits returns the masked format information of version v at
// level l for the left and right copies.  Bit i is placed i-th.
func FormatBits(v Version, l Level) (left, right uint32) {
	f := bch(uint32(l)<<5 | uint32(v))
	return f ^ formatMaskL, f ^ formatMaskR
}

func parseFormat(f uint32) (Version, Level, bool) {
	if bch(f>>12) != f {
		return 0, 0, false
	}
	v, l := Version(f>>12&0x1f), Level(f>>17)
	return v, l, true
}

func readFormat(s Sampler, n int, pos func(int) (int, int)) uint32 {
	var f uint32
	for i := range n {
		if s.Dark(pos(i)) {
			f |= 1 << i
		}
	}
	return f
}

// ReadFormat reads the format information of a symbol width modules
// across and height modules down from s.  The copy next to the finder
// pattern is tried first.  A copy is accepted if its BCH code is
// valid and its version matches the symbol size.
func ReadFormat(s Sampler, width, height int) (Version, Level, error) {
	m := &Map{Width: width, Height: height}
	for _, c := range [2]struct {
		mask uint32
		pos  func(int) (int, int)
	}{
		{formatMaskL, formatLeft},
		{formatMaskR, m.formatRight},
	} {
		f := readFormat(s, formatBits, c.pos) ^ c.mask
		v, l, ok := parseFormat(f)
		if ok && v.valid() && v.Width() == width && v.Height() == height {
			return v, l, nil
		}
	}
	return -1, -1, ErrFormat
}
