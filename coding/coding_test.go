// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampler func(x, y int) bool

func (f sampler) Dark(x, y int) bool { return f(x, y) }

func allVersions(f func(v Version)) {
	for v := MinVersion; v <= MaxVersion; v++ {
		f(v)
	}
}

func TestVersionTable(t *testing.T) {
	allVersions(func(v Version) {
		m := v.Map()
		assert.Equal(t, v.Width(), m.Width, "%s width", v)
		assert.Equal(t, v.Height(), m.Height, "%s height", v)
		assert.Equal(t, v.Codewords()*8+v.Remainder(), m.DataModules(),
			"%s data modules", v)
		assert.Less(t, v.Remainder(), 8, "%s remainder", v)
		for l := M; l <= H; l++ {
			var total, data int
			for _, b := range v.Blocks(l) {
				total += b.Num * b.Total
				data += b.Num * b.Data
			}
			assert.Equal(t, v.Codewords(), total, "%s-%s total", v, l)
			assert.Equal(t, v.DataBits(l), data*8, "%s-%s data", v, l)
		}
		assert.Greater(t, v.DataBits(M), v.DataBits(H), "%s levels", v)
	})
}

func TestBlocks(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		l    Level
		want []Block
	}{
		{R7x43, M, []Block{{1, 13, 6}}},
		{R7x43, H, []Block{{1, 13, 3}}},
		{R9x77, H, []Block{{1, 24, 8}, {1, 25, 9}}},
		{R9x139, M, []Block{{1, 49, 31}, {1, 50, 32}}},
		{R13x99, H, []Block{{1, 37, 11}, {2, 38, 12}}},
		{R15x139, H, []Block{{1, 39, 13}, {4, 40, 14}}},
		{R17x139, M, []Block{{4, 58, 38}}},
		{R17x139, H, []Block{{2, 38, 12}, {4, 39, 13}}},
	} {
		assert.Equal(t, tt.want, tt.v.Blocks(tt.l), "%s-%s", tt.v, tt.l)
	}
}

func TestVersionNames(t *testing.T) {
	allVersions(func(v Version) {
		p, err := ParseVersion(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, p)
		s, err := LookupSize(v.Width(), v.Height())
		require.NoError(t, err)
		assert.Equal(t, v, s)
	})
	assert.Equal(t, "R7x43", R7x43.String())
	assert.Equal(t, "R17x139", R17x139.String())
	assert.Equal(t, "R11x27", R11x27.String())

	_, err := ParseVersion("R8x43")
	assert.ErrorIs(t, err, ErrVersion)
}

func TestLookupSizeError(t *testing.T) {
	for _, sz := range [][2]int{{43, 8}, {7, 7}, {27, 7}, {0, 0}, {139, 19}} {
		_, err := LookupSize(sz[0], sz[1])
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSize)
		var se *SizeError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, sz[0], se.Width)
		assert.Equal(t, sz[1], se.Height)
	}
}

func TestMapReserved(t *testing.T) {
	m := R7x43.Map()
	// finder and separator
	for y := range 7 {
		for x := range 8 {
			assert.True(t, m.Reserved(x, y), "finder %d,%d", x, y)
		}
	}
	// timing rows and the alignment column
	for x := range m.Width {
		assert.True(t, m.Reserved(x, 0))
		assert.True(t, m.Reserved(x, 6))
	}
	for y := range m.Height {
		assert.True(t, m.Reserved(21, y))
	}
	// format information
	for i := range formatBits {
		assert.True(t, m.Reserved(formatLeft(i)))
		assert.True(t, m.Reserved(m.formatRight(i)))
	}
	// data
	assert.False(t, m.Reserved(12, 3))
	assert.False(t, m.Reserved(34, 1))
	// outside
	assert.True(t, m.Reserved(-1, 0))
	assert.True(t, m.Reserved(0, 7))

	// separator row and bottom left corner
	assert.True(t, R9x43.Map().Reserved(3, 7))
	assert.False(t, R11x27.Map().Reserved(3, 8))
	assert.True(t, R11x43.Map().Reserved(1, 9))
	assert.False(t, R11x43.Map().Reserved(2, 9))
}

func TestMapIndependentOfCaching(t *testing.T) {
	allVersions(func(v Version) {
		m := NewMap(v.Width(), v.Height(), v.Alignment())
		assert.Equal(t, v.Map().res, m.res, "%s", v)
	})
}

func TestWalk(t *testing.T) {
	allVersions(func(v Version) {
		m := v.Map()
		seen := make(map[[2]int]bool)
		n := 0
		m.Walk(func(x, y int) bool {
			require.False(t, m.Reserved(x, y), "%s: %d,%d reserved", v, x, y)
			require.False(t, seen[[2]int{x, y}], "%s: %d,%d twice", v, x, y)
			seen[[2]int{x, y}] = true
			n++
			return true
		})
		assert.Equal(t, m.DataModules(), n, "%s", v)
	})
}

func TestWalkStops(t *testing.T) {
	n := 0
	R9x59.Map().Walk(func(x, y int) bool {
		n++
		return n < 10
	})
	assert.Equal(t, 10, n)
}

func TestWalkColumnPairs(t *testing.T) {
	m := R13x43.Map()
	var prev [2]int
	first := true
	m.Walk(func(x, y int) bool {
		if !first {
			// modules move left within a pair or to the next row or
			// column pair, never right by more than one
			assert.LessOrEqual(t, x, prev[0]+1)
		}
		first = false
		prev = [2]int{x, y}
		return true
	})
}

func TestExtractMask(t *testing.T) {
	m := R11x43.Map()
	var pos [][2]int
	m.Walk(func(x, y int) bool {
		pos = append(pos, [2]int{x, y})
		return true
	})

	light := sampler(func(x, y int) bool { return false })
	b := m.Extract(light, Mask, len(pos))
	require.Equal(t, len(pos), b.Bits())
	s := NewBitStream(b.b)
	for _, p := range pos {
		want := byte(0)
		if Mask(p[0], p[1]) {
			want = 1
		}
		require.Equal(t, want, s.Next(), "%v", p)
	}

	dark := sampler(func(x, y int) bool { return true })
	b = m.Extract(dark, nil, 16)
	assert.Equal(t, 16, b.Bits())
	assert.Equal(t, []byte{0xff, 0xff}, b.b)

	assert.Equal(t, 0, m.Extract(dark, Mask, 0).Bits())
}

func TestMask(t *testing.T) {
	assert.True(t, Mask(0, 0))
	assert.True(t, Mask(2, 1))
	assert.False(t, Mask(3, 0))
	assert.False(t, Mask(0, 2))
	assert.True(t, Mask(3, 2))
}

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(3, 3)
	b.Write(5, 3)
	b.Write(0x1ff, 9)
	assert.Equal(t, 15, b.Bits())
	assert.Equal(t, []byte{0x77, 0xfe}, b.b)
	b.Write(1, 1)
	assert.Equal(t, []byte{0x77, 0xff}, b.Bytes())
	b.Reset()
	assert.Equal(t, 0, b.Bits())
}

func TestPadTo(t *testing.T) {
	var b Bits
	b.Write(0xff, 8)
	b.Write(1, 1)
	b.PadTo(6 * 8)
	assert.Equal(t, []byte{0xff, 0x80, 0xec, 0x11, 0xec, 0x11}, b.Bytes())

	b.Reset()
	b.Write(0x7f, 7)
	b.PadTo(2 * 8)
	assert.Equal(t, []byte{0xfe, 0x00}, b.Bytes())

	b.Reset()
	b.Write(0xffff, 15)
	b.PadTo(2 * 8)
	assert.Equal(t, []byte{0xff, 0xfe}, b.Bytes())
}

func TestBitStreamRead(t *testing.T) {
	s := NewBitStream([]byte{0x77, 0xff})
	v, ok := s.Read(3)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), v)
	v, ok = s.Read(3)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), v)
	assert.Equal(t, 10, s.Len())
	_, ok = s.Read(11)
	assert.False(t, ok)
	assert.Equal(t, 10, s.Len())
	v, ok = s.Read(10)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x3ff), v)
	assert.Equal(t, byte(0), s.Next())
}

// roundRobin interleaves blocks the way a symbol stores them.
func roundRobin(blocks [][]byte) []byte {
	var out []byte
	for i := 0; ; i++ {
		n := 0
		for _, b := range blocks {
			if i < len(b) {
				out = append(out, b[i])
				n++
			}
		}
		if n == 0 {
			return out
		}
	}
}

func TestDeinterleave(t *testing.T) {
	allVersions(func(v Version) {
		for l := M; l <= H; l++ {
			var data, check [][]byte
			var want []byte
			c := byte(0)
			for _, b := range v.Blocks(l) {
				for range b.Num {
					d := make([]byte, b.Data)
					for i := range d {
						d[i] = c
						c++
					}
					data = append(data, d)
					want = append(want, d...)
					check = append(check, make([]byte, b.Total-b.Data))
				}
			}
			cw := append(roundRobin(data), roundRobin(check)...)
			require.Len(t, cw, v.Codewords())
			got, err := Deinterleave(cw, v, l)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s-%s", v, l)
		}
	})
}

func TestDeinterleaveErrors(t *testing.T) {
	_, err := Deinterleave(make([]byte, 12), R7x43, M)
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = Deinterleave(make([]byte, 13), R7x43, Level(5))
	assert.ErrorIs(t, err, ErrLevel)
	_, err = Deinterleave(make([]byte, 13), Version(40), M)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestPermute(t *testing.T) {
	b := NewBits(R9x139, H)
	require.NoError(t, Segment{"interleaving test", Byte}.Encode(b, R9x139))
	b.AddCheckBytes(R9x139, H)
	orig := append([]byte(nil), b.Bytes()...)
	s := b.Permute(R9x139, H)
	got, err := Deinterleave(s.Bytes(), R9x139, H)
	require.NoError(t, err)
	assert.Equal(t, orig[:R9x139.DataBits(H)/8], got)
}

func TestCheckBytes(t *testing.T) {
	for _, v := range []Version{R7x43, R9x77, R13x99, R17x139} {
		for l := M; l <= H; l++ {
			b := NewBits(v, l)
			require.NoError(t, Segment{"ok", Byte}.Encode(b, v))
			b.AddCheckBytes(v, l)
			all := b.Bytes()
			nd := v.DataBits(l) / 8
			data, check := all[:nd], all[nd:]
			for _, blk := range v.Blocks(l) {
				nc := blk.Total - blk.Data
				for range blk.Num {
					cw := append(append([]byte(nil), data[:blk.Data]...), check[:nc]...)
					data, check = data[blk.Data:], check[nc:]
					for i := range nc {
						var s byte
						x := Field.Exp(i)
						for _, c := range cw {
							s = Field.Mul(s, x) ^ c
						}
						assert.Zero(t, s, "%s-%s syndrome %d", v, l, i)
					}
				}
			}
		}
	}
}

func TestDecodeByteSegment(t *testing.T) {
	var b Bits
	require.NoError(t, Segment{"HELLO", Byte}.Encode(&b, R7x43))
	b.PadTo(R7x43.DataBits(M))
	got, err := DecodeByteSegment(b.Bytes(), R7x43)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(got))

	_, err = DecodeByteSegment(b.Bytes()[:5], R7x43)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeByteSegment(nil, R7x43)
	assert.ErrorIs(t, err, ErrTruncated)

	// numeric mode indicator
	_, err = DecodeByteSegment([]byte{0x20, 0}, R7x43)
	assert.ErrorIs(t, err, ErrMode)
	var me ModeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ModeError(1), me)
	assert.Contains(t, err.Error(), "numeric")

	// empty payload
	got, err = DecodeByteSegment([]byte{0x60, 0}, R9x43)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSegmentEncode(t *testing.T) {
	var b Bits
	require.NoError(t, Segment{"été", Latin1}.Encode(&b, R7x43))
	assert.Equal(t, 3+3+3*8, b.Bits())

	_, err := Segment{"日本", Latin1}.EncodedLength(R7x43)
	var se SegmentError
	assert.ErrorAs(t, err, &se)

	_, err = Segment{"12345678", Byte}.EncodedLength(R7x43)
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = Segment{"123", Numeric}.EncodedLength(R7x43)
	assert.ErrorIs(t, err, ErrMode)

	n, err := Segment{"1234567", Byte}.EncodedLength(R7x43)
	require.NoError(t, err)
	assert.Equal(t, 62, n)
}

func TestFormat(t *testing.T) {
	allVersions(func(v Version) {
		for l := M; l <= H; l++ {
			c, err := Encode(v, l)
			require.NoError(t, err)
			gv, gl, err := ReadFormat(c, c.Width, c.Height)
			require.NoError(t, err)
			assert.Equal(t, v, gv)
			assert.Equal(t, l, gl)

			// damage the left copy
			for i := range 4 {
				x, y := formatLeft(i)
				c.Bitmap[y*c.Stride+x/8] ^= 0x80 >> (x & 7)
			}
			gv, gl, err = ReadFormat(c, c.Width, c.Height)
			require.NoError(t, err, "%s-%s right copy", v, l)
			assert.Equal(t, v, gv)
			assert.Equal(t, l, gl)
		}
	})

	light := sampler(func(x, y int) bool { return false })
	_, _, err := ReadFormat(light, 43, 7)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestEncodeDecode(t *testing.T) {
	allVersions(func(v Version) {
		for l, text := range map[Level]string{M: "hello", H: "hi"} {
			c, err := Encode(v, l, Segment{text, Byte})
			require.NoError(t, err, "%s-%s", v, l)
			cw, err := v.ReadCodewords(c)
			require.NoError(t, err)
			data, err := Deinterleave(cw, v, l)
			require.NoError(t, err)
			got, err := DecodeByteSegment(data, v)
			require.NoError(t, err)
			assert.Equal(t, text, string(got), "%s-%s", v, l)
		}
	})
}

func TestEncodeTooLong(t *testing.T) {
	_, err := Encode(R7x43, M, Segment{"1234567", Byte})
	assert.ErrorIs(t, err, ErrTooLong)
	_, err = Encode(R7x43, Level(2))
	assert.ErrorIs(t, err, ErrLevel)
	_, err = Encode(Version(-1), M)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestFunctionPatterns(t *testing.T) {
	c, err := Encode(R11x27, M, Segment{"x", Byte})
	require.NoError(t, err)
	// finder ring and centre
	for i := range 7 {
		assert.True(t, c.Black(i, 0))
		assert.True(t, c.Black(0, i))
		assert.True(t, c.Black(6, i))
	}
	assert.False(t, c.Black(1, 1))
	assert.True(t, c.Black(3, 3))
	// separator
	assert.False(t, c.Black(7, 0))
	assert.False(t, c.Black(0, 7))
	// sub-pattern
	assert.True(t, c.Black(26, 10))
	assert.False(t, c.Black(23, 7))
	assert.True(t, c.Black(24, 8))
	// timing
	assert.True(t, c.Black(10, 0))
	assert.False(t, c.Black(11, 0))
	assert.True(t, c.Black(26, 4))
	assert.False(t, c.Black(26, 5))
}
