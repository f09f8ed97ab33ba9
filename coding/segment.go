// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

// A Mode is an rMQR segment encoding mode.
type Mode int

// Encoding modes.  Only Byte and Latin1 segments can be encoded.
const (
	Numeric      Mode = iota // numeric mode
	Alphanumeric             // alphanumeric mode
	Byte                     // byte mode, any data
	Kanji                    // kanji mode
	Latin1                   // byte mode, UTF-8 text encoded as ISO 8859-1
)

// Mode indicators.
const (
	indTerminator = 0
	indByte       = 3
	indECI        = 7
)

var modes = [...]struct {
	name      string
	indicator byte // 3 bit mode indicator
	class     byte // index into version count lengths
}{
	Numeric:      {"numeric", 1, 0},
	Alphanumeric: {"alphanumeric", 2, 1},
	Byte:         {"byte", indByte, 2},
	Kanji:        {"kanji", 4, 3},
	Latin1:       {"latin-1", indByte, 2},
}

func (mode Mode) String() string {
	if 0 <= mode && int(mode) < len(modes) {
		return modes[mode].name
	}
	return strconv.Itoa(int(mode))
}

// ModeError represents an unsupported mode indicator.
type ModeError byte

func (e ModeError) Error() string {
	var name string
	switch e {
	case indTerminator:
		name = "terminator"
	case indECI:
		name = "eci"
	default:
		name = strconv.Itoa(int(e))
		for _, m := range modes {
			if m.indicator == byte(e) {
				name = m.name
				break
			}
		}
	}
	return fmt.Sprintf("rmqr: unsupported mode %s (indicator %03b)", name, byte(e))
}

func (e ModeError) Is(target error) bool { return target == ErrMode }

// A Segment describes an rMQR segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents a Segment that cannot be encoded.
type SegmentError Segment

func (e SegmentError) Error() string {
	return fmt.Sprintf("rmqr: non-%s string %#q", e.Mode, e.Text)
}

// Transform returns the byte mode segment encoding seg.
func (seg Segment) Transform() (Segment, error) {
	switch seg.Mode {
	case Byte:
		return seg, nil
	case Latin1:
		t, err := charmap.ISO8859_1.NewEncoder().String(seg.Text)
		if err != nil {
			return seg, SegmentError(seg)
		}
		return Segment{t, Byte}, nil
	}
	if 0 <= seg.Mode && int(seg.Mode) < len(modes) {
		return seg, ModeError(modes[seg.Mode].indicator)
	}
	return seg, fmt.Errorf("%w %d", ErrMode, seg.Mode)
}

// EncodedLength returns the length in bits of seg encoded in version
// v, including the header.
func (seg Segment) EncodedLength(v Version) (int, error) {
	t, err := seg.Transform()
	if err != nil {
		return 0, err
	}
	n := v.CountLength(Byte)
	if len(t.Text) >= 1<<n {
		return 0, fmt.Errorf("%w: %d bytes in version %s", ErrTooLong, len(t.Text), v)
	}
	return 3 + n + 8*len(t.Text), nil
}

// Encode appends the encoding of seg in version v to b.
func (seg Segment) Encode(b *Bits, v Version) error {
	if _, err := seg.EncodedLength(v); err != nil {
		return err
	}
	t, _ := seg.Transform()
	s := t.Text
	b.Write(indByte, 3)
	b.Write(uint32(len(s)), v.CountLength(Byte))
	if b.nbit&7 != 0 {
		for ; len(s) >= 4; s = s[4:] {
			w := uint32(s[0])<<24 | uint32(s[1])<<16 |
				uint32(s[2])<<8 | uint32(s[3])
			b.Write(w, 32)
		}
		if s != "" {
			var w uint32
			for i := 0; i < len(s); i++ {
				w = w<<8 | uint32(s[i])
			}
			b.Write(w, 8*len(s))
		}
	} else {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
	}
	return nil
}

// DecodeByteSegment decodes the first segment of data, the data
// codewords of a symbol of version v, which must be a byte mode
// segment, and returns its payload.
func DecodeByteSegment(data []byte, v Version) ([]byte, error) {
	if !v.valid() {
		return nil, ErrVersion
	}
	s := NewBitStream(data)
	ind, ok := s.Read(3)
	if !ok {
		return nil, ErrTruncated
	}
	if ind != indByte {
		return nil, ModeError(ind)
	}
	n, ok := s.Read(v.CountLength(Byte))
	if !ok || s.Len() < int(n)*8 {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	for i := range out {
		c, _ := s.Read(8)
		out[i] = byte(c)
	}
	return out, nil
}
