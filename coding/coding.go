// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level rMQR coding details.
package coding // import "github.com/unixdj/rmqr/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"rsc.io/qr/gf256"
)

var (
	ErrLevel     = errors.New("rmqr: invalid level")
	ErrVersion   = errors.New("rmqr: invalid version")
	ErrSize      = errors.New("rmqr: unsupported symbol size")
	ErrMode      = errors.New("rmqr: unsupported segment mode")
	ErrTruncated = errors.New("rmqr: truncated bit stream")
	ErrTooLong   = errors.New("rmqr: data too long")
	ErrFormat    = errors.New("rmqr: invalid format information")
)

// Field is the field for rMQR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents an rMQR version.
// The version specifies the size of the symbol, from 7 to 17 modules
// high and from 27 to 139 modules wide.  Its value is the 5 bit
// version indicator stored in the format information.
type Version int

// Symbol versions, named R{height}x{width}.
const (
	R7x43 Version = iota
	R7x59
	R7x77
	R7x99
	R7x139
	R9x43
	R9x59
	R9x77
	R9x99
	R9x139
	R11x27
	R11x43
	R11x59
	R11x77
	R11x99
	R11x139
	R13x27
	R13x43
	R13x59
	R13x77
	R13x99
	R13x139
	R15x43
	R15x59
	R15x77
	R15x99
	R15x139
	R17x43
	R17x59
	R17x77
	R17x99
	R17x139

	MinVersion = R7x43   // Minimum rMQR version
	MaxVersion = R17x139 // Maximum rMQR version
)

func (v Version) valid() bool { return MinVersion <= v && v <= MaxVersion }

func (v Version) String() string {
	if !v.valid() {
		return strconv.Itoa(int(v))
	}
	vt := &vtab[v]
	return "R" + strconv.Itoa(vt.height) + "x" + strconv.Itoa(vt.width)
}

// Width returns the number of modules across.
func (v Version) Width() int { return vtab[v].width }

// Height returns the number of modules down.
func (v Version) Height() int { return vtab[v].height }

// Codewords returns the total number of data and check codewords.
func (v Version) Codewords() int { return vtab[v].bytes }

// Remainder returns the number of remainder bits following the
// codewords in the symbol.
func (v Version) Remainder() int { return vtab[v].remainder }

// Alignment returns the columns of the alignment pattern centres.
// The returned slice must not be modified.
func (v Version) Alignment() []int { return vtab[v].align }

// CountLength returns the length in bits of the character count
// field for the mode.
func (v Version) CountLength(mode Mode) int {
	return int(vtab[v].count[modes[mode].class])
}

// dataBytes returns the number of data bytes that can be
// stored in a symbol with the given version and level.
func (v Version) dataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a symbol with the given version and level.
func (v Version) DataBits(l Level) int { return v.dataBytes(l) * 8 }

// A Block describes Num error correction blocks of Total codewords,
// Data of which are data codewords.
type Block struct {
	Num   int
	Total int
	Data  int
}

// Blocks returns the error correction block structure of version v
// at level l, shorter blocks first.
func (v Version) Blocks(l Level) []Block {
	lev := vtab[v].level[l]
	nd := v.dataBytes(l)
	db := nd / lev.nblock
	normal := (db+1)*lev.nblock - nd
	var b []Block
	if normal != 0 {
		b = append(b, Block{normal, db + lev.check, db})
	}
	if normal != lev.nblock {
		b = append(b, Block{lev.nblock - normal, db + 1 + lev.check, db + 1})
	}
	return b
}

// SizeError reports a symbol size matching no rMQR version.
type SizeError struct {
	Width, Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("rmqr: unsupported symbol size %dx%d", e.Width, e.Height)
}

func (e *SizeError) Is(target error) bool { return target == ErrSize }

// LookupSize returns the version of a symbol width modules across and
// height modules down.
func LookupSize(width, height int) (Version, error) {
	for v := range vtab {
		if vtab[v].width == width && vtab[v].height == height {
			return Version(v), nil
		}
	}
	return -1, &SizeError{width, height}
}

// ParseVersion parses a version name such as "R7x43".
func ParseVersion(s string) (Version, error) {
	for v := MinVersion; v <= MaxVersion; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return -1, fmt.Errorf("%w %q", ErrVersion, s)
}

// A Level represents an rMQR error correction level.
// rMQR symbols support only levels M and H.
type Level int

const (
	M Level = iota
	H
)

func (l Level) valid() bool { return M <= l && l <= H }

func (l Level) String() string {
	if l.valid() {
		return "MH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

type version struct {
	height    int
	width     int
	bytes     int
	remainder int
	count     [4]byte
	level     [2]level
	align     []int
}

type level struct {
	nblock int
	check  int
}
