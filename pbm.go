// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rmqr

import (
	"bufio"
	"fmt"
	"io"
)

// EncodePBM writes a raw Portable Bit Map image displaying the code
// to w, for use with netpbm.  EncodePBM disregards c.Palette, as PBM
// has no colours.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	width := c.Scale * (c.Width + 2*c.Border)
	height := c.Scale * (c.Height + 2*c.Border)
	if _, err := fmt.Fprintf(b, "P4\n%d %d\n", width, height); err != nil {
		return err
	}
	row := make([]byte, (width+7)/8)
	for y := -c.Border; y < c.Height+c.Border; y++ {
		c.pbmRow(row, y)
		for range c.Scale {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow fills row with one image row of module row y, quiet zone
// included.  Bits past the image width are 0.
func (c *Code) pbmRow(row []byte, y int) {
	clear(row)
	i := 0
	for x := -c.Border; x < c.Width+c.Border; x++ {
		if c.Black(x, y) == c.Reverse {
			i += c.Scale
			continue
		}
		for end := i + c.Scale; i < end; {
			// whole bytes where possible
			if i&7 == 0 && end-i >= 8 {
				row[i>>3] = 0xff
				i += 8
				continue
			}
			row[i>>3] |= 0x80 >> (i & 7)
			i++
		}
	}
}
