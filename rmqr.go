// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rmqr decodes and encodes rectangular Micro QR (rMQR) codes.

Decoding reads an upright, unskewed raster image of a single byte mode
symbol.  Error correction is not performed: check codewords are read
and discarded.
*/
package rmqr // import "github.com/unixdj/rmqr"

import (
	"errors"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/unixdj/rmqr/coding"
)

// A Level denotes an rMQR error correction level.
type Level int

const (
	M Level = iota // 15% recovery capacity
	H              // 30% recovery capacity
)

func (l Level) String() string { return coding.Level(l).String() }

// ParseLevel parses "m" or "h", in either case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "m":
		return M, nil
	case "h":
		return H, nil
	}
	return 0, coding.ErrLevel
}

// ErrArgs is returned by encoders for an invalid Code.
var ErrArgs = errors.New("rmqr: invalid Code")

// Auto selects the smallest version the data fits in.
const Auto coding.Version = -1

// byArea lists versions in order of increasing area.
var byArea = func() []coding.Version {
	v := make([]coding.Version, 0, coding.MaxVersion+1)
	for i := coding.MinVersion; i <= coding.MaxVersion; i++ {
		v = append(v, i)
	}
	slices.SortStableFunc(v, func(a, b coding.Version) int {
		return a.Width()*a.Height() - b.Width()*b.Height()
	})
	return v
}()

// Encode returns an encoding of text in byte mode at the given error
// correction level in the smallest version it fits.
func Encode(text string, level Level) (*Code, error) {
	return EncodeData(coding.Segment{Text: text, Mode: coding.Byte}, Auto, level)
}

// EncodeData returns an encoding of seg at the given error
// correction level in version v, or in the smallest version seg fits
// if v is Auto.
func EncodeData(seg coding.Segment, v coding.Version, level Level) (*Code, error) {
	l := coding.Level(level)
	if v != Auto {
		return newCode(coding.Encode(v, l, seg))
	}
	if _, err := seg.Transform(); err != nil {
		return nil, err
	}
	for _, v := range byArea {
		n, err := seg.EncodedLength(v)
		if err != nil || n > v.DataBits(l) {
			continue
		}
		return newCode(coding.Encode(v, l, seg))
	}
	return nil, errors.New("rmqr: text too long to encode")
}

func newCode(cc *coding.Code, err error) (*Code, error) {
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap: cc.Bitmap,
		Width:  cc.Width,
		Height: cc.Height,
		Stride: cc.Stride,
		Scale:  8,
		Border: 2,
	}, nil
}

// A Code is a rectangular module grid.
// It implements image.Image.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white
	Width   int             // number of modules across
	Height  int             // number of modules down
	Stride  int             // number of bytes per row
	Scale   int             // number of image pixels per module
	Border  int             // quiet zone width in modules
	Palette *[2]color.Color // background and foreground, default white and black
	Reverse bool            // reverse colours
}

func (c *Code) isValid() bool {
	return c.Width > 0 && c.Height > 0 && c.Stride >= (c.Width+7)/8 &&
		len(c.Bitmap) >= c.Stride*c.Height && c.Scale > 0 && c.Border >= 0
}

// Black returns true if the module at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Width && 0 <= y && y < c.Height &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := 2 * c.Border
	return image.Rect(0, 0, (c.Width+d)*c.Scale, (c.Height+d)*c.Scale)
}

func (c *codeImage) At(x, y int) color.Color {
	if x < 0 || y < 0 {
		return c.colour(false)
	}
	return c.colour(c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border))
}

func (c *codeImage) colour(black bool) color.Color {
	if c.Reverse {
		black = !black
	}
	if c.Palette != nil {
		if black {
			return c.Palette[1]
		}
		return c.Palette[0]
	}
	if black {
		return blackColor
	}
	return whiteColor
}

func (c *codeImage) ColorModel() color.Model {
	if c.Palette != nil {
		return color.Palette(c.Palette[:])
	}
	return color.GrayModel
}

// String returns the code drawn with Unicode block elements, two rows
// of modules per line, with light modules drawn as blocks.
func (c *Code) String() string {
	var b strings.Builder
	blocks := [4]string{"█", "▀", "▄", " "}
	if c.Reverse {
		blocks = [4]string{" ", "▄", "▀", "█"}
	}
	for y := -c.Border; y < c.Height+c.Border; y += 2 {
		for x := -c.Border; x < c.Width+c.Border; x++ {
			i := 0
			if c.Black(x, y) {
				i |= 2
			}
			if y+1 < c.Height+c.Border && c.Black(x, y+1) {
				i |= 1
			}
			b.WriteString(blocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
