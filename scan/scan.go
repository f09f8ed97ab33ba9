// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan turns raster images of rMQR symbols into module grids.
//
// The image must be an upright, unskewed capture of a single symbol on
// a light background, with the top left finder pattern the first dark
// object in row-major order.
package scan // import "github.com/unixdj/rmqr/scan"

import (
	"errors"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Defaults used by the decoder.
const (
	DefaultThreshold = 128 // grey levels below are dark
	DefaultQuietZone = 2   // quiet zone width in modules
)

// ErrNoDarkModules is returned for images without dark pixels.
var ErrNoDarkModules = errors.New("rmqr: no dark modules found")

// A Bitmap is a binarized image.
type Bitmap struct {
	Width  int
	Height int

	dark []bool
}

// NewBitmap returns a width by height Bitmap with pixels set where
// dark reports true.
func NewBitmap(width, height int, dark func(x, y int) bool) *Bitmap {
	b := &Bitmap{width, height, make([]bool, width*height)}
	for y := range height {
		for x := range width {
			b.dark[y*width+x] = dark(x, y)
		}
	}
	return b
}

// Binarize converts img to grayscale and marks pixels darker than
// threshold as dark.
func Binarize(img image.Image, threshold uint8) *Bitmap {
	g := imaging.Grayscale(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	b := &Bitmap{w, h, make([]bool, w*h)}
	for y := range h {
		row := g.Pix[y*g.Stride : y*g.Stride+w*4]
		for x := range w {
			b.dark[y*w+x] = row[x*4] < threshold
		}
	}
	return b
}

// Dark reports whether the pixel at x, y is dark.
// Pixels outside the bitmap are light.
func (b *Bitmap) Dark(x, y int) bool {
	return 0 <= x && x < b.Width && 0 <= y && y < b.Height &&
		b.dark[y*b.Width+x]
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, error) {
	return imaging.Open(path)
}

// Read decodes an image from r.
func Read(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

func round(f float64) int { return int(math.RoundToEven(f)) }

// A Grid maps modules to pixels: module x, y covers the pixels from
// (QuietX+x)*Module to (QuietX+x+1)*Module-1 horizontally and likewise
// vertically.
type Grid struct {
	Module int // module size in pixels
	QuietX int // quiet zone width in modules
	QuietY int // quiet zone height in modules
}

// Calibrate estimates the module size and quiet zone of the symbol in
// b from the top left finder pattern, whose first row and column are 7
// modules long.  If the estimated quiet zone is 0, quiet is used.
func Calibrate(b *Bitmap, quiet int) (Grid, error) {
	i := 0
	for i < len(b.dark) && !b.dark[i] {
		i++
	}
	if i == len(b.dark) {
		return Grid{}, ErrNoDarkModules
	}
	x1, y1 := i%b.Width, i/b.Width

	x := x1
	for b.Dark(x, y1) {
		x++
	}
	y := y1
	for b.Dark(x1, y) {
		y++
	}

	mod := max(1, round(float64(min(x-x1, y-y1))/7))
	qx := round(float64(x1) / float64(mod))
	qy := round(float64(y1) / float64(mod))
	q := round(float64(qx+qy) / 2)
	if q == 0 {
		q = quiet
	}
	return Grid{mod, q, q}, nil
}

// Locate returns the symbol size in modules.
func Locate(b *Bitmap, g Grid) (width, height int) {
	m := float64(g.Module)
	width = round(float64(b.Width)/m) - 2*g.QuietX
	height = round(float64(b.Height)/m) - 2*g.QuietY
	return width, height
}

// A Sampler reads modules from a Bitmap at the centre of their grid
// cells.
type Sampler struct {
	b *Bitmap
	g Grid
}

// NewSampler returns a Sampler reading b through g.
func NewSampler(b *Bitmap, g Grid) *Sampler { return &Sampler{b, g} }

// Dark reports whether the module at x, y is dark.
// Positions beyond the image are clamped to its edge.
func (s *Sampler) Dark(x, y int) bool {
	m := float64(s.g.Module)
	px := int((float64(s.g.QuietX+x) + 0.5) * m)
	py := int((float64(s.g.QuietY+y) + 0.5) * m)
	px = min(max(px, 0), s.b.Width-1)
	py = min(max(py, 0), s.b.Height-1)
	return s.b.Dark(px, py)
}
