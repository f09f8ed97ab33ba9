// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rmqrenc generates rMQR codes.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/unixdj/rmqr"
	"github.com/unixdj/rmqr/coding"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	lev     rmqr.Level      // correction level
	ver     coding.Version  // version or rmqr.Auto
	format  int             // output file format
	inc     [2]int          // X,Y coordinate increments
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	latin1  bool            // Latin-1 byte mode
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "rMQR code generator\nUsage: ", cl.Program(), " ",
		cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  Data is encoded as a single byte mode segment.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`rmqrenc version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

func flip() { g.inc[0] = -g.inc[0] }

func turn() {
	g.inc[0] = -g.inc[0]
	g.inc[1] = -g.inc[1]
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

var names = map[string]rgba{
	"black": {0x00, 0x00, 0x00, 0xff},
	"white": {0xff, 0xff, 0xff, 0xff},
	"red":   {0xff, 0x00, 0x00, 0xff},
	"green": {0x00, 0xff, 0x00, 0xff},
	"blue":  {0x00, 0x00, 0xff, 0xff},
	"navy":  {0x00, 0x00, 0x80, 0xff},
	"gray":  {0xbe, 0xbe, 0xbe, 0xff},
	"grey":  {0xbe, 0xbe, 0xbe, 0xff},
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	var ok bool
	if *c, ok = names[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for range 4 {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "eps", "epsi",
	"utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*rmqr.Code, io.Writer) error{
	func(c *rmqr.Code, w io.Writer) error { return png.Encode(w, c.Image()) },
	(*rmqr.Code).EncodePBM,
	eps,
	func(c *rmqr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or colour name; `+
		`only for types png[i] and eps[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', "flip code horizontally").SetFlag()
	getopt.Flag(opt(turn), 'r', `rotate code 180°; `+
		`to flip vertically, use "-fr"`).SetFlag()
	getopt.Flag(&g.latin1, '1', "convert data to Latin-1")
	getopt.Flag(&g.border, 'm', `quiet zone modules [2]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.String('v', "auto", `version as RHxW, e.g. R13x77, `+
		`or "auto" for the smallest that fits`, "ver")
	lev := getopt.Enum('l', []string{"m", "h", "M", "H"}, "m",
		"error correction level", "m|h")
	scale := getopt.Unsigned('s', 8,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points) per module; `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.lev, _ = rmqr.ParseLevel(*lev)
	g.ver = rmqr.Auto
	if *ver != "auto" {
		var err error
		if g.ver, err = coding.ParseVersion(*ver); err != nil {
			fmt.Fprintf(os.Stderr, "-v %s: %v\n", *ver, err)
			usage()
		}
	}
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	seg := coding.Segment{Text: s, Mode: coding.Byte}
	if g.latin1 {
		seg.Mode = coding.Latin1
	}
	c, err := rmqr.EncodeData(seg, g.ver, g.lev)
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

func write(c *rmqr.Code) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c = reflect(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	err := encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// reflect flips c horizontally and/or vertically.
func reflect(c *rmqr.Code) *rmqr.Code {
	inc := g.inc
	if inc == [2]int{1, 1} {
		return c
	}
	var b bytes.Buffer
	b.Grow(len(c.Bitmap))
	wid, hgt := c.Width, c.Height
	y := (hgt - 1) & inc[1]
	for range hgt {
		x := (wid - 1) & inc[0]
		var bb byte
		for i := range wid {
			bb <<= 1
			if c.Black(x, y) {
				bb |= 1
			}
			if i&7 == 7 {
				b.WriteByte(bb)
			}
			x += inc[0]
		}
		if wid&7 != 0 {
			b.WriteByte(bb << (8 - wid&7))
		}
		y += inc[1]
	}
	c.Bitmap = b.Bytes()
	return c
}

func eps(c *rmqr.Code, w io.Writer) error {
	const midx, midy = 306, 396
	wid, hgt := c.Width, c.Height
	scale := c.Scale
	bord := c.Border
	xorig := (midx*2 - (wid+2*bord)*scale) / 2
	yorig := (midy*2 - (hgt+2*bord)*scale) / 2
	title := fmt.Sprintf("%dx%d", wid, hgt)
	if v, err := coding.LookupSize(wid, hgt); err == nil {
		title = v.String()
	}
	fmt.Fprintf(w, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: rmqrenc https://github.com/unixdj/rmqr
%%%%Title: rMQR Code %s
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		title, xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(wid*scale)/2, midy+float64((hgt-1)*scale)/2-1,
		scale)
	if rev := c.Reverse; rev || g.colSet {
		bg, fg := g.bg, g.fg
		if rev {
			bg, fg = fg, bg
		}
		fmt.Fprintf(w, `gsave
newpath %d %g moveto
%d %d scale
%.3g %.3g %.3g setrgbcolor
1 0 rlineto stroke
grestore
%.3g %.3g %.3g setrgbcolor
`,
			-bord, float64(hgt-1)/2, wid+2*bord, -(hgt + 2*bord),
			float64(bg.R)/0xff, float64(bg.G)/0xff,
			float64(bg.B)/0xff, float64(fg.R)/0xff,
			float64(fg.G)/0xff, float64(fg.B)/0xff)
	}
	fmt.Fprintln(w, "newpath 0 0 moveto")
	for y := range hgt {
		for x := 0; x < wid; {
			s := x
			for x < wid && !c.Black(x, y) {
				x++
			}
			if x == wid {
				break
			}
			b := x
			for x < wid && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(w, "%d %d p ", x-b, b-s)
		}
		fmt.Fprintln(w, "r")
	}
	_, err := fmt.Fprint(w, "stroke grestore\nend\n%%Trailer\n")
	return err
}

func ascii(c *rmqr.Code, w io.Writer) error {
	wid, hgt := c.Width, c.Height
	bord := c.Border
	pw := wid + 2*bord
	b := make([]byte, 0, (pw*2+1)*(hgt+2*bord))
	for y := -bord; y < hgt+bord; y++ {
		for x := -bord; x < wid+bord; x++ {
			var p byte = ' '
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			b = append(b, p, p)
		}
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
