// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rmqr

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/unixdj/rmqr/coding"
	"github.com/unixdj/rmqr/scan"
	"golang.org/x/text/encoding/charmap"
)

// Decoding errors.  Errors returned by the decoder match one of these
// with errors.Is.
var (
	ErrNoDarkModules = scan.ErrNoDarkModules
	ErrSize          = coding.ErrSize
	ErrMode          = coding.ErrMode
	ErrTruncated     = coding.ErrTruncated
	ErrEncoding      = errors.New("rmqr: payload is not valid UTF-8")
)

// Config controls decoding.
type Config struct {
	Threshold uint8        // grey levels below are dark
	QuietZone int          // quiet zone in modules if none is measured
	Level     Level        // error correction level of the block layout
	Latin1    bool         // decode the payload as ISO 8859-1
	Logger    *slog.Logger // receives debug records; nil disables
}

// DefaultConfig returns the default decoder configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold: scan.DefaultThreshold,
		QuietZone: scan.DefaultQuietZone,
		Level:     M,
	}
}

func (cfg *Config) debug(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Debug(msg, args...)
	}
}

// A Result describes a decoded symbol.
type Result struct {
	Text      string         // payload
	Payload   []byte         // payload bytes as stored
	Version   coding.Version // symbol version, from its size
	Level     Level          // level used for deinterleaving
	Grid      scan.Grid      // module geometry
	Format    bool           // format information agrees with Version and Level
	Codewords int            // number of codewords read
}

// Decode reads an image from r and decodes the symbol in it.
// If cfg is nil, DefaultConfig is used.
func Decode(r io.Reader, cfg *Config) (string, error) {
	img, err := scan.Read(r)
	if err != nil {
		return "", err
	}
	res, err := DecodeImage(img, cfg)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// DecodeFile decodes the symbol in the named image file.
// If cfg is nil, DefaultConfig is used.
func DecodeFile(path string, cfg *Config) (string, error) {
	img, err := scan.Load(path)
	if err != nil {
		return "", err
	}
	res, err := DecodeImage(img, cfg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return res.Text, nil
}

// DecodeImage decodes the symbol in img.
// If cfg is nil, DefaultConfig is used.
func DecodeImage(img image.Image, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return DecodeBitmap(scan.Binarize(img, cfg.Threshold), cfg)
}

// DecodeBitmap decodes the symbol in a binarized image.
func DecodeBitmap(b *scan.Bitmap, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g, err := scan.Calibrate(b, cfg.QuietZone)
	if err != nil {
		return nil, err
	}
	w, h := scan.Locate(b, g)
	cfg.debug("grid", "module", g.Module, "quiet", g.QuietX,
		"width", w, "height", h)
	v, err := coding.LookupSize(w, h)
	if err != nil {
		return nil, err
	}
	s := scan.NewSampler(b, g)
	res := &Result{Version: v, Level: cfg.Level, Grid: g}

	fv, fl, err := coding.ReadFormat(s, w, h)
	if err != nil {
		cfg.debug("format", "version", v, "error", err)
	} else {
		res.Format = fv == v && Level(fl) == cfg.Level
		cfg.debug("format", "version", fv, "level", fl, "agrees", res.Format)
	}

	cw, err := v.ReadCodewords(s)
	if err != nil {
		return nil, err
	}
	res.Codewords = len(cw)
	data, err := coding.Deinterleave(cw, v, coding.Level(cfg.Level))
	if err != nil {
		return nil, err
	}
	cfg.debug("codewords", "version", v, "total", len(cw), "data", len(data))

	if res.Payload, err = coding.DecodeByteSegment(data, v); err != nil {
		return nil, err
	}
	if cfg.Latin1 {
		t, err := charmap.ISO8859_1.NewDecoder().Bytes(res.Payload)
		if err != nil {
			return nil, err
		}
		res.Text = string(t)
	} else {
		if !utf8.Valid(res.Payload) {
			return nil, ErrEncoding
		}
		res.Text = string(res.Payload)
	}
	cfg.debug("payload", "bytes", len(res.Payload))
	return res, nil
}
