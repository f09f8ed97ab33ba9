// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rmqr decodes rMQR codes in image files.
//
// Settings are read from rmqr.yaml in the working directory or the
// user configuration directory, then from RMQR_* environment
// variables, then from flags.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/pborman/getopt/v2"
	"golang.org/x/sync/errgroup"

	"github.com/unixdj/rmqr"
	"github.com/unixdj/rmqr/internal/config"
)

// Exit codes.
const (
	exitOK     = 0
	exitUsage  = 1
	exitDecode = 2
)

const versionText = `rmqr version 0.1.0
Copyright (c) 2025 Vadim Vygonets`

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	set       *getopt.Set
	help      bool
	version   bool
	verbose   bool
	latin1    bool
	level     *string
	threshold *uint64
	quiet     *int
	jobs      *int
	file      *string
}

func newFlags(prog string) *flags {
	f := &flags{set: getopt.New()}
	s := f.set
	s.SetProgram(prog)
	s.SetParameters("file ...")
	s.Flag(&f.help, 'h', "show this help")
	s.Flag(&f.version, 'V', "print version and copyright")
	s.Flag(&f.verbose, 'v', "log decoding steps to standard error")
	s.Flag(&f.latin1, '1', "decode payload as Latin-1")
	f.level = s.Enum('l', []string{"m", "h", "M", "H"}, "",
		"error correction level of the block layout [m]", "m|h")
	f.threshold = s.Unsigned('t', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 255},
		"grey level below which pixels are dark [128]", "threshold")
	f.quiet = s.Int('q', 0,
		"quiet zone in modules when the symbol touches the edge [2]", "quiet")
	f.jobs = s.Int('j', 0, "number of images decoded at once [4]", "jobs")
	f.file = s.String('c', "", "configuration file", "file")
	return f
}

// apply overrides loaded settings with the flags given.
func (f *flags) apply(c *config.Config) error {
	s := f.set
	if s.IsSet('l') {
		c.Level = *f.level
	}
	if s.IsSet('t') {
		c.Threshold = int(*f.threshold)
	}
	if s.IsSet('q') {
		c.QuietZone = *f.quiet
	}
	if s.IsSet('j') {
		c.Jobs = *f.jobs
	}
	if f.latin1 {
		c.Latin1 = true
	}
	if f.verbose {
		c.Verbose = true
	}
	return c.Validate()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	elog := log.New(stderr, "", 0)
	f := newFlags(args[0])
	if err := f.set.Getopt(args, nil); err != nil {
		elog.Println(err)
		f.set.PrintUsage(stderr)
		return exitUsage
	}
	switch {
	case f.help:
		fmt.Fprintln(stdout, "rMQR code decoder")
		f.set.PrintUsage(stdout)
		return exitOK
	case f.version:
		fmt.Fprintln(stdout, versionText)
		return exitOK
	}
	files := f.set.Args()
	if len(files) == 0 {
		f.set.PrintUsage(stderr)
		return exitUsage
	}

	var (
		c   *config.Config
		err error
	)
	if *f.file != "" {
		c, err = config.NewLoader().LoadFile(*f.file)
	} else {
		c, err = config.NewLoader().Load()
	}
	if err == nil {
		err = f.apply(c)
	}
	if err != nil {
		elog.Println(err)
		return exitUsage
	}

	var logger *slog.Logger
	if c.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})).
			With("run", uuid.NewString())
	}

	text, errs := decodeAll(files, c, logger, stdin)
	status := exitOK
	for i := range files {
		if errs[i] != nil {
			elog.Println(errs[i])
			status = exitDecode
			continue
		}
		fmt.Fprintln(stdout, text[i])
	}
	return status
}

// decodeAll decodes files with up to c.Jobs decodes running at once.
// The name "-" denotes stdin, which is read once and shared.
func decodeAll(files []string, c *config.Config, logger *slog.Logger,
	stdin io.Reader) ([]string, []error) {
	text := make([]string, len(files))
	errs := make([]error, len(files))
	var (
		in    []byte
		inErr error
	)
	if slices.Contains(files, "-") {
		in, inErr = io.ReadAll(stdin)
	}
	var g errgroup.Group
	g.SetLimit(c.Jobs)
	for i, path := range files {
		cfg := c.Decoder(nil)
		if logger != nil {
			cfg.Logger = logger.With("file", path)
		}
		g.Go(func() error {
			if path == "-" {
				if errs[i] = inErr; inErr == nil {
					text[i], errs[i] = rmqr.Decode(bytes.NewReader(in), cfg)
				}
				if errs[i] != nil {
					errs[i] = fmt.Errorf("stdin: %w", errs[i])
				}
			} else {
				text[i], errs[i] = rmqr.DecodeFile(path, cfg)
			}
			if cfg.Logger != nil {
				if errs[i] != nil {
					cfg.Logger.Debug("failed", "error", errs[i])
				} else {
					cfg.Logger.Debug("decoded", "length", len(text[i]))
				}
			}
			return nil
		})
	}
	g.Wait()
	return text, errs
}
