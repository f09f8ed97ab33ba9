// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads decoder settings from defaults, an optional
// configuration file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/unixdj/rmqr"
	"github.com/unixdj/rmqr/scan"
)

// Config holds the settings of the rmqr command.
type Config struct {
	Threshold int    `mapstructure:"threshold"`
	QuietZone int    `mapstructure:"quiet_zone"`
	Level     string `mapstructure:"level"`
	Latin1    bool   `mapstructure:"latin1"`
	Jobs      int    `mapstructure:"jobs"`
	Verbose   bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the built in settings.
func DefaultConfig() *Config {
	return &Config{
		Threshold: scan.DefaultThreshold,
		QuietZone: scan.DefaultQuietZone,
		Level:     "m",
		Jobs:      4,
	}
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var errs []error
	if c.Threshold < 1 || c.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold %d out of range 1..255", c.Threshold))
	}
	if c.QuietZone < 0 {
		errs = append(errs, fmt.Errorf("negative quiet zone %d", c.QuietZone))
	}
	if _, err := rmqr.ParseLevel(c.Level); err != nil {
		errs = append(errs, fmt.Errorf("level %q: %w", c.Level, err))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs %d less than 1", c.Jobs))
	}
	return errors.Join(errs...)
}

// Decoder returns the decoder configuration with the given logger.
// c must be valid.
func (c *Config) Decoder(logger *slog.Logger) *rmqr.Config {
	l, _ := rmqr.ParseLevel(c.Level)
	return &rmqr.Config{
		Threshold: uint8(c.Threshold),
		QuietZone: c.QuietZone,
		Level:     l,
		Latin1:    c.Latin1,
		Logger:    logger,
	}
}
