// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name of configuration files.
	ConfigFileName = "rmqr"

	// EnvPrefix is the prefix of environment variables.
	EnvPrefix = "RMQR"
)

// Loader loads configuration from a file and the environment.
type Loader struct {
	v     *viper.Viper
	paths []string
}

// NewLoader returns a Loader searching for rmqr.yaml in paths, or in
// the working directory and the user configuration directory if none
// are given.
func NewLoader(paths ...string) *Loader {
	if len(paths) == 0 {
		paths = append(paths, ".")
		if dir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(dir, "rmqr"))
		}
	}
	return &Loader{v: viper.New(), paths: paths}
}

// Load reads the configuration.  A missing configuration file is not
// an error.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	for _, p := range l.paths {
		l.v.AddConfigPath(p)
	}
	l.setup()
	if err := l.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadFile reads the configuration from the named file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	l.setup()
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return l.unmarshal()
}

// ConfigFileUsed returns the path of the configuration file read.
func (l *Loader) ConfigFileUsed() string { return l.v.ConfigFileUsed() }

func (l *Loader) setup() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	d := DefaultConfig()
	l.v.SetDefault("threshold", d.Threshold)
	l.v.SetDefault("quiet_zone", d.QuietZone)
	l.v.SetDefault("level", d.Level)
	l.v.SetDefault("latin1", d.Latin1)
	l.v.SetDefault("jobs", d.Jobs)
	l.v.SetDefault("verbose", d.Verbose)
}

func (l *Loader) unmarshal() (*Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &c, nil
}
