// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/rmqr"
)

func TestLoadDefaults(t *testing.T) {
	c, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	d := c.Decoder(nil)
	assert.Equal(t, rmqr.DefaultConfig(), d)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "threshold: 100\nquiet_zone: 4\nlevel: H\nlatin1: true\njobs: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rmqr.yaml"), []byte(yaml), 0o644))

	l := NewLoader(dir)
	c, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{Threshold: 100, QuietZone: 4, Level: "H", Latin1: true, Jobs: 2}, c)
	assert.Equal(t, filepath.Join(dir, "rmqr.yaml"), l.ConfigFileUsed())

	d := c.Decoder(nil)
	assert.Equal(t, uint8(100), d.Threshold)
	assert.Equal(t, rmqr.H, d.Level)
	assert.True(t, d.Latin1)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("RMQR_THRESHOLD", "90")
	t.Setenv("RMQR_QUIET_ZONE", "3")
	t.Setenv("RMQR_VERBOSE", "true")
	c, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, 90, c.Threshold)
	assert.Equal(t, 3, c.QuietZone)
	assert.True(t, c.Verbose)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 8\n"), 0o644))
	c, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Jobs)

	_, err = NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rmqr.yaml"),
		[]byte("threshold: 0\nlevel: q\n"), 0o644))
	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "level")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rmqr.yaml"),
		[]byte("threshold: [\n"), 0o644))
	_, err = NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	for _, c := range []Config{
		{Threshold: 256, Level: "m", Jobs: 1},
		{Threshold: 128, QuietZone: -1, Level: "m", Jobs: 1},
		{Threshold: 128, Level: "x", Jobs: 1},
		{Threshold: 128, Level: "m", Jobs: 0},
	} {
		assert.Error(t, c.Validate(), "%+v", c)
	}
}
