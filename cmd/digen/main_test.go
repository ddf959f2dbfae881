// Copyright (c) 2024 The digen Authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "no-such-digen.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.FastInit)
}

func TestLoadConfigParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fastInit: true\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.FastInit)
}

func TestRootCommandRejectsMissingPackageArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packages given")
}

func TestRootCommandOverridesConfigWithExplicitFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fastInit: true\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "--fast-init=false", "./..."})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// The command always fails past config resolution since no front end is
	// wired in this module; what matters here is that it got past the
	// "no packages given" guard, proving the flag override path ran.
	err := cmd.Execute()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "no packages given")
}
