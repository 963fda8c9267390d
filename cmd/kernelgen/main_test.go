// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/kernelgen"
)

var testdata = filepath.Join("..", "..", "internal", "shader", "testdata")

func runCLI(t *testing.T, argv ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(argv, &out, &errOut)
	return code, out.String(), errOut.String()
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "kernelgen "+kernelgen.Version+"\n", stdout)
}

func TestUsageErrors(t *testing.T) {
	code, _, stderr := runCLI(t, "--no-such-flag")
	assert.Equal(t, exitError, code)
	assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
	assert.Contains(t, stderr, "no-such-flag")

	code, _, stderr = runCLI(t, "-n", "Sum", "stray")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "stray")
}

func TestConfigurationErrors(t *testing.T) {
	sum := filepath.Join(testdata, "sum.wgsl")
	out := t.TempDir()
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"missing name", []string{"-i", sum, "-e", "computeSum"}, "--name"},
		{"invalid name", []string{"-n", "1sum", "-i", sum, "-e", "computeSum"}, "--name"},
		{"missing entry point", []string{"-n", "Sum", "-i", sum}, "--entrypoint"},
		{"unknown target", []string{"-n", "Sum", "-i", sum, "-e", "computeSum", "--target", "spirv"}, "--target"},
		{"header without template", []string{
			"-n", "Sum", "-i", sum, "-e", "computeSum",
			"-d", filepath.Join(out, "a.go"), "-c", filepath.Join(out, "b.go"),
		}, "--input-template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append(tt.argv, "--no-config")...)
			assert.Equal(t, exitError, code)
			assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
			assert.Contains(t, stderr, tt.want)
		})
	}
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	header := filepath.Join(out, "multi.go")
	depfile := filepath.Join(out, "multi.d")
	code, _, stderr := runCLI(t,
		"--no-config",
		"-n", "Multi",
		"-i", filepath.Join(testdata, "multi.wgsl"),
		"-I", filepath.Join(testdata, "include"),
		"-e", "applyFactor,copyValues",
		"-t", "builtin:kernel.go.tpl",
		"-d", header,
		"-c", filepath.Join(out, "multi_impl.go"),
		"-m", depfile,
		"--output-layout", filepath.Join(out, "multi.json"),
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "Writing dependency file")

	assert.FileExists(t, header)
	assert.FileExists(t, filepath.Join(out, "multi.json"))
	data, err := os.ReadFile(depfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "params.wgsl")
}

func TestEntryPointNotFound(t *testing.T) {
	out := t.TempDir()
	input := filepath.Join(testdata, "sum.wgsl")
	code, _, stderr := runCLI(t, "--no-config",
		"-n", "Sum", "-i", input, "-e", "missing",
		"-w", filepath.Join(out, "sum.wgsl"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, `error: entry point "missing" not found`)
	assert.NoFileExists(t, filepath.Join(out, "sum.wgsl"))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, filepath.Join(testdata, "sum.wgsl"), filepath.Join(dir, "sum.wgsl"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kernelgen.toml"), []byte(
		"target = \"hlsl\"\nentrypoints = [\"computeSum\"]\ntemplate = \"builtin:kernel.go.tpl\"\n"), 0o644))

	target := filepath.Join(dir, "sum.hlsl")
	code, _, stderr := runCLI(t, "-n", "Sum", "-i", filepath.Join(dir, "sum.wgsl"), "-w", target)
	require.Equal(t, exitOK, code, stderr)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "@compute")

	// Flags win over the file.
	wgsl := filepath.Join(dir, "sum.out.wgsl")
	code, _, stderr = runCLI(t, "-n", "Sum", "-i", filepath.Join(dir, "sum.wgsl"), "-w", wgsl, "--target", "wgsl")
	require.Equal(t, exitOK, code, stderr)
	data, err = os.ReadFile(wgsl)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@compute")

	// The configured template applies once binding outputs are requested.
	code, _, stderr = runCLI(t, "-n", "Sum", "-i", filepath.Join(dir, "sum.wgsl"),
		"-d", filepath.Join(dir, "sum.go"), "-c", filepath.Join(dir, "sum_impl.go"))
	require.Equal(t, exitOK, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "sum_impl.go"))
}

func TestConfigFileInvalid(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("unknown_key = 1\n"), 0o644))

	code, _, stderr := runCLI(t, "--config", cfg, "-n", "Sum",
		"-i", filepath.Join(testdata, "sum.wgsl"), "-e", "computeSum")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "parse config file")
}

func TestWatchStopsOnCancel(t *testing.T) {
	out := t.TempDir()
	args := kernelgen.Arguments{
		Name:         "Sum",
		Input:        filepath.Join(testdata, "sum.wgsl"),
		OutputTarget: filepath.Join(out, "sum.wgsl"),
		EntryPoints:  []string{"computeSum"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, watch(ctx, args, nil))
	assert.FileExists(t, args.OutputTarget)
}

func TestWatchConfigErrorIsFatal(t *testing.T) {
	err := watch(context.Background(), kernelgen.Arguments{Name: "Sum"}, nil)
	var cfgErr *kernelgen.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestWaitForChange(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.wgsl")
	other := filepath.Join(dir, "other.wgsl")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	files := absSet([]string{watched})
	require.NoError(t, rewatch(w, files))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- waitForChange(ctx, w, files) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("b"), 0o644))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("waitForChange did not return after the watched file changed")
	}
}

func TestWatchedFiles(t *testing.T) {
	args := kernelgen.Arguments{Input: "a.wgsl", Template: "b.tpl"}
	assert.Equal(t, []string{"a.wgsl", "b.tpl"}, watchedFiles(args, nil))
	assert.Equal(t, []string{"x.wgsl", "y.wgsl", "b.tpl"}, watchedFiles(args, []string{"x.wgsl", "y.wgsl"}))

	args.Template = "builtin:kernel.go.tpl"
	assert.Equal(t, []string{"a.wgsl"}, watchedFiles(args, nil))
}
