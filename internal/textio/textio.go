// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package textio reads and writes the UTF-8 text files kernelgen consumes
// and produces.
package textio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load returns the full contents of the file at path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file %s: %w", path, err)
	}
	return string(data), nil
}

// Save writes contents to path verbatim, creating any missing parent
// directories first.
func Save(path, contents string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directory of output file %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil { //nolint:gosec // generated sources are world-readable
		return fmt.Errorf("write output file %s: %w", path, err)
	}
	return nil
}
