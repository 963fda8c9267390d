// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernelgen

import (
	"fmt"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// isGoFile reports whether path names a Go source file.
func isGoFile(path string) bool {
	return filepath.Ext(path) == ".go"
}

// formatGo formats generated Go source the way goimports does. Imports are
// sorted and grouped but never added or removed, so the result does not
// depend on the module cache.
func formatGo(path, src string) (string, error) {
	out, err := imports.Process(path, []byte(src), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("format generated Go file %s: %w", path, err)
	}
	return string(out), nil
}
