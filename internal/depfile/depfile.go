// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package depfile writes make-style dependency files so build systems can
// rerun generation when a shader source changes.
package depfile

import (
	"strings"

	"github.com/gogpu/kernelgen/internal/textio"
)

// Render returns one rule per output, each listing every dependency:
//
//	out.go: \
//		a.wgsl \
//		b.wgsl
func Render(deps, outputs []string) string {
	var sb strings.Builder
	for _, out := range outputs {
		sb.WriteString(escape(out))
		sb.WriteByte(':')
		for _, dep := range deps {
			sb.WriteString(" \\\n\t")
			sb.WriteString(escape(dep))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Generate renders the dependency rules and saves them to path.
func Generate(deps []string, path string, outputs []string) error {
	return textio.Save(path, Render(deps, outputs))
}

// escape protects spaces in a path from make's word splitting.
func escape(path string) string {
	return strings.ReplaceAll(path, " ", `\ `)
}
