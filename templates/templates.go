// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package templates ships the default kernel wrapper template.
package templates

import (
	_ "embed"
	"fmt"
	"strings"
)

// KernelGo renders a Go wrapper that builds gogpu/wgpu compute pipelines
// for each entry point and a typed CreateBindGroup from the shader layout.
// Its sections are "header" (the public API) and "implementation".
//
//go:embed kernel.go.tpl
var KernelGo string

// KernelGoName is the file name of KernelGo, used to label errors.
const KernelGoName = "kernel.go.tpl"

// BuiltinPrefix marks a template reference that names an embedded template
// instead of a file, as in "builtin:kernel.go.tpl".
const BuiltinPrefix = "builtin:"

var builtin = map[string]string{
	KernelGoName: KernelGo,
}

// IsBuiltin reports whether ref names an embedded template.
func IsBuiltin(ref string) bool {
	return strings.HasPrefix(ref, BuiltinPrefix)
}

// Lookup returns the embedded template named by ref.
func Lookup(ref string) (string, error) {
	name := strings.TrimPrefix(ref, BuiltinPrefix)
	text, ok := builtin[name]
	if !ok {
		return "", fmt.Errorf("unknown builtin template %q", name)
	}
	return text, nil
}
