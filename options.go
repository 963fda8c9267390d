// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernelgen

import "github.com/gogpu/kernelgen/internal/shader"

// Option configures a Run.
//
// Example:
//
//	// Keep generated Go exactly as the template renders it
//	res, err := kernelgen.Run(args, kernelgen.WithGoFormatting(false))
type Option func(*options)

// options holds optional configuration for Run.
type options struct {
	compiler  []shader.CompilerOption
	formatGo  bool
	logLayout bool
}

// defaultOptions returns the default run options.
func defaultOptions() options {
	return options{
		formatGo: true,
	}
}

// WithCompilerOptions passes options through to the shader compiler, for
// example the GLSL version or the HLSL shader model.
func WithCompilerOptions(opts ...shader.CompilerOption) Option {
	return func(o *options) {
		o.compiler = append(o.compiler, opts...)
	}
}

// WithGoFormatting controls whether generated outputs ending in .go are
// run through goimports before they are saved. Enabled by default.
func WithGoFormatting(enabled bool) Option {
	return func(o *options) {
		o.formatGo = enabled
	}
}

// WithLayoutLog logs every binding of the extracted layout at Info level.
func WithLayoutLog(enabled bool) Option {
	return func(o *options) {
		o.logLayout = enabled
	}
}
