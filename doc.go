// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kernelgen generates host-side bindings for WGSL compute shaders.
//
// # Overview
//
// kernelgen reads a shader module, resolves its #include directives,
// selects the requested entry points and compiles the result to a target
// shading language (WGSL, HLSL, MSL or GLSL). It then reflects the module's
// global parameters into a binding layout and renders user-provided
// templates against that layout, producing source code that creates the
// GPU pipelines and bind groups for the kernel.
//
// # Quick Start
//
//	import "github.com/gogpu/kernelgen"
//
//	res, err := kernelgen.Run(kernelgen.Arguments{
//	    Name:                 "Sum",
//	    Input:                "shaders/sum.wgsl",
//	    Template:             "builtin:kernel.go.tpl",
//	    OutputHeader:         "gen/sum.go",
//	    OutputImplementation: "gen/sum_impl.go",
//	    OutputDepfile:        "gen/sum.d",
//	    EntryPoints:          []string{"computeSum"},
//	})
//
// # Layout
//
// All bindings live in bind group 0. Uniform-space parameters are packed
// into one synthetic uniform buffer named "uniforms" at binding 0. Every
// other parameter must be a storage buffer with a single slot.
//
// # Templates
//
// A template is split into sections by [[name]] markers. Two sections are
// rendered: "header" and "implementation". Inside a section, {{expr}}
// inserts generated text, {{foreach it}} ... {{end}} repeats a block once
// per element of an iterator and {{if it}} ... {{end}} renders a block only
// when the iterator is non-empty. See the templates package for a complete
// example.
//
// # Dependency tracking
//
// Every file read while loading the shader is reported in
// [Result.DependencyFiles]. With OutputDepfile set, a make-style depfile is
// written listing those files for each generated artifact.
//
// # Logging
//
// kernelgen is silent by default. Call [SetLogger] to receive progress and
// warning messages.
package kernelgen

// Version information
const (
	// Version is the current version of kernelgen.
	Version = "0.1.0"
)
