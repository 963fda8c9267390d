// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader wraps the naga WGSL compiler behind the session model used
// by kernelgen.
//
// # Ownership
//
// A [Compiler] holds process-level compiler state and must outlive every
// [Session] created from it. A Session fixes the output [Target] and the
// include search path for one run. [Session.LoadModule] produces a
// [ModuleInfo] whose [Program] borrows the session; every operation checks
// that the owning compiler is still open and fails with [ErrCompilerClosed]
// otherwise.
//
// # Pipeline
//
//	source -> #include expansion -> naga.Parse -> wgsl.LowerWithWarnings
//	       -> entry point selection -> naga.Validate (link) -> backend
//
// WGSL has no native include mechanism. Lines of the form
//
//	#include "common.wgsl"
//
// are expanded before parsing. Each file is included at most once, so
// include cycles terminate. The files read during expansion become the
// dependency list reported in [ModuleInfo.DependencyFiles].
//
// # Reflection
//
// [Program.Parameters] exposes the module's resource bindings in declaration
// order, classified the way the layout extractor consumes them.
package shader
