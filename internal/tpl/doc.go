// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tpl implements the small template language used to render
// generated bindings.
//
// A template is split into named sections:
//
//	[[header]]
//	type {{kernelName}} struct { ... }
//	[[implementation]]
//	...
//
// A section runs from its marker to the next [[ or the end of the text.
// Inside a section, literal text is copied verbatim and directives are
// enclosed in double braces:
//
//	{{name}}            evaluate an expression
//	{{foreach name}}    repeat the body while the iterator has not ended
//	{{if name}}         emit the body once if the condition holds
//	{{end}}             close the innermost foreach or if
//
// Expressions and iterators are supplied by a [Generator]. The template is
// not parsed ahead of time: [Generate] performs a single forward scan with
// an explicit stack of open blocks, rewinding to the start of a loop body
// for each further iteration.
package tpl
