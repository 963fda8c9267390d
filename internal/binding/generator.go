// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package binding binds template expressions to a loaded shader program and
// its extracted layout.
package binding

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/kernelgen/internal/layout"
	"github.com/gogpu/kernelgen/internal/shader"
)

// Iterator names understood by the generator.
const (
	IteratorEntryPoints      = "entryPoints"
	IteratorSingleEntryPoint = "entryPointCount == 1"
	IteratorHasUniforms      = "hasUniforms"
	IteratorBindings         = "bindings"
	IteratorHasBindings      = "hasBindings"
)

// Generator implements tpl.Generator for one kernel.
//
// The layout is extracted once at construction. Any extraction error is kept
// and reported by Check, which must succeed before the generator is used.
type Generator struct {
	name         string
	packageName  string
	program      *shader.Program
	targetSource string

	layout    *layout.Info
	layoutErr error
	params    []string

	entryPoint int
	binding    int

	title cases.Caser
}

// Option configures a Generator.
type Option func(*Generator)

// WithPackageName sets the value of the packageName expression. It defaults
// to the lower-cased kernel name.
func WithPackageName(pkg string) Option {
	return func(g *Generator) {
		if pkg != "" {
			g.packageName = pkg
		}
	}
}

// New creates a generator for the named kernel. targetSource is the lowered
// shader text embedded by the targetSource expression.
func New(name string, program *shader.Program, targetSource string, opts ...Option) *Generator {
	info, err := layout.FromProgram(program)
	g := &Generator{
		name:         name,
		packageName:  strings.ToLower(name),
		program:      program,
		targetSource: targetSource,
		layout:       info,
		layoutErr:    err,
		title:        cases.Title(language.Und, cases.NoLower),
	}
	if info != nil {
		g.params = paramNames(info.Bindings)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check reports the layout extraction error, if any.
func (g *Generator) Check() error {
	return g.layoutErr
}

// Layout returns the extracted layout, or nil if extraction failed.
func (g *Generator) Layout() *layout.Info {
	return g.layout
}

// ProcessExpression writes the value of the named expression to w.
func (g *Generator) ProcessExpression(name string, w io.Writer) error {
	eval, ok := expressions[name]
	if !ok {
		return fmt.Errorf("unknown expression %q", name)
	}
	if g.layoutErr != nil {
		return g.layoutErr
	}
	return eval(g, w)
}

// ResetIterator moves the named iterator to its first step.
func (g *Generator) ResetIterator(name string) error {
	switch name {
	case IteratorEntryPoints:
		g.entryPoint = 0
	case IteratorSingleEntryPoint:
		// The only valid cursor when the condition holds. Left alone
		// otherwise so an enclosing entryPoints loop keeps its position.
		if len(g.program.EntryPoints) == 1 {
			g.entryPoint = 0
		}
	case IteratorBindings:
		g.binding = 0
	case IteratorHasUniforms, IteratorHasBindings:
	default:
		return fmt.Errorf("unknown iterator %q", name)
	}
	return nil
}

// StepIterator advances the named iterator. Conditions never loop, so
// stepping them is a no-op.
func (g *Generator) StepIterator(name string) error {
	switch name {
	case IteratorEntryPoints:
		g.entryPoint++
	case IteratorBindings:
		g.binding++
	case IteratorSingleEntryPoint, IteratorHasUniforms, IteratorHasBindings:
	default:
		return fmt.Errorf("unknown iterator %q", name)
	}
	return nil
}

// IteratorEnded reports whether the named iterator has no current step.
func (g *Generator) IteratorEnded(name string) (bool, error) {
	switch name {
	case IteratorEntryPoints:
		return g.entryPoint >= len(g.program.EntryPoints), nil
	case IteratorSingleEntryPoint:
		return len(g.program.EntryPoints) != 1, nil
	case IteratorHasUniforms:
		return g.layout == nil || g.layout.Uniforms == nil, nil
	case IteratorBindings:
		return g.layout == nil || g.binding >= len(g.layout.Bindings), nil
	case IteratorHasBindings:
		return g.layout == nil || len(g.layout.Bindings) == 0, nil
	default:
		return false, fmt.Errorf("unknown iterator %q", name)
	}
}

func (g *Generator) currentEntryPoint(expr string) (shader.EntryPoint, error) {
	if g.entryPoint < 0 || g.entryPoint >= len(g.program.EntryPoints) {
		return shader.EntryPoint{}, fmt.Errorf("expression %q requires a current entry point (use it inside {{foreach %s}} or {{if %s}})",
			expr, IteratorEntryPoints, IteratorSingleEntryPoint)
	}
	return g.program.EntryPoints[g.entryPoint], nil
}

func (g *Generator) currentBinding(expr string) (layout.BindingInfo, error) {
	if g.binding < 0 || g.binding >= len(g.layout.Bindings) {
		return layout.BindingInfo{}, fmt.Errorf("expression %q requires a current binding (use it inside {{foreach %s}})",
			expr, IteratorBindings)
	}
	return g.layout.Bindings[g.binding], nil
}
