// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"
)

// EntryPoint is a resolved entry point of a loaded program.
type EntryPoint struct {
	Name          string
	Stage         ir.ShaderStage
	WorkgroupSize [3]uint32
}

// Program is a compiled module composed with its requested entry points.
// It is only valid while the session's compiler is open.
type Program struct {
	// Name is the logical module name used in diagnostics.
	Name string
	// InputPath is the root source file.
	InputPath string
	// Source is the include-expanded WGSL source.
	Source string
	// Module is the lowered IR restricted to the requested entry points.
	Module *ir.Module
	// EntryPoints are the requested entry points in request order.
	EntryPoints []EntryPoint

	session *Session
}

// Session returns the session the program was loaded in.
func (p *Program) Session() *Session { return p.session }

// ModuleInfo is the result of a successful LoadModule.
type ModuleInfo struct {
	Program *Program
	// DependencyFiles lists the input file followed by every file it
	// transitively includes, in first-inclusion order.
	DependencyFiles []string
}

// LoadModule compiles the source at inputPath under the logical name and
// resolves the requested entry points, in order. Resolution stops at the
// first missing entry point. No partial result is returned on failure.
func (s *Session) LoadModule(name, inputPath string, entryPoints []string) (*ModuleInfo, error) {
	if err := s.compiler.checkOpen(); err != nil {
		return nil, err
	}

	exp, err := s.expandIncludes(inputPath)
	if err != nil {
		return nil, err
	}

	ast, err := naga.Parse(exp.source)
	if err != nil {
		return nil, fmt.Errorf("load shader module %s: %w%s", inputPath, err, exp.locate(err))
	}
	lowered, err := wgsl.LowerWithWarnings(ast, exp.source)
	if err != nil {
		return nil, fmt.Errorf("load shader module %s: %w%s", inputPath, err, exp.locate(err))
	}
	for _, w := range lowered.Warnings {
		origin := ""
		if n := w.Span.Start.Line; n >= 1 && n <= len(exp.origins) {
			origin = fmt.Sprintf("%s:%d", exp.origins[n-1].file, exp.origins[n-1].line)
		}
		slogger().Warn("shader warning", "module", name, "at", origin, "message", w.Message)
	}

	selected := make([]ir.EntryPoint, 0, len(entryPoints))
	resolved := make([]EntryPoint, 0, len(entryPoints))
	for _, ep := range entryPoints {
		i := slices.IndexFunc(lowered.Module.EntryPoints, func(e ir.EntryPoint) bool { return e.Name == ep })
		if i < 0 {
			return nil, fmt.Errorf("entry point %q not found in shader module %s", ep, inputPath)
		}
		found := lowered.Module.EntryPoints[i]
		if found.Stage != ir.StageCompute {
			slogger().Warn("entry point is not a compute shader", "module", name, "entryPoint", ep)
		}
		selected = append(selected, found)
		resolved = append(resolved, EntryPoint{
			Name:          found.Name,
			Stage:         found.Stage,
			WorkgroupSize: found.Workgroup,
		})
	}

	composed := *lowered.Module
	composed.EntryPoints = selected

	slogger().Debug("shader module loaded",
		"module", name,
		"input", inputPath,
		"entryPoints", len(resolved),
		"dependencies", len(exp.files))

	return &ModuleInfo{
		Program: &Program{
			Name:        name,
			InputPath:   inputPath,
			Source:      exp.source,
			Module:      &composed,
			EntryPoints: resolved,
			session:     s,
		},
		DependencyFiles: slices.Clone(exp.files),
	}, nil
}
