// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/msl"
)

// CompileToTarget links the program and lowers it to the session's target
// language. It performs no file I/O.
func (p *Program) CompileToTarget() (string, error) {
	c := p.session.compiler
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	if err := p.link(); err != nil {
		return "", err
	}

	target := p.session.target
	code, err := p.lower(target, c.opts)
	if err != nil {
		return "", fmt.Errorf("generate %s source from %s: %w",
			strings.ToUpper(target.String()), p.InputPath, err)
	}
	slogger().Debug("shader lowered", "module", p.Name, "target", target, "bytes", len(code))
	return code, nil
}

// link validates the composed module. The naga IR has no separate link
// stage, so validation of the composed module stands in for it.
func (p *Program) link() error {
	if !p.session.compiler.opts.validate {
		return nil
	}
	verrs, err := naga.Validate(p.Module)
	if err != nil {
		return fmt.Errorf("link shader module %s: %w", p.InputPath, err)
	}
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i := range verrs {
		errs[i] = verrs[i]
	}
	return fmt.Errorf("link shader module %s: %w", p.InputPath, errors.Join(errs...))
}

func (p *Program) lower(target Target, o compilerOptions) (string, error) {
	switch target {
	case TargetWGSL:
		return p.Source, nil
	case TargetHLSL:
		opts := hlsl.DefaultOptions()
		opts.ShaderModel = o.hlslModel
		code, _, err := hlsl.Compile(p.Module, opts)
		return code, err
	case TargetMSL:
		opts := msl.DefaultOptions()
		opts.LangVersion = o.mslVersion
		code, _, err := msl.Compile(p.Module, opts)
		return code, err
	case TargetGLSL:
		if len(p.EntryPoints) != 1 {
			return "", fmt.Errorf("glsl requires exactly one entry point, got %d", len(p.EntryPoints))
		}
		opts := glsl.DefaultOptions()
		opts.LangVersion = o.glslVersion
		opts.EntryPoint = p.EntryPoints[0].Name
		code, _, err := glsl.Compile(p.Module, opts)
		return code, err
	default:
		return "", fmt.Errorf("unknown target %d", uint8(target))
	}
}
