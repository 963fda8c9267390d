// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/msl"
)

// CompilerOption configures a Compiler during creation.
//
// Example:
//
//	c := shader.NewCompiler(shader.WithGLSLVersion(glsl.VersionES310))
type CompilerOption func(*compilerOptions)

// compilerOptions holds backend configuration shared by all sessions.
type compilerOptions struct {
	validate    bool
	glslVersion glsl.Version
	hlslModel   hlsl.ShaderModel
	mslVersion  msl.Version
}

func defaultCompilerOptions() compilerOptions {
	return compilerOptions{
		validate: true,
		// Compute shaders need at least GLSL 4.30.
		glslVersion: glsl.Version430,
		hlslModel:   hlsl.DefaultOptions().ShaderModel,
		mslVersion:  msl.DefaultOptions().LangVersion,
	}
}

// WithGLSLVersion selects the GLSL language version emitted for the glsl
// target.
func WithGLSLVersion(v glsl.Version) CompilerOption {
	return func(o *compilerOptions) {
		o.glslVersion = v
	}
}

// WithHLSLShaderModel selects the HLSL shader model emitted for the hlsl
// target.
func WithHLSLShaderModel(m hlsl.ShaderModel) CompilerOption {
	return func(o *compilerOptions) {
		o.hlslModel = m
	}
}

// WithMSLVersion selects the Metal Shading Language version emitted for the
// msl target.
func WithMSLVersion(v msl.Version) CompilerOption {
	return func(o *compilerOptions) {
		o.mslVersion = v
	}
}

// WithValidation enables or disables IR validation during linking.
// Validation is on by default.
func WithValidation(enabled bool) CompilerOption {
	return func(o *compilerOptions) {
		o.validate = enabled
	}
}
