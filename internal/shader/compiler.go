// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// ErrCompilerClosed is returned by any operation on a session or program
// whose compiler has been closed.
var ErrCompilerClosed = errors.New("shader: compiler is closed")

// Target is the shading language a session lowers programs to.
type Target uint8

const (
	// TargetWGSL emits the include-expanded, validated WGSL source as is.
	// naga has no WGSL writer, so entry points that were not requested stay
	// in the output, as do the commented-out #include directives.
	TargetWGSL Target = iota
	// TargetHLSL lowers to HLSL for Direct3D.
	TargetHLSL
	// TargetMSL lowers to the Metal Shading Language.
	TargetMSL
	// TargetGLSL lowers to desktop GLSL. One entry point per program.
	TargetGLSL

	targetCount
)

var targetNames = [...]string{
	TargetWGSL: "wgsl",
	TargetHLSL: "hlsl",
	TargetMSL:  "msl",
	TargetGLSL: "glsl",
}

// String returns the lower-case target name.
func (t Target) String() string {
	if t < targetCount {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// ParseTarget parses a target name. Matching is case-insensitive.
func ParseTarget(s string) (Target, error) {
	for i, name := range targetNames {
		if strings.EqualFold(s, name) {
			return Target(i), nil //nolint:gosec // bounded by targetCount
		}
	}
	return 0, fmt.Errorf("unknown target %q (expected one of %s)", s, strings.Join(targetNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if t >= targetCount {
		return nil, fmt.Errorf("unknown target %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Compiler is the process-level compiler handle. Create one per run with
// NewCompiler and Close it after every session derived from it is done.
type Compiler struct {
	opts   compilerOptions
	closed atomic.Bool
}

// NewCompiler creates a compiler with the given options applied over the
// defaults.
func NewCompiler(opts ...CompilerOption) *Compiler {
	o := defaultCompilerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compiler{opts: o}
}

// Close releases the compiler. It is safe to call more than once.
func (c *Compiler) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	slogger().Debug("shader compiler closed")
	return nil
}

func (c *Compiler) checkOpen() error {
	if c == nil || c.closed.Load() {
		return ErrCompilerClosed
	}
	return nil
}

// Session is a compilation context with one output target and an ordered
// include search path.
type Session struct {
	compiler    *Compiler
	target      Target
	includeDirs []string
}

// NewSession creates a session. Every include directory must exist.
func (c *Compiler) NewSession(target Target, includeDirs []string) (*Session, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if target >= targetCount {
		return nil, fmt.Errorf("create shader session: unknown target %d", uint8(target))
	}
	for _, dir := range includeDirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("create shader session: include directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("create shader session: include directory %s is not a directory", dir)
		}
	}
	slogger().Debug("shader session created", "target", target, "includeDirs", includeDirs)
	return &Session{
		compiler:    c,
		target:      target,
		includeDirs: slices.Clone(includeDirs),
	}, nil
}

// Target returns the session's output target.
func (s *Session) Target() Target { return s.target }

// IncludeDirs returns the include search path in lookup order.
func (s *Session) IncludeDirs() []string { return slices.Clone(s.includeDirs) }
