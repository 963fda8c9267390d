// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"fmt"
	"go/token"
	"go/types"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/kernelgen/internal/layout"
)

// expressions maps template expression names to their evaluators.
var expressions = map[string]func(*Generator, io.Writer) error{
	"kernelName":             (*Generator).kernelName,
	"kernelLabel":            (*Generator).kernelName,
	"packageName":            (*Generator).packageNameExpr,
	"targetSource":           (*Generator).targetSourceText,
	"wgslSource":             (*Generator).targetSourceText,
	"targetSourceQuoted":     (*Generator).targetSourceQuoted,
	"entryPointName":         (*Generator).entryPointName,
	"EntryPointName":         (*Generator).entryPointNameTitle,
	"workgroupSize":          (*Generator).workgroupSize,
	"workgroupSizeX":         workgroupAxis(0),
	"workgroupSizeY":         workgroupAxis(1),
	"workgroupSizeZ":         workgroupAxis(2),
	"entryPointCount":        (*Generator).entryPointCount,
	"entryPointIndex":        (*Generator).entryPointIndex,
	"bindingCount":           (*Generator).bindingCount,
	"uniformsMinBindingSize": (*Generator).uniformsMinBindingSize,
	"bufferParameters":       (*Generator).bufferParameters,
	"bufferParametersDecl":   (*Generator).bufferParametersDecl,
	"bufferArguments":        (*Generator).bufferArguments,
	"bindGroupLayoutEntries": (*Generator).bindGroupLayoutEntries,
	"bindGroupEntries":       (*Generator).bindGroupEntries,
	"bindingIndex":           (*Generator).bindingIndex,
	"bindingName":            (*Generator).bindingName,
	"bindingType":            (*Generator).bindingType,
	"bindingMinSize":         (*Generator).bindingMinSize,
}

func (g *Generator) kernelName(w io.Writer) error {
	_, err := io.WriteString(w, g.name)
	return err
}

func (g *Generator) packageNameExpr(w io.Writer) error {
	_, err := io.WriteString(w, g.packageName)
	return err
}

func (g *Generator) targetSourceText(w io.Writer) error {
	_, err := io.WriteString(w, g.targetSource)
	return err
}

// targetSourceQuoted writes the target source as a Go string literal,
// preferring a raw string when the source contains no backquote.
func (g *Generator) targetSourceQuoted(w io.Writer) error {
	lit := strconv.Quote(g.targetSource)
	if !strings.Contains(g.targetSource, "`") && !strings.Contains(g.targetSource, "\r") {
		lit = "`" + g.targetSource + "`"
	}
	_, err := io.WriteString(w, lit)
	return err
}

func (g *Generator) entryPointName(w io.Writer) error {
	ep, err := g.currentEntryPoint("entryPointName")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ep.Name)
	return err
}

func (g *Generator) entryPointNameTitle(w io.Writer) error {
	ep, err := g.currentEntryPoint("EntryPointName")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, g.title.String(ep.Name))
	return err
}

func (g *Generator) workgroupSize(w io.Writer) error {
	ep, err := g.currentEntryPoint("workgroupSize")
	if err != nil {
		return err
	}
	size := ep.WorkgroupSize
	_, err = fmt.Fprintf(w, "%d, %d, %d", size[0], size[1], size[2])
	return err
}

func workgroupAxis(axis int) func(*Generator, io.Writer) error {
	expr := "workgroupSize" + string(rune('X'+axis))
	return func(g *Generator, w io.Writer) error {
		ep, err := g.currentEntryPoint(expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, ep.WorkgroupSize[axis])
		return err
	}
}

func (g *Generator) entryPointCount(w io.Writer) error {
	_, err := fmt.Fprint(w, len(g.program.EntryPoints))
	return err
}

func (g *Generator) entryPointIndex(w io.Writer) error {
	_, err := fmt.Fprint(w, g.entryPoint)
	return err
}

func (g *Generator) bindingCount(w io.Writer) error {
	_, err := fmt.Fprint(w, len(g.layout.Bindings))
	return err
}

func (g *Generator) uniformsMinBindingSize(w io.Writer) error {
	var size uint64
	if g.layout.Uniforms != nil {
		size = g.layout.Uniforms.MinBindingSize
	}
	_, err := fmt.Fprint(w, size)
	return err
}

// bufferParameters writes the public parameter list, one typed buffer
// handle per binding: "a *wgpu.Buffer, b *wgpu.Buffer".
func (g *Generator) bufferParameters(w io.Writer) error {
	params := make([]string, len(g.params))
	for i, name := range g.params {
		params[i] = name + " *wgpu.Buffer"
	}
	_, err := io.WriteString(w, strings.Join(params, ", "))
	return err
}

// bufferParametersDecl writes the parameter list for the unexported
// implementation, grouped under a single type: "a, b *wgpu.Buffer".
func (g *Generator) bufferParametersDecl(w io.Writer) error {
	if len(g.layout.Bindings) == 0 {
		return nil
	}
	_, err := io.WriteString(w, g.argumentList()+" *wgpu.Buffer")
	return err
}

// bufferArguments writes the binding names as a call argument list.
func (g *Generator) bufferArguments(w io.Writer) error {
	_, err := io.WriteString(w, g.argumentList())
	return err
}

func (g *Generator) argumentList() string {
	return strings.Join(g.params, ", ")
}

// bindGroupLayoutEntries writes statements filling entries[i] of a
// []gputypes.BindGroupLayoutEntry, one block per binding.
func (g *Generator) bindGroupLayoutEntries(w io.Writer) error {
	var sb strings.Builder
	for i, b := range g.layout.Bindings {
		fmt.Fprintf(&sb, "\tentries[%d].Binding = %d\n", i, b.Index)
		fmt.Fprintf(&sb, "\tentries[%d].Visibility = gputypes.ShaderStageCompute\n", i)
		switch d := b.Details.(type) {
		case layout.BufferBindingInfo:
			var minSize uint64
			if d.MinBindingSize != nil {
				minSize = *d.MinBindingSize
			}
			fmt.Fprintf(&sb, "\tentries[%d].Buffer = &gputypes.BufferBindingLayout{}\n", i)
			fmt.Fprintf(&sb, "\tentries[%d].Buffer.Type = %s\n", i, bufferTypeConstant(d.Type))
			fmt.Fprintf(&sb, "\tentries[%d].Buffer.MinBindingSize = %d\n", i, minSize)
		default:
			return fmt.Errorf("binding %q has unsupported details %T", b.Name, b.Details)
		}
	}
	_, err := io.WriteString(w, strings.TrimSuffix(sb.String(), "\n"))
	return err
}

// bindGroupEntries writes statements filling entries[i] of a
// []wgpu.BindGroupEntry from the buffer parameters.
func (g *Generator) bindGroupEntries(w io.Writer) error {
	var sb strings.Builder
	for i, b := range g.layout.Bindings {
		switch b.Details.(type) {
		case layout.BufferBindingInfo:
			name := g.params[i]
			fmt.Fprintf(&sb, "\tentries[%d].Binding = %d\n", i, b.Index)
			fmt.Fprintf(&sb, "\tentries[%d].Buffer = %s\n", i, name)
			fmt.Fprintf(&sb, "\tentries[%d].Size = %s.Size()\n", i, name)
		default:
			return fmt.Errorf("binding %q has unsupported details %T", b.Name, b.Details)
		}
	}
	_, err := io.WriteString(w, strings.TrimSuffix(sb.String(), "\n"))
	return err
}

func (g *Generator) bindingIndex(w io.Writer) error {
	b, err := g.currentBinding("bindingIndex")
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, b.Index)
	return err
}

func (g *Generator) bindingName(w io.Writer) error {
	if _, err := g.currentBinding("bindingName"); err != nil {
		return err
	}
	_, err := io.WriteString(w, g.params[g.binding])
	return err
}

func (g *Generator) bindingType(w io.Writer) error {
	b, err := g.currentBinding("bindingType")
	if err != nil {
		return err
	}
	switch d := b.Details.(type) {
	case layout.BufferBindingInfo:
		_, err = io.WriteString(w, bufferTypeConstant(d.Type))
		return err
	default:
		return fmt.Errorf("binding %q has unsupported details %T", b.Name, b.Details)
	}
}

func (g *Generator) bindingMinSize(w io.Writer) error {
	b, err := g.currentBinding("bindingMinSize")
	if err != nil {
		return err
	}
	var size uint64
	if bb, ok := b.Buffer(); ok && bb.MinBindingSize != nil {
		size = *bb.MinBindingSize
	}
	_, err = fmt.Fprint(w, size)
	return err
}

func bufferTypeConstant(t gputypes.BufferBindingType) string {
	return "gputypes.BufferBindingType" + t.String()
}

// reservedNames are the identifiers the builtin template declares or
// imports in the scope of the buffer parameters.
var reservedNames = map[string]bool{
	"k":         true,
	"device":    true,
	"entries":   true,
	"err":       true,
	"pass":      true,
	"size":      true,
	"bindGroup": true,
	"pipeline":  true,
	"groups":    true,
	"fmt":       true,
	"gputypes":  true,
	"wgpu":      true,
	"kernel":    true,
}

// paramNames returns one distinct Go identifier per binding. Names that are
// Go keywords, predeclared identifiers or reserved names get a trailing
// underscore, and so does a name already taken by an earlier binding.
func paramNames(bindings []layout.BindingInfo) []string {
	names := make([]string, len(bindings))
	used := make(map[string]bool, len(bindings))
	for i, b := range bindings {
		name := b.Name
		if token.IsKeyword(name) || types.Universe.Lookup(name) != nil || reservedNames[name] {
			name += "_"
		}
		for used[name] {
			name += "_"
		}
		used[name] = true
		names[i] = name
	}
	return names
}
