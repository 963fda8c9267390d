// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout derives a WebGPU bind group layout from shader reflection.
//
// Storage buffers become one binding each, keyed by their @binding slot.
// Uniform parameters are aggregated into a single buffer that occupies
// binding 0 under the synthetic name "uniforms". Only bind group 0 is
// supported.
package layout

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kernelgen/internal/shader"
)

// UniformsName is the name of the synthetic binding that carries all
// uniform parameters.
const UniformsName = "uniforms"

// UniformsBinding is the slot reserved for the uniform buffer.
const UniformsBinding uint32 = 0

// Details describes what kind of resource a binding is. BufferBindingInfo
// is currently the only implementation.
type Details interface {
	isDetails()
}

// BufferBindingInfo describes a buffer binding.
type BufferBindingInfo struct {
	Type gputypes.BufferBindingType
	// MinBindingSize is nil when the shader imposes no minimum.
	MinBindingSize *uint64
}

func (BufferBindingInfo) isDetails() {}

// BindingInfo is one entry of the layout.
type BindingInfo struct {
	Index   uint32
	Name    string
	Details Details
}

// Buffer returns the binding's buffer details, or false if it is not a
// buffer binding.
func (b BindingInfo) Buffer() (BufferBindingInfo, bool) {
	bb, ok := b.Details.(BufferBindingInfo)
	return bb, ok
}

// UniformInfo describes the aggregated uniform buffer.
type UniformInfo struct {
	MinBindingSize uint64
}

// Info is the extracted layout. It is immutable once built.
type Info struct {
	// Uniforms is nil when the shader declares no uniform parameters.
	Uniforms *UniformInfo
	// Bindings lists the synthetic uniforms binding first, when present,
	// followed by the resource bindings in declaration order.
	Bindings []BindingInfo
}

// FromProgram builds the layout of a loaded program.
func FromProgram(p *shader.Program) (*Info, error) {
	return Build(p.Parameters())
}

// Build walks the parameters in order and produces the layout. The first
// unsupported parameter aborts the walk.
func Build(params []shader.Parameter) (*Info, error) {
	info := &Info{}
	for _, p := range params {
		if p.Space != 0 {
			return nil, &Error{Parameter: p.Name, Reason: fmt.Sprintf("bind group %d is not supported, only group 0", p.Space)}
		}
		switch p.Category {
		case shader.CategoryDescriptorTableSlot:
			b, err := resourceBinding(p)
			if err != nil {
				return nil, err
			}
			info.Bindings = append(info.Bindings, b)
		case shader.CategoryUniform:
			if err := info.addUniform(p); err != nil {
				return nil, err
			}
		default:
			return nil, &Error{Parameter: p.Name, Reason: fmt.Sprintf("unsupported parameter category %s", p.Category)}
		}
	}

	if info.Uniforms != nil {
		size := info.Uniforms.MinBindingSize
		info.Bindings = append([]BindingInfo{{
			Index: UniformsBinding,
			Name:  UniformsName,
			Details: BufferBindingInfo{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: &size,
			},
		}}, info.Bindings...)
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func resourceBinding(p shader.Parameter) (BindingInfo, error) {
	if p.Kind != shader.KindResource {
		return BindingInfo{}, &Error{Parameter: p.Name, Reason: fmt.Sprintf("unsupported type kind %s, expected Resource", p.Kind)}
	}
	if p.SlotCount != 1 {
		return BindingInfo{}, &Error{Parameter: p.Name, Reason: "resource arrays are not supported"}
	}
	if p.Shape != shader.ShapeStructuredBuffer {
		return BindingInfo{}, &Error{Parameter: p.Name, Reason: fmt.Sprintf("unsupported resource shape %s, expected StructuredBuffer", p.Shape)}
	}

	var typ gputypes.BufferBindingType
	switch p.Access {
	case shader.AccessRead:
		typ = gputypes.BufferBindingTypeReadOnlyStorage
	case shader.AccessReadWrite:
		typ = gputypes.BufferBindingTypeStorage
	default:
		return BindingInfo{}, &Error{Parameter: p.Name, Reason: fmt.Sprintf("unsupported resource access %s", p.Access)}
	}
	return BindingInfo{
		Index:   p.Index,
		Name:    p.Name,
		Details: BufferBindingInfo{Type: typ},
	}, nil
}

func (info *Info) addUniform(p shader.Parameter) error {
	if p.Kind != shader.KindStruct && p.Kind != shader.KindScalar {
		return &Error{Parameter: p.Name, Reason: fmt.Sprintf("unsupported uniform kind %s, expected Struct or Scalar", p.Kind)}
	}
	if p.Index != UniformsBinding {
		return &Error{Parameter: p.Name, Reason: fmt.Sprintf("uniform parameters must be declared at @binding(%d), found @binding(%d)", UniformsBinding, p.Index)}
	}
	end := uint64(p.Offset) + uint64(p.Size)
	if info.Uniforms == nil {
		info.Uniforms = &UniformInfo{MinBindingSize: end}
		return nil
	}
	info.Uniforms.MinBindingSize = max(info.Uniforms.MinBindingSize, end)
	return nil
}

// BindGroupLayoutEntries converts the layout to WebGPU layout entries
// visible to the compute stage.
func (info *Info) BindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(info.Bindings))
	for _, b := range info.Bindings {
		entry := gputypes.BindGroupLayoutEntry{
			Binding:    b.Index,
			Visibility: gputypes.ShaderStageCompute,
		}
		if bb, ok := b.Buffer(); ok {
			layout := &gputypes.BufferBindingLayout{Type: bb.Type}
			if bb.MinBindingSize != nil {
				layout.MinBindingSize = *bb.MinBindingSize
			}
			entry.Buffer = layout
		}
		entries = append(entries, entry)
	}
	return entries
}

// Validate checks the layout against the WebGPU bind group layout rules
// with default limits. A resource declared at the uniforms slot is reported
// as a duplicate binding.
func (info *Info) Validate() error {
	desc := &hal.BindGroupLayoutDescriptor{
		Label:   "kernel",
		Entries: info.BindGroupLayoutEntries(),
	}
	if err := core.ValidateBindGroupLayoutDescriptor(desc, gputypes.DefaultLimits()); err != nil {
		return fmt.Errorf("invalid shader layout: %w", err)
	}
	return nil
}
