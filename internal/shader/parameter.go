// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"

	"github.com/gogpu/naga/ir"
)

// ParameterCategory is the binding category of a shader parameter.
type ParameterCategory uint8

const (
	CategoryNone ParameterCategory = iota
	// CategoryUniform is a var<uniform> value.
	CategoryUniform
	// CategoryDescriptorTableSlot is a resource occupying descriptor slots:
	// storage buffers, textures and samplers.
	CategoryDescriptorTableSlot
	// CategoryPushConstant is a var<push_constant> or var<immediate> value.
	CategoryPushConstant
)

func (c ParameterCategory) String() string {
	switch c {
	case CategoryNone:
		return "None"
	case CategoryUniform:
		return "Uniform"
	case CategoryDescriptorTableSlot:
		return "DescriptorTableSlot"
	case CategoryPushConstant:
		return "PushConstant"
	default:
		return fmt.Sprintf("ParameterCategory(%d)", uint8(c))
	}
}

// TypeKind is the coarse kind of a parameter's type.
type TypeKind uint8

const (
	KindNone TypeKind = iota
	KindScalar
	KindVector
	KindMatrix
	KindArray
	KindStruct
	KindResource
	KindSamplerState
)

func (k TypeKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindScalar:
		return "Scalar"
	case KindVector:
		return "Vector"
	case KindMatrix:
		return "Matrix"
	case KindArray:
		return "Array"
	case KindStruct:
		return "Struct"
	case KindResource:
		return "Resource"
	case KindSamplerState:
		return "SamplerState"
	default:
		return fmt.Sprintf("TypeKind(%d)", uint8(k))
	}
}

// ResourceShape is the shape of a resource parameter.
type ResourceShape uint8

const (
	ShapeNone ResourceShape = iota
	ShapeStructuredBuffer
	ShapeTexture
	ShapeAccelerationStructure
)

func (s ResourceShape) String() string {
	switch s {
	case ShapeNone:
		return "None"
	case ShapeStructuredBuffer:
		return "StructuredBuffer"
	case ShapeTexture:
		return "Texture"
	case ShapeAccelerationStructure:
		return "AccelerationStructure"
	default:
		return fmt.Sprintf("ResourceShape(%d)", uint8(s))
	}
}

// ResourceAccess is the access mode of a resource parameter.
type ResourceAccess uint8

const (
	AccessNone ResourceAccess = iota
	AccessRead
	AccessReadWrite
)

func (a ResourceAccess) String() string {
	switch a {
	case AccessNone:
		return "None"
	case AccessRead:
		return "Read"
	case AccessReadWrite:
		return "ReadWrite"
	default:
		return fmt.Sprintf("ResourceAccess(%d)", uint8(a))
	}
}

// Parameter is the reflection view of one top-level shader parameter.
type Parameter struct {
	Name     string
	Category ParameterCategory
	// Space is the @group the parameter is bound in.
	Space uint32
	// Index is the @binding slot.
	Index uint32
	Kind  TypeKind
	// SlotCount is the number of descriptor slots. Zero for unbounded
	// binding arrays.
	SlotCount uint32
	Shape     ResourceShape
	Access    ResourceAccess
	// Offset and Size locate a uniform within its buffer, in bytes.
	Offset uint32
	Size   uint32
}

// Parameters returns the module's shader parameters in declaration order.
// Module-private variables (function, private, workgroup) are not
// parameters and are omitted.
func (p *Program) Parameters() []Parameter {
	m := p.Module
	var params []Parameter
	for _, gv := range m.GlobalVariables {
		param := Parameter{
			Name:      gv.Name,
			SlotCount: 1,
		}
		if gv.Binding != nil {
			param.Space = gv.Binding.Group
			param.Index = gv.Binding.Binding
		}
		inner := typeInner(m, gv.Type)

		switch gv.Space {
		case ir.SpaceUniform:
			param.Category = CategoryUniform
			param.Kind = kindOf(inner)
			param.Size = ir.TypeSize(m, gv.Type)
		case ir.SpaceStorage:
			param.Category = CategoryDescriptorTableSlot
			param.Kind = KindResource
			param.Shape = ShapeStructuredBuffer
			param.Access = AccessReadWrite
			if gv.Access == ir.StorageRead {
				param.Access = AccessRead
			}
			if ba, ok := inner.(ir.BindingArrayType); ok {
				param.SlotCount = bindingArraySlots(ba)
			}
		case ir.SpaceHandle:
			param.Category = CategoryDescriptorTableSlot
			if ba, ok := inner.(ir.BindingArrayType); ok {
				param.SlotCount = bindingArraySlots(ba)
				inner = typeInner(m, ba.Base)
			}
			param.Kind, param.Shape, param.Access = handleKind(inner)
		case ir.SpacePushConstant, ir.SpaceImmediate:
			param.Category = CategoryPushConstant
			param.Kind = kindOf(inner)
			param.Size = ir.TypeSize(m, gv.Type)
		default:
			continue
		}
		slogger().Debug("parameter reflected", "module", p.Name, "name", param.Name,
			"category", param.Category, "group", param.Space, "binding", param.Index)
		params = append(params, param)
	}
	return params
}

func typeInner(m *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(m.Types) {
		return nil
	}
	return m.Types[h].Inner
}

func kindOf(inner ir.TypeInner) TypeKind {
	switch inner.(type) {
	case ir.ScalarType, ir.AtomicType:
		return KindScalar
	case ir.VectorType:
		return KindVector
	case ir.MatrixType:
		return KindMatrix
	case ir.ArrayType:
		return KindArray
	case ir.StructType:
		return KindStruct
	case ir.ImageType, ir.AccelerationStructureType:
		return KindResource
	case ir.SamplerType:
		return KindSamplerState
	case ir.BindingArrayType:
		return KindResource
	default:
		return KindNone
	}
}

func handleKind(inner ir.TypeInner) (TypeKind, ResourceShape, ResourceAccess) {
	switch inner.(type) {
	case ir.ImageType:
		return KindResource, ShapeTexture, AccessRead
	case ir.AccelerationStructureType:
		return KindResource, ShapeAccelerationStructure, AccessRead
	case ir.SamplerType:
		return KindSamplerState, ShapeNone, AccessNone
	default:
		return KindNone, ShapeNone, AccessNone
	}
}

func bindingArraySlots(ba ir.BindingArrayType) uint32 {
	if ba.Size == nil {
		return 0
	}
	return *ba.Size
}
