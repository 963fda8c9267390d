// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/naga/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/kernelgen/internal/layout"
	"github.com/gogpu/kernelgen/internal/shader"
	"github.com/gogpu/kernelgen/internal/tpl"
)

const (
	tF32 ir.TypeHandle = iota
	tF32Array
	tVec4
)

func testTypes() []ir.Type {
	return []ir.Type{
		tF32:      {Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
		tF32Array: {Inner: ir.ArrayType{Base: tF32, Stride: 4}},
		tVec4:     {Inner: ir.VectorType{Size: ir.Vec4, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
	}
}

func storageVar(name string, binding uint32, access ir.StorageAccessMode) ir.GlobalVariable {
	return ir.GlobalVariable{
		Name:    name,
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: binding},
		Type:    tF32Array,
		Access:  access,
	}
}

func uniformVar(name string, binding uint32, typ ir.TypeHandle) ir.GlobalVariable {
	return ir.GlobalVariable{
		Name:    name,
		Space:   ir.SpaceUniform,
		Binding: &ir.ResourceBinding{Group: 0, Binding: binding},
		Type:    typ,
	}
}

func testProgram(globals []ir.GlobalVariable, entryPoints ...shader.EntryPoint) *shader.Program {
	return &shader.Program{
		Name:        "test",
		InputPath:   "test.wgsl",
		Module:      &ir.Module{Types: testTypes(), GlobalVariables: globals},
		EntryPoints: entryPoints,
	}
}

func compute(name string, x, y, z uint32) shader.EntryPoint {
	return shader.EntryPoint{Name: name, Stage: ir.StageCompute, WorkgroupSize: [3]uint32{x, y, z}}
}

func sumProgram() *shader.Program {
	return testProgram([]ir.GlobalVariable{
		storageVar("a", 0, ir.StorageRead),
		storageVar("b", 1, ir.StorageRead),
		storageVar("result", 2, ir.StorageReadWrite),
	}, compute("computeSum", 1, 1, 1))
}

func scaleProgram() *shader.Program {
	return testProgram([]ir.GlobalVariable{
		uniformVar("scale", 0, tF32),
		storageVar("values", 1, ir.StorageReadWrite),
	}, compute("scaleValues", 32, 1, 1))
}

func render(t *testing.T, g *Generator, body string) string {
	t.Helper()
	out, err := tpl.Generate("[[s]]"+body, "s", g)
	require.NoError(t, err)
	return out
}

func TestScenarioStorageOnly(t *testing.T) {
	g := New("Sum", sumProgram(), "wgsl")
	require.NoError(t, g.Check())

	info := g.Layout()
	assert.Nil(t, info.Uniforms)
	require.Len(t, info.Bindings, 3)
	assert.Equal(t, "3", render(t, g, "{{bindingCount}}"))
	assert.Equal(t, "", render(t, g, "{{if hasUniforms}}uniforms{{end}}"))
	assert.Equal(t,
		"0 a gputypes.BufferBindingTypeReadOnlyStorage 0\n"+
			"1 b gputypes.BufferBindingTypeReadOnlyStorage 0\n"+
			"2 result gputypes.BufferBindingTypeStorage 0\n",
		render(t, g, "{{foreach bindings}}{{bindingIndex}} {{bindingName}} {{bindingType}} {{bindingMinSize}}\n{{end}}"))
}

func TestScenarioScalarUniform(t *testing.T) {
	g := New("Scale", scaleProgram(), "wgsl")
	require.NoError(t, g.Check())

	info := g.Layout()
	require.NotNil(t, info.Uniforms)
	assert.Equal(t, uint64(4), info.Uniforms.MinBindingSize)
	assert.Equal(t, "yes 4", render(t, g, "{{if hasUniforms}}yes {{uniformsMinBindingSize}}{{end}}"))
	assert.Equal(t, "uniforms *wgpu.Buffer, values *wgpu.Buffer", render(t, g, "{{bufferParameters}}"))
	assert.Equal(t, "uniforms, values *wgpu.Buffer", render(t, g, "{{bufferParametersDecl}}"))
	assert.Equal(t, "uniforms, values", render(t, g, "{{bufferArguments}}"))
}

func TestEntryPointLoop(t *testing.T) {
	p := testProgram(nil,
		compute("first", 64, 1, 1),
		compute("secondPass", 8, 8, 1),
		compute("third", 4, 4, 4))
	g := New("Multi", p, "")
	require.NoError(t, g.Check())

	got := render(t, g, "{{entryPointCount}}:{{foreach entryPoints}} {{entryPointIndex}}={{EntryPointName}}({{workgroupSize}}){{end}}")
	assert.Equal(t, "3: 0=First(64, 1, 1) 1=SecondPass(8, 8, 1) 2=Third(4, 4, 4)", got)

	assert.Equal(t, "", render(t, g, "{{if entryPointCount == 1}}single{{end}}"))
	assert.Equal(t, "|||", render(t, g, "{{foreach entryPoints}}{{if entryPointCount == 1}}never{{end}}|{{end}}"))
}

func TestSingleEntryPointCondition(t *testing.T) {
	g := New("Sum", sumProgram(), "")
	got := render(t, g, "{{if entryPointCount == 1}}{{entryPointName}} {{workgroupSizeX}}/{{workgroupSizeY}}/{{workgroupSizeZ}}{{end}}")
	assert.Equal(t, "computeSum 1/1/1", got)
}

func TestBindGroupLayoutEntries(t *testing.T) {
	g := New("Scale", scaleProgram(), "")
	want := strings.Join([]string{
		"\tentries[0].Binding = 0",
		"\tentries[0].Visibility = gputypes.ShaderStageCompute",
		"\tentries[0].Buffer = &gputypes.BufferBindingLayout{}",
		"\tentries[0].Buffer.Type = gputypes.BufferBindingTypeUniform",
		"\tentries[0].Buffer.MinBindingSize = 4",
		"\tentries[1].Binding = 1",
		"\tentries[1].Visibility = gputypes.ShaderStageCompute",
		"\tentries[1].Buffer = &gputypes.BufferBindingLayout{}",
		"\tentries[1].Buffer.Type = gputypes.BufferBindingTypeStorage",
		"\tentries[1].Buffer.MinBindingSize = 0",
	}, "\n")
	assert.Equal(t, want, render(t, g, "{{bindGroupLayoutEntries}}"))
}

func TestBindGroupEntries(t *testing.T) {
	g := New("Sum", sumProgram(), "")
	want := strings.Join([]string{
		"\tentries[0].Binding = 0",
		"\tentries[0].Buffer = a",
		"\tentries[0].Size = a.Size()",
		"\tentries[1].Binding = 1",
		"\tentries[1].Buffer = b",
		"\tentries[1].Size = b.Size()",
		"\tentries[2].Binding = 2",
		"\tentries[2].Buffer = result",
		"\tentries[2].Size = result.Size()",
	}, "\n")
	assert.Equal(t, want, render(t, g, "{{bindGroupEntries}}"))
}

func TestKeywordBindingNames(t *testing.T) {
	p := testProgram([]ir.GlobalVariable{
		storageVar("range", 0, ir.StorageRead),
		storageVar("data", 1, ir.StorageReadWrite),
	}, compute("main", 1, 1, 1))
	g := New("K", p, "")
	require.NoError(t, g.Check())
	assert.Equal(t, "range_ *wgpu.Buffer, data *wgpu.Buffer", render(t, g, "{{bufferParameters}}"))
}

func TestReservedBindingNames(t *testing.T) {
	p := testProgram([]ir.GlobalVariable{
		uniformVar("factor", 0, tF32),
		storageVar("uniforms", 1, ir.StorageRead),
		storageVar("k", 2, ir.StorageRead),
		storageVar("entries", 3, ir.StorageRead),
		storageVar("len", 4, ir.StorageRead),
		storageVar("wgpu", 5, ir.StorageReadWrite),
	}, compute("main", 1, 1, 1))
	g := New("K", p, "")
	require.NoError(t, g.Check())

	assert.Equal(t, "uniforms, uniforms_, k_, entries_, len_, wgpu_", render(t, g, "{{bufferArguments}}"))
	assert.Equal(t, "uniforms uniforms_ k_ entries_ len_ wgpu_ ",
		render(t, g, "{{foreach bindings}}{{bindingName}} {{end}}"))
	assert.Contains(t, render(t, g, "{{bindGroupEntries}}"), "\tentries[1].Buffer = uniforms_\n")
}

func TestParamNamesAreDistinct(t *testing.T) {
	bindings := []layout.BindingInfo{{Name: "err"}, {Name: "err_"}, {Name: "x"}, {Name: "x"}}
	assert.Equal(t, []string{"err_", "err__", "x", "x_"}, paramNames(bindings))
}

func TestTargetSourceExpressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"raw", "fn main() {}\n", "`fn main() {}\n`"},
		{"backquote", "a`b", `"a` + "`" + `b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("K", sumProgram(), tt.source)
			assert.Equal(t, tt.source, render(t, g, "{{targetSource}}"))
			assert.Equal(t, tt.source, render(t, g, "{{wgslSource}}"))
			assert.Equal(t, tt.want, render(t, g, "{{targetSourceQuoted}}"))
		})
	}
}

func TestKernelName(t *testing.T) {
	g := New("ComputeSum", sumProgram(), "")
	assert.Equal(t, "ComputeSum/ComputeSum", render(t, g, "{{kernelName}}/{{kernelLabel}}"))
	assert.Equal(t, "computesum", render(t, g, "{{packageName}}"))

	g = New("ComputeSum", sumProgram(), "", WithPackageName("kernels"))
	assert.Equal(t, "kernels", render(t, g, "{{packageName}}"))
}

func TestErrors(t *testing.T) {
	g := New("K", sumProgram(), "")

	var sb strings.Builder
	err := g.ProcessExpression("nope", &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown expression "nope"`)

	for _, call := range []func() error{
		func() error { return g.ResetIterator("nope") },
		func() error { return g.StepIterator("nope") },
		func() error { _, err := g.IteratorEnded("nope"); return err },
	} {
		err := call()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown iterator "nope"`)
	}

	require.NoError(t, g.ResetIterator("entryPoints"))
	require.NoError(t, g.StepIterator("entryPoints"))
	err = g.ProcessExpression("entryPointName", &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a current entry point")

	require.NoError(t, g.ResetIterator("bindings"))
	for range 3 {
		require.NoError(t, g.StepIterator("bindings"))
	}
	err = g.ProcessExpression("bindingName", &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a current binding")
}

func TestCheckReportsLayoutError(t *testing.T) {
	p := testProgram([]ir.GlobalVariable{
		uniformVar("color", 0, tVec4),
	}, compute("main", 1, 1, 1))
	g := New("K", p, "")

	err := g.Check()
	require.Error(t, err)
	var layoutErr *layout.Error
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "color", layoutErr.Parameter)
	assert.Nil(t, g.Layout())

	var sb strings.Builder
	assert.ErrorIs(t, g.ProcessExpression("bindingCount", &sb), err)
}

func TestGeneratorWithLoadedModule(t *testing.T) {
	c := shader.NewCompiler()
	t.Cleanup(func() { _ = c.Close() })
	s, err := c.NewSession(shader.TargetWGSL, []string{filepath.Join("..", "shader", "testdata", "include")})
	require.NoError(t, err)
	mi, err := s.LoadModule("multi", filepath.Join("..", "shader", "testdata", "multi.wgsl"), []string{"applyFactor", "copyValues"})
	require.NoError(t, err)

	g := New("Multi", mi.Program, mi.Program.Source)
	require.NoError(t, g.Check())
	assert.Equal(t, "3", render(t, g, "{{bindingCount}}"))
	assert.Equal(t, "8", render(t, g, "{{uniformsMinBindingSize}}"))
	assert.Equal(t, "ApplyFactor,CopyValues,", render(t, g, "{{foreach entryPoints}}{{EntryPointName}},{{end}}"))
}
