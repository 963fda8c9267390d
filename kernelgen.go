// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernelgen

import (
	"go/token"
	"os"
	"strconv"

	"github.com/gogpu/kernelgen/internal/binding"
	"github.com/gogpu/kernelgen/internal/depfile"
	"github.com/gogpu/kernelgen/internal/layout"
	"github.com/gogpu/kernelgen/internal/shader"
	"github.com/gogpu/kernelgen/internal/textio"
	"github.com/gogpu/kernelgen/internal/tpl"
	"github.com/gogpu/kernelgen/templates"
)

// Template section names rendered into the header and implementation
// outputs.
const (
	SectionHeader         = "header"
	SectionImplementation = "implementation"
)

// Arguments describe one generation run. Empty output paths disable the
// corresponding artifact.
type Arguments struct {
	// Name identifies the kernel in generated code. Must be a Go identifier.
	Name string

	// Input is the shader source file.
	Input string

	// Template is the binding template file, or a builtin reference such as
	// "builtin:kernel.go.tpl".
	Template string

	OutputTarget         string
	OutputHeader         string
	OutputImplementation string
	OutputDepfile        string
	OutputLayout         string

	// EntryPoints are the entry point functions to keep, in order.
	EntryPoints []string

	// IncludeDirectories are searched for #include files after the
	// directory of the including file.
	IncludeDirectories []string

	// Target is the language OutputTarget is written in.
	Target shader.Target

	// PackageName is the Go package of generated code. Defaults to the
	// lower-cased Name.
	PackageName string
}

// Validate checks the arguments without touching the file system beyond
// checking that Input exists. It returns a *ConfigError.
func (a *Arguments) Validate() error {
	switch {
	case a.Name == "":
		return &ConfigError{Option: "--name", Reason: "is required"}
	case !isIdentifier(a.Name):
		return &ConfigError{Option: "--name", Reason: "must be a valid Go identifier, got " + strconv.Quote(a.Name)}
	case a.Input == "":
		return &ConfigError{Option: "--input", Reason: "is required"}
	case len(a.EntryPoints) == 0:
		return &ConfigError{Option: "--entrypoint", Reason: "requires at least one entry point"}
	case a.PackageName != "" && !isIdentifier(a.PackageName):
		return &ConfigError{Option: "--package", Reason: "must be a valid Go identifier, got " + strconv.Quote(a.PackageName)}
	}
	if _, err := a.Target.MarshalText(); err != nil {
		return &ConfigError{Option: "--target", Reason: err.Error()}
	}
	if fi, err := os.Stat(a.Input); err != nil || fi.IsDir() {
		return &ConfigError{Option: "--input", Reason: "must name an existing file, got " + strconv.Quote(a.Input)}
	}

	if a.OutputHeader != "" || a.OutputImplementation != "" || a.Template != "" {
		if a.OutputHeader == "" {
			return &ConfigError{Option: "--output-header", Reason: "must be non-empty when --output-impl or --input-template is non-empty"}
		}
		if a.OutputImplementation == "" {
			return &ConfigError{Option: "--output-impl", Reason: "must be non-empty when --output-header is non-empty"}
		}
		if a.Template == "" {
			return &ConfigError{Option: "--input-template", Reason: "must be non-empty when --output-header is non-empty"}
		}
	}
	return nil
}

func (a *Arguments) generatesBinding() bool {
	return a.OutputHeader != ""
}

func isIdentifier(s string) bool {
	return token.IsIdentifier(s) && !token.IsKeyword(s)
}

// Result describes what a successful Run produced.
type Result struct {
	// Written lists the generated artifacts in the order they were saved.
	// The depfile is not included.
	Written []string

	// DependencyFiles lists every file the shader module was built from.
	DependencyFiles []string
}

// Run executes one generation. The first failure aborts the run and is
// returned unchanged. Artifacts written before the failure are left in
// place.
func Run(args Arguments, opts ...Option) (*Result, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := Logger()

	compiler := shader.NewCompiler(o.compiler...)
	defer compiler.Close()

	session, err := compiler.NewSession(args.Target, args.IncludeDirectories)
	if err != nil {
		return nil, err
	}

	log.Info("Loading shader module", "name", args.Name, "input", args.Input)
	info, err := session.LoadModule(args.Name, args.Input, args.EntryPoints)
	if err != nil {
		return nil, err
	}
	program := info.Program

	code, err := program.CompileToTarget()
	if err != nil {
		return nil, err
	}

	res := &Result{DependencyFiles: info.DependencyFiles}
	save := func(path, contents string) error {
		if o.formatGo && isGoFile(path) {
			formatted, err := formatGo(path, contents)
			if err != nil {
				return err
			}
			contents = formatted
		}
		if err := textio.Save(path, contents); err != nil {
			return err
		}
		res.Written = append(res.Written, path)
		return nil
	}

	if args.OutputTarget != "" {
		log.Info("Writing generated "+args.Target.String()+" source", "output", args.OutputTarget)
		if err := textio.Save(args.OutputTarget, code); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, args.OutputTarget)
	}

	var gen *binding.Generator
	if args.generatesBinding() {
		log.Info("Loading binding template", "template", args.Template)
		text, err := loadTemplate(args.Template)
		if err != nil {
			return nil, err
		}

		gen = binding.New(args.Name, program, code, binding.WithPackageName(args.PackageName))
		if err := gen.Check(); err != nil {
			return nil, err
		}
		if o.logLayout {
			logLayout(gen.Layout())
		}

		tplOpts := tpl.Options{Name: args.Template}
		log.Info("Generating binding header", "output", args.OutputHeader)
		header, err := tpl.GenerateWithOptions(text, SectionHeader, gen, tplOpts)
		if err != nil {
			return nil, err
		}
		if err := save(args.OutputHeader, header); err != nil {
			return nil, err
		}

		log.Info("Generating binding implementation", "output", args.OutputImplementation)
		impl, err := tpl.GenerateWithOptions(text, SectionImplementation, gen, tplOpts)
		if err != nil {
			return nil, err
		}
		if err := save(args.OutputImplementation, impl); err != nil {
			return nil, err
		}
	}

	if args.OutputLayout != "" {
		var li *layout.Info
		if gen != nil {
			li = gen.Layout()
		} else if li, err = layout.FromProgram(program); err != nil {
			return nil, err
		}
		doc, err := li.JSON()
		if err != nil {
			return nil, err
		}
		log.Info("Writing binding layout", "output", args.OutputLayout)
		if err := textio.Save(args.OutputLayout, doc); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, args.OutputLayout)
	}

	if args.OutputDepfile != "" {
		log.Info("Writing dependency file", "output", args.OutputDepfile, "dependencies", len(res.DependencyFiles))
		if err := depfile.Generate(res.DependencyFiles, args.OutputDepfile, res.Written); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// loadTemplate reads a template file or resolves a builtin reference.
func loadTemplate(ref string) (string, error) {
	if templates.IsBuiltin(ref) {
		return templates.Lookup(ref)
	}
	return textio.Load(ref)
}

func logLayout(info *layout.Info) {
	log := Logger()
	if info.Uniforms != nil {
		log.Info("uniforms", "binding", layout.UniformsBinding, "minBindingSize", info.Uniforms.MinBindingSize)
	}
	for _, b := range info.Bindings {
		if buf, ok := b.Buffer(); ok {
			log.Info("binding", "index", b.Index, "name", b.Name, "type", buf.Type)
		}
	}
}
