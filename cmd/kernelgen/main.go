// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command kernelgen generates host-side bindings for WGSL compute shaders.
//
// Usage:
//
//	kernelgen -n Sum -i sum.wgsl -e computeSum \
//	    -t builtin:kernel.go.tpl -d sum.go -c sum_impl.go -m sum.d
//
// Settings missing from the command line are read from the nearest
// kernelgen.toml above the input file, unless --no-config is given.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/gogpu/kernelgen"
	"github.com/gogpu/kernelgen/internal/config"
	"github.com/gogpu/kernelgen/internal/shader"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds the raw command-line values.
type cliFlags struct {
	name          string
	input         string
	template      string
	outputTarget  string
	outputHeader  string
	outputImpl    string
	outputDepfile string
	outputLayout  string
	target        string
	packageName   string
	configPath    string
	entryPoints   []string
	includeDirs   []string
	noConfig      bool
	noFormat      bool
	verbose       bool
	watch         bool
	version       bool
}

func newFlagSet(f *cliFlags, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("kernelgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&f.name, "name", "n", "", "name of the kernel, used in generated code (must be a Go identifier)")
	fs.StringVarP(&f.input, "input", "i", "", "shader source file")
	fs.StringVarP(&f.template, "input-template", "t", "", "binding template file, or builtin:kernel.go.tpl")
	fs.StringVarP(&f.outputTarget, "output-target", "w", "", "write the compiled shader source to this file")
	fs.StringVarP(&f.outputHeader, "output-header", "d", "", "write the template's header section to this file")
	fs.StringVarP(&f.outputImpl, "output-impl", "c", "", "write the template's implementation section to this file")
	fs.StringVarP(&f.outputDepfile, "output-depfile", "m", "", "write a make-style dependency file")
	fs.StringVar(&f.outputLayout, "output-layout", "", "write the binding layout as JSON")
	fs.StringSliceVarP(&f.entryPoints, "entrypoint", "e", nil, "entry points to compile (comma-delimited, repeatable)")
	fs.StringSliceVarP(&f.includeDirs, "include-directories", "I", nil, "directories searched for #include files (comma-delimited, repeatable)")
	fs.StringVar(&f.target, "target", "", "target language of --output-target: wgsl, hlsl, msl or glsl")
	fs.StringVar(&f.packageName, "package", "", "Go package of generated code (default: lower-cased name)")
	fs.StringVar(&f.configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	fs.BoolVar(&f.noConfig, "no-config", false, "do not read any configuration file")
	fs.BoolVar(&f.noFormat, "no-format", false, "do not format generated .go files")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug output")
	fs.BoolVar(&f.watch, "watch", false, "regenerate whenever a dependency changes")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")
	return fs
}

func run(argv []string, stdout, stderr io.Writer) int {
	var f cliFlags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if f.version {
		fmt.Fprintln(stdout, "kernelgen", kernelgen.Version)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments: %v\n", fs.Args())
		return exitError
	}

	args, settings, err := resolve(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	level := slog.LevelInfo
	if settings.Verbose {
		level = slog.LevelDebug
	}
	kernelgen.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer kernelgen.SetLogger(nil)

	opts := []kernelgen.Option{
		kernelgen.WithGoFormatting(settings.FormatGo),
		kernelgen.WithLayoutLog(settings.Verbose),
	}

	if f.watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = watch(ctx, args, opts)
	} else {
		_, err = kernelgen.Run(args, opts...)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

// resolve merges the configuration file and the flags into run arguments.
func resolve(fs *pflag.FlagSet, f *cliFlags) (kernelgen.Arguments, config.Settings, error) {
	var cfg *config.Config
	if !f.noConfig {
		var err error
		if f.configPath != "" {
			cfg, err = config.LoadFile(f.configPath)
		} else if f.input != "" {
			cfg, _, err = config.Load(filepath.Dir(f.input))
		}
		if err != nil {
			return kernelgen.Arguments{}, config.Settings{}, err
		}
	}

	var cli config.Overrides
	if fs.Changed("target") {
		t, err := shader.ParseTarget(f.target)
		if err != nil {
			return kernelgen.Arguments{}, config.Settings{}, &kernelgen.ConfigError{Option: "--target", Reason: err.Error()}
		}
		cli.Target = &t
	}
	if fs.Changed("input-template") {
		cli.Template = &f.template
	}
	if fs.Changed("no-format") {
		formatGo := !f.noFormat
		cli.FormatGo = &formatGo
	}
	if fs.Changed("verbose") {
		cli.Verbose = &f.verbose
	}
	cli.IncludeDirectories = f.includeDirs
	cli.EntryPoints = f.entryPoints

	s := cfg.Merge(cli)
	args := kernelgen.Arguments{
		Name:                 f.name,
		Input:                f.input,
		OutputTarget:         f.outputTarget,
		OutputHeader:         f.outputHeader,
		OutputImplementation: f.outputImpl,
		OutputDepfile:        f.outputDepfile,
		OutputLayout:         f.outputLayout,
		EntryPoints:          s.EntryPoints,
		IncludeDirectories:   s.IncludeDirectories,
		Target:               s.Target,
		PackageName:          f.packageName,
	}
	// A configured template is a default for binding outputs; it does not
	// request them.
	if cli.Template != nil || f.outputHeader != "" || f.outputImpl != "" {
		args.Template = s.Template
	}
	return args, s, args.Validate()
}
