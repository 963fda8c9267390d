// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads project defaults for kernelgen from a TOML file.
//
// The file is named kernelgen.toml and is searched for in the directory of
// the input shader and its parents:
//
//	target = "wgsl"
//	include_directories = ["shaders/include"]
//	template = "templates/kernel.go.tpl"
//	format_go = true
//
// Relative paths are resolved against the directory containing the file.
// Command-line flags always take precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/kernelgen/internal/shader"
	"github.com/gogpu/kernelgen/templates"
)

// FileName is the name of the project configuration file.
const FileName = "kernelgen.toml"

// Config is the decoded configuration file. Unset fields are nil.
type Config struct {
	Target             *shader.Target `toml:"target"`
	IncludeDirectories []string       `toml:"include_directories"`
	Template           *string        `toml:"template"`
	EntryPoints        []string       `toml:"entrypoints"`
	FormatGo           *bool          `toml:"format_go"`
	Verbose            *bool          `toml:"verbose"`

	// dir is the directory the file was loaded from.
	dir string
}

// Load searches for FileName starting at startDir and walking up to the
// filesystem root. It returns nil and an empty path if no file is found.
func Load(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			cfg, err := LoadFile(path)
			return cfg, path, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile decodes the configuration file at path. Unknown keys are
// rejected.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// Settings are the effective options after merging.
type Settings struct {
	Target             shader.Target
	IncludeDirectories []string
	Template           string
	EntryPoints        []string
	FormatGo           bool
	Verbose            bool
}

// Defaults returns the settings used when neither the file nor the command
// line sets a value.
func Defaults() Settings {
	return Settings{
		Target:   shader.TargetWGSL,
		FormatGo: true,
	}
}

// Overrides holds command-line values. Nil pointers and empty slices mean
// the flag was not given.
type Overrides struct {
	Target             *shader.Target
	IncludeDirectories []string
	Template           *string
	EntryPoints        []string
	FormatGo           *bool
	Verbose            *bool
}

// Merge applies the file values over the defaults, then the command-line
// overrides over the result. A nil Config contributes nothing.
func (c *Config) Merge(cli Overrides) Settings {
	s := Defaults()
	if c != nil {
		if c.Target != nil {
			s.Target = *c.Target
		}
		for _, dir := range c.IncludeDirectories {
			s.IncludeDirectories = append(s.IncludeDirectories, c.resolve(dir))
		}
		if c.Template != nil {
			s.Template = c.resolve(*c.Template)
		}
		if len(c.EntryPoints) > 0 {
			s.EntryPoints = c.EntryPoints
		}
		if c.FormatGo != nil {
			s.FormatGo = *c.FormatGo
		}
		if c.Verbose != nil {
			s.Verbose = *c.Verbose
		}
	}

	if cli.Target != nil {
		s.Target = *cli.Target
	}
	if len(cli.IncludeDirectories) > 0 {
		s.IncludeDirectories = cli.IncludeDirectories
	}
	if cli.Template != nil {
		s.Template = *cli.Template
	}
	if len(cli.EntryPoints) > 0 {
		s.EntryPoints = cli.EntryPoints
	}
	if cli.FormatGo != nil {
		s.FormatGo = *cli.FormatGo
	}
	if cli.Verbose != nil {
		s.Verbose = *cli.Verbose
	}
	return s
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || templates.IsBuiltin(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
