// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest reads the project file that lists the codebases of a
// project in build order.
//
// A manifest is YAML (cbuild.yaml, cbuild.yml) or TOML (cbuild.toml):
//
//	codebases:
//	  - name: Arithmetic
//	    dir: arithmetic
//	    kind: static
//	  - name: Calc
//	    dir: calc
//	    deps: [Arithmetic]
//	    test: true
//
// A setting that is left out takes its default value. An explicit empty
// list selects nothing.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/cbuild/pkgs/codebase"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Names are the file names Find looks for, in order of preference.
var Names = []string{"cbuild.yaml", "cbuild.yml", "cbuild.toml"}

var (
	ErrNotFound = errors.New("no manifest found")
	ErrInvalid  = errors.New("invalid manifest")
)

// Kind is the artifact a codebase is built into.
type Kind string

const (
	KindExecutable Kind = "executable"
	KindStatic     Kind = "static"
	KindDynamic    Kind = "dynamic"
)

// IsLibrary reports whether codebases of kind k can be depended on.
func (k Kind) IsLibrary() bool {
	return k == KindStatic || k == KindDynamic
}

// Manifest is a decoded project file.
type Manifest struct {
	// Path is the file the manifest was loaded from.
	Path      string  `yaml:"-" toml:"-"`
	CodeBases []Entry `yaml:"codebases" toml:"codebases"`
}

// Entry describes one codebase.
type Entry struct {
	Name string `yaml:"name" toml:"name"`
	// Dir is the repository directory. It defaults to Name and is relative
	// to the manifest until Load resolves it.
	Dir  string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Kind Kind   `yaml:"kind,omitempty" toml:"kind,omitempty"`

	BuildConfiguration    *string   `yaml:"build_configuration,omitempty" toml:"build_configuration,omitempty"`
	LanguageStandard      *string   `yaml:"language_standard,omitempty" toml:"language_standard,omitempty"`
	Warnings              *[]string `yaml:"warnings,omitempty" toml:"warnings,omitempty"`
	Miscellaneous         *[]string `yaml:"miscellaneous,omitempty" toml:"miscellaneous,omitempty"`
	PreprocessorVariables []string  `yaml:"preprocessor_variables,omitempty" toml:"preprocessor_variables,omitempty"`

	// Deps names library codebases listed earlier in the manifest.
	Deps []string `yaml:"deps,omitempty" toml:"deps,omitempty"`
	// Test runs the executable after it is built.
	Test               bool `yaml:"test,omitempty" toml:"test,omitempty"`
	HaltOnFirstFailure bool `yaml:"halt_on_first_failure,omitempty" toml:"halt_on_first_failure,omitempty"`
}

// Find returns the path of the manifest in dir.
func Find(dir string) (string, error) {
	for _, name := range Names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNotFound, dir, strings.Join(Names, ", "))
}

// Load reads and validates the manifest at path. Repository directories
// are resolved against the directory holding the manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	base := filepath.Dir(path)
	for i := range m.CodeBases {
		e := &m.CodeBases[i]
		if !filepath.IsAbs(e.Dir) {
			e.Dir = filepath.Join(base, filepath.FromSlash(e.Dir))
		}
	}
	return m, nil
}

// Parse decodes a manifest in the format named by ext (".yaml", ".yml" or
// ".toml"), fills in defaults and validates it.
func Parse(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalid, ext)
	}
	for i := range m.CodeBases {
		e := &m.CodeBases[i]
		if e.Dir == "" {
			e.Dir = e.Name
		}
		if e.Kind == "" {
			e.Kind = KindExecutable
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that names are unique, kinds are known and every
// dependency names a library listed before the codebase using it.
func (m *Manifest) Validate() error {
	if len(m.CodeBases) == 0 {
		return fmt.Errorf("%w: no codebases", ErrInvalid)
	}
	seen := make(map[string]Kind, len(m.CodeBases))
	for _, e := range m.CodeBases {
		if e.Name == "" {
			return fmt.Errorf("%w: codebase without a name", ErrInvalid)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: duplicate codebase %q", ErrInvalid, e.Name)
		}
		switch e.Kind {
		case KindExecutable, KindStatic, KindDynamic:
		default:
			return fmt.Errorf("%w: codebase %q: unknown kind %q", ErrInvalid, e.Name, e.Kind)
		}
		if e.Test && e.Kind != KindExecutable {
			return fmt.Errorf("%w: codebase %q: only executables can be tested", ErrInvalid, e.Name)
		}
		for _, dep := range e.Deps {
			kind, ok := seen[dep]
			switch {
			case dep == e.Name:
				return fmt.Errorf("%w: codebase %q depends on itself", ErrInvalid, e.Name)
			case !ok:
				return fmt.Errorf("%w: codebase %q: dependency %q must be listed before it", ErrInvalid, e.Name, dep)
			case !kind.IsLibrary():
				return fmt.Errorf("%w: codebase %q: dependency %q is not a library", ErrInvalid, e.Name, dep)
			}
		}
		seen[e.Name] = e.Kind
	}
	return nil
}

// Lookup returns the entry called name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.CodeBases {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Settings returns the compilation settings of e on top of the defaults.
func (e Entry) Settings() codebase.Settings {
	s := codebase.DefaultSettings()
	if e.BuildConfiguration != nil {
		s = s.WithBuildConfiguration(*e.BuildConfiguration)
	}
	if e.LanguageStandard != nil {
		s = s.WithLanguageStandard(*e.LanguageStandard)
	}
	if e.Warnings != nil {
		s = s.WithWarnings(*e.Warnings...)
	}
	if e.Miscellaneous != nil {
		s = s.WithMiscellaneous(*e.Miscellaneous...)
	}
	if len(e.PreprocessorVariables) > 0 {
		s = s.WithPreprocessorVariables(e.PreprocessorVariables...)
	}
	return s
}

// Options returns the codebase options e selects.
func (e Entry) Options() []codebase.Option {
	return []codebase.Option{
		codebase.WithSettings(e.Settings()),
		codebase.WithHaltOnFirstFailure(e.HaltOnFirstFailure),
	}
}
