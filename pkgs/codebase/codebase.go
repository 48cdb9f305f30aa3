// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codebase compiles a C/C++ source tree into an executable or a
// library, and exposes built libraries as Dependencies of other codebases.
//
// A repository is laid out as:
//
//	<repo>/
//	  src/                 sources and headers, required
//	  build/               generated
//	    bin/<name>[.exe]   executable artifact
//	    lib/<library>      static or shared library artifact
//	    include/**         headers exported from src/**
//
// Building is synchronous and always recompiles every source file.
// Libraries must be built before the codebases that depend on them; the
// order is the caller's responsibility.
package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goplus/cbuild/internal/walk"
	"github.com/goplus/cbuild/pkgs/flags"
	"github.com/goplus/cbuild/pkgs/platform"
	"github.com/goplus/cbuild/pkgs/runner"
)

// CodeBase is a buildable unit rooted at a repository directory.
type CodeBase struct {
	name     string
	repoDir  string
	srcDir   string
	buildDir string
	binDir   string

	settings           Settings
	resolver           flags.Resolver
	runner             runner.Runner
	toolchain          platform.Toolchain
	platform           platform.Platform
	haltOnFirstFailure bool
	sourcePatterns     []string
	headerPatterns     []string

	deps  []*Dependency
	state State
}

// Option configures a CodeBase.
type Option func(*CodeBase)

// WithSettings sets the compilation settings. The default is DefaultSettings().
func WithSettings(s Settings) Option {
	return func(c *CodeBase) {
		c.settings = s
	}
}

// WithResolver sets the flag resolver. The default is flags.GNU().
func WithResolver(r flags.Resolver) Option {
	return func(c *CodeBase) {
		c.resolver = r
	}
}

// WithRunner sets the command runner. The default reports to stdout.
func WithRunner(r runner.Runner) Option {
	return func(c *CodeBase) {
		c.runner = r
	}
}

// WithToolchain sets the compiler, linker and archiver programs.
func WithToolchain(tc platform.Toolchain) Option {
	return func(c *CodeBase) {
		c.toolchain = tc
	}
}

// WithPlatform overrides the artifact naming conventions.
func WithPlatform(p platform.Platform) Option {
	return func(c *CodeBase) {
		c.platform = p
	}
}

// WithHaltOnFirstFailure selects what happens when a source file fails to
// compile. If halt is true, no further file is compiled. Otherwise the
// remaining files are still compiled so every error gets reported. Either
// way nothing is linked or archived.
func WithHaltOnFirstFailure(halt bool) Option {
	return func(c *CodeBase) {
		c.haltOnFirstFailure = halt
	}
}

// WithSourcePatterns sets the doublestar patterns, relative to src, that
// select the files to compile.
func WithSourcePatterns(patterns ...string) Option {
	return func(c *CodeBase) {
		c.sourcePatterns = slices.Clone(patterns)
	}
}

// WithHeaderPatterns sets the doublestar patterns, relative to src, that
// select the headers exported by a library.
func WithHeaderPatterns(patterns ...string) Option {
	return func(c *CodeBase) {
		c.headerPatterns = slices.Clone(patterns)
	}
}

// New returns the CodeBase called name rooted at repoDir. repoDir and
// repoDir/src must exist; the build directories are created on demand.
func New(name, repoDir string, opts ...Option) (*CodeBase, error) {
	if name == "" {
		return nil, fmt.Errorf("codebase: empty name: %w", ErrInvalidRepository)
	}
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("codebase %q: %w: %w", name, ErrInvalidRepository, err)
	}
	if err := requireDir(abs); err != nil {
		return nil, fmt.Errorf("codebase %q: %w: %w", name, ErrInvalidRepository, err)
	}
	srcDir := filepath.Join(abs, "src")
	if err := requireDir(srcDir); err != nil {
		return nil, fmt.Errorf("codebase %q: no src directory in %s: %w", name, abs, ErrMissingSourceDirectory)
	}

	buildDir := filepath.Join(abs, "build")
	c := &CodeBase{
		name:           name,
		repoDir:        abs,
		srcDir:         srcDir,
		buildDir:       buildDir,
		binDir:         filepath.Join(buildDir, "bin"),
		settings:       DefaultSettings(),
		resolver:       flags.GNU(),
		toolchain:      platform.DefaultToolchain(),
		platform:       platform.Current(),
		sourcePatterns: []string{walk.SourcePattern},
		headerPatterns: []string{walk.HeaderPattern},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = runner.New()
	}
	return c, nil
}

func (c *CodeBase) Name() string          { return c.name }
func (c *CodeBase) RepositoryDir() string { return c.repoDir }
func (c *CodeBase) SourceDir() string     { return c.srcDir }
func (c *CodeBase) BuildDir() string      { return c.buildDir }
func (c *CodeBase) BinaryDir() string     { return c.binDir }
func (c *CodeBase) Settings() Settings    { return c.settings }

// State reports how far the last pipeline run got.
func (c *CodeBase) State() State { return c.state }

// Dependencies returns the attached dependencies in attachment order.
func (c *CodeBase) Dependencies() []*Dependency {
	return slices.Clone(c.deps)
}

// AddDependency appends dep to the dependency list. Flags derived from
// dependencies are emitted in attachment order. No check is made for
// duplicates, cycles or a platform mismatch.
func (c *CodeBase) AddDependency(dep *Dependency) {
	c.deps = append(c.deps, dep)
}

// ExecutablePath is where GenerateAsExecutable writes the executable.
func (c *CodeBase) ExecutablePath() string {
	return filepath.Join(c.binDir, c.platform.ExecutableFile(c.name))
}

// LibraryPath is where GenerateAsDependency writes the library.
func (c *CodeBase) LibraryPath(dynamic bool) string {
	return filepath.Join(c.buildDir, "lib", c.platform.LibraryFile(c.name, dynamic))
}

// Clean removes the whole build directory. Pipelines never call it.
func (c *CodeBase) Clean() error {
	c.state = Unbuilt
	return os.RemoveAll(c.buildDir)
}
