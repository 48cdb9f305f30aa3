package codebase

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dependency references a built library: the headers it exports and the
// directory holding its artifact. It is immutable.
type Dependency struct {
	name       string
	dynamic    bool
	includeDir string
	libraryDir string
}

// NewDependency describes the library name, built as a shared library if
// dynamic. Both directories must already exist.
func NewDependency(name string, dynamic bool, includeDir, libraryDir string) (*Dependency, error) {
	if err := requireDir(includeDir); err != nil {
		return nil, fmt.Errorf("dependency %q: include directory: %w: %w", name, ErrInvalidDependency, err)
	}
	if err := requireDir(libraryDir); err != nil {
		return nil, fmt.Errorf("dependency %q: library directory: %w: %w", name, ErrInvalidDependency, err)
	}
	return &Dependency{
		name:       name,
		dynamic:    dynamic,
		includeDir: includeDir,
		libraryDir: libraryDir,
	}, nil
}

func (d *Dependency) Name() string       { return d.name }
func (d *Dependency) IsDynamic() bool    { return d.dynamic }
func (d *Dependency) IncludeDir() string { return d.includeDir }
func (d *Dependency) LibraryDir() string { return d.libraryDir }

func (d *Dependency) String() string {
	kind := "static"
	if d.dynamic {
		kind = "dynamic"
	}
	return fmt.Sprintf("%s (%s, include %s, lib %s)", d.name, kind, d.includeDir, d.libraryDir)
}

func requireDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("empty path")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Clean(dir))
	}
	return nil
}
