// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags translates symbolic build settings into toolchain flags.
package flags

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedOption is returned when a symbolic name is not part of
// the enumeration of its axis.
var ErrUnrecognizedOption = errors.New("unrecognized option")

// Axis names a configuration axis.
type Axis string

const (
	AxisBuildConfiguration   Axis = "build configuration"
	AxisLanguageStandard     Axis = "language standard"
	AxisWarning              Axis = "warning"
	AxisMiscellaneous        Axis = "miscellaneous"
	AxisPreprocessorVariable Axis = "preprocessor variable"
	AxisIncludeDirectory     Axis = "include directory"
	AxisLibraryDirectory     Axis = "library directory"
	AxisLibraryName          Axis = "library name"
)

// Axes lists the enumerated axes, in flag composition order.
var Axes = []Axis{
	AxisBuildConfiguration,
	AxisLanguageStandard,
	AxisWarning,
	AxisMiscellaneous,
}

// Language is the language a standard belongs to.
type Language string

const (
	LanguageC   Language = "C"
	LanguageCXX Language = "C++"
)

// OptionError reports a name that is not recognized on an axis.
type OptionError struct {
	Axis Axis
	Name string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Axis, e.Name, ErrUnrecognizedOption)
}

func (e *OptionError) Unwrap() error {
	return ErrUnrecognizedOption
}

// Resolver maps symbolic configuration names to toolchain flag tokens.
// All methods are pure functions of their arguments.
type Resolver interface {
	BuildConfigurationFlags(name string) ([]string, error)
	LanguageStandardFlag(name string) ([]string, error)

	// StandardLanguage reports which language the standard called name
	// belongs to.
	StandardLanguage(name string) (Language, error)

	// WarningFlags returns the flags of the named warnings that apply to
	// lang. Warnings specific to another language are left out.
	WarningFlags(lang Language, names []string) ([]string, error)

	MiscellaneousFlags(names []string) ([]string, error)
	PreprocessorVariableFlags(names []string) ([]string, error)
	IncludeDirectoryFlags(paths []string) ([]string, error)
	LibraryDirectoryFlags(paths []string) ([]string, error)
	LibraryNameFlags(names []string) ([]string, error)

	// DynamicLibraryCreationFlags returns the link flags that turn a set of
	// objects into a shared library for the given build configuration.
	DynamicLibraryCreationFlags(buildConfiguration string) ([]string, error)
}
