package flags

import (
	"regexp"
	"slices"
)

type entry struct {
	name   string
	tokens []string
	// lang restricts the entry to one language. Empty means any.
	lang Language
}

// table is an ordered enumeration. Lookups of several names always emit
// tokens in table order so composed commands are reproducible.
type table []entry

func (t table) lookup(axis Axis, name string) ([]string, error) {
	for _, e := range t {
		if e.name == name {
			return slices.Clone(e.tokens), nil
		}
	}
	return nil, &OptionError{Axis: axis, Name: name}
}

func (t table) language(axis Axis, name string) (Language, error) {
	for _, e := range t {
		if e.name == name {
			return e.lang, nil
		}
	}
	return "", &OptionError{Axis: axis, Name: name}
}

// lookupAll resolves names, dropping entries restricted to a language
// other than lang. An empty lang keeps every entry.
func (t table) lookupAll(axis Axis, lang Language, names []string) ([]string, error) {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := t.lookup(axis, name); err != nil {
			return nil, err
		}
		want[name] = true
	}
	var out []string
	for _, e := range t {
		if want[e.name] && (lang == "" || e.lang == "" || e.lang == lang) {
			out = append(out, e.tokens...)
		}
	}
	return out, nil
}

func (t table) names() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.name
	}
	return names
}

var buildConfigurations = table{
	{"Debug", []string{"-ggdb"}, ""},
	{"Release", []string{"-O2", "-DNDEBUG"}, ""},
}

var dynamicLibraryCreation = table{
	{"Debug", []string{"-shared"}, ""},
	{"Release", []string{"-shared", "-s"}, ""},
}

var languageStandards = table{
	{"C++ 1998", []string{"-std=c++98"}, LanguageCXX},
	{"C++ 2003", []string{"-std=c++03"}, LanguageCXX},
	{"C++ 2011", []string{"-std=c++11"}, LanguageCXX},
	{"C++ 2014", []string{"-std=c++14"}, LanguageCXX},
	{"C++ 2017", []string{"-std=c++17"}, LanguageCXX},
	{"C++ 2020", []string{"-std=c++20"}, LanguageCXX},
	{"C++ 2023", []string{"-std=c++23"}, LanguageCXX},
	{"C 1989", []string{"-std=c89"}, LanguageC},
	{"C 1999", []string{"-std=c99"}, LanguageC},
	{"C 2011", []string{"-std=c11"}, LanguageC},
	{"C 2018", []string{"-std=c17"}, LanguageC},
	{"C 2023", []string{"-std=c2x"}, LanguageC},
}

var warnings = table{
	{"Treat warnings as errors", []string{"-Werror"}, ""},
	{"Avoid a lot of questionable coding practices", []string{"-Wall"}, ""},
	{"Avoid even more questionable coding practices", []string{"-Wextra"}, ""},
	{"Follow Effective C++ Style Guidelines", []string{"-Weffc++"}, LanguageCXX},
	{"Avoid potentially value-changing implicit conversions", []string{"-Wconversion"}, ""},
	{"Avoid potentially sign-changing implicit conversions for integers", []string{"-Wsign-conversion"}, ""},
}

var miscellaneous = table{
	{"Disable Compiler Extensions", []string{"-pedantic-errors"}, ""},
	{"Generate Position Independent Code", []string{"-fPIC"}, ""},
}

// NAME or NAME=value
var preprocessorVariable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(=.*)?$`)

type gnu struct{}

// GNU returns the resolver for GCC and Clang compatible drivers.
func GNU() Resolver {
	return gnu{}
}

// Names returns the recognized names on an enumerated axis, in canonical
// order. It returns nil for axes that are not enumerations.
func Names(axis Axis) []string {
	switch axis {
	case AxisBuildConfiguration:
		return buildConfigurations.names()
	case AxisLanguageStandard:
		return languageStandards.names()
	case AxisWarning:
		return warnings.names()
	case AxisMiscellaneous:
		return miscellaneous.names()
	}
	return nil
}

func (gnu) BuildConfigurationFlags(name string) ([]string, error) {
	return buildConfigurations.lookup(AxisBuildConfiguration, name)
}

func (gnu) LanguageStandardFlag(name string) ([]string, error) {
	return languageStandards.lookup(AxisLanguageStandard, name)
}

func (gnu) StandardLanguage(name string) (Language, error) {
	return languageStandards.language(AxisLanguageStandard, name)
}

func (gnu) WarningFlags(lang Language, names []string) ([]string, error) {
	return warnings.lookupAll(AxisWarning, lang, names)
}

func (gnu) MiscellaneousFlags(names []string) ([]string, error) {
	return miscellaneous.lookupAll(AxisMiscellaneous, "", names)
}

func (gnu) PreprocessorVariableFlags(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !preprocessorVariable.MatchString(name) {
			return nil, &OptionError{Axis: AxisPreprocessorVariable, Name: name}
		}
		out = append(out, "-D"+name)
	}
	return out, nil
}

func (gnu) IncludeDirectoryFlags(paths []string) ([]string, error) {
	return prefixed(AxisIncludeDirectory, "-I", paths)
}

func (gnu) LibraryDirectoryFlags(paths []string) ([]string, error) {
	return prefixed(AxisLibraryDirectory, "-L", paths)
}

func (gnu) LibraryNameFlags(names []string) ([]string, error) {
	return prefixed(AxisLibraryName, "-l", names)
}

func (gnu) DynamicLibraryCreationFlags(buildConfiguration string) ([]string, error) {
	return dynamicLibraryCreation.lookup(AxisBuildConfiguration, buildConfiguration)
}

func prefixed(axis Axis, prefix string, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			return nil, &OptionError{Axis: axis, Name: v}
		}
		out = append(out, prefix+v)
	}
	return out, nil
}
