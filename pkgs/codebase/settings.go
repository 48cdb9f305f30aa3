package codebase

import (
	"slices"
	"sort"

	"github.com/goplus/cbuild/pkgs/flags"
	"github.com/hashicorp/go-set/v2"
)

const (
	DefaultBuildConfiguration = "Debug"
	DefaultLanguageStandard   = "C++ 2020"
)

// Settings holds the symbolic compilation settings of a CodeBase. A
// Settings value is never modified in place: the With methods return
// copies, so one value can be shared by several codebases.
type Settings struct {
	buildConfiguration    string
	languageStandard      string
	warnings              *set.Set[string]
	miscellaneous         *set.Set[string]
	preprocessorVariables []string
}

// DefaultSettings returns a fresh value with the Debug configuration,
// C++ 2020, every known warning and every miscellaneous toggle enabled.
func DefaultSettings() Settings {
	return Settings{
		buildConfiguration: DefaultBuildConfiguration,
		languageStandard:   DefaultLanguageStandard,
		warnings:           set.From(flags.Names(flags.AxisWarning)),
		miscellaneous:      set.From(flags.Names(flags.AxisMiscellaneous)),
	}
}

// NoSettings returns the Debug configuration and C++ 2020 with no warnings,
// toggles or preprocessor variables.
func NoSettings() Settings {
	return Settings{
		buildConfiguration: DefaultBuildConfiguration,
		languageStandard:   DefaultLanguageStandard,
	}
}

func (s Settings) BuildConfiguration() string { return s.buildConfiguration }
func (s Settings) LanguageStandard() string   { return s.languageStandard }

// Warnings returns the warning names, sorted.
func (s Settings) Warnings() []string { return sorted(s.warnings) }

// Miscellaneous returns the miscellaneous toggle names, sorted.
func (s Settings) Miscellaneous() []string { return sorted(s.miscellaneous) }

// PreprocessorVariables returns the preprocessor symbols in declaration order.
func (s Settings) PreprocessorVariables() []string { return slices.Clone(s.preprocessorVariables) }

func (s Settings) WithBuildConfiguration(name string) Settings {
	s.buildConfiguration = name
	return s
}

func (s Settings) WithLanguageStandard(name string) Settings {
	s.languageStandard = name
	return s
}

func (s Settings) WithWarnings(names ...string) Settings {
	s.warnings = set.From(names)
	return s
}

func (s Settings) WithMiscellaneous(names ...string) Settings {
	s.miscellaneous = set.From(names)
	return s
}

func (s Settings) WithPreprocessorVariables(names ...string) Settings {
	s.preprocessorVariables = slices.Clone(names)
	return s
}

// compileFlags resolves the settings in composition order: build
// configuration, language standard, warnings, miscellaneous toggles and
// preprocessor variables. It also reports the language of the standard;
// warnings that only apply to another language are left out.
func (s Settings) compileFlags(r flags.Resolver) ([]string, flags.Language, error) {
	var (
		out  []string
		lang flags.Language
	)
	steps := []func() ([]string, error){
		func() ([]string, error) { return r.BuildConfigurationFlags(s.buildConfiguration) },
		func() ([]string, error) {
			var err error
			if lang, err = r.StandardLanguage(s.languageStandard); err != nil {
				return nil, err
			}
			return r.LanguageStandardFlag(s.languageStandard)
		},
		func() ([]string, error) { return r.WarningFlags(lang, s.Warnings()) },
		func() ([]string, error) { return r.MiscellaneousFlags(s.Miscellaneous()) },
		func() ([]string, error) { return r.PreprocessorVariableFlags(s.preprocessorVariables) },
	}
	for _, step := range steps {
		tokens, err := step()
		if err != nil {
			return nil, "", err
		}
		out = append(out, tokens...)
	}
	return out, lang, nil
}

func sorted(s *set.Set[string]) []string {
	if s == nil {
		return nil
	}
	items := s.Slice()
	sort.Strings(items)
	return items
}
