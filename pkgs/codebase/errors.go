package codebase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRepository indicates the repository directory is missing.
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrMissingSourceDirectory indicates the repository has no src directory.
	ErrMissingSourceDirectory = errors.New("missing source directory")

	// ErrInvalidDependency indicates a dependency directory is missing.
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrCompileFailure indicates at least one source file failed to compile.
	ErrCompileFailure = errors.New("compile failure")

	// ErrLinkFailure indicates the executable could not be linked.
	ErrLinkFailure = errors.New("link failure")

	// ErrArchiveFailure indicates the library could not be archived or linked.
	ErrArchiveFailure = errors.New("archive failure")
)

// Stage is a step of a build pipeline.
type Stage string

const (
	StageCompile Stage = "compile"
	StageLink    Stage = "link"
	StageArchive Stage = "archive"
)

func (s Stage) sentinel() error {
	switch s {
	case StageCompile:
		return ErrCompileFailure
	case StageLink:
		return ErrLinkFailure
	}
	return ErrArchiveFailure
}

// BuildError reports a failed pipeline stage. The external tool's output
// has already been written to the runner's report.
type BuildError struct {
	Name   string   // codebase name
	Stage  Stage    // failed stage
	Failed []string // sources or artifacts that failed
	Err    error    // cause when a tool could not be started
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Name, e.Stage.sentinel())
	if len(e.Failed) > 0 {
		msg += " (" + strings.Join(e.Failed, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Stage.sentinel()}
	}
	return []error{e.Stage.sentinel(), e.Err}
}

// State is the progress of the last pipeline run on a CodeBase.
type State int

const (
	Unbuilt State = iota
	Compiling
	CompileFailed
	Compiled
	Linking
	LinkFailed
	Built
	Tested
)

var stateNames = [...]string{
	Unbuilt:       "unbuilt",
	Compiling:     "compiling",
	CompileFailed: "compile failed",
	Compiled:      "compiled",
	Linking:       "linking",
	LinkFailed:    "link failed",
	Built:         "built",
	Tested:        "tested",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
