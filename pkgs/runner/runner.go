// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner executes toolchain commands and reports their outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	// Description is the headline of the report.
	Description string
	// Args holds the program followed by its arguments. No shell is involved.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env overrides entries of the inherited environment.
	Env map[string]string
	// ExpectedExit is the exit code that counts as success.
	ExpectedExit int
}

// String renders the command line, quoting tokens where needed.
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = quote(arg)
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of a finished command.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner runs commands synchronously.
//
// A non-zero exit code is never an error: it is reported through
// Result.Success. Run returns an error only if the process could not be
// started or ctx ended first.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

type execRunner struct {
	report io.Writer
}

// Option configures the runner returned by New.
type Option func(*execRunner)

// WithReport sets the sink that receives command reports.
func WithReport(w io.Writer) Option {
	return func(r *execRunner) {
		r.report = w
	}
}

// New returns a Runner backed by os/exec. Reports go to os.Stdout unless
// WithReport says otherwise.
func New(opts ...Option) Runner {
	r := &execRunner{report: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *execRunner) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Args) == 0 {
		return Result{ExitCode: -1}, errors.New("runner: empty command")
	}
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), c.Env)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		res.ExitCode = exitErr.ExitCode()
		err = nil
	default:
		res.ExitCode = -1
		if res.Stderr == "" {
			res.Stderr = err.Error()
		}
	}
	res.Success = err == nil && res.ExitCode == c.ExpectedExit

	writeReport(r.report, c, res)
	return res, err
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
