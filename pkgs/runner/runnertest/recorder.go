// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goplus/cbuild/pkgs/runner"
)

// Recorder records every command it is asked to run. By default each
// command succeeds and the file it would produce is created, so pipelines
// driven by a Recorder observe the same file system effects as with a
// real toolchain.
type Recorder struct {
	// Respond, when set, decides the result of a command.
	Respond func(cmd runner.Command) (runner.Result, error)

	mu       sync.Mutex
	commands []runner.Command
}

// Run implements runner.Runner.
func (r *Recorder) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.Respond != nil {
		return r.Respond(cmd)
	}
	return Succeed(cmd)
}

// Commands returns the recorded commands in invocation order.
func (r *Recorder) Commands() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runner.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Succeed writes the output file of cmd and reports success.
func Succeed(cmd runner.Command) (runner.Result, error) {
	if out := Output(cmd); out != "" {
		if !filepath.IsAbs(out) {
			out = filepath.Join(cmd.Dir, out)
		}
		if err := os.WriteFile(out, []byte(cmd.String()), 0o644); err != nil {
			return runner.Result{ExitCode: -1}, err
		}
	}
	return runner.Result{Success: true}, nil
}

// Fail reports a failed command without producing any file.
func Fail(cmd runner.Command) (runner.Result, error) {
	return runner.Result{Success: false, ExitCode: 1, Stderr: "error: scripted failure\n"}, nil
}

// Output returns the file a toolchain command writes: the token after
// "-o", or the archive operand of an "ar rcs <archive>" command.
func Output(cmd runner.Command) string {
	for i := 0; i+1 < len(cmd.Args); i++ {
		if cmd.Args[i] == "-o" {
			return cmd.Args[i+1]
		}
	}
	if len(cmd.Args) > 2 && cmd.Args[1] == "rcs" {
		return cmd.Args[2]
	}
	return ""
}
