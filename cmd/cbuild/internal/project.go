package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/goplus/cbuild/internal/lockedfile"
	"github.com/goplus/cbuild/internal/manifest"
	"github.com/goplus/cbuild/pkgs/codebase"
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/qiniu/x/log"
)

const lockFileName = ".cbuild.lock"

// loadManifest loads the manifest named by -f, or the one in the current
// directory.
func loadManifest() (*manifest.Manifest, error) {
	path := manifestFile
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = manifest.Find(wd); err != nil {
			return nil, err
		}
	}
	return manifest.Load(path)
}

// lockProject serializes builds of the same project.
func lockProject(m *manifest.Manifest) (unlock func(), err error) {
	return lockedfile.MutexAt(filepath.Join(filepath.Dir(m.Path), lockFileName)).Lock()
}

// result is the outcome of building one codebase.
type result struct {
	Name   string
	Kind   manifest.Kind
	Path   string
	Size   int64
	Tested bool
	Dep    *codebase.Dependency
}

// builder builds the codebases of a manifest in order.
type builder struct {
	manifest *manifest.Manifest
	runner   runner.Runner

	codebases []*codebase.CodeBase
}

func newBuilder(m *manifest.Manifest, r runner.Runner) *builder {
	return &builder{manifest: m, runner: r}
}

// build builds every codebase up to and including the one called until,
// or all of them if until is empty. Executables marked for testing are run
// when test is set. It stops at the first codebase that fails and returns
// the results gathered so far.
func (b *builder) build(ctx context.Context, until string, test bool) ([]result, error) {
	deps := make(map[string]*codebase.Dependency)
	var results []result
	for _, e := range b.manifest.CodeBases {
		opts := append(e.Options(), codebase.WithRunner(b.runner))
		cb, err := codebase.New(e.Name, e.Dir, opts...)
		if err != nil {
			return results, err
		}
		b.codebases = append(b.codebases, cb)
		for _, name := range e.Deps {
			cb.AddDependency(deps[name])
		}

		res := result{Name: e.Name, Kind: e.Kind}
		if e.Kind.IsLibrary() {
			dep, err := cb.GenerateAsDependency(ctx, e.Kind == manifest.KindDynamic)
			if err != nil {
				return results, err
			}
			deps[e.Name] = dep
			res.Dep = dep
			res.Path = cb.LibraryPath(dep.IsDynamic())
		} else {
			if res.Path, err = cb.GenerateAsExecutable(ctx); err != nil {
				return results, err
			}
			if test && e.Test {
				out, ran, err := cb.TestExecutable(ctx)
				if err != nil {
					return results, err
				}
				if ran && !out.Success {
					return results, fmt.Errorf("%s: test exited with code %d", e.Name, out.ExitCode)
				}
				res.Tested = ran
			}
		}
		if info, err := os.Stat(res.Path); err == nil {
			res.Size = info.Size()
		}
		results = append(results, res)
		if e.Name == until {
			break
		}
	}
	return results, nil
}

// clean removes the build directories of the codebases build created.
func (b *builder) clean() error {
	var errs []error
	for _, cb := range b.codebases {
		log.Debugf("removing %s", cb.BuildDir())
		errs = append(errs, cb.Clean())
	}
	return errors.Join(errs...)
}

// cleanAll removes the build directory of every codebase in the manifest,
// whether or not it has been built.
func cleanAll(m *manifest.Manifest) error {
	var errs []error
	for _, e := range m.CodeBases {
		cb, err := codebase.New(e.Name, e.Dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		errs = append(errs, cb.Clean())
	}
	return errors.Join(errs...)
}

func printSummary(w io.Writer, results []result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		status := "built"
		if r.Tested {
			status = "tested"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Kind, status, humanize.Bytes(uint64(r.Size)), r.Path)
	}
	tw.Flush()
}
