package codebase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/samber/lo"
)

// TestExecutable runs the built executable from the binary directory and
// reports whether it ran at all. It does nothing when the executable has
// not been built.
//
// Shared libraries of dynamic dependencies are copied next to the
// executable first, and the loader search path is pointed at the binary
// directory.
func (c *CodeBase) TestExecutable(ctx context.Context) (runner.Result, bool, error) {
	exe := c.ExecutablePath()
	if _, err := os.Stat(exe); err != nil {
		return runner.Result{}, false, nil
	}

	dynamic := lo.Filter(c.deps, func(d *Dependency, _ int) bool {
		return d.IsDynamic()
	})
	for _, dep := range dynamic {
		file := c.platform.LibraryFile(dep.Name(), true)
		if err := copyFile(filepath.Join(dep.LibraryDir(), file), filepath.Join(c.binDir, file)); err != nil {
			return runner.Result{}, false, err
		}
	}

	loaderVar := c.platform.LoaderPathVar()
	res, err := c.runner.Run(ctx, runner.Command{
		Description: "Testing Executable",
		Args:        []string{exe},
		Dir:         c.binDir,
		Env:         map[string]string{loaderVar: c.platform.PrependPath(loaderVar, c.binDir)},
	})
	if err != nil {
		return res, true, err
	}
	c.state = Tested
	return res, true, nil
}
