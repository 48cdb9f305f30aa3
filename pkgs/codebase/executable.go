package codebase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/qiniu/x/log"
)

// GenerateAsExecutable compiles the codebase and links the objects into
// build/bin/<name>, returning its path. The link command is
// "<cxx> -o bin/<name> <objects...> <-L dirs...> <-l names...>", run from
// the build directory. Object files are deleted once the link has been
// attempted, whatever its outcome.
func (c *CodeBase) GenerateAsExecutable(ctx context.Context) (string, error) {
	compileFlags, lang, err := c.compileFlags()
	if err != nil {
		return "", err
	}
	linkFlags, err := c.dependencyLinkFlags()
	if err != nil {
		return "", err
	}

	c.state = Compiling
	objects, err := c.generateObjects(ctx, lang, compileFlags)
	if err != nil {
		c.state = CompileFailed
		return "", err
	}
	c.state = Compiled
	defer removeFiles(objects)

	exe := c.ExecutablePath()
	exeRel, err := filepath.Rel(c.buildDir, exe)
	if err == nil {
		err = os.MkdirAll(c.binDir, 0o755)
	}
	if err != nil {
		c.state = LinkFailed
		return "", &BuildError{Name: c.name, Stage: StageLink, Err: err}
	}

	args := []string{c.toolchain.CXX, "-o", exeRel}
	args = append(args, baseNames(objects)...)
	args = append(args, linkFlags...)

	c.state = Linking
	res, err := c.runner.Run(ctx, runner.Command{
		Description: "Linking Results",
		Args:        args,
		Dir:         c.buildDir,
	})
	if err != nil || !res.Success {
		c.state = LinkFailed
		removeFiles([]string{exe})
		return "", &BuildError{Name: c.name, Stage: StageLink, Failed: []string{exeRel}, Err: err}
	}
	c.state = Built
	log.Infof("%s: linked %s", c.name, exe)
	return exe, nil
}
