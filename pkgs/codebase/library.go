package codebase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goplus/cbuild/internal/walk"
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/qiniu/x/log"
)

// GenerateAsDependency compiles the codebase into a library and returns
// the Dependency describing it.
//
// A static library is archived with "<ar> rcs lib/<file> <objects...>". A
// shared library is linked with "<cxx> -o lib/<file> <objects...>
// <creation flags...> <-L dirs...> <-l names...>". Both run from the build
// directory. Headers under src are mirrored into a fresh build/include
// before the library is produced, and object files are deleted afterwards.
//
// An archive carries no link flags of its own dependencies. An executable
// that uses a static library must also list that library's dependencies
// when it is linked.
func (c *CodeBase) GenerateAsDependency(ctx context.Context, dynamic bool) (*Dependency, error) {
	compileFlags, lang, err := c.compileFlags()
	if err != nil {
		return nil, err
	}
	var libFlags []string
	if dynamic {
		creation, err := c.resolver.DynamicLibraryCreationFlags(c.settings.BuildConfiguration())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		depFlags, err := c.dependencyLinkFlags()
		if err != nil {
			return nil, err
		}
		libFlags = append(creation, depFlags...)
	}

	c.state = Compiling
	objects, err := c.generateObjects(ctx, lang, compileFlags)
	if err != nil {
		c.state = CompileFailed
		return nil, err
	}
	c.state = Compiled
	defer removeFiles(objects)

	libDir := filepath.Join(c.buildDir, "lib")
	includeDir := filepath.Join(c.buildDir, "include")
	library := c.LibraryPath(dynamic)
	libRel, err := filepath.Rel(c.buildDir, library)
	if err == nil {
		err = os.MkdirAll(libDir, 0o755)
	}
	if err == nil {
		// ar adds to an existing archive, so start from scratch.
		removeFiles([]string{library})
		err = c.exportHeaders(includeDir)
	}
	if err != nil {
		c.state = LinkFailed
		return nil, &BuildError{Name: c.name, Stage: StageArchive, Err: err}
	}

	var cmd runner.Command
	if dynamic {
		args := []string{c.toolchain.CXX, "-o", libRel}
		args = append(args, baseNames(objects)...)
		cmd = runner.Command{Description: "Creating Dynamic Library", Args: append(args, libFlags...)}
	} else {
		args := []string{c.toolchain.AR, "rcs", libRel}
		cmd = runner.Command{Description: "Archiving into Static Library", Args: append(args, baseNames(objects)...)}
	}
	cmd.Dir = c.buildDir

	c.state = Linking
	res, err := c.runner.Run(ctx, cmd)
	if err != nil || !res.Success {
		c.state = LinkFailed
		removeFiles([]string{library})
		return nil, &BuildError{Name: c.name, Stage: StageArchive, Failed: []string{libRel}, Err: err}
	}
	c.state = Built
	log.Infof("%s: created %s", c.name, library)

	return NewDependency(c.name, dynamic, includeDir, libDir)
}

// exportHeaders replaces dst with a mirror of the directory tree of src
// and copies every header into it, keeping relative paths.
func (c *CodeBase) exportHeaders(dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	srcFS := os.DirFS(c.srcDir)
	for dir, err := range walk.Dirs(srcFS) {
		if err != nil {
			return fmt.Errorf("%s: scan headers: %w", c.name, err)
		}
		if err := os.MkdirAll(filepath.Join(dst, filepath.FromSlash(dir)), 0o755); err != nil {
			return err
		}
	}
	n := 0
	for header, err := range walk.Files(srcFS, c.headerPatterns...) {
		if err != nil {
			return fmt.Errorf("%s: scan headers: %w", c.name, err)
		}
		rel := filepath.FromSlash(header)
		if err := copyFile(filepath.Join(c.srcDir, rel), filepath.Join(dst, rel)); err != nil {
			return err
		}
		n++
	}
	log.Debugf("%s: exported %d headers to %s", c.name, n, dst)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
