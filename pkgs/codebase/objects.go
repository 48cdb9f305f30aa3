package codebase

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/goplus/cbuild/internal/walk"
	"github.com/goplus/cbuild/pkgs/flags"
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/qiniu/x/log"
	"github.com/samber/lo"
)

// compileFlags composes the flags passed to every compile command and
// reports the language of the selected standard.
func (c *CodeBase) compileFlags() ([]string, flags.Language, error) {
	out, lang, err := c.settings.compileFlags(c.resolver)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", c.name, err)
	}
	if len(c.deps) > 0 {
		includes, err := c.resolver.IncludeDirectoryFlags(lo.Map(c.deps, func(d *Dependency, _ int) string {
			return d.IncludeDir()
		}))
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", c.name, err)
		}
		out = append(out, includes...)
	}
	return out, lang, nil
}

// dependencyLinkFlags returns the library directory flags followed by the
// library name flags of the attached dependencies.
func (c *CodeBase) dependencyLinkFlags() ([]string, error) {
	if len(c.deps) == 0 {
		return nil, nil
	}
	dirs, err := c.resolver.LibraryDirectoryFlags(lo.Map(c.deps, func(d *Dependency, _ int) string {
		return d.LibraryDir()
	}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	names, err := c.resolver.LibraryNameFlags(lo.Map(c.deps, func(d *Dependency, _ int) string {
		return d.Name()
	}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return append(dirs, names...), nil
}

// sourceFiles returns the paths, relative to src, of the files to compile.
func (c *CodeBase) sourceFiles() ([]string, error) {
	var files []string
	for p, err := range walk.Files(os.DirFS(c.srcDir), c.sourcePatterns...) {
		if err != nil {
			return nil, fmt.Errorf("%s: scan sources: %w", c.name, err)
		}
		files = append(files, p)
	}
	return files, nil
}

// driverFor picks the compiler driver of a source file. Under a C++
// standard every file goes to the C++ driver, which compiles .c files as
// C++. Under a C standard, C files go to the C driver.
func (c *CodeBase) driverFor(lang flags.Language, file string) string {
	if lang != flags.LanguageC {
		return c.toolchain.CXX
	}
	if l, _ := enry.GetLanguageByExtension(file); l == "C" {
		return c.toolchain.CC
	}
	return c.toolchain.CXX
}

// generateObjects compiles every source file into build/<stem>.o. The
// command for each file is "<driver> -c src/<file> -o build/<stem>.o
// <flags...>", run from the repository root. It returns the sorted paths
// of the objects it produced. On failure those objects are removed and a
// *BuildError is returned.
func (c *CodeBase) generateObjects(ctx context.Context, lang flags.Language, compileFlags []string) ([]string, error) {
	sources, err := c.sourceFiles()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return nil, err
	}
	log.Debugf("%s: compiling %d source files", c.name, len(sources))

	var (
		produced []string
		failed   []string
		cause    error
	)
	owner := make(map[string]string, len(sources))
	for _, src := range sources {
		stem := strings.TrimSuffix(path.Base(src), path.Ext(src))
		object := stem + c.platform.ObjectExt
		if prev, ok := owner[object]; ok {
			log.Warnf("%s: %s and %s both compile to %s, the latter wins", c.name, prev, src, object)
		}
		owner[object] = src

		srcRel := filepath.Join("src", filepath.FromSlash(src))
		objRel := filepath.Join("build", object)
		args := append([]string{c.driverFor(lang, src), "-c", srcRel, "-o", objRel}, compileFlags...)

		res, err := c.runner.Run(ctx, runner.Command{
			Description: fmt.Sprintf("%q Compilation Results", stem),
			Args:        args,
			Dir:         c.repoDir,
		})
		if err == nil && res.Success {
			produced = append(produced, filepath.Join(c.buildDir, object))
			continue
		}
		failed = append(failed, src)
		if cause == nil {
			cause = err
		}
		if c.haltOnFirstFailure || ctx.Err() != nil {
			break
		}
	}

	// colliding sources produce the same object twice
	produced = lo.Uniq(produced)
	if len(failed) > 0 {
		removeFiles(produced)
		return nil, &BuildError{Name: c.name, Stage: StageCompile, Failed: failed, Err: cause}
	}
	sort.Strings(produced)
	return produced, nil
}

func removeFiles(files []string) {
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			log.Warnf("remove %s: %v", f, err)
		}
	}
}

func baseNames(files []string) []string {
	return lo.Map(files, func(f string, _ int) string {
		return filepath.Base(f)
	})
}
