package codebase

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cbuild/pkgs/flags"
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/goplus/cbuild/pkgs/runner/runnertest"
)

var addSources = map[string]string{
	"main.cpp":  "#include \"Add.h\"\nint main() { return add(1, 2) == 3 ? 0 : 1; }\n",
	"Add.cpp":   "#include \"Add.h\"\nint add(int x, int y) { return x + y; }\n",
	"Add.h":     "int add(int x, int y);\n",
	"README.md": "not a source\n",
}

func TestGenerateAsExecutable(t *testing.T) {
	repo := newRepo(t, addSources)
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "Add", repo, rec)

	exe, err := c.GenerateAsExecutable(t.Context())
	if err != nil {
		t.Fatalf("GenerateAsExecutable: %v", err)
	}
	if want := filepath.Join(repo, "build", "bin", "Add"); exe != want {
		t.Errorf("exe = %q, want %q", exe, want)
	}

	want := [][]string{
		{"g++", "-c", filepath.Join("src", "Add.cpp"), "-o", filepath.Join("build", "Add.o"), "-ggdb", "-std=c++20"},
		{"g++", "-c", filepath.Join("src", "main.cpp"), "-o", filepath.Join("build", "main.o"), "-ggdb", "-std=c++20"},
		{"g++", "-o", filepath.Join("bin", "Add"), "Add.o", "main.o"},
	}
	cmds := rec.Commands()
	if got := argsOf(cmds); !reflect.DeepEqual(got, want) {
		t.Fatalf("commands:\n got %q\nwant %q", got, want)
	}
	if cmds[0].Dir != c.RepositoryDir() || cmds[1].Dir != c.RepositoryDir() {
		t.Errorf("compile dirs = %q, %q, want repository root", cmds[0].Dir, cmds[1].Dir)
	}
	if cmds[2].Dir != c.BuildDir() {
		t.Errorf("link dir = %q, want build dir", cmds[2].Dir)
	}
	if cmds[0].Description != `"Add" Compilation Results` || cmds[2].Description != "Linking Results" {
		t.Errorf("descriptions = %q, %q", cmds[0].Description, cmds[2].Description)
	}

	if got := listFiles(t, c.BinaryDir()); !reflect.DeepEqual(got, []string{"Add"}) {
		t.Errorf("bin = %q, want [Add]", got)
	}
	if objs := objectsIn(t, c.BuildDir()); len(objs) != 0 {
		t.Errorf("leftover objects: %q", objs)
	}
	if c.State() != Built {
		t.Errorf("State = %v, want built", c.State())
	}
}

func TestGenerateAsExecutableCompilesOnlySources(t *testing.T) {
	repo := newRepo(t, map[string]string{
		"main.cpp":       "",
		"lib/helper.cc":  "",
		"lib/helper.hpp": "",
		"lib/legacy.c":   "",
		"lib/legacy.h":   "",
		"docs/notes.txt": "",
		"gen/table.cxx":  "",
		"gen/table.inc":  "",
		"Makefile":       "",
		"main.cpp.orig":  "",
		"scripts/run.sh": "",
		"gen/README.md":  "",
	})
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "app", repo, rec)

	if _, err := c.GenerateAsExecutable(t.Context()); err != nil {
		t.Fatal(err)
	}

	var compiled []string
	for _, cmd := range rec.Commands() {
		if len(cmd.Args) > 2 && cmd.Args[1] == "-c" {
			compiled = append(compiled, filepath.ToSlash(cmd.Args[2]))
		}
	}
	want := []string{"src/gen/table.cxx", "src/lib/helper.cc", "src/lib/legacy.c", "src/main.cpp"}
	if !reflect.DeepEqual(compiled, want) {
		t.Errorf("compiled %q, want %q", compiled, want)
	}
}

func TestGenerateAsExecutableDriverPerLanguage(t *testing.T) {
	tests := []struct {
		standard string
		drivers  []string
		std      string
	}{
		// .c files are compiled as C++ under a C++ standard.
		{"C++ 2020", []string{"g++", "g++", "g++"}, "-std=c++20"},
		{"C 2018", []string{"gcc", "g++", "g++"}, "-std=c17"},
	}
	for _, tt := range tests {
		t.Run(tt.standard, func(t *testing.T) {
			repo := newRepo(t, map[string]string{"add.c": "", "main.cpp": ""})
			rec := &runnertest.Recorder{}
			settings := DefaultSettings().WithLanguageStandard(tt.standard)
			c := newCodeBase(t, "mixed", repo, rec, WithSettings(settings))

			if _, err := c.GenerateAsExecutable(t.Context()); err != nil {
				t.Fatal(err)
			}
			cmds := rec.Commands()
			var drivers []string
			for _, cmd := range cmds {
				drivers = append(drivers, cmd.Args[0])
			}
			if !reflect.DeepEqual(drivers, tt.drivers) {
				t.Errorf("drivers = %q, want %q", drivers, tt.drivers)
			}
			compile := cmds[0].Args
			if !slices.Contains(compile, tt.std) {
				t.Errorf("compile = %q, want %s", compile, tt.std)
			}
			if tt.std == "-std=c17" && slices.Contains(compile, "-Weffc++") {
				t.Errorf("C compile carries a C++ only warning: %q", compile)
			}
		})
	}
}

func TestGenerateAsExecutableBinDirBlocked(t *testing.T) {
	repo := newRepo(t, addSources)
	if err := os.MkdirAll(filepath.Join(repo, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	// a file where the bin directory should go
	if err := os.WriteFile(filepath.Join(repo, "build", "bin"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "Add", repo, rec)

	_, err := c.GenerateAsExecutable(t.Context())
	if !errors.Is(err, ErrLinkFailure) {
		t.Fatalf("err = %v, want ErrLinkFailure", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Stage != StageLink {
		t.Errorf("err = %#v, want a link *BuildError", err)
	}
	if objs := objectsIn(t, c.BuildDir()); len(objs) != 0 {
		t.Errorf("objects left behind: %q", objs)
	}
	for _, cmd := range rec.Commands() {
		if cmd.Description == "Linking Results" {
			t.Error("link attempted without a bin directory")
		}
	}
	if c.State() != LinkFailed {
		t.Errorf("State = %v", c.State())
	}
}

func TestGenerateAsExecutableIsDeterministic(t *testing.T) {
	settings := DefaultSettings().WithPreprocessorVariables("LEVEL=2", "TRACE")
	run := func() []string {
		repo := newRepo(t, addSources)
		rec := &runnertest.Recorder{}
		c := newCodeBase(t, "Add", repo, rec, WithSettings(settings))
		dep := newFakeDependency(t, "Arithmetic", false)
		c.AddDependency(dep)
		if _, err := c.GenerateAsExecutable(t.Context()); err != nil {
			t.Fatal(err)
		}
		var lines []string
		for _, cmd := range rec.Commands() {
			line := cmd.String()
			line = strings.ReplaceAll(line, repo, "<repo>")
			line = strings.ReplaceAll(line, dep.IncludeDir(), "<inc>")
			line = strings.ReplaceAll(line, dep.LibraryDir(), "<lib>")
			lines = append(lines, line)
		}
		return lines
	}

	first := run()
	for i := 0; i < 5; i++ {
		if again := run(); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%q\n%q", i, first, again)
		}
	}
	wantFlags := "-ggdb -std=c++20 -Werror -Wall -Wextra -Weffc++ -Wconversion -Wsign-conversion -pedantic-errors -fPIC -DLEVEL=2 -DTRACE -I<inc>"
	if !strings.HasSuffix(first[0], wantFlags) {
		t.Errorf("compile command = %q, want suffix %q", first[0], wantFlags)
	}
}

func TestGenerateAsExecutableWithDependencies(t *testing.T) {
	repo := newRepo(t, addSources)
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "Add", repo, rec)

	first := newFakeDependency(t, "Arithmetic", false)
	second := newFakeDependency(t, "Geometry", true)
	c.AddDependency(first)
	c.AddDependency(second)

	if _, err := c.GenerateAsExecutable(t.Context()); err != nil {
		t.Fatal(err)
	}
	cmds := rec.Commands()

	compile := cmds[0].Args
	wantInclude := []string{"-I" + first.IncludeDir(), "-I" + second.IncludeDir()}
	if got := compile[len(compile)-2:]; !reflect.DeepEqual(got, wantInclude) {
		t.Errorf("compile tail = %q, want %q", got, wantInclude)
	}

	link := cmds[len(cmds)-1].Args
	wantLink := []string{"-L" + first.LibraryDir(), "-L" + second.LibraryDir(), "-lArithmetic", "-lGeometry"}
	if got := link[len(link)-4:]; !reflect.DeepEqual(got, wantLink) {
		t.Errorf("link tail = %q, want %q", got, wantLink)
	}
}

func TestGenerateAsExecutableCompileFailure(t *testing.T) {
	failAdd := func(cmd runner.Command) (runner.Result, error) {
		if strings.HasSuffix(cmd.Args[2], "Add.cpp") {
			return runnertest.Fail(cmd)
		}
		return runnertest.Succeed(cmd)
	}

	for _, tt := range []struct {
		name     string
		halt     bool
		compiles int
	}{
		{"best effort", false, 2},
		{"halt on first failure", true, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t, addSources)
			rec := &runnertest.Recorder{Respond: failAdd}
			c := newCodeBase(t, "Add", repo, rec, WithHaltOnFirstFailure(tt.halt))

			exe, err := c.GenerateAsExecutable(t.Context())
			if !errors.Is(err, ErrCompileFailure) {
				t.Fatalf("err = %v, want ErrCompileFailure", err)
			}
			var be *BuildError
			if !errors.As(err, &be) || !reflect.DeepEqual(be.Failed, []string{"Add.cpp"}) {
				t.Errorf("BuildError = %+v", be)
			}
			if exe != "" {
				t.Errorf("exe = %q, want empty", exe)
			}
			if got := len(rec.Commands()); got != tt.compiles {
				t.Errorf("%d commands, want %d (no link)", got, tt.compiles)
			}
			if _, err := os.Stat(c.ExecutablePath()); !os.IsNotExist(err) {
				t.Error("executable produced despite compile failure")
			}
			if objs := objectsIn(t, c.BuildDir()); len(objs) != 0 {
				t.Errorf("leftover objects: %q", objs)
			}
			if c.State() != CompileFailed {
				t.Errorf("State = %v", c.State())
			}
		})
	}
}

func TestGenerateAsExecutableLinkFailure(t *testing.T) {
	repo := newRepo(t, addSources)
	rec := &runnertest.Recorder{Respond: func(cmd runner.Command) (runner.Result, error) {
		if cmd.Args[1] == "-o" {
			return runnertest.Fail(cmd)
		}
		return runnertest.Succeed(cmd)
	}}
	c := newCodeBase(t, "Add", repo, rec)

	_, err := c.GenerateAsExecutable(t.Context())
	if !errors.Is(err, ErrLinkFailure) {
		t.Fatalf("err = %v, want ErrLinkFailure", err)
	}
	if objs := objectsIn(t, c.BuildDir()); len(objs) != 0 {
		t.Errorf("objects not cleaned up after failed link: %q", objs)
	}
	if files := listFiles(t, c.BinaryDir()); len(files) != 0 {
		t.Errorf("bin = %q, want empty", files)
	}
	if c.State() != LinkFailed {
		t.Errorf("State = %v", c.State())
	}
}

func TestGenerateAsExecutableUnrecognizedOption(t *testing.T) {
	repo := newRepo(t, addSources)
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "Add", repo, rec, WithSettings(NoSettings().WithLanguageStandard("C++ 2a")))

	_, err := c.GenerateAsExecutable(t.Context())
	if !errors.Is(err, flags.ErrUnrecognizedOption) {
		t.Fatalf("err = %v, want ErrUnrecognizedOption", err)
	}
	if n := len(rec.Commands()); n != 0 {
		t.Errorf("%d commands spawned, want 0", n)
	}
	if _, err := os.Stat(c.BuildDir()); !os.IsNotExist(err) {
		t.Error("build directory created before flags were resolved")
	}
}

func TestGenerateAsExecutableObjectNameCollision(t *testing.T) {
	repo := newRepo(t, map[string]string{"a/util.cpp": "", "b/util.cpp": "", "main.cpp": ""})
	rec := &runnertest.Recorder{}
	c := newCodeBase(t, "app", repo, rec)

	if _, err := c.GenerateAsExecutable(t.Context()); err != nil {
		t.Fatal(err)
	}
	cmds := rec.Commands()
	link := cmds[len(cmds)-1].Args
	if want := []string{"g++", "-o", filepath.Join("bin", "app"), "main.o", "util.o"}; !reflect.DeepEqual(link, want) {
		t.Errorf("link = %q, want %q", link, want)
	}
}
