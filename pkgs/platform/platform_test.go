package platform

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFor(t *testing.T) {
	tests := []struct {
		goos       string
		exe        string
		shared     string
		static     string
		loaderPath string
	}{
		{"linux", "Add", "libArithmetic.so", "libArithmetic.a", "LD_LIBRARY_PATH"},
		{"freebsd", "Add", "libArithmetic.so", "libArithmetic.a", "LD_LIBRARY_PATH"},
		{"darwin", "Add", "libArithmetic.dylib", "libArithmetic.a", "DYLD_LIBRARY_PATH"},
		{"windows", "Add.exe", "Arithmetic.dll", "Arithmetic.lib", "PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p := For(tt.goos)
			if got := p.ExecutableFile("Add"); got != tt.exe {
				t.Errorf("ExecutableFile = %q, want %q", got, tt.exe)
			}
			if got := p.LibraryFile("Arithmetic", true); got != tt.shared {
				t.Errorf("LibraryFile(dynamic) = %q, want %q", got, tt.shared)
			}
			if got := p.LibraryFile("Arithmetic", false); got != tt.static {
				t.Errorf("LibraryFile(static) = %q, want %q", got, tt.static)
			}
			if got := p.LoaderPathVar(); got != tt.loaderPath {
				t.Errorf("LoaderPathVar = %q, want %q", got, tt.loaderPath)
			}
			if p.ObjectExt != ".o" {
				t.Errorf("ObjectExt = %q, want .o", p.ObjectExt)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	if got := Current().OS; got != runtime.GOOS {
		t.Errorf("Current().OS = %q, want %q", got, runtime.GOOS)
	}
}

func TestPrependPath(t *testing.T) {
	p := For("linux")

	t.Setenv("LD_LIBRARY_PATH", "")
	if got := p.PrependPath("LD_LIBRARY_PATH", "/bin"); got != "/bin" {
		t.Errorf("empty: got %q", got)
	}

	t.Setenv("LD_LIBRARY_PATH", "/usr/lib")
	if got := p.PrependPath("LD_LIBRARY_PATH", "/bin"); got != "/bin:/usr/lib" {
		t.Errorf("non-empty: got %q", got)
	}
}

func TestDefaultToolchain(t *testing.T) {
	t.Setenv("CC", "")
	t.Setenv("CXX", "clang++")
	t.Setenv("AR", "")

	tc := DefaultToolchain()
	if tc.CC != "gcc" || tc.CXX != "clang++" || tc.AR != "ar" {
		t.Errorf("DefaultToolchain = %+v", tc)
	}
}

func TestLibraryFileMatchesLinkName(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		p := For(goos)
		for _, dynamic := range []bool{false, true} {
			file := p.LibraryFile("Arithmetic", dynamic)
			name, ok := strings.CutPrefix(file, "lib")
			if !ok {
				t.Errorf("%s: %q lacks the lib prefix", goos, file)
				continue
			}
			if name = strings.TrimSuffix(name, filepath.Ext(name)); name != "Arithmetic" {
				t.Errorf("%s: -l%s would not find %q", goos, name, file)
			}
		}
	}
	if got := For("windows").LibraryFile("Arithmetic", false); got != "Arithmetic.lib" {
		t.Errorf("windows static = %q", got)
	}
}
