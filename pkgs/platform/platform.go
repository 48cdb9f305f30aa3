// Package platform resolves file names and tools that depend on the
// target operating system.
//
// Library files carry the "lib" prefix outside Windows, so the library
// called Arithmetic is built as libArithmetic.a or libArithmetic.so (or
// .dylib on darwin) and found by the linker through -lArithmetic. Windows
// names it Arithmetic.lib or Arithmetic.dll.
package platform

import (
	"os"
	"runtime"
)

// Platform holds the artifact naming conventions of an operating system.
type Platform struct {
	OS               string
	ExecutableExt    string
	SharedLibraryExt string
	StaticLibraryExt string
	ObjectExt        string
	// LibraryPrefix is prepended to library file names so that the linker
	// resolves -l<name> to them.
	LibraryPrefix string
}

// Current returns the conventions of the running system.
func Current() Platform {
	return For(runtime.GOOS)
}

// For returns the conventions of goos.
func For(goos string) Platform {
	p := Platform{
		OS:               goos,
		SharedLibraryExt: ".so",
		StaticLibraryExt: ".a",
		ObjectExt:        ".o",
		LibraryPrefix:    "lib",
	}
	switch goos {
	case "windows":
		p.ExecutableExt = ".exe"
		p.SharedLibraryExt = ".dll"
		p.StaticLibraryExt = ".lib"
		p.LibraryPrefix = ""
	case "darwin", "ios":
		p.SharedLibraryExt = ".dylib"
	}
	return p
}

// ExecutableFile returns the file name of the executable called name.
func (p Platform) ExecutableFile(name string) string {
	return name + p.ExecutableExt
}

// LibraryFile returns the file name of the library called name, including
// the platform prefix.
func (p Platform) LibraryFile(name string, dynamic bool) string {
	if dynamic {
		return p.LibraryPrefix + name + p.SharedLibraryExt
	}
	return p.LibraryPrefix + name + p.StaticLibraryExt
}

// LoaderPathVar is the environment variable the dynamic loader searches
// for shared libraries.
func (p Platform) LoaderPathVar() string {
	switch p.OS {
	case "windows":
		return "PATH"
	case "darwin", "ios":
		return "DYLD_LIBRARY_PATH"
	}
	return "LD_LIBRARY_PATH"
}

// ListSeparator separates entries of PATH-style variables.
func (p Platform) ListSeparator() string {
	if p.OS == "windows" {
		return ";"
	}
	return ":"
}

// PrependPath returns the value of the PATH-style variable key with dir
// placed in front of what the current process has.
func (p Platform) PrependPath(key, dir string) string {
	if cur := os.Getenv(key); cur != "" {
		return dir + p.ListSeparator() + cur
	}
	return dir
}
