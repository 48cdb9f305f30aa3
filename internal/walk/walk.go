// Package walk produces lazy sequences of paths in a file tree. It only
// decides which paths match; what happens to them is up to the caller.
package walk

import (
	"fmt"
	"io/fs"
	"iter"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// SourcePattern matches C and C++ translation units.
	SourcePattern = "**/*.{c,cc,cpp,cxx,c++}"
	// HeaderPattern matches C and C++ headers.
	HeaderPattern = "**/*.{h,hh,hpp,hxx}"
)

// Files yields the slash-separated paths of regular files in fsys that
// match any of patterns, in lexical order. An invalid pattern or a walk
// error is yielded once and ends the sequence.
func Files(fsys fs.FS, patterns ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				yield("", fmt.Errorf("walk: invalid pattern %q", pattern))
				return
			}
		}
		fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield(path, err)
				return fs.SkipAll
			}
			if d.IsDir() || !matchAny(patterns, path) {
				return nil
			}
			if !yield(path, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Dirs yields every directory below the root of fsys, parents first.
func Dirs(fsys fs.FS) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield(path, err)
				return fs.SkipAll
			}
			if !d.IsDir() || path == "." {
				return nil
			}
			if !yield(path, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
