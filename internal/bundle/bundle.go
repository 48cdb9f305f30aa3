// Package bundle packs a built library into a distributable archive.
//
// A bundle holds the exported headers under include/ and the library
// under lib/, mirroring what a Dependency points at.
package bundle

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/cbuild/pkgs/codebase"
	"github.com/ulikunitz/xz"
	"golang.org/x/mod/sumdb/dirhash"
)

// file is a bundle member: name is the slash separated path inside the
// bundle, src the file on disk.
type file struct {
	name string
	src  string
	info fs.FileInfo
}

// Write packs dep into dest. The format follows the file name: ".zip",
// ".tar.xz" (or ".txz"), and a plain directory otherwise.
func Write(dep *codebase.Dependency, dest string) error {
	files, err := members(dep)
	if err != nil {
		return err
	}
	switch {
	case strings.HasSuffix(dest, ".zip"):
		return writeZip(files, dest)
	case strings.HasSuffix(dest, ".tar.xz"), strings.HasSuffix(dest, ".txz"):
		return writeTarXZ(files, dest)
	}
	for _, f := range files {
		if err := copyTo(f, filepath.Join(dest, filepath.FromSlash(f.name))); err != nil {
			return err
		}
	}
	return nil
}

// Sum returns the "h1:" hash of the bundle contents of dep, the same hash
// the Go module system uses for module trees.
func Sum(dep *codebase.Dependency) (string, error) {
	files, err := members(dep)
	if err != nil {
		return "", err
	}
	byName := make(map[string]string, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
		byName[f.name] = f.src
	}
	return dirhash.Hash1(names, func(name string) (io.ReadCloser, error) {
		return os.Open(byName[name])
	})
}

// members lists the regular files of the include and lib trees of dep in
// bundle order.
func members(dep *codebase.Dependency) ([]file, error) {
	var files []file
	for _, tree := range []struct{ prefix, root string }{
		{"include", dep.IncludeDir()},
		{"lib", dep.LibraryDir()},
	} {
		err := filepath.WalkDir(tree.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || !d.Type().IsRegular() {
				return err
			}
			rel, err := filepath.Rel(tree.root, p)
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			files = append(files, file{name: path.Join(tree.prefix, filepath.ToSlash(rel)), src: p, info: info})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", dep.Name(), err)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func writeZip(files []file, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, m := range files {
		header, err := zip.FileInfoHeader(m.info)
		if err != nil {
			return err
		}
		header.Name = m.name
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		if err := copyFrom(writer, m.src); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func writeTarXZ(files []file, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(xw)
	for _, m := range files {
		header, err := tar.FileInfoHeader(m.info, "")
		if err != nil {
			return err
		}
		header.Name = m.name
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if err := copyFrom(tw, m.src); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return err
	}
	return f.Close()
}

func copyFrom(w io.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}

func copyTo(m file, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, m.info.Mode().Perm())
	if err != nil {
		return err
	}
	if err := copyFrom(out, m.src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
