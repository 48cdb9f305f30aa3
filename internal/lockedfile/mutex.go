// Package lockedfile provides an advisory inter-process mutex backed by a
// lock file.
package lockedfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// A Mutex provides mutual exclusion within and across processes by
// locking a well-known file. It must not be copied after first use.
type Mutex struct {
	path string
}

// MutexAt returns a new Mutex with the lock file at path. The file and its
// parent directory are created on first Lock if needed.
func MutexAt(path string) *Mutex {
	if path == "" {
		panic("lockedfile.MutexAt: path must be non-empty")
	}
	return &Mutex{path: path}
}

func (mu *Mutex) String() string {
	return fmt.Sprintf("lockedfile.Mutex(%s)", mu.path)
}

// Lock blocks until it holds the lock, and returns the function that
// releases it.
func (mu *Mutex) Lock() (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(mu.path), 0o755); err != nil {
		return nil, err
	}
	return lock(mu.path)
}
