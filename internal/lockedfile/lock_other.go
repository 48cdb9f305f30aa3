//go:build !unix

package lockedfile

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

const retryInterval = 50 * time.Millisecond

// lock falls back to exclusive creation where flock is unavailable. A
// lock file left behind by a crashed process has to be removed by hand.
func lock(path string) (func(), error) {
	for {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		time.Sleep(retryInterval)
	}
}
