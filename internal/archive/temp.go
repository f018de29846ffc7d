package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
)

// maxTempAttempts bounds the search for a free temporary name.
const maxTempAttempts = 100

// errNoTempName is returned when every candidate temporary name is taken.
var errNoTempName = errors.New("no free temporary file name")

// createTemp creates an empty file beside output that will later be renamed over it.
// A new archive gets 0666 filtered by the process umask, like a plain create.
// When output already exists its permission bits are carried over.
func createTemp(output string) (*os.File, error) {
	var (
		dir, base = filepath.Split(output)
		perm      os.FileMode = 0o666
		keep      bool
	)

	if info, err := os.Stat(output); err == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
		keep = true
	}

	for range maxTempAttempts {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(uint64(rand.Uint32()), 36)+".tmp")

		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}

		if err != nil {
			return nil, err
		}

		if keep {
			// The umask may have narrowed perm on create.
			if err = f.Chmod(perm); err != nil {
				_ = f.Close()
				_ = os.Remove(name)

				return nil, fmt.Errorf("copy permissions of %s: %w", output, err)
			}
		}

		return f, nil
	}

	return nil, fmt.Errorf("%s: %w", dir, errNoTempName)
}
