package fileio

import (
	"os"

	"github.com/gear6io/floe/pkg/errors"
)

// LocalFile is a handle to a file on the local filesystem. The length is
// resolved through os.Stat on every call; callers wanting memoization do
// it themselves.
type LocalFile struct {
	path string
}

// NewLocalFile creates a handle for the given path. The file does not
// have to exist yet; Length fails until it does.
func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path}
}

func (f *LocalFile) Location() string {
	return f.path
}

func (f *LocalFile) Length() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, errors.New(ErrStatFailed, "could not stat local file", err).
			AddContext("path", f.path)
	}
	if info.IsDir() {
		return 0, errors.New(ErrNotRegularFile, "path is a directory, not a file", nil).
			AddContext("path", f.path)
	}
	return info.Size(), nil
}
