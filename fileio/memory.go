package fileio

import "github.com/gear6io/floe/pkg/errors"

// MemFile is a byte-backed handle, mainly for tests and staging buffers
// that never touch a real store.
type MemFile struct {
	location string
	data     []byte
}

func NewMemFile(location string, data []byte) *MemFile {
	return &MemFile{location: location, data: data}
}

func (f *MemFile) Location() string {
	return f.location
}

func (f *MemFile) Length() (int64, error) {
	return int64(len(f.data)), nil
}

// Bytes returns the backing slice. Mutating it mutates the file.
func (f *MemFile) Bytes() []byte {
	return f.data
}

// OpaqueFile is a handle whose backing store cannot report a length.
// It stands in for handles from write paths that only know the location.
type OpaqueFile struct {
	location string
}

func NewOpaqueFile(location string) *OpaqueFile {
	return &OpaqueFile{location: location}
}

func (f *OpaqueFile) Location() string {
	return f.location
}

func (f *OpaqueFile) Length() (int64, error) {
	return 0, errors.New(ErrLengthUnsupported, "file handle does not support length resolution", nil).
		AddContext("location", f.location)
}
