// Package fileio provides the minimal file handle contract the metadata
// layer depends on, with local, in-memory and S3 implementations.
package fileio

// File is a handle to a written data or metadata file. Implementations
// answer where the file lives and how many bytes it holds; they are not
// required to support reading it back.
//
// Length may fail when the backing store cannot answer (handle closed,
// object gone, stat unsupported). Callers that can tolerate an unknown
// length must treat such a failure as "unknown", not as a fault.
type File interface {
	Location() string
	Length() (int64, error)
}
