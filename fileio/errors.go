package fileio

import "github.com/gear6io/floe/pkg/errors"

// Package-specific error codes for fileio
var (
	ErrLengthUnsupported = errors.MustNewCode("fileio.length_unsupported")
	ErrStatFailed        = errors.MustNewCode("fileio.stat_failed")
	ErrNotRegularFile    = errors.MustNewCode("fileio.not_regular_file")
	ErrS3ClientFailed    = errors.MustNewCode("fileio.s3_client_failed")
	ErrS3StatFailed      = errors.MustNewCode("fileio.s3_stat_failed")
	ErrS3PutFailed       = errors.MustNewCode("fileio.s3_put_failed")
	ErrS3GetFailed       = errors.MustNewCode("fileio.s3_get_failed")
	ErrS3BucketFailed    = errors.MustNewCode("fileio.s3_bucket_failed")
)
