package manifest

import "github.com/gear6io/floe/pkg/errors"

// Manifest-specific error codes
var (
	ErrUnknownOrdinal     = errors.MustNewCode("manifest.unknown_ordinal")
	ErrLengthUnavailable  = errors.MustNewCode("manifest.length_unavailable")
	ErrPathMissing        = errors.MustNewCode("manifest.path_missing")
	ErrFieldCountMismatch = errors.MustNewCode("manifest.field_count_mismatch")
)
