package metrics

import "github.com/gear6io/floe/pkg/errors"

// Metrics-specific error codes
var (
	ErrUnknownColumn       = errors.MustNewCode("metrics.unknown_column")
	ErrInvalidMode         = errors.MustNewCode("metrics.invalid_mode")
	ErrColumnCountMismatch = errors.MustNewCode("metrics.column_count_mismatch")
	ErrColumnTypeMismatch  = errors.MustNewCode("metrics.column_type_mismatch")
)
