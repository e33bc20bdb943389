package schema

import (
	"fmt"

	"github.com/gear6io/floe/pkg/errors"
)

// Schema-specific error codes
var (
	ErrInvalidType      = errors.MustNewCode("schema.invalid_type")
	ErrEmptySchema      = errors.MustNewCode("schema.empty")
	ErrInvalidFieldID   = errors.MustNewCode("schema.invalid_field_id")
	ErrDuplicateFieldID = errors.MustNewCode("schema.duplicate_field_id")
	ErrDuplicateName    = errors.MustNewCode("schema.duplicate_name")
	ErrEmptyFieldName   = errors.MustNewCode("schema.empty_field_name")
)

// TypeParseError describes a type string that could not be parsed.
type TypeParseError struct {
	TypeStr string
	Cause   error
}

func (e *TypeParseError) Error() string {
	return fmt.Sprintf("invalid type '%s': %v", e.TypeStr, e.Cause)
}

func (e *TypeParseError) Unwrap() error {
	return e.Cause
}

// Transform implements the errors.InternalError interface
func (e *TypeParseError) Transform() *errors.Error {
	return errors.New(ErrInvalidType, e.Error(), e.Cause).AddContext("type", e.TypeStr)
}
